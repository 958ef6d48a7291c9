package network

import (
	"strconv"

	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/sexpr"
)

// Parsers receive the arguments following a node's symbol. A node pointer
// must not be held across attach or branch: both grow the arena.

func parseNothing(*builder, NodeID, sexpr.Value) error { return nil }

// parseForward reads a node whose only argument is its inline forward branch.
func parseForward(b *builder, id NodeID, args sexpr.Value) error {
	return b.branch(id, args, 0)
}

func parseTreeWay(b *builder, id NodeID, args sexpr.Value) error {
	_, err := b.treeWay(id, args)
	return err
}

func parseTee(b *builder, id NodeID, args sexpr.Value) error {
	size, err := b.treeWay(id, args)
	if err != nil {
		return err
	}
	b.node(id).BranchSize = size
	return nil
}

// treeWay reads [offset] right left forward... and returns the branch size
// declared by a side branch starting with a pipe select, or 0.
func (b *builder) treeWay(id NodeID, args sexpr.Value) (int, error) {
	offset := 0.0
	if n, ok := number(sexpr.Nth(args, 0)); ok {
		offset = n
		args = sexpr.Drop(args, 1)
	}
	right, left := sexpr.Nth(args, 0), sexpr.Nth(args, 1)
	if err := b.sideBranch(id, "right", right); err != nil {
		return 0, err
	}
	if err := b.sideBranch(id, "left", left); err != nil {
		return 0, err
	}

	forward := sexpr.Drop(args, 2)
	fwdAngle := 0.0
	if c, ok := forward.(*sexpr.Cell); ok {
		if prefix, ok := c.Head.(*sexpr.Cell); ok {
			a, ok := number(prefix.Head)
			if !ok {
				return 0, errors.New(errors.ErrCodeGrammar, "forward angle of %s must be a number: %s", b.describe(id), sexpr.Format(prefix))
			}
			fwdAngle = a
			forward = c.Tail
		}
	}

	if err := b.branch(id, forward, fwdAngle); err != nil {
		return 0, err
	}
	if err := b.branch(id, left, 90+offset); err != nil {
		return 0, err
	}
	if err := b.branch(id, right, 270+offset); err != nil {
		return 0, err
	}

	size := branchSize(left)
	if s := branchSize(right); s > 0 {
		size = s
	}
	return size, nil
}

// parseBend reads angle forward... for bends, start traps, elbows and turns.
func parseBend(b *builder, id NodeID, args sexpr.Value) error {
	a, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "%s needs an exit angle: %s", b.describe(id), sexpr.Format(args))
	}
	b.node(id).Turn = a
	return b.branch(id, sexpr.Drop(args, 1), a)
}

// parseDrop reads angle or (angle step), then forward...
func parseDrop(b *builder, id NodeID, args sexpr.Value) error {
	param := sexpr.Nth(args, 0)
	if c, ok := param.(*sexpr.Cell); ok {
		a, ok1 := number(c.Head)
		step, ok2 := number(sexpr.Nth(c, 1))
		if !ok1 || !ok2 {
			return errors.New(errors.ErrCodeGrammar, "drop junction needs (angle step): %s", sexpr.Format(param))
		}
		nd := b.node(id)
		nd.Turn, nd.Step, nd.HasStep = a, step, true
	} else {
		a, ok := number(param)
		if !ok {
			return errors.New(errors.ErrCodeGrammar, "drop junction needs an exit angle: %s", sexpr.Format(args))
		}
		b.node(id).Turn = a
	}
	return b.branch(id, sexpr.Drop(args, 1), b.node(id).Turn)
}

// parseDoubleDrop reads angle right left forward...
func parseDoubleDrop(b *builder, id NodeID, args sexpr.Value) error {
	a, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "double drop junction needs an exit angle: %s", sexpr.Format(args))
	}
	b.node(id).Turn = a
	right, left := sexpr.Nth(args, 1), sexpr.Nth(args, 2)
	if err := b.sideBranch(id, "right", right); err != nil {
		return err
	}
	if err := b.sideBranch(id, "left", left); err != nil {
		return err
	}
	if err := b.branch(id, sexpr.Drop(args, 3), a); err != nil {
		return err
	}
	if err := b.branch(id, right, a-90); err != nil {
		return err
	}
	return b.branch(id, left, a+90)
}

// parseWye reads angle right left forward... Side branches leave through a
// short turn at ∓45° so that they join the main line at the wye angle.
func parseWye(b *builder, id NodeID, args sexpr.Value) error {
	a, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "wye needs a branch angle: %s", sexpr.Format(args))
	}
	nd := b.node(id)
	nd.Turn = a
	nd.BranchSize = b.net.EntryPipe(id).Size

	right, left := sexpr.Nth(args, 1), sexpr.Nth(args, 2)
	if err := b.sideBranch(id, "right", right); err != nil {
		return err
	}
	if err := b.sideBranch(id, "left", left); err != nil {
		return err
	}
	if err := b.branch(id, sexpr.Drop(args, 3), 0); err != nil {
		return err
	}

	sides := []struct {
		v         sexpr.Value
		out, turn float64
	}{
		{right, -45, -a + 45},
		{left, 45, a - 45},
	}
	for _, side := range sides {
		if isNone(side.v) {
			continue
		}
		if s := branchSize(side.v); s > 0 {
			b.node(id).BranchSize = s
		}
		turn := b.attach(id, KindTurn, "DummyLMasu", TurnLength, side.out)
		b.node(turn).Turn = side.turn
		if err := b.branch(turn, side.v, side.turn); err != nil {
			return err
		}
	}
	return nil
}

func parseLabel(b *builder, id NodeID, args sexpr.Value) error {
	text, ok := atomText(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "LABEL needs a text: %s", sexpr.Format(args))
	}
	b.node(id).Text = text
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func parseFixture(b *builder, id NodeID, args sexpr.Value) error {
	return b.branch(id, args, 0)
}

func parseInterceptor(b *builder, id NodeID, args sexpr.Value) error {
	text, ok := atomText(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "interceptor needs a name: %s", sexpr.Format(args))
	}
	b.node(id).Text = text
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func parsePump(b *builder, id NodeID, args sexpr.Value) error {
	lift, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "pump needs a lift: %s", sexpr.Format(args))
	}
	if lift == 0 {
		lift = DefaultLift
	}
	b.node(id).Lift = lift
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

// parsePipeSelect reads (size [material [newness]]) forward...
func parsePipeSelect(b *builder, id NodeID, args sexpr.Value) error {
	spec := sexpr.Nth(args, 0)
	size, ok := number(sexpr.Nth(spec, 0))
	if _, isList := spec.(*sexpr.Cell); !isList || !ok {
		return errors.New(errors.ErrCodeGrammar, "pipe select needs (size [material [newness]]): %s", sexpr.Format(args))
	}
	if err := errors.ValidatePipeSize(size); err != nil {
		return errors.Wrap(errors.ErrCodeGrammar, err, "pipe select %s", sexpr.Format(spec))
	}

	nd := b.node(id)
	nd.PrevSize = nd.Pipe.Size
	nd.Pipe.Size = int(size)
	if v := sexpr.Nth(spec, 1); v != nil {
		m, ok := atomText(v)
		if !ok {
			return errors.New(errors.ErrCodeGrammar, "pipe material must be a name: %s", sexpr.Format(spec))
		}
		nd.Pipe.Material = m
	}
	if v := sexpr.Nth(spec, 2); v != nil {
		s, _ := atomText(v)
		if err := errors.ValidateNewness(s); err != nil {
			return errors.Wrap(errors.ErrCodeGrammar, err, "pipe select %s", sexpr.Format(spec))
		}
		nd.Pipe.New = s == NewnessNew
	}
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func parseTakeOut(b *builder, id NodeID, args sexpr.Value) error {
	req, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "take-out needs a level: %s", sexpr.Format(args))
	}
	b.node(id).Required = req
	b.takeOuts = append(b.takeOuts, id)
	b.enforceTakeOut(id)
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func parseLevel(b *builder, id NodeID, args sexpr.Value) error {
	d, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "LEVEL needs a ground offset: %s", sexpr.Format(args))
	}
	b.node(id).GroundOffset += d
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func parseAbsLevel(b *builder, id NodeID, args sexpr.Value) error {
	v, ok := number(sexpr.Nth(args, 0))
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "ALEVEL needs a ground offset: %s", sexpr.Format(args))
	}
	b.node(id).GroundOffset = v
	return b.branch(id, sexpr.Drop(args, 1), 0)
}

func (b *builder) sideBranch(id NodeID, side string, v sexpr.Value) error {
	if isNone(v) || sexpr.IsList(v) {
		return nil
	}
	return errors.New(errors.ErrCodeGrammar, "expected the %s branch of %s, got %s", side, b.describe(id), sexpr.Format(v))
}

func (b *builder) describe(id NodeID) string {
	nd := b.node(id)
	if nd.Seq != "" {
		return nd.Symbol + " " + strconv.Quote(nd.Seq)
	}
	return nd.Symbol
}

// branchSize returns the size of a (0 PS (size ...) ...) branch, or 0.
func branchSize(v sexpr.Value) int {
	if l, ok := number(sexpr.Nth(v, 0)); !ok || l != 0 {
		return 0
	}
	if sym, _ := sexpr.Nth(v, 1).(sexpr.Symbol); sym != "PS" {
		return 0
	}
	size, ok := number(sexpr.Nth(sexpr.Nth(v, 2), 0))
	if !ok {
		return 0
	}
	return int(size)
}

// isNone reports whether v stands for "no branch": nil, (), the symbol nil,
// or a list holding only nil.
func isNone(v sexpr.Value) bool {
	switch v := v.(type) {
	case nil:
		return true
	case sexpr.Symbol:
		return v == "nil"
	case *sexpr.Cell:
		return v.Tail == nil && (v.Head == nil || v.Head == sexpr.Symbol("nil"))
	}
	return false
}

// sequenceLabel accepts a quoted string or a bare name that is neither nil
// nor a node symbol.
func sequenceLabel(v sexpr.Value) (string, bool) {
	switch v := v.(type) {
	case sexpr.String:
		return string(v), true
	case sexpr.Symbol:
		if _, isNode := grammar[string(v)]; isNode || v == "nil" {
			return "", false
		}
		return string(v), true
	}
	return "", false
}

func number(v sexpr.Value) (float64, bool) {
	n, ok := v.(sexpr.Number)
	return float64(n), ok
}

func atomText(v sexpr.Value) (string, bool) {
	switch v := v.(type) {
	case sexpr.String:
		return string(v), true
	case sexpr.Symbol:
		return string(v), true
	}
	return "", false
}

func itoa(n int) string { return strconv.Itoa(n) }
