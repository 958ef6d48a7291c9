package network

import (
	"io"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/matzehuels/drainplan/pkg/errors"
	"github.com/matzehuels/drainplan/pkg/geom"
	"github.com/matzehuels/drainplan/pkg/sexpr"
)

// builder is the state of one Build call.
type builder struct {
	net    *Network
	opts   Options
	logger *log.Logger

	seq      int
	minCover bool
	// takeOuts are the take-out nodes whose requirement has been read.
	takeOuts []NodeID
}

// Read parses a network description from r.
func Read(filename string, r io.Reader, opts Options) (*Network, error) {
	forms, err := sexpr.ReadAll(filename, r)
	if err != nil {
		return nil, err
	}
	return Build(forms, opts)
}

// BuildString parses a network description held in s.
func BuildString(s string, opts Options) (*Network, error) {
	return Read("", strings.NewReader(s), opts)
}

// Build builds a network from the top-level forms of a description: either a
// single (K ...) form or the bare sequence K (info) forward right left.
func Build(forms []sexpr.Value, opts Options) (*Network, error) {
	opts.SetDefaults()
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	doc, err := document(forms)
	if err != nil {
		return nil, err
	}

	b := &builder{
		net:    &Network{},
		opts:   opts,
		logger: opts.Logger,
	}
	if err := b.root(doc); err != nil {
		return nil, err
	}
	b.logger.Debug("built network", "nodes", b.net.Len(), "numbered", b.seq, "warnings", len(b.net.Warnings))
	b.net.opts = opts
	return b.net, nil
}

func document(forms []sexpr.Value) (sexpr.Value, error) {
	if len(forms) == 0 {
		return nil, errors.New(errors.ErrCodeGrammar, "empty network description")
	}
	if c, ok := forms[0].(*sexpr.Cell); ok {
		if sym, ok := c.Head.(sexpr.Symbol); ok {
			if _, ok := roots[string(sym)]; ok {
				if len(forms) > 1 {
					return nil, errors.New(errors.ErrCodeGrammar, "unexpected form after the network: %s", sexpr.Format(forms[1]))
				}
				return c, nil
			}
		}
	}
	return sexpr.List(forms...), nil
}

func (b *builder) root(doc sexpr.Value) error {
	head := sexpr.Nth(doc, 0)
	sym, _ := head.(sexpr.Symbol)
	kind, ok := roots[string(sym)]
	if !ok {
		return errors.New(errors.ErrCodeUnknownNodeType,
			"network must start with a public junction (K, KD or N), got %s", sexpr.Format(head))
	}

	info := sexpr.Nth(doc, 1)
	elev, ok1 := number(sexpr.Nth(info, 0))
	scale, ok2 := number(sexpr.Nth(info, 1))
	if !ok1 || !ok2 {
		return errors.New(errors.ErrCodeGrammar,
			"public junction needs (elevation scale [angle [entry-angle]]), got %s", sexpr.Format(info))
	}
	heading, entry := 0.0, 0.0
	if v := sexpr.Nth(info, 2); v != nil {
		if heading, ok = number(v); !ok {
			return errors.New(errors.ErrCodeGrammar, "public junction angle must be a number: %s", sexpr.Format(info))
		}
	}
	if v := sexpr.Nth(info, 3); v != nil {
		if entry, ok = number(v); !ok {
			return errors.New(errors.ErrCodeGrammar, "public junction entry angle must be a number: %s", sexpr.Format(info))
		}
	}

	if b.opts.Scale > 0 {
		scale = b.opts.Scale
		b.net.ScaleOverridden = true
	}
	if err := errors.ValidateScale(scale); err != nil {
		return err
	}
	b.net.Scale = scale
	b.net.DepthLabels = elev != 0 && !b.opts.NoDepthLabels
	b.minCover = elev != 0

	b.net.Nodes = append(b.net.Nodes, Node{
		ID:        0,
		Kind:      kind,
		Symbol:    string(sym),
		Parent:    NoNode,
		Heading:   heading,
		Elevation: elev,
		Slope:     DefaultSlope,
		Pipe:      Pipe{Size: DefaultPipeSize, Material: b.opts.DefaultMaterial, New: true},
	})

	branches := []struct {
		v      sexpr.Value
		offset float64
	}{
		{sexpr.Nth(doc, 2), geom.Normalize(entry)},
		{sexpr.Nth(doc, 3), geom.Normalize(entry + 270)},
		{sexpr.Nth(doc, 4), geom.Normalize(entry + 90)},
	}
	for _, br := range branches {
		if err := b.branch(0, br.v, br.offset); err != nil {
			return err
		}
	}
	b.number(0)
	return nil
}

// branch parses one (length SYMBOL ...) branch hanging off parent at offset.
func (b *builder) branch(parent NodeID, v sexpr.Value, offset float64) error {
	if isNone(v) {
		return nil
	}
	c, ok := v.(*sexpr.Cell)
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "expected a branch (length SYMBOL ...), got %s", sexpr.Format(v))
	}
	length, ok := number(c.Head)
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "branch must start with a pipe length: %s", sexpr.Format(v))
	}
	if c.Tail == nil {
		b.attach(parent, KindPlaceholder, "", length, offset)
		return nil
	}
	rest, ok := c.Tail.(*sexpr.Cell)
	if !ok {
		return errors.New(errors.ErrCodeGrammar, "malformed branch: %s", sexpr.Format(v))
	}
	sym, _ := rest.Head.(sexpr.Symbol)
	prod, ok := grammar[string(sym)]
	if !ok {
		return errors.New(errors.ErrCodeUnknownNodeType, "unknown node type %s in %s", sexpr.Format(rest.Head), sexpr.Format(v))
	}

	args := rest.Tail
	var seq string
	t := kinds[prod.kind]
	if t.tagged {
		if label, ok := sequenceLabel(sexpr.Nth(args, 0)); ok {
			seq = label
			args = sexpr.Drop(args, 1)
		}
	}

	id := b.attach(parent, prod.kind, string(sym), length, offset)
	nd := b.node(id)
	nd.Text = prod.text
	nd.Seq = seq

	if err := t.parse(b, id, args); err != nil {
		return err
	}
	b.number(id)
	return nil
}

// attach creates a child of parent, places it and derives its elevation.
func (b *builder) attach(parent NodeID, kind Kind, sym string, length, offset float64) NodeID {
	p := b.net.Nodes[parent]
	heading := geom.Normalize(p.Heading + offset)
	reach := length
	switch {
	case kind == KindSeptic:
		reach += SepticSetback
	case b.opts.AdjustBoxLength:
		reach += BoxAdjust
	}

	id := NodeID(len(b.net.Nodes))
	b.net.Nodes = append(b.net.Nodes, Node{
		ID:           id,
		Kind:         kind,
		Symbol:       sym,
		Parent:       parent,
		Pos:          p.Pos.Add(geom.Polar(reach, heading)),
		Length:       length,
		Heading:      heading,
		GroundOffset: p.GroundOffset,
		Slope:        p.Slope,
		Pipe:         p.Pipe,
	})
	b.net.Nodes[parent].Edges = append(b.net.Nodes[parent].Edges, Edge{Offset: offset, Child: id})
	b.net.Nodes[id].Elevation = b.elevation(id)

	b.checkCover(parent)
	return id
}

// number gives id the next sequence number if its kind is numbered, its
// entry pipe is new and no label was supplied. Numbers are assigned after a
// node's branches, so every junction upstream of a node numbers before it.
func (b *builder) number(id NodeID) {
	nd := b.node(id)
	if !kinds[nd.Kind].numbered || nd.Seq != "" || !b.net.EntryPipe(id).New {
		return
	}
	b.seq++
	nd.Seq = itoa(b.seq)
}

func (b *builder) node(id NodeID) *Node { return &b.net.Nodes[id] }
