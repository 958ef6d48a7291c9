package sexpr

// Value is a parsed datum: a [Number], [String], [Symbol] or *[Cell].
// The nil Value is the empty list.
type Value interface {
	value()
}

// Number is a numeric atom.
type Number float64

// String is a double-quoted atom, stored without its quotes.
type String string

// Symbol is a bare atom.
type Symbol string

// Cell is a cons cell. Tail is nil at the end of a proper list, another *Cell
// in the middle of one, or an atom for an improper tail.
type Cell struct {
	Head Value
	Tail Value
}

func (Number) value() {}
func (String) value() {}
func (Symbol) value() {}
func (*Cell) value()  {}

// List builds a proper list from vs. List() is nil.
func List(vs ...Value) Value {
	var out Value
	for i := len(vs) - 1; i >= 0; i-- {
		out = &Cell{Head: vs[i], Tail: out}
	}
	return out
}

// Cons prepends head to tail.
func Cons(head, tail Value) *Cell {
	return &Cell{Head: head, Tail: tail}
}

// Nth returns the n-th element of the list v, walking tails. It returns nil
// when the list is shorter than n+1 or v is not a list.
func Nth(v Value, n int) Value {
	c, ok := Drop(v, n).(*Cell)
	if !ok {
		return nil
	}
	return c.Head
}

// Drop returns the list v without its first n elements. The result is nil if
// the list runs out first.
func Drop(v Value, n int) Value {
	for ; n > 0; n-- {
		c, ok := v.(*Cell)
		if !ok {
			return nil
		}
		v = c.Tail
	}
	return v
}

// Len returns the number of cells in the list v.
func Len(v Value) int {
	n := 0
	for c, ok := v.(*Cell); ok; c, ok = c.Tail.(*Cell) {
		n++
	}
	return n
}

// Elements returns the heads of the list v in order. An improper tail is
// ignored.
func Elements(v Value) []Value {
	var out []Value
	for c, ok := v.(*Cell); ok; c, ok = c.Tail.(*Cell) {
		out = append(out, c.Head)
	}
	return out
}

// IsList reports whether v is nil or a cell.
func IsList(v Value) bool {
	if v == nil {
		return true
	}
	_, ok := v.(*Cell)
	return ok
}

// Equal reports whether a and b are structurally equal.
func Equal(a, b Value) bool {
	switch a := a.(type) {
	case nil:
		return b == nil
	case *Cell:
		bc, ok := b.(*Cell)
		if !ok {
			return false
		}
		return Equal(a.Head, bc.Head) && Equal(a.Tail, bc.Tail)
	default:
		return a == b
	}
}
