package sexpr

import (
	"strconv"
	"strings"
)

// Format renders v as text that reads back to an equal value. Improper tails
// print in dotted form for diagnostics only; the reader has no dot syntax.
func Format(v Value) string {
	var b strings.Builder
	write(&b, v)
	return b.String()
}

func (n Number) String() string { return strconv.FormatFloat(float64(n), 'f', -1, 64) }
func (s String) String() string { return `"` + string(s) + `"` }
func (s Symbol) String() string { return string(s) }
func (c *Cell) String() string  { return Format(c) }

func write(b *strings.Builder, v Value) {
	switch v := v.(type) {
	case nil:
		b.WriteString("()")
	case *Cell:
		b.WriteByte('(')
		writeElements(b, v)
		b.WriteByte(')')
	case Number:
		b.WriteString(v.String())
	case String:
		b.WriteString(v.String())
	case Symbol:
		b.WriteString(string(v))
	}
}

func writeElements(b *strings.Builder, c *Cell) {
	for {
		write(b, c.Head)
		switch tail := c.Tail.(type) {
		case nil:
			return
		case *Cell:
			b.WriteByte(' ')
			c = tail
		default:
			b.WriteString(" . ")
			write(b, tail)
			return
		}
	}
}
