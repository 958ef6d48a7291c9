package sexpr

import (
	goerrors "errors"
	"io"
	"regexp"
	"strconv"
	"strings"

	"github.com/alecthomas/participle/v2/lexer"

	"github.com/matzehuels/drainplan/pkg/errors"
)

// Lexer defines the token rules of the network description language.
// Rules are tried in order, so a ';' only opens a comment at the start of a
// token.
var Lexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `;[^\n]*`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "String", Pattern: `"[^"]*"`},
	{Name: "LParen", Pattern: `\(`},
	{Name: "RParen", Pattern: `\)`},
	{Name: "Atom", Pattern: `[^\s()"]+`},
})

var numberRe = regexp.MustCompile(`^-?(([0-9]+)|([0-9]*\.[0-9]+))$`)

var (
	tokenComment    = Lexer.Symbols()["Comment"]
	tokenWhitespace = Lexer.Symbols()["Whitespace"]
	tokenString     = Lexer.Symbols()["String"]
	tokenLParen     = Lexer.Symbols()["LParen"]
	tokenRParen     = Lexer.Symbols()["RParen"]
)

// Reader reads datums from a token stream with one token of lookahead.
type Reader struct {
	lex lexer.Lexer
}

// NewReader tokenizes r. The filename only appears in error positions and may
// be empty.
func NewReader(filename string, r io.Reader) (*Reader, error) {
	lex, err := Lexer.Lex(filename, r)
	if err != nil {
		return nil, malformed(err)
	}
	return &Reader{lex: lex}, nil
}

// Read returns the next datum, or io.EOF when the input holds no more.
func (r *Reader) Read() (Value, error) {
	tok, err := r.next()
	if err != nil {
		return nil, err
	}
	if tok.EOF() {
		return nil, io.EOF
	}
	return r.datum(tok)
}

// ReadAll returns every datum in r.
func ReadAll(filename string, r io.Reader) ([]Value, error) {
	rd, err := NewReader(filename, r)
	if err != nil {
		return nil, err
	}
	var out []Value
	for {
		v, err := rd.Read()
		if err == io.EOF {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, v)
	}
}

// ReadString returns the first datum of s.
func ReadString(s string) (Value, error) {
	rd, err := NewReader("", strings.NewReader(s))
	if err != nil {
		return nil, err
	}
	return rd.Read()
}

func (r *Reader) datum(tok lexer.Token) (Value, error) {
	switch tok.Type {
	case tokenLParen:
		return r.list(tok.Pos)
	case tokenRParen:
		return nil, errors.New(errors.ErrCodeMalformedInput, "%s: unexpected ')' with no open list", tok.Pos)
	case tokenString:
		return String(tok.Value[1 : len(tok.Value)-1]), nil
	default:
		return atom(tok.Value), nil
	}
}

// list reads the elements following an opening parenthesis at open.
func (r *Reader) list(open lexer.Position) (Value, error) {
	var head, last *Cell
	for {
		tok, err := r.next()
		if err != nil {
			return nil, err
		}
		if tok.EOF() {
			return nil, errors.New(errors.ErrCodeMalformedInput, "%s: end of input inside list opened here", open)
		}
		if tok.Type == tokenRParen {
			if head == nil {
				return nil, nil
			}
			return head, nil
		}
		v, err := r.datum(tok)
		if err != nil {
			return nil, err
		}
		c := &Cell{Head: v}
		if head == nil {
			head = c
		} else {
			last.Tail = c
		}
		last = c
	}
}

// next returns the next significant token, skipping whitespace and comments.
func (r *Reader) next() (lexer.Token, error) {
	for {
		tok, err := r.lex.Next()
		if err != nil {
			return lexer.Token{}, malformed(err)
		}
		if tok.Type == tokenWhitespace || tok.Type == tokenComment {
			continue
		}
		return tok, nil
	}
}

// atom classifies a bare token.
func atom(s string) Value {
	if numberRe.MatchString(s) {
		if f, err := strconv.ParseFloat(s, 64); err == nil {
			return Number(f)
		}
	}
	return Symbol(s)
}

func malformed(err error) error {
	var lexErr *lexer.Error
	if goerrors.As(err, &lexErr) {
		return errors.Wrap(errors.ErrCodeMalformedInput, err, "%s: unreadable input (unterminated string?)", lexErr.Pos)
	}
	return errors.Wrap(errors.ErrCodeMalformedInput, err, "tokenize")
}
