package expr

import "strings"

// Expr is any node of a parsed GitHub Actions expression.
type Expr interface {
	exprNode()
}

// LiteralKind discriminates the four literal forms the grammar allows.
type LiteralKind int

const (
	LitBool LiteralKind = iota
	LitNumber
	LitString
	LitNull
)

// Literal is a constant value: a bool, a number (kept as its original
// source text, hex or decimal, so its formatting round-trips), a single-quoted
// string (already unescaped), or null.
type Literal struct {
	Kind LiteralKind
	Bool bool
	Num  string
	Str  string
}

func (Literal) exprNode() {}

// Context is a dotted identifier chain such as "github.event.issue.number".
// Parts are stored exactly as written; comparisons against a Context's
// dotted path are case-insensitive per the grammar, so callers should use
// DottedLower for matching.
type Context struct {
	Parts []string
}

func (Context) exprNode() {}

// DottedLower renders the context path joined by '.', lower-cased, for
// case-insensitive comparisons (e.g. against "github.actor").
func (c Context) DottedLower() string {
	return strings.ToLower(strings.Join(c.Parts, "."))
}

// Index is a bracketed subscript: base[index]. When index is a string
// Literal, this is equivalent to a dotted field access (base.index), which
// Contexts normalizes by treating Index(Context, Literal(string)) chains
// as additional Context parts during AST construction — see foldBracket.
type Index struct {
	Base  Expr
	Index Expr
}

func (Index) exprNode() {}

// Call is a function invocation: name(args...). Name comparison is
// case-insensitive.
type Call struct {
	Name string
	Args []Expr
}

func (Call) exprNode() {}

// Unary is a prefix operator application. Only "!" exists in the grammar.
type Unary struct {
	Op      string
	Operand Expr
}

func (Unary) exprNode() {}

// Binary is an infix operator application: *, /, +, -, <, <=, >, >=, ==,
// !=, &&, ||.
type Binary struct {
	Op          string
	Left, Right Expr
}

func (Binary) exprNode() {}

// Group is a parenthesized subexpression, kept distinct from its inner
// Expr so the canonical printer can round-trip grouping exactly as the
// invariant in spec requires ("up to grouping" is the only slack allowed,
// and we choose not to need even that slack).
type Group struct {
	Inner Expr
}

func (Group) exprNode() {}
