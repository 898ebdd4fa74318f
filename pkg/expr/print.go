package expr

import "strings"

// Print renders e back to the canonical textual form of an expression
// body (no surrounding "${{ }}"). Print(e) parses back to an AST equal to
// e, including explicit Group nodes — printing never adds or removes
// parentheses beyond what the original AST recorded.
func Print(e Expr) string {
	var b strings.Builder
	writeExpr(&b, e)
	return b.String()
}

func writeExpr(b *strings.Builder, e Expr) {
	switch v := e.(type) {
	case Literal:
		writeLiteral(b, v)
	case Context:
		b.WriteString(strings.Join(v.Parts, "."))
	case Index:
		writeExpr(b, v.Base)
		b.WriteByte('[')
		writeExpr(b, v.Index)
		b.WriteByte(']')
	case Call:
		b.WriteString(v.Name)
		b.WriteByte('(')
		for i, a := range v.Args {
			if i > 0 {
				b.WriteString(", ")
			}
			writeExpr(b, a)
		}
		b.WriteByte(')')
	case Unary:
		b.WriteString(v.Op)
		writeExpr(b, v.Operand)
	case Binary:
		writeExpr(b, v.Left)
		b.WriteByte(' ')
		b.WriteString(v.Op)
		b.WriteByte(' ')
		writeExpr(b, v.Right)
	case Group:
		b.WriteByte('(')
		writeExpr(b, v.Inner)
		b.WriteByte(')')
	}
}

func writeLiteral(b *strings.Builder, l Literal) {
	switch l.Kind {
	case LitBool:
		if l.Bool {
			b.WriteString("true")
		} else {
			b.WriteString("false")
		}
	case LitNull:
		b.WriteString("null")
	case LitNumber:
		b.WriteString(l.Num)
	case LitString:
		b.WriteByte('\'')
		b.WriteString(strings.ReplaceAll(l.Str, "'", "''"))
		b.WriteByte('\'')
	}
}
