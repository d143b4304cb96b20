// Package export flattens an annotation snapshot into PDF content stream
// operations so an annotated page can be burned into the document on save.
package export

import (
	"bytes"
	"fmt"
	"strings"
)

// Operand is a single content stream operand.
type Operand interface {
	writeTo(buf *bytes.Buffer)
}

// Number is a numeric operand.
type Number float64

func (n Number) writeTo(buf *bytes.Buffer) {
	fmt.Fprintf(buf, "%g", float64(n))
}

// Name is a name operand, serialized with a leading slash.
type Name string

func (n Name) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('/')
	buf.WriteString(string(n))
}

// String is a literal string operand, serialized in parentheses.
type String string

func (s String) writeTo(buf *bytes.Buffer) {
	buf.WriteByte('(')
	buf.WriteString(escapeText(string(s)))
	buf.WriteByte(')')
}

// Op is one content stream operation: operands followed by an operator.
type Op struct {
	Operator string
	Operands []Operand
}

func op(operator string, operands ...Operand) Op {
	return Op{Operator: operator, Operands: operands}
}

// Serialize renders an operation list as content stream bytes, one operation
// per line.
func Serialize(ops []Op) []byte {
	var buf bytes.Buffer
	for _, o := range ops {
		for _, operand := range o.Operands {
			operand.writeTo(&buf)
			buf.WriteByte(' ')
		}
		buf.WriteString(o.Operator)
		buf.WriteByte('\n')
	}
	return buf.Bytes()
}

func escapeText(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, "(", "\\(")
	s = strings.ReplaceAll(s, ")", "\\)")
	return s
}
