package term

import (
	"bytes"
	"fmt"
)

// Assoc selects the reduction delegate for associative structs.
type Assoc int

const (
	NonAssoc Assoc = iota
	AssocLeft
	AssocRight
)

// Field is one named slot of a struct descriptor.
type Field struct {
	Name string
	Term Term
}

// F builds a Field.
func F(name string, t Term) Field { return Field{Name: name, Term: t} }

// StructNode declares a named product type whose fields are grammar terms.
// The driver parses the fields in declared order and materializes an
// Instance.  LeftAssoc and RightAssoc descriptors instead compile into the
// matching infix reducer, with the first and last fields as the operands
// and the fields between them as the operator shape.
type StructNode struct {
	Name   string
	Fields []Field
	Assoc  Assoc
}

// Struct declares a simple product type.
func Struct(name string, fields ...Field) *StructNode {
	return &StructNode{Name: name, Fields: fields}
}

// LeftAssoc declares a left-folded infix product type.
func LeftAssoc(name string, fields ...Field) *StructNode {
	return &StructNode{Name: name, Fields: fields, Assoc: AssocLeft}
}

// RightAssoc declares a right-folded infix product type.
func RightAssoc(name string, fields ...Field) *StructNode {
	return &StructNode{Name: name, Fields: fields, Assoc: AssocRight}
}

func (n *StructNode) String() string { return n.Name }

// New materializes an instance with the given field values, in field order.
func (n *StructNode) New(vals ...interface{}) *Instance {
	if len(vals) != len(n.Fields) {
		panic(fmt.Sprintf("term: %s has %d fields, got %d values",
			n.Name, len(n.Fields), len(vals)))
	}
	return &Instance{node: n, vals: vals}
}

// ReduceTerm compiles the reducer delegate for an associative struct: the
// first and last fields are the operands, everything between them is the
// operator shape, and each fold step fills a fresh instance.
func (n *StructNode) ReduceTerm() *ReduceNode {
	if n.Assoc == NonAssoc {
		panic(fmt.Sprintf("term: %s is not associative", n.Name))
	}
	if len(n.Fields) < 3 {
		panic(fmt.Sprintf("term: associative struct %s needs at least 3 fields", n.Name))
	}
	first := n.Fields[0].Term
	last := n.Fields[len(n.Fields)-1].Term
	mids := make([]Term, 0, len(n.Fields)-2)
	for _, f := range n.Fields[1 : len(n.Fields)-1] {
		mids = append(mids, f.Term)
	}
	build := func(left, op, right interface{}) interface{} {
		vals := make([]interface{}, 0, len(n.Fields))
		vals = append(vals, left)
		if len(mids) == 1 {
			vals = append(vals, op)
		} else {
			vals = append(vals, op.([]interface{})...)
		}
		vals = append(vals, right)
		return n.New(vals...)
	}
	middle := Term(mids[0])
	if len(mids) > 1 {
		middle = Seq(mids...)
	}
	if n.Assoc == AssocRight {
		return ReduceRightWith(first, middle, last, build)
	}
	return ReduceLeftWith(first, middle, last, build)
}

// Instance is a parsed struct value: the descriptor plus one value per
// field, in declaration order.
type Instance struct {
	node *StructNode
	vals []interface{}
}

// Type returns the descriptor this instance was parsed from.
func (in *Instance) Type() *StructNode { return in.node }

// Is reports whether the instance was parsed from the given descriptor.
func (in *Instance) Is(n *StructNode) bool { return in.node == n }

// Get returns the value of the named field.
func (in *Instance) Get(name string) interface{} {
	for i, f := range in.node.Fields {
		if f.Name == name {
			return in.vals[i]
		}
	}
	panic(fmt.Sprintf("term: %s has no field %q", in.node.Name, name))
}

// Replace returns a shallow copy of the instance with the named fields
// overridden and all others carried over.
func (in *Instance) Replace(fields map[string]interface{}) *Instance {
	vals := make([]interface{}, len(in.vals))
	copy(vals, in.vals)
	for name, v := range fields {
		found := false
		for i, f := range in.node.Fields {
			if f.Name == name {
				vals[i] = v
				found = true
				break
			}
		}
		if !found {
			panic(fmt.Sprintf("term: %s has no field %q", in.node.Name, name))
		}
	}
	return &Instance{node: in.node, vals: vals}
}

func (in *Instance) String() string {
	var buf bytes.Buffer
	buf.WriteString(in.node.Name)
	buf.WriteByte('{')
	for i, f := range in.node.Fields {
		if i > 0 {
			buf.WriteString(", ")
		}
		fmt.Fprintf(&buf, "%s: %v", f.Name, in.vals[i])
	}
	buf.WriteByte('}')
	return buf.String()
}
