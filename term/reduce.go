package term

// A BuildFunc combines one reduction step into a tree node.  op is the
// middle term's value, or a []interface{} of values when the operator
// shape has more than one middle term.
type BuildFunc func(left, op, right interface{}) interface{}

// ReduceNode folds a chain of atoms separated by an operator shape into a
// binary tree, either left-leaning or right-leaning.  The left fold is
// iterative, so it is the one place left-recursive grammars are admitted.
type ReduceNode struct {
	First Term
	Mid   []Term
	Last  Term
	Build BuildFunc

	// RightFold selects the fold direction.
	RightFold bool

	// Tail is the (Mid..., Last) continuation of the left fold; Pair is
	// the (First, Mid...) prefix of the right fold.  Both are built once
	// so every iteration shares one memo key.
	Tail *SeqNode
	Pair *SeqNode
}

// ReduceLeft folds first (middle last)* into a left-leaning tree of
// 3-element slices.
func ReduceLeft(first, middle, last Term) *ReduceNode {
	return ReduceLeftWith(first, middle, last, nil)
}

// ReduceLeftWith is ReduceLeft with a custom build function.
func ReduceLeftWith(first, middle, last Term, build BuildFunc) *ReduceNode {
	return newReduce(first, middle, last, build, false)
}

// ReduceRight folds (first middle)* last into a right-leaning tree of
// 3-element slices.
func ReduceRight(first, middle, last Term) *ReduceNode {
	return ReduceRightWith(first, middle, last, nil)
}

// ReduceRightWith is ReduceRight with a custom build function.
func ReduceRightWith(first, middle, last Term, build BuildFunc) *ReduceNode {
	return newReduce(first, middle, last, build, true)
}

func newReduce(first, middle, last Term, build BuildFunc, right bool) *ReduceNode {
	mids := middleTerms(middle)
	n := &ReduceNode{
		First:     first,
		Mid:       mids,
		Last:      last,
		Build:     build,
		RightFold: right,
	}
	tail := make([]Term, 0, len(mids)+1)
	tail = append(tail, mids...)
	n.Tail = Seq(append(tail, last)...)
	n.Pair = Seq(append([]Term{first}, mids...)...)
	return n
}

// middleTerms flattens a Seq operator shape into its parts.
func middleTerms(middle Term) []Term {
	if s, ok := middle.(*SeqNode); ok {
		return s.Items
	}
	return []Term{middle}
}

// Combine applies the build function, defaulting to a plain
// (left, op, right) slice.
func (n *ReduceNode) Combine(left, op, right interface{}) interface{} {
	if n.Build != nil {
		return n.Build(left, op, right)
	}
	return []interface{}{left, op, right}
}
