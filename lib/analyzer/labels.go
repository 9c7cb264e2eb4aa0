package analyzer

import (
	"github.com/alecthomas/participle/v2/lexer"
	"github.com/google/btree"
)

type label struct {
	Number int
	Pos    lexer.Position
}

func (l label) Less(than btree.Item) bool {
	return l.Number < than.(label).Number
}

// LabelIndex holds every line label ordered by number.
type LabelIndex struct {
	tree *btree.BTree
}

func NewLabelIndex() *LabelIndex {
	return &LabelIndex{tree: btree.New(4)}
}

// Add records a label. If the number is taken the first definition is kept
// and its position returned with ok set to false.
func (x *LabelIndex) Add(n int, pos lexer.Position) (first lexer.Position, ok bool) {
	if item := x.tree.Get(label{Number: n}); item != nil {
		return item.(label).Pos, false
	}
	x.tree.ReplaceOrInsert(label{Number: n, Pos: pos})
	return pos, true
}

func (x *LabelIndex) Has(n int) bool {
	return x.tree.Has(label{Number: n})
}

// Numbers returns the labels in ascending order.
func (x *LabelIndex) Numbers() []int {
	out := make([]int, 0, x.tree.Len())
	x.tree.Ascend(func(item btree.Item) bool {
		out = append(out, item.(label).Number)
		return true
	})
	return out
}
