package domain

import "cogentcore.org/core/math32"

// Branch is a single rigid segment of a generated tree.
//
// Parent is an index into Tree.Branches and never owns anything; Children
// holds the owned sub-branches in creation order. Only Length changes after
// the tree is built.
type Branch struct {
	ID        int            `json:"id"`
	Parent    int            `json:"parent"`
	Depth     int            `json:"depth"`
	MaxLength float32        `json:"max_length"`
	Length    float32        `json:"length"`
	Position  math32.Vector3 `json:"position"`
	Direction math32.Vector3 `json:"direction"`
	Children  []*Branch      `json:"-"`
}

// IsRoot reports whether the branch has no parent.
func (b *Branch) IsRoot() bool {
	return b.Parent == NoParent
}

// Mature reports whether the branch reached its target length.
func (b *Branch) Mature() bool {
	return b.Length >= b.MaxLength
}

// Tip returns the current end point of the branch.
func (b *Branch) Tip() math32.Vector3 {
	return b.Position.Add(b.Direction.MulScalar(b.Length))
}
