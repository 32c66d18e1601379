package domain

// Tree is the result of turtle interpretation: a rooted Branch hierarchy and
// a flat list of every branch in creation order (Branches[0] is the root).
type Tree struct {
	Root     *Branch   `json:"-"`
	Branches []*Branch `json:"branches"`
}

// NewTree creates a tree holding only its root.
func NewTree(root *Branch) *Tree {
	root.ID = 0
	root.Parent = NoParent
	return &Tree{
		Root:     root,
		Branches: []*Branch{root},
	}
}

// Attach appends child as the last child of parent and indexes it.
func (t *Tree) Attach(parent, child *Branch) {
	child.ID = len(t.Branches)
	child.Parent = parent.ID
	child.Depth = parent.Depth + 1
	parent.Children = append(parent.Children, child)
	t.Branches = append(t.Branches, child)
}

// Len returns the number of branches, root included.
func (t *Tree) Len() int {
	return len(t.Branches)
}

// Branch returns the branch with the given index, or nil.
func (t *Tree) Branch(id int) *Branch {
	if id < 0 || id >= len(t.Branches) {
		return nil
	}
	return t.Branches[id]
}

// Parent resolves the parent of b, or nil for the root.
func (t *Tree) Parent(b *Branch) *Branch {
	if b.IsRoot() {
		return nil
	}
	return t.Branch(b.Parent)
}

// Walk visits every branch depth-first in pre-order (parent before children,
// children left to right). Returning false from fn prunes that subtree.
// It uses an explicit stack so pathological grammars cannot exhaust the call stack.
func (t *Tree) Walk(fn func(b *Branch) bool) {
	if t == nil || t.Root == nil {
		return
	}
	stack := []*Branch{t.Root}
	for len(stack) > 0 {
		b := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		if !fn(b) {
			continue
		}
		for i := len(b.Children) - 1; i >= 0; i-- {
			stack = append(stack, b.Children[i])
		}
	}
}

// MaxDepth returns the depth of the deepest branch (the root is depth 0).
func (t *Tree) MaxDepth() int {
	depth := 0
	for _, b := range t.Branches {
		if b.Depth > depth {
			depth = b.Depth
		}
	}
	return depth
}

// Complete reports whether every branch reached its target length.
func (t *Tree) Complete() bool {
	for _, b := range t.Branches {
		if !b.Mature() {
			return false
		}
	}
	return true
}

// Progress returns the grown fraction of the total target length, in [0, 1].
func (t *Tree) Progress() float32 {
	var grown, total float32
	for _, b := range t.Branches {
		grown += b.Length
		total += b.MaxLength
	}
	if total == 0 {
		return 1
	}
	return grown / total
}

// Stats summarises the shape of a tree.
type Stats struct {
	Branches int     `json:"branches"`
	Leaves   int     `json:"leaves"`
	MaxDepth int     `json:"max_depth"`
	Mature   int     `json:"mature"`
	Progress float32 `json:"progress"`
}

// Stats computes the tree summary.
func (t *Tree) Stats() Stats {
	s := Stats{Branches: len(t.Branches), Progress: t.Progress()}
	for _, b := range t.Branches {
		if len(b.Children) == 0 {
			s.Leaves++
		}
		if b.Mature() {
			s.Mature++
		}
		if b.Depth > s.MaxDepth {
			s.MaxDepth = b.Depth
		}
	}
	return s
}

// Clone returns a deep copy of the tree that shares no branch with t.
func (t *Tree) Clone() *Tree {
	if t == nil {
		return nil
	}
	out := &Tree{Branches: make([]*Branch, len(t.Branches))}
	for i, b := range t.Branches {
		c := *b
		out.Branches[i] = &c
	}
	out.Relink()
	return out
}

// Relink rebuilds Root and every Children list from the flat list.
// It is needed after decoding a tree, since Children are not serialized.
func (t *Tree) Relink() {
	for _, b := range t.Branches {
		b.Children = nil
	}
	for _, b := range t.Branches {
		if p := t.Parent(b); p != nil {
			p.Children = append(p.Children, b)
		}
	}
	if len(t.Branches) > 0 {
		t.Root = t.Branches[0]
	}
}
