package domain

// GrowthDiff represents the length changes produced by one or more growth steps.
// It is designed to be serialized to JSON for partial updates on the client.
type GrowthDiff struct {
	// SessionID identifies the target simulation, when there is one.
	SessionID string `json:"session_id,omitempty"`

	// Lengths maps branch IDs to their new length. Unchanged branches are omitted.
	Lengths map[int]float32 `json:"lengths,omitempty"`

	// Complete is present only when the tree became fully grown.
	Complete *bool `json:"complete,omitempty"`
}

// Snapshot captures the current length of every branch, indexed by branch ID.
func Snapshot(t *Tree) []float32 {
	lengths := make([]float32, len(t.Branches))
	for i, b := range t.Branches {
		lengths[i] = b.Length
	}
	return lengths
}

// Diff calculates the difference between a previous Snapshot and the tree.
// If before is nil, every branch is reported (initial load).
// It returns nil when nothing changed.
func Diff(before []float32, t *Tree) *GrowthDiff {
	if t == nil {
		return nil
	}

	diff := &GrowthDiff{}
	wasComplete := before != nil
	for i, b := range t.Branches {
		if i >= len(before) {
			wasComplete = false
			diff.set(b)
			continue
		}
		if before[i] < b.MaxLength {
			wasComplete = false
		}
		if before[i] != b.Length {
			diff.set(b)
		}
	}

	if complete := t.Complete(); complete && !wasComplete {
		diff.Complete = &complete
	}

	if diff.IsEmpty() {
		return nil
	}
	return diff
}

func (d *GrowthDiff) set(b *Branch) {
	if d.Lengths == nil {
		d.Lengths = make(map[int]float32)
	}
	d.Lengths[b.ID] = b.Length
}

// IsEmpty checks if the diff contains any actionable changes.
func (d *GrowthDiff) IsEmpty() bool {
	return len(d.Lengths) == 0 && d.Complete == nil
}
