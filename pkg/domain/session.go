package domain

import "time"

// Session is a live growth simulation hosted by a long-running surface.
// Sessions are held in memory only.
type Session struct {
	ID      string        `json:"id"`
	Grammar string        `json:"grammar"`
	Seed    int64         `json:"seed"`
	Tree    *Tree         `json:"tree"`
	Ticks   int           `json:"ticks"`
	Elapsed time.Duration `json:"elapsed"`
	Created time.Time     `json:"created"`
}
