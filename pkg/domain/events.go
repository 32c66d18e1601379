package domain

import (
	"context"
	"time"
)

// EventType defines the category of the event.
type EventType string

const (
	EventTick           EventType = "tick"
	EventBranchMature   EventType = "branch_mature"
	EventGrowthComplete EventType = "growth_complete"
	EventGenerated      EventType = "generated"
)

// EventBase contains common fields for all events.
type EventBase struct {
	Timestamp time.Time `json:"timestamp"`
	Type      EventType `json:"type"`
}

// TickEvent is emitted after every growth step.
type TickEvent struct {
	EventBase
	Tick     int           `json:"tick"`
	Delta    time.Duration `json:"delta"`
	Elapsed  time.Duration `json:"elapsed"`
	Growing  int           `json:"growing"`
	Mature   int           `json:"mature"`
	Progress float32       `json:"progress"`
}

// BranchEvent is emitted when a branch reaches its target length.
type BranchEvent struct {
	EventBase
	BranchID int `json:"branch_id"`
	Depth    int `json:"depth"`
}

// GenerateEvent is emitted once a grammar has been expanded and interpreted.
type GenerateEvent struct {
	EventBase
	Grammar     string        `json:"grammar"`
	SequenceLen int           `json:"sequence_len"`
	Branches    int           `json:"branches"`
	CacheHit    bool          `json:"cache_hit"`
	Duration    time.Duration `json:"duration"`
}

// GrowthHooks defines callbacks for growth observability.
// Hooks run synchronously inside the simulation step.
type GrowthHooks struct {
	OnTick         func(context.Context, *TickEvent)
	OnBranchMature func(context.Context, *BranchEvent)
	OnComplete     func(context.Context, *TickEvent)
}

// GenerateHooks defines callbacks for generation observability.
type GenerateHooks struct {
	OnGenerate func(context.Context, *GenerateEvent)
}
