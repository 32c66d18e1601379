package loam

import "github.com/aretw0/arbor/internal/dto"

// GrammarMetadata represents the frontmatter of a grammar document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
type GrammarMetadata struct {
	ID          string             `json:"id" mapstructure:"id"`
	Name        string             `json:"name" mapstructure:"name"`
	Description string             `json:"description" mapstructure:"description"`
	Axiom       string             `json:"axiom" mapstructure:"axiom"`
	Rules       any                `json:"rules" mapstructure:"rules"`
	Iterations  int                `json:"iterations" mapstructure:"iterations"`
	Turtle      dto.TurtleMetadata `json:"turtle" mapstructure:"turtle"`

	// General Metadata
	Metadata map[string]string `json:"metadata" mapstructure:"metadata"`
}
