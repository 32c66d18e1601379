package dto

// GrammarMetadata represents the header/metadata of a grammar document.
// It uses "mapstructure" tags to match standard Frontmatter/YAML keys.
//
// Rules accepts three shapes:
//   - a list of strings: ["F -> F[+F]F", "X -> F"]
//   - a list of maps: [{predecessor: F, successor: "F[+F]F"}]
//   - a map from predecessor to successor: {F: "F[+F]F"}
type GrammarMetadata struct {
	Name        string         `json:"name,omitempty" mapstructure:"name"`
	Description string         `json:"description,omitempty" mapstructure:"description"`
	Axiom       string         `json:"axiom" mapstructure:"axiom"`
	Rules       any            `json:"rules,omitempty" mapstructure:"rules"`
	Iterations  int            `json:"iterations" mapstructure:"iterations"`
	Turtle      TurtleMetadata `json:"turtle" mapstructure:"turtle"`

	// General Metadata
	Metadata map[string]string `json:"metadata,omitempty" mapstructure:"metadata"`
}

// TurtleMetadata mirrors domain.TurtleConfig with document-friendly keys.
type TurtleMetadata struct {
	Mode          string  `json:"mode,omitempty" mapstructure:"mode"`
	Angle         float32 `json:"angle,omitempty" mapstructure:"angle"`
	MinAngle      float32 `json:"min_angle,omitempty" mapstructure:"min_angle"`
	MaxAngle      float32 `json:"max_angle,omitempty" mapstructure:"max_angle"`
	YawMultiplier float32 `json:"yaw_multiplier,omitempty" mapstructure:"yaw_multiplier"`
	Step          float32 `json:"step,omitempty" mapstructure:"step"`
	MaxLength     float32 `json:"max_length,omitempty" mapstructure:"max_length"`
}
