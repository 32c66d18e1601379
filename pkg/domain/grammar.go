package domain

// TurnMode selects how the turtle picks its turn angles.
type TurnMode string

const (
	// TurnFixed always turns by TurtleConfig.Angle.
	TurnFixed TurnMode = "fixed"
	// TurnRanged samples every turn uniformly in [MinAngle, MaxAngle).
	TurnRanged TurnMode = "ranged"
)

// TurtleConfig holds the geometric parameters of turtle interpretation.
// Angles are expressed in degrees.
type TurtleConfig struct {
	Mode          TurnMode `json:"mode"`
	Angle         float32  `json:"angle,omitempty"`
	MinAngle      float32  `json:"min_angle,omitempty"`
	MaxAngle      float32  `json:"max_angle,omitempty"`
	YawMultiplier float32  `json:"yaw_multiplier,omitempty"`
	Step          float32  `json:"step,omitempty"`
	MaxLength     float32  `json:"max_length,omitempty"`
}

// DefaultTurtleConfig mirrors the reference plant: random turns between 25 and 60 degrees.
func DefaultTurtleConfig() TurtleConfig {
	return TurtleConfig{
		Mode:          TurnRanged,
		MinAngle:      DefaultMinAngle,
		MaxAngle:      DefaultMaxAngle,
		YawMultiplier: DefaultYawMultiplier,
		Step:          DefaultStep,
		MaxLength:     DefaultMaxLength,
	}
}

// WithDefaults fills zero fields with their defaults.
// A config with no mode but a fixed Angle is treated as fixed.
func (c TurtleConfig) WithDefaults() TurtleConfig {
	if c.Mode == "" {
		if c.Angle != 0 && c.MinAngle == 0 && c.MaxAngle == 0 {
			c.Mode = TurnFixed
		} else {
			c.Mode = TurnRanged
		}
	}
	if c.Mode == TurnRanged && c.MinAngle == 0 && c.MaxAngle == 0 {
		c.MinAngle = DefaultMinAngle
		c.MaxAngle = DefaultMaxAngle
	}
	if c.YawMultiplier == 0 {
		c.YawMultiplier = DefaultYawMultiplier
	}
	if c.Step == 0 {
		c.Step = DefaultStep
	}
	if c.MaxLength == 0 {
		c.MaxLength = DefaultMaxLength
	}
	return c
}

// Grammar is a complete L-system definition.
type Grammar struct {
	Name        string       `json:"name"`
	Description string       `json:"description,omitempty"`
	Axiom       Sequence     `json:"axiom"`
	Rules       RuleSet      `json:"rules"`
	Iterations  int          `json:"iterations"`
	Turtle      TurtleConfig `json:"turtle"`
}
