package memory

// Built-in grammars. "plant" is the classic bracketed weed with randomised
// turns; "bush" and "tree3d" exercise stochastic-free and 3D turtles.
var presets = map[string]string{
	"plant": `name: plant
description: Bracketed weed, one rule, randomised turns.
axiom: F
rules:
  - F -> F[+F]F[-F]F
iterations: 3
turtle:
  mode: ranged
  min_angle: 25
  max_angle: 60
`,
	"bush": `name: bush
description: Dense symmetric bush with a fixed branching angle.
axiom: F
rules:
  - F -> FF-[-F+F+F]+[+F-F-F]
iterations: 3
turtle:
  mode: fixed
  angle: 22.5
`,
	"tree3d": `name: tree3d
description: Three-dimensional tree; branches yaw around the trunk.
axiom: X
rules:
  - X -> F[+X]<[+X]<[+X]
  - F -> FF
iterations: 4
turtle:
  mode: fixed
  angle: 30
  yaw_multiplier: 4
  max_length: 0.5
  step: 0.5
`,
	"algae": `name: algae
description: Lindenmayer's original algae model. Produces no branches.
axiom: A
rules:
  - A -> AB
  - B -> A
iterations: 5
`,
}

// NewPresetLoader returns a Loader serving the built-in grammars.
func NewPresetLoader() *Loader {
	return NewLoader(presets)
}
