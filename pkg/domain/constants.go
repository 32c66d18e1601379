package domain

// Turtle alphabet. Any other Symbol is carried through rewriting and ignored
// by the interpreter.
const (
	SymForward   Symbol = 'F'
	SymTurnLeft  Symbol = '+'
	SymTurnRight Symbol = '-'
	SymYawLeft   Symbol = '<'
	SymYawRight  Symbol = '>'
	SymPush      Symbol = '['
	SymPop       Symbol = ']'
)

// Defaults taken by a zero TurtleConfig.
const (
	DefaultStep          float32 = 1
	DefaultMaxLength     float32 = 1
	DefaultYawMultiplier float32 = 4
	DefaultMinAngle      float32 = 25
	DefaultMaxAngle      float32 = 60
	DefaultGrowthRate    float32 = 4
	DefaultLengthDecay   float32 = 0.95
)

// NoParent is the Parent index carried by the root Branch.
const NoParent = -1
