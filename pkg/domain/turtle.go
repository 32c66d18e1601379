package domain

import "cogentcore.org/core/math32"

// TurtleState is the cursor of turtle interpretation.
// Current is the index of the branch the next forward step hangs from.
type TurtleState struct {
	Position    math32.Vector3
	Orientation math32.Quat
	Current     int
}
