package protocol

// Vector2 is a pair of float32 values, used for positions and velocities.
type Vector2 struct {
	X, Y float32
}

// Color is an RGB color.
type Color struct {
	R, G, B uint8
}
