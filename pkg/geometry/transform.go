package geometry

import "math"

// Frame is a rotated coordinate frame whose first axis points along a direction. build it either
// from a basis vector or from an explicit angle, never both.
type Frame struct {
	cos, sin float64
}

// FrameFromBasis. frame whose first axis is the direction of (bx, by). a zero vector yields the
// identity frame.
func FrameFromBasis(bx, by float64) Frame {
	n := math.Hypot(bx, by)
	if n == 0 {
		return Frame{cos: 1, sin: 0}
	}
	return Frame{cos: bx / n, sin: by / n}
}

// FrameFromAngle. frame whose first axis is rotated theta radians from +x.
func FrameFromAngle(theta float64) Frame {
	return Frame{cos: math.Cos(theta), sin: math.Sin(theta)}
}

func (f Frame) Angle() float64 {
	return math.Atan2(f.sin, f.cos)
}

// CoordTransformation. rotates (x, y) into the frame, or back out of it when inverse is set.
// transforming then inverse-transforming returns the original point.
func CoordTransformation(x, y float64, f Frame, inverse bool) (float64, float64) {
	if !inverse {
		return x*f.cos + y*f.sin, -x*f.sin + y*f.cos
	}
	return x*f.cos - y*f.sin, x*f.sin + y*f.cos
}
