package pipeline

import "math"

// Point is an image-space coordinate in pixels.
type Point struct {
	X float64
	Y float64
}

// Angle returns the angle in degrees at vertex formed by the rays toward a
// and b, in [0,180]. The second return value is false when either ray has
// zero length (coincident points), in which case no angle exists.
//
// This is the single source of truth for every joint angle in the system.
func Angle(vertex, a, b Point) (float64, bool) {
	va := Point{X: a.X - vertex.X, Y: a.Y - vertex.Y}
	vb := Point{X: b.X - vertex.X, Y: b.Y - vertex.Y}

	lenA := math.Hypot(va.X, va.Y)
	lenB := math.Hypot(vb.X, vb.Y)
	if lenA == 0 || lenB == 0 {
		return 0, false
	}

	cos := (va.X*vb.X + va.Y*vb.Y) / (lenA * lenB)
	// Clamp before acos: floating-point overshoot past ±1 yields NaN.
	cos = math.Max(-1, math.Min(1, cos))

	return math.Acos(cos) * 180 / math.Pi, true
}

// ComputeAngles derives every computable joint angle from a frame's
// landmarks. An angle whose vertex or either ray endpoint is missing is
// omitted from the result.
func ComputeAngles(landmarks map[LandmarkName]Landmark) map[JointAngleName]float64 {
	angles := make(map[JointAngleName]float64, len(angleDefs))
	for name, def := range angleDefs {
		vertex, okV := landmarks[def.vertex]
		a, okA := landmarks[def.a]
		b, okB := landmarks[def.b]
		if !okV || !okA || !okB {
			continue
		}
		deg, ok := Angle(
			Point{X: vertex.X, Y: vertex.Y},
			Point{X: a.X, Y: a.Y},
			Point{X: b.X, Y: b.Y},
		)
		if !ok {
			continue
		}
		angles[name] = deg
	}
	return angles
}
