package solver

import "sort"

// Static variant registries. Every supported entity and constraint kind is
// listed here; lookups are by the factory-facing variant name.
var (
	entityVariants = []string{
		"Point2D",
		"Point3D",
		"Normal2D",
		"Normal3D",
		"Distance",
		"LineSegment",
		"ArcOfCircle",
		"Circle",
		"Workplane",
		"Translate",
		"Transform",
	}

	constraintVariants = []string{
		"Angle",
		"Diameter",
		"EqualAngle",
		"EqualLength",
		"EqualLengthPointLineDistance",
		"EqualLineArcLength",
		"EqualPointLineDistance",
		"EqualRadius",
		"LengthDifference",
		"LengthRatio",
		"LineHorizontal",
		"LineVertical",
		"MidPoint",
		"Parallel",
		"Perpendicular",
		"PointInPlane",
		"PointLineDistance",
		"PointOnCircle",
		"PointOnLine",
		"PointPlaneDistance",
		"PointsCoincident",
		"PointsDistance",
		"PointsHorizontal",
		"PointsProjectDistance",
		"PointsVertical",
		"SameOrientation",
		"Symmetric",
		"SymmetricHorizontal",
		"SymmetricLine",
		"SymmetricVertical",
	}
)

// SupportedEntity reports whether name is a known entity variant.
func SupportedEntity(name string) bool {
	return contains(entityVariants, name)
}

// SupportedConstraint reports whether name is a known constraint variant.
func SupportedConstraint(name string) bool {
	return contains(constraintVariants, name)
}

// EntityVariants lists the entity variant names, sorted.
func EntityVariants() []string {
	out := make([]string, len(entityVariants))
	copy(out, entityVariants)
	sort.Strings(out)
	return out
}

// ConstraintVariants lists the constraint variant names, sorted.
func ConstraintVariants() []string {
	out := make([]string, len(constraintVariants))
	copy(out, constraintVariants)
	sort.Strings(out)
	return out
}

func contains(list []string, name string) bool {
	for _, v := range list {
		if v == name {
			return true
		}
	}
	return false
}
