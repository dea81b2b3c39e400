package utils

const (
	NODETOL = 1.e-12
	// Allowed departure of a panel normal from unit length
	UNITTOL = 1.e-9
	// Core radius below which a vortex filament contributes nothing to a field point
	CORETOL = 1.e-10
)
