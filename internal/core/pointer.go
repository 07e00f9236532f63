package core

import "fmt"

// Pointer is the input device class used to branch gesture handling.
type Pointer string

const (
	// PointerFine has hover capability (mouse, trackpad).
	PointerFine Pointer = "fine"
	// PointerCoarse lacks hover (touch).
	PointerCoarse Pointer = "coarse"
)

// ParsePointer parses a pointer class name. An empty name means fine.
func ParsePointer(s string) (Pointer, error) {
	switch s {
	case "", string(PointerFine):
		return PointerFine, nil
	case string(PointerCoarse):
		return PointerCoarse, nil
	default:
		return "", fmt.Errorf("invalid pointer: %s (must be fine or coarse)", s)
	}
}

// CanHover reports whether hover state is meaningful for this pointer class.
func (p Pointer) CanHover() bool {
	return p != PointerCoarse
}
