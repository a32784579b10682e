package drv8825

import "golang.org/x/exp/constraints"

// constrain limits a value to a range (supports multiple types).
func constrain[T constraints.Ordered](value, min, max T) T {
	if value < min {
		return min
	} else if value > max {
		return max
	}
	return value
}
