package helpers

import "golang.org/x/exp/constraints"

func Min[T constraints.Ordered](numbers ...T) T {
	var min T = numbers[0]
	for _, n := range numbers {
		if n < min {
			min = n
		}
	}
	return min
}

func Max[T constraints.Ordered](numbers ...T) T {
	var max T = numbers[0]
	for _, n := range numbers {
		if n > max {
			max = n
		}
	}
	return max
}

func Abs[T constraints.Signed](n T) T {
	if n < 0 {
		return -n
	}
	return n
}

// CeilDiv returns a/b rounded up. b must be positive.
func CeilDiv[T constraints.Integer](a, b T) T {
	return (a + b - 1) / b
}
