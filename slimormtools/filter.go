package slimormtools

// Filter keeps the elements of input for which keep returns true.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := []T{}
	for _, i := range input {
		if keep(i) {
			result = append(result, i)
		}
	}

	return result
}
