package utility

// Contains memeriksa apakah sebuah elemen ada di dalam slice
func Contains[T comparable](slice []T, item T) bool {
	for _, v := range slice {
		if v == item {
			return true
		}
	}
	return false
}
