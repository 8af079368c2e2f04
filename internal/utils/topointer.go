package utils

func Float64ToPointer(f float64) *float64 {
	return &f
}
