package utils

func IntPtr(i int) *int {
	return &i
}

func StringPtr(s string) *string {
	return &s
}

// PtrString dereferences s, treating nil as the empty string.
func PtrString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
