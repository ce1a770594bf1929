package scanner

func IsDigit(b byte) bool {
	return b >= '0' && b <= '9'
}

func IsHexDigit(b byte) bool {
	return IsDigit(b) || b >= 'a' && b <= 'f' || b >= 'A' && b <= 'F'
}

// IsCtrl is true for the control characters that must be escaped in a JSON
// string.
func IsCtrl(b byte) bool {
	return b < 32
}
