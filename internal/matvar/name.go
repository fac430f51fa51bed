package matvar

// MaxNameLength is the longest variable name MATLAB accepts.
const MaxNameLength = 63

// ValidName reports whether name is a valid MATLAB variable name: a letter
// followed by letters, digits or underscores, at most MaxNameLength bytes.
func ValidName(name string) bool {
	if name == "" || len(name) > MaxNameLength {
		return false
	}
	for i := 0; i < len(name); i++ {
		c := name[i]
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z':
		case i > 0 && (c >= '0' && c <= '9' || c == '_'):
		default:
			return false
		}
	}
	return true
}
