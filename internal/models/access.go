package models

// AccessLevel is the coarse privilege tag derived from the shared password.
type AccessLevel string

const (
	AccessNone  AccessLevel = ""
	AccessBasic AccessLevel = "basic"
	AccessFull  AccessLevel = "full"
)

// Allows reports whether l grants at least the required level.
func (l AccessLevel) Allows(required AccessLevel) bool {
	switch required {
	case AccessNone:
		return true
	case AccessBasic:
		return l == AccessBasic || l == AccessFull
	case AccessFull:
		return l == AccessFull
	}
	return false
}
