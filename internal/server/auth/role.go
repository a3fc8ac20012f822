package auth

import "strings"

// DefaultAuthority is used for an empty or absent role name.
const DefaultAuthority = "USER"

// CanonicalizeRole maps a free-form role name onto the fixed authority
// vocabulary: upper-cased, every character outside [A-Z0-9_] replaced by '_',
// runs of '_' collapsed and leading/trailing '_' trimmed.
//
//	"evaluator/admin" -> "EVALUATOR_ADMIN"
//	"submitter"       -> "SUBMITTER"
//	""                -> "USER"
//
// A name that sanitizes to nothing (e.g. "//") also yields DefaultAuthority.
func CanonicalizeRole(name string) string {
	var b strings.Builder
	b.Grow(len(name))

	pendingSep := false
	for _, r := range strings.ToUpper(name) {
		if (r >= 'A' && r <= 'Z') || (r >= '0' && r <= '9') {
			if pendingSep && b.Len() > 0 {
				b.WriteByte('_')
			}
			pendingSep = false
			b.WriteRune(r)
			continue
		}
		pendingSep = true
	}

	if b.Len() == 0 {
		return DefaultAuthority
	}
	return b.String()
}

// CanonicalizeRolePtr is CanonicalizeRole for optional names; nil maps to
// DefaultAuthority.
func CanonicalizeRolePtr(name *string) string {
	if name == nil {
		return DefaultAuthority
	}
	return CanonicalizeRole(*name)
}
