package auth

import "errors"

// ErrNotAllowed is the single denial verdict of the policy engine. The
// original contract answers every role or ownership failure with an
// Unauthorized-class response, so no finer distinction is carried.
var ErrNotAllowed = errors.New("not allowed")

// Access is the access level an operation demands.
type Access int

const (
	// AccessAnyUser admits any caller holding a valid token.
	AccessAnyUser Access = iota
	// AccessAdmin admits only callers whose role claim is the admin code.
	AccessAdmin
	// AccessOwnerOrAdmin admits admins, plus the caller whose user id
	// matches the target row's owner.
	AccessOwnerOrAdmin
)

// Operation describes a guarded action declaratively: which resource it
// touches, what access level it demands and, for ownership-gated actions,
// who owns the target row. Handlers build one of these instead of
// open-coding role checks.
type Operation struct {
	Resource string
	Access   Access
	OwnerID  int64 // only consulted for AccessOwnerOrAdmin
}

// Authorize returns nil when the given claims satisfy the operation and
// ErrNotAllowed otherwise. It never touches the store; ownership lookups
// happen before the call. A nil claims value always denies; the HTTP
// adapter rejects tokenless requests earlier, with the header-level errors
// from token.go.
func Authorize(c *Claims, op Operation) error {
	if c == nil {
		return ErrNotAllowed
	}
	switch op.Access {
	case AccessAnyUser:
		return nil
	case AccessAdmin:
		if c.Role != RoleAdmin {
			return ErrNotAllowed
		}
		return nil
	case AccessOwnerOrAdmin:
		if c.Role == RoleAdmin || c.UserID == op.OwnerID {
			return nil
		}
		return ErrNotAllowed
	}
	return ErrNotAllowed
}

// Role codes mirrored from the model package so the engine can be used
// without importing it.
const (
	RoleAdmin = "a"
	RoleUser  = "u"
)
