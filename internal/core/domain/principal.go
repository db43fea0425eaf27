package domain

// Principal is the verified identity a request acts as: the subject id and
// role decoded from a valid session token. It is immutable for the lifetime
// of the request that decoded it.
type Principal struct {
	ID   string
	Role string
}

// IsAdmin reports whether the principal holds the admin role.
func (p Principal) IsAdmin() bool {
	return p.Role == RoleAdmin
}

// CanAccess reports whether the principal may read or modify the user record
// identified by ownerID: admins may, and anyone may access their own record.
func (p Principal) CanAccess(ownerID string) bool {
	return p.IsAdmin() || (p.ID != "" && p.ID == ownerID)
}
