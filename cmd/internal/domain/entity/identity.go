package entity

// Identity is the verified caller of a single request. It is rebuilt from
// the bearer token on every request and never stored.
type Identity struct {
	ID       string
	Username string
	Role     Role
}

func (i *Identity) IsProvider() bool {
	return i != nil && i.Role == RoleProvider
}
