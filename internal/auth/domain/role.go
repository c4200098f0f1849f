package domain

// Well-known role tags. Roles are free-form strings; these are the two the
// service itself gives meaning to.
const (
	RoleUser  = "User"
	RoleAdmin = "Admin"
)
