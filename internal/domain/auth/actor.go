package auth

// Actor is the authenticated caller as seen by the services.
type Actor struct {
	UserID int64
	Role   UserRole
	Sector string
}

func (a Actor) IsAdmin() bool { return a.Role == RoleAdmin }

// CanManage reports whether the actor may modify a record owned by ownerID.
func (a Actor) CanManage(ownerID int64) bool {
	return a.UserID == ownerID || a.Role == RoleAdmin || a.Role == RoleManager
}
