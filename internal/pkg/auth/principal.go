// internal/pkg/auth/principal.go
package auth

type Role string

const (
	RoleAdmin      Role = "admin"
	RoleBroker     Role = "broker"
	RoleContractor Role = "contractor"
)

// Principal is the authenticated caller as derived once by the auth
// middleware. Engine commands receive it instead of re-deriving roles from
// session state per handler.
type Principal struct {
	IdentityID int64  `json:"identity_id"`
	Roles      []Role `json:"roles"`
}

func (p Principal) HasRole(role Role) bool {
	for _, r := range p.Roles {
		if r == role {
			return true
		}
	}
	return false
}

func (p Principal) IsAdmin() bool {
	return p.HasRole(RoleAdmin)
}

// CanPost reports whether the caller may create leads: brokers and the
// platform operator (admin) post, contractors buy.
func (p Principal) CanPost() bool {
	return p.HasRole(RoleAdmin) || p.HasRole(RoleBroker)
}
