package authz

import "strings"

const (
	RoleClient    = 10
	RoleEmployee  = 20
	RoleCorporate = 30
	RoleAdmin     = 50
)

var roleNames = map[string]int{
	"client":    RoleClient,
	"employee":  RoleEmployee,
	"corporate": RoleCorporate,
}

// RoleFromName maps a self-registration role name. Admin is never self-service.
func RoleFromName(name string) (int, bool) {
	id, ok := roleNames[strings.ToLower(strings.TrimSpace(name))]
	return id, ok
}

func IsAdmin(roleID int) bool {
	return roleID == RoleAdmin
}

// CanHire — corporate accounts browse and hire the same way households do.
func CanHire(roleID int) bool {
	return roleID == RoleClient || roleID == RoleCorporate
}
