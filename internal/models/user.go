package models

type Role string

const (
	RoleSalesRep   Role = "Sales Representative"
	RoleManagement Role = "Management"
)

func (r Role) Valid() bool {
	return r == RoleSalesRep || r == RoleManagement
}

// Credential is one entry of the users file.
type Credential struct {
	Username    string `mapstructure:"username"`
	Password    string `mapstructure:"password"`
	Role        Role   `mapstructure:"role"`
	DisplayName string `mapstructure:"name"`
}
