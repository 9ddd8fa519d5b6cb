package entity

// Role ids double as role names throughout the API ("supervisor", "sales",
// "sales_manager", "telesales", "product_manager").
const (
	RoleSupervisor     = "supervisor"
	RoleSalesManager   = "sales_manager"
	RoleSales          = "sales"
	RoleTelesales      = "telesales"
	RoleProductManager = "product_manager"
)

type User struct {
	ID              int64  `json:"id"`
	Name            string `json:"name"`
	Email           string `json:"email"`
	PasswordHash    string `json:"-"`
	RoleID          string `json:"role_id"`
	Status          string `json:"status,omitempty"`
	IsSetupComplete bool   `json:"-"`
}

type Role struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}
