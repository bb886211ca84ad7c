package models

import "time"

// UserRole is the account type of a platform user.
type UserRole string

const (
	RoleBuyer    UserRole = "buyer"
	RoleSupplier UserRole = "supplier"
)

// User is a platform account. Email is the login identifier.
type User struct {
	ID           uint64
	Username     string
	Email        string
	PasswordHash string
	FirstName    string
	LastName     string
	MiddleName   string
	Position     string
	Role         UserRole
	IsStaff      bool
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// CanManageOrders reports whether the user may drive order status forward.
func (u *User) CanManageOrders() bool {
	return u.Role == RoleSupplier || u.IsStaff
}

// Contact is a delivery contact owned by a user.
type Contact struct {
	ID        uint64
	UserID    uint64
	Phone     string
	City      string
	Street    string
	House     string
	Structure string
	Building  string
	Apartment string
}
