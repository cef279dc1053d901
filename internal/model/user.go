package model

import (
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

// Role codes as constants
const (
	RoleOwner      = "owner"
	RoleEmployee   = "employee"
	RoleSuperAdmin = "super_admin"
)

// User represents an account that can authenticate against the system.
type User struct {
	BaseModel
	Username    string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"username" validate:"required"`
	Password    string     `gorm:"type:varchar(255);not null" json:"-"` // Hidden from JSON
	CompanyName string     `gorm:"type:varchar(255)" json:"company_name"`
	PhoneNumber string     `gorm:"type:varchar(20)" json:"phone_number"`
	Role        string     `gorm:"type:varchar(50);not null;default:employee" json:"role"`
	ShopID      *uuid.UUID `gorm:"type:uuid;index" json:"shop_id"`
	Shop        *Shop      `gorm:"foreignKey:ShopID" json:"shop,omitempty" validate:"-"`
	IsActive    bool       `gorm:"default:true" json:"is_active"`
}

// SetPassword hashes and sets the user's password
func (u *User) SetPassword(password string) error {
	hashedPassword, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return err
	}
	u.Password = string(hashedPassword)
	return nil
}

// CheckPassword verifies if the provided password matches the stored hash
func (u *User) CheckPassword(password string) bool {
	err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password))
	return err == nil
}

// Principal is the verified identity attached to every request reaching the
// engine. Authentication happens upstream; the engine trusts these values.
type Principal struct {
	UserID uuid.UUID `json:"user_id"`
	ShopID uuid.UUID `json:"shop_id"`
	Role   string    `json:"role"`
}

// Principal builds the request identity for an authenticated user.
func (u *User) Principal() Principal {
	p := Principal{UserID: u.ID, Role: u.Role}
	if u.ShopID != nil {
		p.ShopID = *u.ShopID
	}
	return p
}
