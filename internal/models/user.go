package models

import "time"

type UserRole string

const (
	RoleAdmin    UserRole = "admin"    // sistem yöneticisi
	RoleManager  UserRole = "manager"  // modül yöneticisi (onay yetkisi var)
	RoleOperator UserRole = "operator" // saha kullanıcısı
)

type User struct {
	ID           uint     `gorm:"primaryKey"`
	Name         string   `gorm:"size:100;not null"`
	Email        string   `gorm:"size:100;uniqueIndex;not null"`
	PasswordHash string   `gorm:"size:255;not null"`
	Role         UserRole `gorm:"size:20;not null"`
	IsActive     bool     `gorm:"not null;default:true"`
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
