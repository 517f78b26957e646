package models

import "gorm.io/gorm"

// User roles
const (
	RoleStudent = "STUDENT"
	RoleTeacher = "TEACHER"
)

type User struct {
	gorm.Model
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Login     string `json:"login" gorm:"unique;not null"`
	Password  string `json:"-" gorm:"not null"`
	Role      string `json:"role" gorm:"default:'STUDENT'"` // STUDENT, TEACHER
}
