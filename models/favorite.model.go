package models

import "time"

// Favorite bookmarks a course for a user, unique per (user, course)
type Favorite struct {
	ID        uint      `json:"id" gorm:"primarykey"`
	UserID    uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_favorite_user_course"`
	CourseID  uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_favorite_user_course"`
	Course    *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	CreatedAt time.Time `json:"created_at"`
}
