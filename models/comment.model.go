package models

import "gorm.io/gorm"

// Comment is a user's note on a lesson
type Comment struct {
	gorm.Model
	UserID   uint    `json:"user_id" gorm:"index;not null"`
	User     *User   `json:"user,omitempty" gorm:"foreignKey:UserID"`
	LessonID uint    `json:"lesson_id" gorm:"index;not null"`
	Lesson   *Lesson `json:"lesson,omitempty" gorm:"foreignKey:LessonID"`
	Text     string  `json:"text" gorm:"size:255;not null"`
}
