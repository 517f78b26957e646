package models

import "gorm.io/gorm"

// Lesson is a single unit of course content
type Lesson struct {
	gorm.Model
	CourseID uint    `json:"course_id" gorm:"index;not null"`
	Course   *Course `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	Title    string  `json:"title" gorm:"not null"`
	Content  string  `json:"content" gorm:"type:text"`
	VideoURL string  `json:"video_url"`
	Order    int     `json:"order" gorm:"column:order_index;default:0"` // position within the course
}
