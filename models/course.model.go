package models

import "gorm.io/gorm"

// Course levels
const (
	LevelBeginner     = "beginner"
	LevelIntermediate = "intermediate"
	LevelAdvanced     = "advanced"
)

// Course represents a learning course
type Course struct {
	gorm.Model
	Title       string  `json:"title" gorm:"not null"`
	Slug        string  `json:"slug" gorm:"unique;not null"`
	Description string  `json:"description" gorm:"type:text"`
	Price       float64 `json:"price" gorm:"default:0"`
	Image       string  `json:"image"`
	Category    string  `json:"category"`
	Level       string  `json:"level" gorm:"default:'beginner'"` // beginner, intermediate, advanced
	Published   bool    `json:"published" gorm:"default:false"`
	AuthorID    uint    `json:"author_id" gorm:"index;not null"`
	Author      *User   `json:"author,omitempty" gorm:"foreignKey:AuthorID"`
	Tags        []Tag   `json:"tags" gorm:"many2many:course_tags;"`
}

// Tag labels courses; reused across courses by name
type Tag struct {
	ID   uint   `json:"id" gorm:"primarykey"`
	Name string `json:"name" gorm:"unique;not null"`
}
