package models

import "time"

// Enrollment links a learner to a course and carries derived progress state.
// No DeletedAt here: cancellation removes the row outright so the composite
// unique index keeps exactly one live enrollment per (user, course) while
// still allowing re-enrollment after a cancel.
type Enrollment struct {
	ID          uint      `json:"id" gorm:"primarykey"`
	UserID      uint      `json:"user_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	User        *User     `json:"user,omitempty" gorm:"foreignKey:UserID"`
	CourseID    uint      `json:"course_id" gorm:"not null;uniqueIndex:idx_enrollment_user_course"`
	Course      *Course   `json:"course,omitempty" gorm:"foreignKey:CourseID"`
	EnrolledAt  time.Time `json:"enrolled_at"`
	Progress    int       `json:"progress" gorm:"default:0"` // derived percentage, 0-100, never client-supplied
	IsCompleted bool      `json:"is_completed" gorm:"default:false"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// CompletedLesson is one member of an enrollment's completed set. The
// composite unique index makes inserts an atomic add-to-set when paired
// with an ON CONFLICT DO NOTHING clause.
type CompletedLesson struct {
	ID           uint      `json:"id" gorm:"primarykey"`
	EnrollmentID uint      `json:"enrollment_id" gorm:"not null;uniqueIndex:idx_completed_enrollment_lesson"`
	LessonID     uint      `json:"lesson_id" gorm:"not null;uniqueIndex:idx_completed_enrollment_lesson"`
	CreatedAt    time.Time `json:"created_at"`
}
