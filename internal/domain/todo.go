package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Priority of a todo. Stored as text; ordering uses an explicit rank so that
// URGENT sorts above HIGH regardless of collation.
type Priority string

const (
	PriorityLow    Priority = "LOW"
	PriorityMedium Priority = "MEDIUM"
	PriorityHigh   Priority = "HIGH"
	PriorityUrgent Priority = "URGENT"
)

// Valid reports whether p is one of the four known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh, PriorityUrgent:
		return true
	}
	return false
}

// Label returns the display name used in generated reports. The mapping is a
// stored-artifact format; do not change it.
func (p Priority) Label() string {
	switch p {
	case PriorityLow:
		return "低"
	case PriorityMedium:
		return "中"
	case PriorityHigh:
		return "高"
	case PriorityUrgent:
		return "紧急"
	}
	return string(p)
}

// Todo is a single task owned by a user, optionally linked to one of the
// owner's categories.
type Todo struct {
	ID          string     `gorm:"primaryKey;size:36" json:"id"`
	Title       string     `gorm:"size:200;not null" json:"title"`
	Description string     `json:"description,omitempty"`
	Completed   bool       `gorm:"not null;default:false" json:"completed"`
	Priority    Priority   `gorm:"size:10;not null" json:"priority"`
	DueDate     *time.Time `json:"dueDate,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
	UserID      string     `gorm:"size:36;index;not null" json:"userId"`
	CategoryID  *string    `gorm:"size:36;index" json:"categoryId,omitempty"`
	Category    *Category  `json:"category,omitempty"`
	CreatedAt   time.Time  `json:"createdAt"`
	UpdatedAt   time.Time  `json:"updatedAt"`
}

func (t *Todo) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = uuid.NewString()
	}
	if t.Priority == "" {
		t.Priority = PriorityMedium
	}
	return nil
}
