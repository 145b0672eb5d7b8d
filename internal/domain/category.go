package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// DefaultCategoryColor is assigned when a category is created without a color.
const DefaultCategoryColor = "#3B82F6"

// Category groups todos. Names are unique within their owner's scope.
// Deleting a category nulls the reference on its todos rather than cascading.
type Category struct {
	ID          string    `gorm:"primaryKey;size:36" json:"id"`
	Name        string    `gorm:"size:50;not null;uniqueIndex:idx_categories_user_name" json:"name"`
	Color       string    `gorm:"size:7;not null" json:"color"`
	Description string    `json:"description,omitempty"`
	UserID      string    `gorm:"size:36;not null;uniqueIndex:idx_categories_user_name" json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

func (c *Category) BeforeCreate(tx *gorm.DB) error {
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Color == "" {
		c.Color = DefaultCategoryColor
	}
	return nil
}
