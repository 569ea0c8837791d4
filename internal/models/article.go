package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"gorm.io/gorm"
)

// Article is an entry of the in-app awareness feed.
type Article struct {
	ID          string         `gorm:"primaryKey" json:"id"`
	Title       string         `gorm:"not null" json:"title"`
	Description string         `gorm:"type:text" json:"description"`
	Category    string         `gorm:"index" json:"category"`
	Thumbnail   string         `json:"thumbnail"`
	Tags        pq.StringArray `gorm:"type:text[]" json:"tags"`
	UserID      string         `gorm:"index" json:"userId"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

func (a *Article) BeforeCreate(tx *gorm.DB) (err error) {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	return
}
