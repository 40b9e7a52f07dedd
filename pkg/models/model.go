package models

import (
	"time"

	"gorm.io/gorm"
)

// DefaultModel is the base of the resources with a numeric ID: groups,
// categories and tags.
type DefaultModel struct {
	ID uint `json:"id" gorm:"primaryKey" example:"3"`
	Timestamps
}

// Timestamps are set by gorm. Transactions embed them directly since
// their ID is a string.
type Timestamps struct {
	CreatedAt time.Time `json:"created_at" example:"2023-03-02T19:28:44.491514Z"`
	UpdatedAt time.Time `json:"updated_at" example:"2023-03-04T08:14:01.048145Z"`
}

// AfterFind sets the location of the timestamps to UTC. The sqlite driver
// reads them with a fixed +0000 zone, which is not equal to time.UTC.
func (t *Timestamps) AfterFind(_ *gorm.DB) (err error) {
	t.CreatedAt = t.CreatedAt.In(time.UTC)
	t.UpdatedAt = t.UpdatedAt.In(time.UTC)
	return nil
}
