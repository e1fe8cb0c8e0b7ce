package domain

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type Event struct {
	ID          uuid.UUID                 `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string                    `json:"title" gorm:"not null" validate:"required"`
	Description string                    `json:"description" gorm:"not null" validate:"required"`
	Scope       datatypes.JSONType[Scope] `json:"scope" gorm:"not null"`
	Time        string                    `json:"time"`
	Location    string                    `json:"location"`
	Category    string                    `json:"category"`
	Image       string                    `json:"image"`
	Featured    bool                      `json:"featured" gorm:"not null;default:false"`
	CreatedAt   time.Time                 `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                 `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// Validate checks required fields, the date scope and the image payload.
func (e *Event) Validate(maxImageBytes int) error {
	fields, err := ValidateStruct(e)
	if err != nil {
		return err
	}
	fields = append(fields, e.Scope.Data().Validate("scope")...)
	if fe := ValidateImage("image", e.Image, maxImageBytes); fe != nil {
		fields = append(fields, *fe)
	}
	return finish(fields)
}

// Apply copies the mutable fields of src onto e.
func (e *Event) Apply(src *Event) {
	e.Title = src.Title
	e.Description = src.Description
	e.Scope = src.Scope
	e.Time = src.Time
	e.Location = src.Location
	e.Category = src.Category
	e.Image = src.Image
	e.Featured = src.Featured
}
