package domain

import (
	"time"

	"github.com/google/uuid"
)

// Contact is a public contact-form submission. It is never updated.
type Contact struct {
	ID      uuid.UUID `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Name    string    `json:"name" gorm:"not null" validate:"required"`
	Email   string    `json:"email" gorm:"not null" validate:"required,email"`
	Phone   string    `json:"phone,omitempty"`
	Subject string    `json:"subject" gorm:"not null" validate:"required"`
	Message string    `json:"message" gorm:"type:text;not null" validate:"required"`
	Date    time.Time `json:"date" gorm:"index;not null"`
}

func (c *Contact) Validate() error {
	fields, err := ValidateStruct(c)
	if err != nil {
		return err
	}
	return finish(fields)
}
