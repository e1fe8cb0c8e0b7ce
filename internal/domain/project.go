package domain

import (
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

type ProjectStatus string

const (
	ProjectStatusPlanning  ProjectStatus = "Planning"
	ProjectStatusActive    ProjectStatus = "Active"
	ProjectStatusCompleted ProjectStatus = "Completed"
	ProjectStatusOnHold    ProjectStatus = "On Hold"
)

var AllProjectStatuses = []ProjectStatus{
	ProjectStatusPlanning,
	ProjectStatusActive,
	ProjectStatusCompleted,
	ProjectStatusOnHold,
}

func (s ProjectStatus) IsValid() bool {
	for _, v := range AllProjectStatuses {
		if s == v {
			return true
		}
	}
	return false
}

type Project struct {
	ID          uuid.UUID                 `json:"id" gorm:"type:uuid;primary_key;default:gen_random_uuid()"`
	Title       string                    `json:"title" gorm:"not null" validate:"required"`
	Description string                    `json:"description" gorm:"not null" validate:"required"`
	Scope       datatypes.JSONType[Scope] `json:"scope" gorm:"not null"`
	Leader      string                    `json:"leader" gorm:"not null" validate:"required"`
	Image       string                    `json:"image"`
	Status      ProjectStatus             `json:"status" gorm:"not null;default:'Planning'"`
	CreatedAt   time.Time                 `json:"createdAt" gorm:"index"`
	UpdatedAt   time.Time                 `json:"updatedAt" gorm:"autoUpdateTime:false"`
}

// Validate defaults an empty status to Planning before checking fields.
func (p *Project) Validate(maxImageBytes int) error {
	if p.Status == "" {
		p.Status = ProjectStatusPlanning
	}

	fields, err := ValidateStruct(p)
	if err != nil {
		return err
	}
	fields = append(fields, p.Scope.Data().Validate("scope")...)
	if fe := ValidateImage("image", p.Image, maxImageBytes); fe != nil {
		fields = append(fields, *fe)
	}
	if !p.Status.IsValid() {
		names := make([]string, len(AllProjectStatuses))
		for i, s := range AllProjectStatuses {
			names[i] = string(s)
		}
		fields = append(fields, FieldError{Field: "status", Message: "must be one of: " + strings.Join(names, ", ")})
	}
	return finish(fields)
}

func (p *Project) Apply(src *Project) {
	p.Title = src.Title
	p.Description = src.Description
	p.Scope = src.Scope
	p.Leader = src.Leader
	p.Image = src.Image
	p.Status = src.Status
}
