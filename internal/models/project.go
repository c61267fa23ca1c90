package models

import (
	"maps"
	"time"
)

// Project is a workspace the IDE operates on.
type Project struct {
	ID          string         `json:"id"`
	Name        string         `json:"name"`
	Description *string        `json:"description"`
	Mode        string         `json:"mode"`
	Status      string         `json:"status"`
	Config      map[string]any `json:"config"`
	CreatedAt   time.Time      `json:"createdAt"`
	UpdatedAt   time.Time      `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with p.
func (p Project) Clone() Project {
	p.Config = maps.Clone(p.Config)
	if p.Description != nil {
		d := *p.Description
		p.Description = &d
	}
	return p
}

// CreateProjectInput is the insert shape for projects.
type CreateProjectInput struct {
	Name        string         `json:"name" validate:"required"`
	Description *string        `json:"description"`
	Mode        string         `json:"mode" validate:"required,oneof=planner architect coder auto debug"`
	Status      string         `json:"status" validate:"omitempty,oneof=active completed paused"`
	Config      map[string]any `json:"config"`
}

// Validate checks the input against the project schema.
func (in CreateProjectInput) Validate() error { return validateStruct(in, "Invalid project data") }

// UpdateProjectInput is a partial patch; nil fields are left unchanged.
type UpdateProjectInput struct {
	Name        *string        `json:"name,omitempty" validate:"omitempty,min=1"`
	Description *string        `json:"description,omitempty"`
	Mode        *string        `json:"mode,omitempty" validate:"omitempty,oneof=planner architect coder auto debug"`
	Status      *string        `json:"status,omitempty" validate:"omitempty,oneof=active completed paused"`
	Config      map[string]any `json:"config,omitempty"`
}

// Validate checks the patch against the project schema.
func (in UpdateProjectInput) Validate() error { return validateStruct(in, "Invalid project data") }

// Apply merges the patch over p. ID and CreatedAt are never touched.
func (in UpdateProjectInput) Apply(p *Project) {
	if in.Name != nil {
		p.Name = *in.Name
	}
	if in.Description != nil {
		d := *in.Description
		p.Description = &d
	}
	if in.Mode != nil {
		p.Mode = *in.Mode
	}
	if in.Status != nil {
		p.Status = *in.Status
	}
	if in.Config != nil {
		p.Config = maps.Clone(in.Config)
	}
}
