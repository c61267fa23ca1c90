package models

import "time"

// File is a project source file. Its Path is the only source of hierarchy;
// folders are derived, never stored.
type File struct {
	ID        string    `json:"id"`
	ProjectID *string   `json:"projectId"`
	Path      string    `json:"path"`
	Content   *string   `json:"content"`
	Language  *string   `json:"language"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

// Clone returns a copy that shares no mutable state with f.
func (f File) Clone() File {
	f.ProjectID = cloneStr(f.ProjectID)
	f.Content = cloneStr(f.Content)
	f.Language = cloneStr(f.Language)
	return f
}

// BelongsTo reports whether f is owned by projectID.
func (f File) BelongsTo(projectID string) bool {
	return f.ProjectID != nil && *f.ProjectID == projectID
}

// CreateFileInput is the insert shape for files.
type CreateFileInput struct {
	ProjectID string  `json:"projectId" validate:"required"`
	Path      string  `json:"path" validate:"required"`
	Content   *string `json:"content"`
	Language  *string `json:"language"`
}

// Validate checks the input against the file schema.
func (in CreateFileInput) Validate() error { return validateStruct(in, "Invalid file data") }

// UpdateFileInput is a partial patch; nil fields are left unchanged.
type UpdateFileInput struct {
	ProjectID *string `json:"projectId,omitempty" validate:"omitempty,min=1"`
	Path      *string `json:"path,omitempty" validate:"omitempty,min=1"`
	Content   *string `json:"content,omitempty"`
	Language  *string `json:"language,omitempty"`
}

// Validate checks the patch against the file schema.
func (in UpdateFileInput) Validate() error { return validateStruct(in, "Invalid file data") }

// Apply merges the patch over f.
func (in UpdateFileInput) Apply(f *File) {
	if in.ProjectID != nil {
		f.ProjectID = cloneStr(in.ProjectID)
	}
	if in.Path != nil {
		f.Path = *in.Path
	}
	if in.Content != nil {
		f.Content = cloneStr(in.Content)
	}
	if in.Language != nil {
		f.Language = cloneStr(in.Language)
	}
}

func cloneStr(s *string) *string {
	if s == nil {
		return nil
	}
	v := *s
	return &v
}
