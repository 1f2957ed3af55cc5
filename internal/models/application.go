package models

import "time"

// ApplicationStatus represents the lifecycle state of an admission application.
type ApplicationStatus string

// Known application statuses. Approved and Rejected are terminal by
// convention only; administrative overrides past them stay possible.
const (
	StatusDraft       ApplicationStatus = "draft"
	StatusSubmitted   ApplicationStatus = "submitted"
	StatusUnderReview ApplicationStatus = "under_review"
	StatusApproved    ApplicationStatus = "approved"
	StatusRejected    ApplicationStatus = "rejected"
	StatusWaitlisted  ApplicationStatus = "waitlisted"
)

// Valid reports whether s is a member of the known status enum.
func (s ApplicationStatus) Valid() bool {
	switch s {
	case StatusDraft, StatusSubmitted, StatusUnderReview, StatusApproved, StatusRejected, StatusWaitlisted:
		return true
	}
	return false
}

// Terminal reports whether s normally ends the workflow.
func (s ApplicationStatus) Terminal() bool {
	return s == StatusApproved || s == StatusRejected
}

// StatusChange is one entry of an application's append-only audit trail.
type StatusChange struct {
	Status    ApplicationStatus `json:"status"`
	Timestamp time.Time         `json:"timestamp"`
	Comment   string            `json:"comment,omitempty"`
	By        string            `json:"by,omitempty"`
}

// Application is one admission application, keyed by applicant email.
type Application struct {
	ApplicationID string            `json:"application_id"`
	Email         string            `json:"email"`
	Status        ApplicationStatus `json:"status"`
	SubmittedAt   time.Time         `json:"submitted_at"`
	LastUpdated   time.Time         `json:"last_updated"`
	StatusHistory []StatusChange    `json:"status_history"`
	Notes         string            `json:"notes,omitempty"`
	Personal      PersonalInfo      `json:"personal"`
	Contact       ContactInfo       `json:"contact"`
	Parent        ParentInfo        `json:"parent"`
	Academic      AcademicInfo      `json:"academic"`
	Documents     map[string]string `json:"documents,omitempty"`
	CreatedBy     string            `json:"created_by,omitempty"`
	ReviewedBy    string            `json:"reviewed_by,omitempty"`
}

// Clone returns a deep copy so that callers never alias store-held state.
func (a *Application) Clone() *Application {
	if a == nil {
		return nil
	}
	cp := *a
	cp.StatusHistory = append([]StatusChange(nil), a.StatusHistory...)
	cp.Documents = cloneStringMap(a.Documents)
	return &cp
}

// ApplicationPatch names the fields a partial update may touch. Nil fields
// keep their prior values; map fields merge key by key.
type ApplicationPatch struct {
	Notes     *string           `json:"notes,omitempty"`
	Personal  *PersonalInfo     `json:"personal,omitempty"`
	Contact   *ContactInfo      `json:"contact,omitempty"`
	Parent    *ParentInfo       `json:"parent,omitempty"`
	Academic  *AcademicInfo     `json:"academic,omitempty"`
	Documents map[string]string `json:"documents,omitempty"`
}

// Empty reports whether the patch names no fields at all.
func (p ApplicationPatch) Empty() bool {
	return p.Notes == nil && p.Personal == nil && p.Contact == nil &&
		p.Parent == nil && p.Academic == nil && len(p.Documents) == 0
}

// Apply merges the patch into a copy of app and stamps last_updated.
func (p ApplicationPatch) Apply(app *Application, at time.Time) *Application {
	out := app.Clone()
	if p.Notes != nil {
		out.Notes = *p.Notes
	}
	if p.Personal != nil {
		out.Personal = *p.Personal
	}
	if p.Contact != nil {
		out.Contact = *p.Contact
	}
	if p.Parent != nil {
		out.Parent = *p.Parent
	}
	if p.Academic != nil {
		out.Academic = *p.Academic
	}
	if len(p.Documents) > 0 {
		if out.Documents == nil {
			out.Documents = make(map[string]string, len(p.Documents))
		}
		for name, uri := range p.Documents {
			out.Documents[name] = uri
		}
	}
	out.LastUpdated = at
	return out
}
