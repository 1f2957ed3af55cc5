package models

import "time"

// StudentStatus represents the enrollment state of a student.
type StudentStatus string

// Possible student statuses.
const (
	StudentActive      StudentStatus = "active"
	StudentInactive    StudentStatus = "inactive"
	StudentGraduated   StudentStatus = "graduated"
	StudentTransferred StudentStatus = "transferred"
)

// Valid reports whether s is a known student status.
func (s StudentStatus) Valid() bool {
	switch s {
	case StudentActive, StudentInactive, StudentGraduated, StudentTransferred:
		return true
	}
	return false
}

// Student is a promoted application become an enrolled student, keyed by
// its generated student ID. ApplicationID is a weak back-reference: deleting
// the source application leaves the student untouched.
type Student struct {
	StudentID          string            `json:"student_id"`
	ApplicationID      string            `json:"application_id,omitempty"`
	Status             StudentStatus     `json:"status"`
	Year               int               `json:"year"`
	EnrolledAt         time.Time         `json:"enrolled_at"`
	Personal           PersonalInfo      `json:"personal"`
	Contact            ContactInfo       `json:"contact"`
	Parent             ParentInfo        `json:"parent"`
	Academic           AcademicInfo      `json:"academic"`
	Documents          map[string]string `json:"documents,omitempty"`
	VerificationStatus map[string]bool   `json:"verification_status,omitempty"`
}

// Clone returns a deep copy of the student record.
func (s *Student) Clone() *Student {
	if s == nil {
		return nil
	}
	cp := *s
	cp.Documents = cloneStringMap(s.Documents)
	cp.VerificationStatus = cloneBoolMap(s.VerificationStatus)
	return &cp
}

// PendingVerifications counts document types not yet verified.
func (s *Student) PendingVerifications() int {
	pending := 0
	for _, verified := range s.VerificationStatus {
		if !verified {
			pending++
		}
	}
	return pending
}

// StudentPatch names the fields a partial student update may touch.
type StudentPatch struct {
	Status             *StudentStatus    `json:"status,omitempty"`
	Personal           *PersonalInfo     `json:"personal,omitempty"`
	Contact            *ContactInfo      `json:"contact,omitempty"`
	Parent             *ParentInfo       `json:"parent,omitempty"`
	Academic           *AcademicInfo     `json:"academic,omitempty"`
	Documents          map[string]string `json:"documents,omitempty"`
	VerificationStatus map[string]bool   `json:"verification_status,omitempty"`
}

// Empty reports whether the patch names no fields at all.
func (p StudentPatch) Empty() bool {
	return p.Status == nil && p.Personal == nil && p.Contact == nil &&
		p.Parent == nil && p.Academic == nil &&
		len(p.Documents) == 0 && len(p.VerificationStatus) == 0
}

// ImpliedVerification returns a false entry for every patched document type,
// keeping the documents/verification maps parallel. Entries already present
// on the record keep their value; explicit verification patches always win.
func (p StudentPatch) ImpliedVerification() map[string]bool {
	if len(p.Documents) == 0 {
		return nil
	}
	implied := make(map[string]bool, len(p.Documents))
	for name := range p.Documents {
		implied[name] = false
	}
	return implied
}

// Apply merges the patch into a copy of st.
func (p StudentPatch) Apply(st *Student) *Student {
	out := st.Clone()
	if p.Status != nil {
		out.Status = *p.Status
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
	if len(p.Documents) > 0 || len(p.VerificationStatus) > 0 {
		if out.VerificationStatus == nil {
			out.VerificationStatus = make(map[string]bool)
		}
		for name, verified := range p.ImpliedVerification() {
			if _, ok := out.VerificationStatus[name]; !ok {
				out.VerificationStatus[name] = verified
			}
		}
		for name, verified := range p.VerificationStatus {
			out.VerificationStatus[name] = verified
		}
	}
	return out
}
