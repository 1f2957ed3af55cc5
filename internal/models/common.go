package models

// PersonalInfo describes the applicant or student as a person.
type PersonalInfo struct {
	FirstName   string `json:"first_name" validate:"required"`
	LastName    string `json:"last_name" validate:"required"`
	DateOfBirth string `json:"date_of_birth" validate:"required"`
	Gender      string `json:"gender" validate:"required"`
	Nationality string `json:"nationality,omitempty"`
	BloodGroup  string `json:"blood_group,omitempty"`
}

// ContactInfo carries reachable addresses for a person.
type ContactInfo struct {
	Email   string `json:"email" validate:"required,email"`
	Phone   string `json:"phone" validate:"required"`
	Address string `json:"address,omitempty"`
	City    string `json:"city,omitempty"`
	State   string `json:"state,omitempty"`
	Pincode string `json:"pincode,omitempty"`
}

// ParentInfo holds parent and guardian details.
type ParentInfo struct {
	FatherName    string `json:"father_name,omitempty"`
	MotherName    string `json:"mother_name,omitempty"`
	GuardianName  string `json:"guardian_name,omitempty"`
	GuardianPhone string `json:"guardian_phone,omitempty"`
	GuardianEmail string `json:"guardian_email,omitempty"`
	Occupation    string `json:"occupation,omitempty"`
}

// AcademicInfo captures the admission-relevant academic context.
type AcademicInfo struct {
	Grade          string `json:"grade" validate:"required"`
	AcademicYear   int    `json:"academic_year,omitempty"`
	RollNumber     string `json:"roll_number,omitempty"`
	PreviousSchool string `json:"previous_school,omitempty"`
	AdmissionDate  string `json:"admission_date,omitempty"`
}

// Pagination describes list metadata returned with collections.
type Pagination struct {
	Page       int `json:"page"`
	PageSize   int `json:"page_size"`
	TotalCount int `json:"total_count"`
}

func cloneStringMap(in map[string]string) map[string]string {
	if in == nil {
		return nil
	}
	out := make(map[string]string, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}

func cloneBoolMap(in map[string]bool) map[string]bool {
	if in == nil {
		return nil
	}
	out := make(map[string]bool, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
