package models

import "time"

// GuardianInfo identifies a student's guardian on a profile.
type GuardianInfo struct {
	Name     string `json:"name,omitempty"`
	Relation string `json:"relation,omitempty"`
	Phone    string `json:"phone,omitempty"`
	Email    string `json:"email,omitempty"`
}

// EmergencyContact is the profile's emergency contact sub-object.
type EmergencyContact struct {
	Name  string `json:"name,omitempty"`
	Phone string `json:"phone,omitempty"`
}

// Profile is the identity record for a person, keyed by email. Profiles are
// upserted wholesale by their owner and never deleted in normal operation.
type Profile struct {
	Email     string           `json:"email"`
	FullName  string           `json:"full_name,omitempty"`
	Phone     string           `json:"phone,omitempty"`
	Address   string           `json:"address,omitempty"`
	Guardian  GuardianInfo     `json:"guardian,omitempty"`
	Emergency EmergencyContact `json:"emergency,omitempty"`
	Academic  AcademicInfo     `json:"academic,omitempty"`
	CreatedAt time.Time        `json:"created_at"`
	UpdatedAt time.Time        `json:"updated_at"`
}

// Clone returns a copy of the profile.
func (p *Profile) Clone() *Profile {
	if p == nil {
		return nil
	}
	cp := *p
	return &cp
}

// ProfilePatch names the fields a partial profile update may touch.
type ProfilePatch struct {
	FullName  *string           `json:"full_name,omitempty"`
	Phone     *string           `json:"phone,omitempty"`
	Address   *string           `json:"address,omitempty"`
	Guardian  *GuardianInfo     `json:"guardian,omitempty"`
	Emergency *EmergencyContact `json:"emergency,omitempty"`
	Academic  *AcademicInfo     `json:"academic,omitempty"`
}

// Empty reports whether the patch names no fields at all.
func (p ProfilePatch) Empty() bool {
	return p.FullName == nil && p.Phone == nil && p.Address == nil &&
		p.Guardian == nil && p.Emergency == nil && p.Academic == nil
}

// Apply merges the patch into a copy of pr and stamps updated_at.
func (p ProfilePatch) Apply(pr *Profile, at time.Time) *Profile {
	out := pr.Clone()
	if p.FullName != nil {
		out.FullName = *p.FullName
	}
	if p.Phone != nil {
		out.Phone = *p.Phone
	}
	if p.Address != nil {
		out.Address = *p.Address
	}
	if p.Guardian != nil {
		out.Guardian = *p.Guardian
	}
	if p.Emergency != nil {
		out.Emergency = *p.Emergency
	}
	if p.Academic != nil {
		out.Academic = *p.Academic
	}
	out.UpdatedAt = at
	return out
}
