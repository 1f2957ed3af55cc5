package models

import "time"

// Gender buckets used by the enrollment aggregate.
const (
	GenderMale   = "male"
	GenderFemale = "female"
	GenderOther  = "other"
)

// GenderCount is the fixed three-way gender breakdown of an aggregate.
type GenderCount struct {
	Male   int `json:"male"`
	Female int `json:"female"`
	Other  int `json:"other"`
}

// Add increments the bucket matching gender; anything unrecognized counts
// as other so totals never drift from the sum of the buckets.
func (g *GenderCount) Add(gender string) {
	switch NormalizeGender(gender) {
	case GenderMale:
		g.Male++
	case GenderFemale:
		g.Female++
	default:
		g.Other++
	}
}

// Total returns the sum of all buckets.
func (g GenderCount) Total() int {
	return g.Male + g.Female + g.Other
}

// NormalizeGender folds free-text gender values into the three buckets.
func NormalizeGender(gender string) string {
	switch gender {
	case "male", "Male", "M", "m":
		return GenderMale
	case "female", "Female", "F", "f":
		return GenderFemale
	default:
		return GenderOther
	}
}

// EnrollmentAggregate is the derived per-year summary of enrolled students.
// It is a cache of counts, never the source of truth for any student.
type EnrollmentAggregate struct {
	Year          int            `json:"year"`
	TotalStudents int            `json:"total_students"`
	ByGrade       map[string]int `json:"by_grade"`
	ByGender      GenderCount    `json:"by_gender"`
	StudentIDs    []string       `json:"student_ids"`
	UpdatedAt     time.Time      `json:"updated_at"`
}

// NewEnrollmentAggregate returns an empty aggregate for year.
func NewEnrollmentAggregate(year int) *EnrollmentAggregate {
	return &EnrollmentAggregate{
		Year:    year,
		ByGrade: make(map[string]int),
	}
}

// Record counts one student into the aggregate.
func (a *EnrollmentAggregate) Record(studentID, grade, gender string, at time.Time) {
	a.TotalStudents++
	if a.ByGrade == nil {
		a.ByGrade = make(map[string]int)
	}
	a.ByGrade[grade]++
	a.ByGender.Add(gender)
	a.StudentIDs = append(a.StudentIDs, studentID)
	a.UpdatedAt = at
}

// Consistent verifies the aggregate's internal invariant: totalStudents
// equals both the sum of the by-grade counts and the student-ID list length.
func (a *EnrollmentAggregate) Consistent() bool {
	sum := 0
	for _, n := range a.ByGrade {
		sum += n
	}
	return a.TotalStudents == sum && a.TotalStudents == len(a.StudentIDs)
}

// Clone returns a deep copy of the aggregate.
func (a *EnrollmentAggregate) Clone() *EnrollmentAggregate {
	if a == nil {
		return nil
	}
	cp := *a
	if a.ByGrade != nil {
		cp.ByGrade = make(map[string]int, len(a.ByGrade))
		for k, v := range a.ByGrade {
			cp.ByGrade[k] = v
		}
	}
	cp.StudentIDs = append([]string(nil), a.StudentIDs...)
	return &cp
}

// EnrollmentStatistics is the dashboard-facing global summary computed on
// read across all years.
type EnrollmentStatistics struct {
	Years                map[int]*EnrollmentAggregate `json:"years"`
	TotalStudents        int                          `json:"total_students"`
	ActiveStudents       int                          `json:"active_students"`
	InactiveStudents     int                          `json:"inactive_students"`
	PendingVerifications int                          `json:"pending_verifications"`
	GeneratedAt          time.Time                    `json:"generated_at"`
}
