package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeGender(t *testing.T) {
	assert.Equal(t, GenderMale, NormalizeGender("M"))
	assert.Equal(t, GenderMale, NormalizeGender("male"))
	assert.Equal(t, GenderFemale, NormalizeGender("Female"))
	assert.Equal(t, GenderOther, NormalizeGender("nonbinary"))
	assert.Equal(t, GenderOther, NormalizeGender(""))
}

func TestAggregateRecordStaysConsistent(t *testing.T) {
	agg := NewEnrollmentAggregate(2026)
	now := time.Now().UTC()

	agg.Record("STU20260001", "Grade 5", "female", now)
	agg.Record("STU20260002", "Grade 5", "male", now)
	agg.Record("STU20260003", "Grade 6", "x", now)

	assert.Equal(t, 3, agg.TotalStudents)
	assert.Equal(t, 2, agg.ByGrade["Grade 5"])
	assert.Equal(t, 1, agg.ByGrade["Grade 6"])
	assert.Equal(t, 1, agg.ByGender.Male)
	assert.Equal(t, 1, agg.ByGender.Female)
	assert.Equal(t, 1, agg.ByGender.Other)
	assert.Equal(t, agg.TotalStudents, agg.ByGender.Total())
	assert.True(t, agg.Consistent())
}

func TestAggregateConsistentDetectsDrift(t *testing.T) {
	agg := NewEnrollmentAggregate(2026)
	agg.Record("STU20260001", "Grade 5", "male", time.Now())

	agg.TotalStudents++
	assert.False(t, agg.Consistent())
}

func TestAggregateCloneIsolation(t *testing.T) {
	agg := NewEnrollmentAggregate(2026)
	agg.Record("STU20260001", "Grade 5", "male", time.Now())

	cp := agg.Clone()
	cp.ByGrade["Grade 5"]++
	cp.StudentIDs = append(cp.StudentIDs, "STU20260002")

	assert.Equal(t, 1, agg.ByGrade["Grade 5"])
	assert.Len(t, agg.StudentIDs, 1)
}
