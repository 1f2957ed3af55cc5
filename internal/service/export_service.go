package service

import (
	"context"
	"fmt"
	"sort"
	"strconv"

	"github.com/brightmont/admissions-engine/internal/models"
	"github.com/brightmont/admissions-engine/pkg/export"
)

type studentLister interface {
	List(ctx context.Context) ([]models.Student, error)
}

type statisticsReader interface {
	Statistics(ctx context.Context) (*models.EnrollmentStatistics, error)
}

// ExportService renders the admin roster and enrollment summary exports.
type ExportService struct {
	students   studentLister
	statistics statisticsReader
	csv        *export.CSVExporter
	pdf        *export.PDFExporter
}

// NewExportService constructs ExportService.
func NewExportService(students studentLister, statistics statisticsReader) *ExportService {
	return &ExportService{
		students:   students,
		statistics: statistics,
		csv:        export.NewCSVExporter(),
		pdf:        export.NewPDFExporter(),
	}
}

// StudentRosterCSV renders all students as a CSV roster.
func (s *ExportService) StudentRosterCSV(ctx context.Context) ([]byte, error) {
	students, err := s.students.List(ctx)
	if err != nil {
		return nil, err
	}

	data := export.Dataset{
		Headers: []string{"Student ID", "Name", "Grade", "Year", "Status", "Pending Docs"},
	}
	for _, st := range students {
		data.Append(map[string]string{
			"Student ID":   st.StudentID,
			"Name":         st.Personal.FirstName + " " + st.Personal.LastName,
			"Grade":        st.Academic.Grade,
			"Year":         strconv.Itoa(st.Year),
			"Status":       string(st.Status),
			"Pending Docs": strconv.Itoa(st.PendingVerifications()),
		})
	}
	return s.csv.Render(data)
}

// EnrollmentSummaryPDF renders the per-year enrollment summary report.
func (s *ExportService) EnrollmentSummaryPDF(ctx context.Context) ([]byte, error) {
	stats, err := s.statistics.Statistics(ctx)
	if err != nil {
		return nil, err
	}

	years := make([]int, 0, len(stats.Years))
	for year := range stats.Years {
		years = append(years, year)
	}
	sort.Ints(years)

	data := export.Dataset{
		Headers: []string{"Year", "Total", "Male", "Female", "Other", "Grades"},
	}
	for _, year := range years {
		agg := stats.Years[year]
		data.Append(map[string]string{
			"Year":   strconv.Itoa(agg.Year),
			"Total":  strconv.Itoa(agg.TotalStudents),
			"Male":   strconv.Itoa(agg.ByGender.Male),
			"Female": strconv.Itoa(agg.ByGender.Female),
			"Other":  strconv.Itoa(agg.ByGender.Other),
			"Grades": strconv.Itoa(len(agg.ByGrade)),
		})
	}
	title := fmt.Sprintf("Enrollment Summary (%d students)", stats.TotalStudents)
	return s.pdf.Render(data, title)
}
