package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/brightmont/admissions-engine/internal/models"
)

// AggregateRepository persists the derived per-year enrollment aggregates.
// The aggregate is replaced wholesale on every update; callers serialize
// updates per year.
type AggregateRepository struct {
	db *sqlx.DB
}

// NewAggregateRepository constructs the repository.
func NewAggregateRepository(db *sqlx.DB) *AggregateRepository {
	return &AggregateRepository{db: db}
}

const aggregateColumns = `year, total_students, by_grade, by_gender, student_ids, updated_at`

func scanAggregate(row sqlx.ColScanner) (*models.EnrollmentAggregate, error) {
	var (
		agg                          models.EnrollmentAggregate
		byGrade, byGender, studentIDs []byte
	)
	if err := row.Scan(&agg.Year, &agg.TotalStudents, &byGrade, &byGender, &studentIDs, &agg.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalInto(byGrade, &agg.ByGrade, "grade counts"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(byGender, &agg.ByGender, "gender counts"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(studentIDs, &agg.StudentIDs, "student ids"); err != nil {
		return nil, err
	}
	return &agg, nil
}

// Get loads the aggregate for one academic year.
func (r *AggregateRepository) Get(ctx context.Context, year int) (*models.EnrollmentAggregate, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollment_aggregates WHERE year = $1`, aggregateColumns)
	row := r.db.QueryRowxContext(ctx, query, year)
	agg, err := scanAggregate(row)
	if err != nil {
		return nil, translate(err, "get aggregate")
	}
	return agg, nil
}

// Upsert replaces the year's aggregate wholesale.
func (r *AggregateRepository) Upsert(ctx context.Context, agg *models.EnrollmentAggregate) error {
	byGrade, err := jsonb(agg.ByGrade)
	if err != nil {
		return err
	}
	ids := []byte("[]")
	if agg.StudentIDs != nil {
		if ids, err = json.Marshal(agg.StudentIDs); err != nil {
			return fmt.Errorf("marshal student ids: %w", err)
		}
	}
	const query = `INSERT INTO enrollment_aggregates (year, total_students, by_grade, by_gender, student_ids, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6)
        ON CONFLICT (year) DO UPDATE SET
            total_students = EXCLUDED.total_students,
            by_grade = EXCLUDED.by_grade,
            by_gender = EXCLUDED.by_gender,
            student_ids = EXCLUDED.student_ids,
            updated_at = EXCLUDED.updated_at`
	_, err = r.db.ExecContext(ctx, query, agg.Year, agg.TotalStudents, byGrade,
		mustJSONB(agg.ByGender), ids, agg.UpdatedAt)
	return translate(err, "upsert aggregate")
}

// List returns all per-year aggregates, oldest year first.
func (r *AggregateRepository) List(ctx context.Context) ([]models.EnrollmentAggregate, error) {
	query := fmt.Sprintf(`SELECT %s FROM enrollment_aggregates ORDER BY year`, aggregateColumns)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, translate(err, "list aggregates")
	}
	defer rows.Close() //nolint:errcheck

	var aggs []models.EnrollmentAggregate
	for rows.Next() {
		agg, err := scanAggregate(rows)
		if err != nil {
			return nil, translate(err, "scan aggregate")
		}
		aggs = append(aggs, *agg)
	}
	return aggs, translate(rows.Err(), "list aggregates")
}
