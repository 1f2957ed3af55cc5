package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/brightmont/admissions-engine/internal/models"
)

// StudentRepository persists enrolled students in a single wide table with
// JSONB columns for the sub-objects and the parallel document maps.
type StudentRepository struct {
	db *sqlx.DB
}

// NewStudentRepository constructs the repository.
func NewStudentRepository(db *sqlx.DB) *StudentRepository {
	return &StudentRepository{db: db}
}

const studentColumns = `student_id, application_id, status, year, enrolled_at,
    personal, contact, parent, academic, documents, verification_status`

func scanStudent(row sqlx.ColScanner) (*models.Student, error) {
	var (
		st                                                       models.Student
		personal, contact, parent, academic, docsJSON, verifJSON []byte
	)
	if err := row.Scan(&st.StudentID, &st.ApplicationID, &st.Status, &st.Year, &st.EnrolledAt,
		&personal, &contact, &parent, &academic, &docsJSON, &verifJSON); err != nil {
		return nil, err
	}
	if err := unmarshalInto(personal, &st.Personal, "personal info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(contact, &st.Contact, "contact info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(parent, &st.Parent, "parent info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(academic, &st.Academic, "academic info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(docsJSON, &st.Documents, "documents"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(verifJSON, &st.VerificationStatus, "verification status"); err != nil {
		return nil, err
	}
	return &st, nil
}

// Get loads one student by ID.
func (r *StudentRepository) Get(ctx context.Context, studentID string) (*models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE student_id = $1`, studentColumns)
	row := r.db.QueryRowxContext(ctx, query, studentID)
	st, err := scanStudent(row)
	if err != nil {
		return nil, translate(err, "get student")
	}
	return st, nil
}

// Upsert writes the whole student record.
func (r *StudentRepository) Upsert(ctx context.Context, st *models.Student) error {
	docs, err := jsonb(st.Documents)
	if err != nil {
		return err
	}
	verif, err := jsonb(st.VerificationStatus)
	if err != nil {
		return err
	}
	const query = `INSERT INTO students (student_id, application_id, status, year, enrolled_at,
        personal, contact, parent, academic, documents, verification_status)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11)
        ON CONFLICT (student_id) DO UPDATE SET
            application_id = EXCLUDED.application_id,
            status = EXCLUDED.status,
            year = EXCLUDED.year,
            enrolled_at = EXCLUDED.enrolled_at,
            personal = EXCLUDED.personal,
            contact = EXCLUDED.contact,
            parent = EXCLUDED.parent,
            academic = EXCLUDED.academic,
            documents = EXCLUDED.documents,
            verification_status = EXCLUDED.verification_status`
	_, err = r.db.ExecContext(ctx, query, st.StudentID, st.ApplicationID, st.Status, st.Year,
		st.EnrolledAt, mustJSONB(st.Personal), mustJSONB(st.Contact), mustJSONB(st.Parent),
		mustJSONB(st.Academic), docs, verif)
	return translate(err, "upsert student")
}

// Patch merges only the supplied fields. Newly patched document types gain
// a false verification entry unless the patch sets one explicitly, keeping
// the two maps parallel.
func (r *StudentRepository) Patch(ctx context.Context, studentID string, patch models.StudentPatch) (*models.Student, error) {
	var sets []string
	args := []interface{}{studentID}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if patch.Status != nil {
		add("status = $%d", *patch.Status)
	}
	if patch.Personal != nil {
		add("personal = $%d", mustJSONB(*patch.Personal))
	}
	if patch.Contact != nil {
		add("contact = $%d", mustJSONB(*patch.Contact))
	}
	if patch.Parent != nil {
		add("parent = $%d", mustJSONB(*patch.Parent))
	}
	if patch.Academic != nil {
		add("academic = $%d", mustJSONB(*patch.Academic))
	}
	if len(patch.Documents) > 0 {
		docs, err := jsonb(patch.Documents)
		if err != nil {
			return nil, err
		}
		add("documents = COALESCE(documents, '{}'::jsonb) || $%d::jsonb", docs)
	}
	if implied := patch.ImpliedVerification(); len(implied) > 0 || len(patch.VerificationStatus) > 0 {
		impliedJSON, err := jsonb(implied)
		if err != nil {
			return nil, err
		}
		explicitJSON, err := jsonb(patch.VerificationStatus)
		if err != nil {
			return nil, err
		}
		args = append(args, impliedJSON, explicitJSON)
		sets = append(sets, fmt.Sprintf(
			"verification_status = ($%d::jsonb || COALESCE(verification_status, '{}'::jsonb)) || $%d::jsonb",
			len(args)-1, len(args)))
	}

	if len(sets) == 0 {
		return r.Get(ctx, studentID)
	}

	query := fmt.Sprintf(`UPDATE students SET %s WHERE student_id = $1 RETURNING %s`,
		strings.Join(sets, ", "), studentColumns)
	row := r.db.QueryRowxContext(ctx, query, args...)
	st, err := scanStudent(row)
	if err != nil {
		return nil, translate(err, "patch student")
	}
	return st, nil
}

// Delete removes the record; absent keys report false without error.
func (r *StudentRepository) Delete(ctx context.Context, studentID string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM students WHERE student_id = $1`, studentID)
	if err != nil {
		return false, translate(err, "delete student")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete student")
	}
	return affected > 0, nil
}

// Count returns the number of student records.
func (r *StudentRepository) Count(ctx context.Context) (int, error) {
	var total int
	if err := r.db.GetContext(ctx, &total, `SELECT COUNT(*) FROM students`); err != nil {
		return 0, translate(err, "count students")
	}
	return total, nil
}

// List returns every student ordered by ID.
func (r *StudentRepository) List(ctx context.Context) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students ORDER BY student_id`, studentColumns)
	return r.selectStudents(ctx, query)
}

// ListByYear returns the students enrolled in the given academic year,
// ordered by ID. IDs are assigned monotonically, so this order matches
// enrollment order.
func (r *StudentRepository) ListByYear(ctx context.Context, year int) ([]models.Student, error) {
	query := fmt.Sprintf(`SELECT %s FROM students WHERE year = $1 ORDER BY student_id`, studentColumns)
	return r.selectStudents(ctx, query, year)
}

func (r *StudentRepository) selectStudents(ctx context.Context, query string, args ...interface{}) ([]models.Student, error) {
	rows, err := r.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, translate(err, "list students")
	}
	defer rows.Close() //nolint:errcheck

	var students []models.Student
	for rows.Next() {
		st, err := scanStudent(rows)
		if err != nil {
			return nil, translate(err, "scan student")
		}
		students = append(students, *st)
	}
	return students, translate(rows.Err(), "list students")
}
