package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/brightmont/admissions-engine/internal/models"
)

// ApplicationRepository persists admission applications in a single wide
// table. Scalar fields map to columns; sub-objects, the documents map and
// the status history are JSONB columns.
type ApplicationRepository struct {
	db *sqlx.DB
}

// NewApplicationRepository constructs the repository.
func NewApplicationRepository(db *sqlx.DB) *ApplicationRepository {
	return &ApplicationRepository{db: db}
}

const applicationColumns = `email, application_id, status, submitted_at, last_updated,
    status_history, notes, personal, contact, parent, academic, documents, created_by, reviewed_by`

func scanApplication(row sqlx.ColScanner) (*models.Application, error) {
	var (
		app                                                    models.Application
		history, personal, contact, parent, academic, docsJSON []byte
	)
	if err := row.Scan(&app.Email, &app.ApplicationID, &app.Status, &app.SubmittedAt, &app.LastUpdated,
		&history, &app.Notes, &personal, &contact, &parent, &academic, &docsJSON,
		&app.CreatedBy, &app.ReviewedBy); err != nil {
		return nil, err
	}
	if err := unmarshalInto(history, &app.StatusHistory, "status history"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(personal, &app.Personal, "personal info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(contact, &app.Contact, "contact info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(parent, &app.Parent, "parent info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(academic, &app.Academic, "academic info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(docsJSON, &app.Documents, "documents"); err != nil {
		return nil, err
	}
	return &app, nil
}

// Get loads one application by applicant email.
func (r *ApplicationRepository) Get(ctx context.Context, email string) (*models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications WHERE email = $1`, applicationColumns)
	row := r.db.QueryRowxContext(ctx, query, email)
	app, err := scanApplication(row)
	if err != nil {
		return nil, translate(err, "get application")
	}
	return app, nil
}

// Upsert writes the whole record, creating it if absent (last write wins).
func (r *ApplicationRepository) Upsert(ctx context.Context, app *models.Application) error {
	history, err := jsonb(app.StatusHistory)
	if err != nil {
		return err
	}
	docs, err := jsonb(app.Documents)
	if err != nil {
		return err
	}
	const query = `INSERT INTO applications (email, application_id, status, submitted_at, last_updated,
        status_history, notes, personal, contact, parent, academic, documents, created_by, reviewed_by)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
        ON CONFLICT (email) DO UPDATE SET
            application_id = EXCLUDED.application_id,
            status = EXCLUDED.status,
            submitted_at = EXCLUDED.submitted_at,
            last_updated = EXCLUDED.last_updated,
            status_history = EXCLUDED.status_history,
            notes = EXCLUDED.notes,
            personal = EXCLUDED.personal,
            contact = EXCLUDED.contact,
            parent = EXCLUDED.parent,
            academic = EXCLUDED.academic,
            documents = EXCLUDED.documents,
            created_by = EXCLUDED.created_by,
            reviewed_by = EXCLUDED.reviewed_by`
	_, err = r.db.ExecContext(ctx, query, app.Email, app.ApplicationID, app.Status, app.SubmittedAt,
		app.LastUpdated, history, app.Notes, mustJSONB(app.Personal), mustJSONB(app.Contact),
		mustJSONB(app.Parent), mustJSONB(app.Academic), docs, app.CreatedBy, app.ReviewedBy)
	return translate(err, "upsert application")
}

// Patch merges only the supplied fields in one UPDATE statement; the
// statement's row lock is the per-key critical section.
func (r *ApplicationRepository) Patch(ctx context.Context, email string, patch models.ApplicationPatch) (*models.Application, error) {
	sets := []string{"last_updated = NOW()"}
	args := []interface{}{email}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if patch.Notes != nil {
		add("notes = $%d", *patch.Notes)
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

	query := fmt.Sprintf(`UPDATE applications SET %s WHERE email = $1 RETURNING %s`,
		strings.Join(sets, ", "), applicationColumns)
	row := r.db.QueryRowxContext(ctx, query, args...)
	app, err := scanApplication(row)
	if err != nil {
		return nil, translate(err, "patch application")
	}
	return app, nil
}

// Delete removes the record; absent keys report false without error.
func (r *ApplicationRepository) Delete(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM applications WHERE email = $1`, email)
	if err != nil {
		return false, translate(err, "delete application")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete application")
	}
	return affected > 0, nil
}

// Transition appends to the history and sets the status in one statement,
// so the audit trail and the status field can never be observed apart.
func (r *ApplicationRepository) Transition(ctx context.Context, email string, change models.StatusChange, notes *string) (*models.Application, error) {
	entry, err := jsonb(change)
	if err != nil {
		return nil, err
	}
	query := fmt.Sprintf(`UPDATE applications SET
            status = $2,
            status_history = COALESCE(status_history, '[]'::jsonb) || jsonb_build_array($3::jsonb),
            last_updated = $4,
            reviewed_by = CASE WHEN $5 <> '' THEN $5 ELSE reviewed_by END,
            notes = COALESCE($6, notes)
        WHERE email = $1 RETURNING %s`, applicationColumns)
	row := r.db.QueryRowxContext(ctx, query, email, change.Status, entry, change.Timestamp, change.By, notes)
	app, err := scanApplication(row)
	if err != nil {
		return nil, translate(err, "transition application")
	}
	return app, nil
}

// List returns every application, ordered by submission time.
func (r *ApplicationRepository) List(ctx context.Context) ([]models.Application, error) {
	query := fmt.Sprintf(`SELECT %s FROM applications ORDER BY submitted_at`, applicationColumns)
	rows, err := r.db.QueryxContext(ctx, query)
	if err != nil {
		return nil, translate(err, "list applications")
	}
	defer rows.Close() //nolint:errcheck

	var apps []models.Application
	for rows.Next() {
		app, err := scanApplication(rows)
		if err != nil {
			return nil, translate(err, "scan application")
		}
		apps = append(apps, *app)
	}
	return apps, translate(rows.Err(), "list applications")
}
