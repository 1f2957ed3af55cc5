package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jmoiron/sqlx"

	"github.com/brightmont/admissions-engine/internal/models"
)

// ProfileRepository persists identity profiles keyed by email.
type ProfileRepository struct {
	db *sqlx.DB
}

// NewProfileRepository constructs the repository.
func NewProfileRepository(db *sqlx.DB) *ProfileRepository {
	return &ProfileRepository{db: db}
}

const profileColumns = `email, full_name, phone, address, guardian, emergency, academic, created_at, updated_at`

func scanProfile(row sqlx.ColScanner) (*models.Profile, error) {
	var (
		p                            models.Profile
		guardian, emergency, academic []byte
	)
	if err := row.Scan(&p.Email, &p.FullName, &p.Phone, &p.Address,
		&guardian, &emergency, &academic, &p.CreatedAt, &p.UpdatedAt); err != nil {
		return nil, err
	}
	if err := unmarshalInto(guardian, &p.Guardian, "guardian info"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(emergency, &p.Emergency, "emergency contact"); err != nil {
		return nil, err
	}
	if err := unmarshalInto(academic, &p.Academic, "academic info"); err != nil {
		return nil, err
	}
	return &p, nil
}

// Get loads one profile by email.
func (r *ProfileRepository) Get(ctx context.Context, email string) (*models.Profile, error) {
	query := fmt.Sprintf(`SELECT %s FROM profiles WHERE email = $1`, profileColumns)
	row := r.db.QueryRowxContext(ctx, query, email)
	p, err := scanProfile(row)
	if err != nil {
		return nil, translate(err, "get profile")
	}
	return p, nil
}

// Upsert writes the whole profile, creating it on first write.
func (r *ProfileRepository) Upsert(ctx context.Context, p *models.Profile) error {
	const query = `INSERT INTO profiles (email, full_name, phone, address, guardian, emergency, academic, created_at, updated_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
        ON CONFLICT (email) DO UPDATE SET
            full_name = EXCLUDED.full_name,
            phone = EXCLUDED.phone,
            address = EXCLUDED.address,
            guardian = EXCLUDED.guardian,
            emergency = EXCLUDED.emergency,
            academic = EXCLUDED.academic,
            updated_at = EXCLUDED.updated_at`
	_, err := r.db.ExecContext(ctx, query, p.Email, p.FullName, p.Phone, p.Address,
		mustJSONB(p.Guardian), mustJSONB(p.Emergency), mustJSONB(p.Academic), p.CreatedAt, p.UpdatedAt)
	return translate(err, "upsert profile")
}

// Patch merges only the supplied fields in one UPDATE statement.
func (r *ProfileRepository) Patch(ctx context.Context, email string, patch models.ProfilePatch) (*models.Profile, error) {
	sets := []string{"updated_at = NOW()"}
	args := []interface{}{email}

	add := func(clause string, value interface{}) {
		args = append(args, value)
		sets = append(sets, fmt.Sprintf(clause, len(args)))
	}

	if patch.FullName != nil {
		add("full_name = $%d", *patch.FullName)
	}
	if patch.Phone != nil {
		add("phone = $%d", *patch.Phone)
	}
	if patch.Address != nil {
		add("address = $%d", *patch.Address)
	}
	if patch.Guardian != nil {
		add("guardian = $%d", mustJSONB(*patch.Guardian))
	}
	if patch.Emergency != nil {
		add("emergency = $%d", mustJSONB(*patch.Emergency))
	}
	if patch.Academic != nil {
		add("academic = $%d", mustJSONB(*patch.Academic))
	}

	query := fmt.Sprintf(`UPDATE profiles SET %s WHERE email = $1 RETURNING %s`,
		strings.Join(sets, ", "), profileColumns)
	row := r.db.QueryRowxContext(ctx, query, args...)
	p, err := scanProfile(row)
	if err != nil {
		return nil, translate(err, "patch profile")
	}
	return p, nil
}

// Delete removes the record; absent keys report false without error.
func (r *ProfileRepository) Delete(ctx context.Context, email string) (bool, error) {
	res, err := r.db.ExecContext(ctx, `DELETE FROM profiles WHERE email = $1`, email)
	if err != nil {
		return false, translate(err, "delete profile")
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return false, translate(err, "delete profile")
	}
	return affected > 0, nil
}
