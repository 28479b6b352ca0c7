// Package profiles provides the read-only PostgreSQL lookup of profile
// summaries used to decorate conversation and message responses.
package profiles

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/uniboe/messaging/internal/chat/models"
	"github.com/uniboe/messaging/internal/common"
	"github.com/uniboe/messaging/internal/dbx"
)

// PostgresRepository implements Repository over a dbx.DBTX.
type PostgresRepository struct {
	db dbx.DBTX
}

// NewPostgresRepository constructs a repository bound to the given DBTX.
func NewPostgresRepository(db dbx.DBTX) *PostgresRepository {
	return &PostgresRepository{db: db}
}

func (r *PostgresRepository) GetSummary(ctx context.Context, userID string) (*models.ProfileSummary, error) {
	query := `
		SELECT p.id, p.full_name, p.profile_picture_url, u.name
		FROM profiles p
		LEFT JOIN universities u ON u.id = p.university_id
		WHERE p.id = $1
	`

	var (
		summary    models.ProfileSummary
		pictureURL sql.NullString
		university sql.NullString
	)
	err := r.db.QueryRowContext(ctx, query, userID).Scan(
		&summary.ID, &summary.FullName, &pictureURL, &university,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, common.ErrorNotFound
		}
		return nil, fmt.Errorf("db error: %w", err)
	}

	if pictureURL.Valid {
		summary.ProfilePictureURL = &pictureURL.String
	}
	if university.Valid {
		summary.UniversityName = &university.String
	}
	return &summary, nil
}
