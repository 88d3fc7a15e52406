package repositories

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/artistpage/internal/models"
	"github.com/desertthunder/artistpage/internal/shared"
)

// SessionRepository stores the session in the SQLite sessions table.
type SessionRepository struct {
	db *sql.DB
}

// NewSessionRepository creates a [SessionRepository]. The sessions migration must already be applied.
func NewSessionRepository(db *sql.DB) *SessionRepository {
	return &SessionRepository{db: db}
}

// Load returns the most recent stored session.
func (r *SessionRepository) Load(ctx context.Context) (*models.Session, error) {
	query := `
		SELECT id, user_id, username, email, scheme, credential, created_at
		FROM sessions
		ORDER BY created_at DESC
		LIMIT 1
	`

	var (
		id         string
		identity   models.Identity
		scheme     string
		credential string
		createdAt  time.Time
	)

	err := r.db.QueryRowContext(ctx, query).Scan(
		&id, &identity.ID, &identity.Username, &identity.Email, &scheme, &credential, &createdAt,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, shared.ErrNoSession
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query session: %w", err)
	}

	session := models.NewSession(id, identity, scheme, credential)
	session.SetCreatedAt(createdAt)

	if err := session.Validate(); err != nil {
		if clearErr := r.Clear(ctx); clearErr != nil {
			return nil, fmt.Errorf("failed to discard invalid session: %w", clearErr)
		}
		return nil, fmt.Errorf("%w: stored session discarded: %v", shared.ErrNoSession, err)
	}

	return session, nil
}

// Save replaces any stored session with session.
func (r *SessionRepository) Save(ctx context.Context, session *models.Session) error {
	if session == nil {
		return fmt.Errorf("%w: session is nil", shared.ErrInvalidInput)
	}
	if err := session.Validate(); err != nil {
		return fmt.Errorf("validation failed: %w", err)
	}

	identity := session.Identity()

	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("failed to clear sessions: %w", err)
		}

		query := `
			INSERT INTO sessions (id, user_id, username, email, scheme, credential, created_at)
			VALUES (?, ?, ?, ?, ?, ?, ?)
		`
		_, err := tx.ExecContext(ctx, query,
			session.ID(), identity.ID, identity.Username, identity.Email,
			session.Scheme(), session.Credential(), session.CreatedAt().UTC(),
		)
		if err != nil {
			return fmt.Errorf("failed to insert session: %w", err)
		}
		return nil
	})
}

// Clear deletes every stored session. Clearing an empty table is not an error.
func (r *SessionRepository) Clear(ctx context.Context) error {
	return withTx(ctx, r.db, func(tx *sql.Tx) error {
		if _, err := tx.ExecContext(ctx, `DELETE FROM sessions`); err != nil {
			return fmt.Errorf("failed to delete sessions: %w", err)
		}
		return nil
	})
}
