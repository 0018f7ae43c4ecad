package postgres

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/codetutor/tutor-api/internal/core/domain"
)

const accountColumns = `id, username, email, password_hash, first_name, last_name, dob,
       title, avatar_url, xp, level, api_key, created_at, updated_at`

type AccountRepository struct {
	db DBTX
}

func NewAccountRepository(db DBTX) *AccountRepository {
	return &AccountRepository{db: db}
}

func (r *AccountRepository) Create(ctx context.Context, a *domain.Account) error {
	query := `INSERT INTO accounts (` + accountColumns + `)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.db.ExecContext(ctx, query,
		a.ID, a.Handle, a.Contact, a.PasswordHash, a.FirstName, a.LastName, a.DateOfBirth,
		a.Title, a.AvatarURL, a.XP, a.Level, a.Vault, a.CreatedAt, a.UpdatedAt)
	if err != nil {
		switch violatedConstraint(err) {
		case "uniq_email":
			return domain.ErrContactTaken
		case "uniq_username":
			return domain.ErrHandleTaken
		}
		return fmt.Errorf("insert account: %w", err)
	}
	return nil
}

func (r *AccountRepository) FindByHandle(ctx context.Context, handle string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE username = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, handle))
}

func (r *AccountRepository) FindByContact(ctx context.Context, contact string) (*domain.Account, error) {
	query := `SELECT ` + accountColumns + ` FROM accounts WHERE email = $1`
	return scanAccount(r.db.QueryRowContext(ctx, query, contact))
}

func (r *AccountRepository) SetVault(ctx context.Context, accountID, blob string, now time.Time) error {
	res, err := r.db.ExecContext(ctx, `UPDATE accounts SET api_key = $2, updated_at = $3 WHERE id = $1`, accountID, blob, now)
	if err != nil {
		return fmt.Errorf("set vault: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("set vault: %w", err)
	}
	if n == 0 {
		return domain.ErrAccountNotFound
	}
	return nil
}

// UpdateProfile leaves a column unchanged when its patch field is nil.
func (r *AccountRepository) UpdateProfile(ctx context.Context, accountID string, p domain.ProfilePatch, now time.Time) (*domain.Account, error) {
	query := `UPDATE accounts SET
	              first_name = COALESCE($2::text, first_name),
	              last_name  = COALESCE($3::text, last_name),
	              dob        = COALESCE($4::text, dob),
	              title      = COALESCE($5::text, title),
	              avatar_url = COALESCE($6::text, avatar_url),
	              updated_at = $7
	          WHERE id = $1
	          RETURNING ` + accountColumns

	return scanAccount(r.db.QueryRowContext(ctx, query,
		accountID, p.FirstName, p.LastName, p.DateOfBirth, p.Title, p.AvatarURL, now))
}

func scanAccount(row *sql.Row) (*domain.Account, error) {
	var a domain.Account
	err := row.Scan(&a.ID, &a.Handle, &a.Contact, &a.PasswordHash, &a.FirstName, &a.LastName,
		&a.DateOfBirth, &a.Title, &a.AvatarURL, &a.XP, &a.Level, &a.Vault, &a.CreatedAt, &a.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("scan account: %w", err)
	}
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
