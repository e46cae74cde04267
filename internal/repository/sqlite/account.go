package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/jwalitptl/clinic-core/internal/model"
	"github.com/jwalitptl/clinic-core/internal/repository"
	apperrors "github.com/jwalitptl/clinic-core/pkg/errors"
)

type accountRepository struct {
	store *Store
}

func NewAccountRepository(store *Store) repository.AccountRepository {
	return &accountRepository{store: store}
}

const accountColumns = `user_id, username, password_digest, role, full_name, email, phone, is_active, created_at`

func (r *accountRepository) Create(ctx context.Context, account *model.Account) (int64, error) {
	account.CreatedAt = time.Now().UTC()

	var id int64
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM users WHERE username = ?`, account.Username); err != nil {
			return persistence(err)
		}
		if n > 0 {
			return apperrors.NewConflict("username already exists")
		}

		res, err := tx.ExecContext(ctx,
			`INSERT INTO users (username, password_digest, role, full_name, email, phone, is_active, created_at)
			 VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
			account.Username, account.PasswordDigest, account.Role,
			account.FullName, account.Email, account.Phone, account.IsActive, account.CreatedAt)
		if err != nil {
			return persistence(err)
		}
		id, err = res.LastInsertId()
		if err != nil {
			return persistence(err)
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	account.ID = id
	return id, nil
}

func (r *accountRepository) Get(ctx context.Context, id int64) (*model.Account, error) {
	var account model.Account
	err := r.store.Get(ctx, &account,
		`SELECT `+accountColumns+` FROM users WHERE user_id = ?`, id)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

func (r *accountRepository) GetByUsername(ctx context.Context, username string) (*model.Account, error) {
	var account model.Account
	err := r.store.Get(ctx, &account,
		`SELECT `+accountColumns+` FROM users WHERE username = ?`, username)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// GetByCredentials matches username, digest and the active flag in a single
// lookup so a wrong password and an inactive account are indistinguishable
// to the caller.
func (r *accountRepository) GetByCredentials(ctx context.Context, username, digest string) (*model.Account, error) {
	var account model.Account
	err := r.store.Get(ctx, &account,
		`SELECT `+accountColumns+` FROM users
		 WHERE username = ? AND password_digest = ? AND is_active = 1`, username, digest)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, apperrors.NewNotFound("account")
	}
	if err != nil {
		return nil, err
	}
	return &account, nil
}

// ReplaceDigest swaps the stored digest only if oldDigest still matches,
// verified and written in one transaction. Returns false without writing on
// a mismatch.
func (r *accountRepository) ReplaceDigest(ctx context.Context, id int64, oldDigest, newDigest string) (bool, error) {
	var replaced bool
	err := r.store.Transact(ctx, func(tx *sqlx.Tx) error {
		var n int
		if err := tx.GetContext(ctx, &n,
			`SELECT COUNT(*) FROM users WHERE user_id = ? AND password_digest = ?`, id, oldDigest); err != nil {
			return persistence(err)
		}
		if n == 0 {
			return nil
		}

		res, err := tx.ExecContext(ctx,
			`UPDATE users SET password_digest = ? WHERE user_id = ?`, newDigest, id)
		if err != nil {
			return persistence(err)
		}
		rows, err := res.RowsAffected()
		if err != nil {
			return persistence(err)
		}
		replaced = rows > 0
		return nil
	})
	return replaced, err
}

func (r *accountRepository) UpdateProfile(ctx context.Context, account *model.Account) error {
	rows, err := r.store.Mutate(ctx,
		`UPDATE users SET full_name = ?, email = ?, phone = ? WHERE user_id = ?`,
		account.FullName, account.Email, account.Phone, account.ID)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("account")
	}
	return nil
}

// Deactivate soft-disables the account; accounts are never hard-deleted.
func (r *accountRepository) Deactivate(ctx context.Context, id int64) error {
	rows, err := r.store.Mutate(ctx,
		`UPDATE users SET is_active = 0 WHERE user_id = ?`, id)
	if err != nil {
		return err
	}
	if rows == 0 {
		return apperrors.NewNotFound("account")
	}
	return nil
}

func (r *accountRepository) List(ctx context.Context) ([]*model.Account, error) {
	var accounts []*model.Account
	err := r.store.Select(ctx, &accounts,
		`SELECT `+accountColumns+` FROM users ORDER BY username`)
	return accounts, err
}
