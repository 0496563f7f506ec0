package postgres

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/elmdemo/marketplace/internal/core/domain"
)

const accountColumns = `id, username, email, password_hash, status, role, created_at, updated_at`

// AccountRepository implements ports.AccountRepository on PostgreSQL.
type AccountRepository struct {
	pool *pgxpool.Pool
}

func NewAccountRepository(pool *pgxpool.Pool) *AccountRepository {
	return &AccountRepository{pool: pool}
}

func (r *AccountRepository) FindByID(ctx context.Context, id int64) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE id = $1`, id)
}

func (r *AccountRepository) FindByUsername(ctx context.Context, username string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE username = $1`, username)
}

func (r *AccountRepository) FindByEmail(ctx context.Context, email string) (*domain.Account, error) {
	return r.findOne(ctx, `SELECT `+accountColumns+` FROM accounts WHERE email = $1`, email)
}

func (r *AccountRepository) findOne(ctx context.Context, query string, arg any) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	a, err := scanAccount(r.pool.QueryRow(ctx, query, arg))
	if err != nil {
		if isNotFound(err) {
			return nil, domain.ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return a, nil
}

// Save inserts the account when it has no id and updates it otherwise.
// Unique violations on username or email surface as domain.ErrAccountAlreadyExists.
func (r *AccountRepository) Save(ctx context.Context, account *domain.Account) (*domain.Account, error) {
	ctx, cancel := context.WithTimeout(ctx, defaultTimeout)
	defer cancel()

	var row pgx.Row
	if account.ID == 0 {
		row = r.pool.QueryRow(ctx, `
			INSERT INTO accounts (username, email, password_hash, status, role, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING `+accountColumns,
			account.Username, account.Email, account.PasswordHash,
			string(account.Status), string(account.Role), account.CreatedAt, account.UpdatedAt,
		)
	} else {
		row = r.pool.QueryRow(ctx, `
			UPDATE accounts
			SET username = $2, email = $3, password_hash = $4, status = $5, role = $6, updated_at = $7
			WHERE id = $1
			RETURNING `+accountColumns,
			account.ID, account.Username, account.Email, account.PasswordHash,
			string(account.Status), string(account.Role), account.UpdatedAt,
		)
	}

	saved, err := scanAccount(row)
	switch {
	case err == nil:
		return saved, nil
	case isDuplicateKey(err):
		return nil, domain.ErrAccountAlreadyExists
	case isNotFound(err):
		return nil, domain.ErrAccountNotFound
	default:
		return nil, fmt.Errorf("save account: %w", err)
	}
}

func scanAccount(row pgx.Row) (*domain.Account, error) {
	var (
		a            domain.Account
		status, role string
	)
	if err := row.Scan(&a.ID, &a.Username, &a.Email, &a.PasswordHash, &status, &role, &a.CreatedAt, &a.UpdatedAt); err != nil {
		return nil, err
	}
	a.Status = domain.Status(status)
	a.Role = domain.Role(role)
	a.CreatedAt = a.CreatedAt.UTC()
	a.UpdatedAt = a.UpdatedAt.UTC()
	return &a, nil
}
