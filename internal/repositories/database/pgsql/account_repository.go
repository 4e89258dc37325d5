package pgsql

import (
	"context"

	"github.com/SscSPs/movie_review_app/internal/core/domain"
	portsrepo "github.com/SscSPs/movie_review_app/internal/core/ports/repositories"
	"github.com/SscSPs/movie_review_app/internal/models"
	"github.com/SscSPs/movie_review_app/internal/utils/mapping"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const (
	accountColumns       = `account_id, email, display_name, password_hash, profile_image_url, externally_authenticated, created_at`
	accountSelectColumns = `account_id::text AS account_id, email, display_name, password_hash, profile_image_url, externally_authenticated, created_at`
)

type PgxAccountRepository struct {
	BaseRepository
}

// newPgxAccountRepository creates a new repository for account data.
func newPgxAccountRepository(pool *pgxpool.Pool) *PgxAccountRepository {
	return &PgxAccountRepository{BaseRepository: BaseRepository{Pool: pool}}
}

// Ensure PgxAccountRepository implements portsrepo.AccountRepositoryFacade
var _ portsrepo.AccountRepositoryFacade = (*PgxAccountRepository)(nil)

// SaveAccount inserts a new account. The accounts_email_key constraint rejects a
// second row for the same email with apperrors.ErrDuplicate.
func (r *PgxAccountRepository) SaveAccount(ctx context.Context, account domain.Account) error {
	modelAcc := mapping.ToModelAccount(account)

	query := `
		INSERT INTO accounts (` + accountColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7);
	`
	_, err := r.Pool.Exec(ctx, query,
		modelAcc.AccountID,
		modelAcc.Email,
		modelAcc.DisplayName,
		modelAcc.PasswordHash,
		modelAcc.ProfileImageURL,
		modelAcc.ExternallyAuthenticated,
		modelAcc.CreatedAt,
	)
	return r.translateError(err, "save account")
}

// FindAccountByID retrieves an account by its ID.
func (r *PgxAccountRepository) FindAccountByID(ctx context.Context, accountID string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + ` FROM accounts WHERE account_id::text = $1;`
	return r.findOne(ctx, "find account by ID", query, accountID)
}

// FindAccountByEmail retrieves an account by its normalized email.
func (r *PgxAccountRepository) FindAccountByEmail(ctx context.Context, email string) (*domain.Account, error) {
	query := `SELECT ` + accountSelectColumns + ` FROM accounts WHERE email = $1;`
	return r.findOne(ctx, "find account by email", query, domain.NormalizeEmail(email))
}

func (r *PgxAccountRepository) findOne(ctx context.Context, op, query string, arg any) (*domain.Account, error) {
	rows, err := r.Pool.Query(ctx, query, arg)
	if err != nil {
		return nil, r.translateError(err, op)
	}
	modelAcc, err := pgx.CollectOneRow(rows, pgx.RowToStructByName[models.Account])
	if err != nil {
		return nil, r.translateError(err, op)
	}
	domainAcc := mapping.ToDomainAccount(modelAcc)
	return &domainAcc, nil
}
