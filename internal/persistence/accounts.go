package persistence

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/lewisedginton/account_service/internal/accounts"
	"github.com/lewisedginton/account_service/internal/persistence/sqlc"
	"github.com/lewisedginton/account_service/pkg/logger"
)

// AccountRepository implements accounts.Repository on PostgreSQL
type AccountRepository struct {
	queries sqlc.Querier
	logger  logger.Logger
}

var _ accounts.Repository = (*AccountRepository)(nil)

// NewAccountRepository creates a repository using db for every query
func NewAccountRepository(db sqlc.DBTX, log logger.Logger) *AccountRepository {
	return &AccountRepository{
		queries: sqlc.New(db),
		logger:  log,
	}
}

func (r *AccountRepository) Create(ctx context.Context, a *accounts.Account) error {
	err := r.queries.CreateAccount(ctx, sqlc.CreateAccountParams{
		ID:          pgUUID(a.ID),
		Name:        a.Name,
		Email:       a.Email,
		Address:     a.Address,
		PhoneNumber: pgText(a.PhoneNumber),
		DateJoined:  pgtype.Date{Time: a.DateJoined, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("create account: %w", err)
	}
	return nil
}

func (r *AccountRepository) Get(ctx context.Context, id accounts.ID) (*accounts.Account, error) {
	row, err := r.queries.GetAccount(ctx, pgUUID(id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, accounts.ErrNotFound
		}
		return nil, fmt.Errorf("get account %s: %w", id, err)
	}

	account := toAccount(sqlc.ListAccountsRow(row))
	return &account, nil
}

func (r *AccountRepository) List(ctx context.Context, f accounts.ListFilter) ([]accounts.Account, int, error) {
	total, err := r.queries.CountAccounts(ctx, f.Name)
	if err != nil {
		return nil, 0, fmt.Errorf("count accounts: %w", err)
	}

	rows, err := r.queries.ListAccounts(ctx, sqlc.ListAccountsParams{
		Name:    f.Name,
		MaxRows: pgtype.Int4{Int32: clampInt32(f.Limit), Valid: f.Limit > 0},
		Skip:    clampInt32(f.Offset),
	})
	if err != nil {
		return nil, 0, fmt.Errorf("list accounts: %w", err)
	}

	result := make([]accounts.Account, 0, len(rows))
	for _, row := range rows {
		result = append(result, toAccount(row))
	}
	return result, int(total), nil
}

func (r *AccountRepository) Update(ctx context.Context, a *accounts.Account) error {
	affected, err := r.queries.UpdateAccount(ctx, sqlc.UpdateAccountParams{
		ID:          pgUUID(a.ID),
		Name:        a.Name,
		Email:       a.Email,
		Address:     a.Address,
		PhoneNumber: pgText(a.PhoneNumber),
		DateJoined:  pgtype.Date{Time: a.DateJoined, Valid: true},
	})
	if err != nil {
		return fmt.Errorf("update account %s: %w", a.ID, err)
	}
	if affected == 0 {
		return accounts.ErrNotFound
	}
	return nil
}

func (r *AccountRepository) Delete(ctx context.Context, id accounts.ID) error {
	if err := r.queries.DeleteAccount(ctx, pgUUID(id)); err != nil {
		return fmt.Errorf("delete account %s: %w", id, err)
	}
	return nil
}

func toAccount(row sqlc.ListAccountsRow) accounts.Account {
	return accounts.Account{
		ID:          accounts.IDFromUUID(uuid.UUID(row.ID.Bytes)),
		Name:        row.Name,
		Email:       row.Email,
		Address:     row.Address,
		PhoneNumber: row.PhoneNumber.String,
		DateJoined:  row.DateJoined.Time,
	}
}

func pgUUID(id accounts.ID) pgtype.UUID {
	return pgtype.UUID{Bytes: id.UUID(), Valid: true}
}

func pgText(s string) pgtype.Text {
	return pgtype.Text{String: s, Valid: s != ""}
}

func clampInt32(n int) int32 {
	return int32(min(max(n, 0), math.MaxInt32))
}
