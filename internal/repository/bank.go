package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Evgen-Mutagen/atm/internal/model"
)

type BankRepository interface {
	Get(ctx context.Context, q Querier, name string) (*model.Bank, error)
	AddBalance(ctx context.Context, q Querier, name string, amount int64) error
}

type bankRepository struct{}

func NewBankRepository() BankRepository {
	return &bankRepository{}
}

func (r *bankRepository) Get(ctx context.Context, q Querier, name string) (*model.Bank, error) {
	var (
		bank        model.Bank
		description sql.NullString
	)
	query := `SELECT name, description, balance FROM bank WHERE name = ?`
	err := q.QueryRowContext(ctx, query, name).Scan(&bank.Name, &description, &bank.Balance)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: "get bank", Err: err}
	}
	bank.Description = description.String
	return &bank, nil
}

func (r *bankRepository) AddBalance(ctx context.Context, q Querier, name string, amount int64) error {
	res, err := q.ExecContext(ctx, `UPDATE bank SET balance = balance + ? WHERE name = ?`, amount, name)
	if err != nil {
		return &StoreError{Op: "update bank balance", Err: err}
	}
	// A missing ledger row means the schema was never seeded.
	missing := &StoreError{Op: "update bank balance", Err: errors.New("ledger row " + name + " is missing")}
	return expectOneRow(res, missing, "update bank balance")
}
