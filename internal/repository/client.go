package repository

import (
	"context"
	"database/sql"
	"errors"

	"github.com/Evgen-Mutagen/atm/internal/model"
)

type ClientRepository interface {
	Create(ctx context.Context, q Querier, client *model.Client) error
	GetByPhone(ctx context.Context, q Querier, phone string) (*model.Client, error)
	GetByID(ctx context.Context, q Querier, id int64) (*model.Client, error)
	AddBalance(ctx context.Context, q Querier, id int64, amount int64) error
	Debit(ctx context.Context, q Querier, id int64, amount int64) error
}

type clientRepository struct{}

func NewClientRepository() ClientRepository {
	return &clientRepository{}
}

func (r *clientRepository) Create(ctx context.Context, q Querier, client *model.Client) error {
	query := `INSERT INTO client (name, age, sex, number, pin, balance) VALUES (?, ?, ?, ?, ?, ?)`
	res, err := q.ExecContext(ctx, query,
		client.Name,
		client.Age,
		int(client.Sex),
		client.Phone,
		client.PinHash,
		client.Balance,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return ErrDuplicate
		}
		return &StoreError{Op: "insert client", Err: err}
	}

	id, err := res.LastInsertId()
	if err != nil {
		return &StoreError{Op: "read client id", Err: err}
	}
	client.ID = id
	return nil
}

func (r *clientRepository) GetByPhone(ctx context.Context, q Querier, phone string) (*model.Client, error) {
	query := `SELECT id, name, age, sex, number, pin, balance FROM client WHERE number = ?`
	return scanClient(q.QueryRowContext(ctx, query, phone), "get client by phone")
}

func (r *clientRepository) GetByID(ctx context.Context, q Querier, id int64) (*model.Client, error) {
	query := `SELECT id, name, age, sex, number, pin, balance FROM client WHERE id = ?`
	return scanClient(q.QueryRowContext(ctx, query, id), "get client by id")
}

func (r *clientRepository) AddBalance(ctx context.Context, q Querier, id int64, amount int64) error {
	res, err := q.ExecContext(ctx, `UPDATE client SET balance = balance + ? WHERE id = ?`, amount, id)
	if err != nil {
		return &StoreError{Op: "update client balance", Err: err}
	}
	return expectOneRow(res, ErrNotFound, "update client balance")
}

// Debit subtracts amount only when the balance covers it.
func (r *clientRepository) Debit(ctx context.Context, q Querier, id int64, amount int64) error {
	query := `UPDATE client SET balance = balance - ? WHERE id = ? AND balance >= ?`
	res, err := q.ExecContext(ctx, query, amount, id, amount)
	if err != nil {
		return &StoreError{Op: "debit client", Err: err}
	}
	return expectOneRow(res, ErrInsufficientFunds, "debit client")
}

func scanClient(row *sql.Row, op string) (*model.Client, error) {
	var (
		client model.Client
		age    sql.NullInt64
		sex    int
	)
	err := row.Scan(
		&client.ID,
		&client.Name,
		&age,
		&sex,
		&client.Phone,
		&client.PinHash,
		&client.Balance,
	)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, &StoreError{Op: op, Err: err}
	}
	client.Age = int(age.Int64)
	client.Sex = model.Sex(sex)
	return &client, nil
}

func expectOneRow(res sql.Result, zeroRows error, op string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return &StoreError{Op: op, Err: err}
	}
	if n == 0 {
		return zeroRows
	}
	return nil
}
