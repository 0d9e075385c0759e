package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"go-bill-tracker/internal/model"
)

const billColumns = `b.id, b.user_id, b.name, b.amount, b.due_date, b.category, b.paid, b.notes, b.created_at, b.updated_at`

type BillRepository struct {
	db DBTX
}

func NewBillRepository(db DBTX) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, b model.Bill) error {
	_, err := r.db.Exec(ctx,
		`INSERT INTO bills (id, user_id, name, amount, due_date, category, paid, notes, created_at, updated_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`,
		b.ID, b.UserID, b.Name, b.Amount, b.DueDate.Time, b.Category, b.Paid, b.Notes, b.CreatedAt, b.UpdatedAt)
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

// Find returns the bills owned by filter.OwnerID with their owner summary.
func (r *BillRepository) Find(ctx context.Context, filter model.BillFilter) ([]model.Bill, error) {
	rows, err := r.db.Query(ctx,
		`SELECT `+billColumns+`, u.username, u.email
		 FROM bills b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.user_id = $1 `+OrderClause(filter), filter.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]model.Bill, 0)
	for rows.Next() {
		var b model.Bill
		owner := &model.BillOwner{}
		if err := rows.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate.Time, &b.Category,
			&b.Paid, &b.Notes, &b.CreatedAt, &b.UpdatedAt, &owner.Username, &owner.Email); err != nil {
			return nil, fmt.Errorf("scan bill: %w", err)
		}
		owner.ID = b.UserID
		b.Owner = owner
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *BillRepository) FindByID(ctx context.Context, id string) (model.Bill, error) {
	row := r.db.QueryRow(ctx, `SELECT `+billColumns+` FROM bills b WHERE b.id = $1`, id)
	return scanBill(row)
}

func (r *BillRepository) UpdateByID(ctx context.Context, id string, patch model.BillPatch) (model.Bill, error) {
	row := r.db.QueryRow(ctx,
		`UPDATE bills b SET
		     name = COALESCE($2, b.name),
		     amount = COALESCE($3, b.amount),
		     due_date = COALESCE($4, b.due_date),
		     category = COALESCE($5, b.category),
		     paid = COALESCE($6, b.paid),
		     notes = COALESCE($7, b.notes),
		     updated_at = $8
		 WHERE b.id = $1
		 RETURNING `+billColumns,
		id, patch.Name, patch.Amount, patch.DueDate, patch.Category, patch.Paid, patch.Notes, time.Now().UTC())
	return scanBill(row)
}

func (r *BillRepository) DeleteByID(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM bills WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrBillNotFound
	}
	return nil
}

func scanBill(row pgx.Row) (model.Bill, error) {
	var b model.Bill
	err := row.Scan(&b.ID, &b.UserID, &b.Name, &b.Amount, &b.DueDate.Time, &b.Category,
		&b.Paid, &b.Notes, &b.CreatedAt, &b.UpdatedAt)

	if errors.Is(err, pgx.ErrNoRows) {
		return model.Bill{}, model.ErrBillNotFound
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("scan bill: %w", err)
	}
	return b, nil
}
