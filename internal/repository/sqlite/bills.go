package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/repository"
)

var _ repository.BillStore = (*BillRepository)(nil)

const (
	billColumns    = `b.id, b.user_id, b.name, b.amount, b.due_date, b.category, b.paid, b.notes, b.created_at, b.updated_at`
	returningBills = `id, user_id, name, amount, due_date, category, paid, notes, created_at, updated_at`
)

type BillRepository struct {
	db *sql.DB
}

func NewBillRepository(db *sql.DB) *BillRepository {
	return &BillRepository{db: db}
}

func (r *BillRepository) Create(ctx context.Context, b model.Bill) error {
	_, err := r.db.ExecContext(ctx,
		`INSERT INTO bills (id, user_id, name, amount, due_date, category, paid, notes, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		b.ID, b.UserID, b.Name, b.Amount, toMillis(b.DueDate.Time), b.Category, b.Paid, b.Notes,
		toMillis(b.CreatedAt), toMillis(b.UpdatedAt))
	if err != nil {
		return fmt.Errorf("create bill: %w", err)
	}
	return nil
}

func (r *BillRepository) Find(ctx context.Context, filter model.BillFilter) ([]model.Bill, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT `+billColumns+`, u.username, u.email
		 FROM bills b
		 JOIN users u ON u.id = b.user_id
		 WHERE b.user_id = ? `+repository.OrderClause(filter), filter.OwnerID)
	if err != nil {
		return nil, fmt.Errorf("list bills: %w", err)
	}
	defer rows.Close()

	bills := make([]model.Bill, 0)
	for rows.Next() {
		owner := &model.BillOwner{}
		b, err := scanBill(rows.Scan, &owner.Username, &owner.Email)
		if err != nil {
			return nil, err
		}
		owner.ID = b.UserID
		b.Owner = owner
		bills = append(bills, b)
	}
	return bills, rows.Err()
}

func (r *BillRepository) FindByID(ctx context.Context, id string) (model.Bill, error) {
	row := r.db.QueryRowContext(ctx, `SELECT `+billColumns+` FROM bills b WHERE b.id = ?`, id)
	return scanBill(row.Scan)
}

func (r *BillRepository) UpdateByID(ctx context.Context, id string, patch model.BillPatch) (model.Bill, error) {
	var dueDate *int64
	if patch.DueDate != nil {
		ms := toMillis(*patch.DueDate)
		dueDate = &ms
	}

	row := r.db.QueryRowContext(ctx,
		`UPDATE bills SET
		     name = COALESCE(?, name),
		     amount = COALESCE(?, amount),
		     due_date = COALESCE(?, due_date),
		     category = COALESCE(?, category),
		     paid = COALESCE(?, paid),
		     notes = COALESCE(?, notes),
		     updated_at = ?
		 WHERE id = ?
		 RETURNING `+returningBills,
		patch.Name, patch.Amount, dueDate, patch.Category, patch.Paid, patch.Notes, toMillis(time.Now()), id)
	return scanBill(row.Scan)
}

func (r *BillRepository) DeleteByID(ctx context.Context, id string) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM bills WHERE id = ?`, id)
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("delete bill: %w", err)
	}
	if affected == 0 {
		return model.ErrBillNotFound
	}
	return nil
}

func scanBill(scan func(dest ...any) error, extra ...any) (model.Bill, error) {
	var b model.Bill
	var dueDate, createdAt, updatedAt int64
	dest := append([]any{&b.ID, &b.UserID, &b.Name, &b.Amount, &dueDate, &b.Category,
		&b.Paid, &b.Notes, &createdAt, &updatedAt}, extra...)

	err := scan(dest...)
	if errors.Is(err, sql.ErrNoRows) {
		return model.Bill{}, model.ErrBillNotFound
	}
	if err != nil {
		return model.Bill{}, fmt.Errorf("scan bill: %w", err)
	}

	b.DueDate = model.Date{Time: fromMillis(dueDate)}
	b.CreatedAt = fromMillis(createdAt)
	b.UpdatedAt = fromMillis(updatedAt)
	return b, nil
}
