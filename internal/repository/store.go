package repository

import (
	"context"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"

	"go-bill-tracker/internal/model"
)

// UserStore persists identities. Lookups that miss return
// model.ErrUserNotFound; duplicate emails return model.ErrEmailTaken.
type UserStore interface {
	Create(ctx context.Context, u model.User) error
	FindByID(ctx context.Context, id string) (model.User, error)
	FindByEmail(ctx context.Context, email string) (model.User, error)
}

// BillStore persists bills. Single-item operations that miss return
// model.ErrBillNotFound. Every statement is atomic on its own.
type BillStore interface {
	Create(ctx context.Context, b model.Bill) error
	Find(ctx context.Context, filter model.BillFilter) ([]model.Bill, error)
	FindByID(ctx context.Context, id string) (model.Bill, error)
	UpdateByID(ctx context.Context, id string, patch model.BillPatch) (model.Bill, error)
	DeleteByID(ctx context.Context, id string) error
}

// DBTX is the subset of *pgxpool.Pool the repositories use.
type DBTX interface {
	Exec(ctx context.Context, sql string, args ...any) (pgconn.CommandTag, error)
	Query(ctx context.Context, sql string, args ...any) (pgx.Rows, error)
	QueryRow(ctx context.Context, sql string, args ...any) pgx.Row
}

// OrderColumn maps a sort field onto a whitelisted column name.
func OrderColumn(field model.SortField) string {
	switch field {
	case model.SortByAmount:
		return "amount"
	case model.SortByCreatedAt:
		return "created_at"
	default:
		return "due_date"
	}
}

// OrderClause renders the ORDER BY clause for a bill filter, qualified with
// the bills table alias.
func OrderClause(filter model.BillFilter) string {
	direction := "ASC"
	if filter.Desc {
		direction = "DESC"
	}
	return "ORDER BY b." + OrderColumn(filter.SortBy) + " " + direction + ", b.created_at ASC, b.id ASC"
}
