package service

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"go-bill-tracker/internal/auth"
	"go-bill-tracker/internal/database"
	"go-bill-tracker/internal/event"
	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/repository/sqlite"
)

type testEnv struct {
	auth   *AuthService
	bills  *BillService
	tokens *auth.TokenManager
	bus    *event.InMemoryBus
}

func newTestEnv(t *testing.T) testEnv {
	t.Helper()

	db, err := database.OpenSQLite(context.Background(), filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	tokens, err := auth.NewTokenManager("test-secret", time.Hour)
	require.NoError(t, err)

	bus := event.NewBus()
	return testEnv{
		auth:   NewAuthService(sqlite.NewUserRepository(db), auth.NewPasswordHasher(bcrypt.MinCost), tokens, bus),
		bills:  NewBillService(sqlite.NewBillRepository(db), bus),
		tokens: tokens,
		bus:    bus,
	}
}

func (e testEnv) register(t *testing.T, username string, email string, password string) model.Principal {
	t.Helper()

	resp, err := e.auth.Register(context.Background(), model.RegisterRequest{
		Username: username,
		Email:    email,
		Password: password,
	})
	require.NoError(t, err)

	principal, err := e.auth.ResolvePrincipal(context.Background(), resp.ID)
	require.NoError(t, err)
	return principal
}

func amountPtr(v float64) *float64 {
	return &v
}

func datePtr(year int, month time.Month, d int) *model.Date {
	return &model.Date{Time: time.Date(year, month, d, 0, 0, 0, 0, time.UTC)}
}
