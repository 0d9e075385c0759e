//go:build integration

package router

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	pgmodule "github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
	"golang.org/x/crypto/bcrypt"

	"go-bill-tracker/internal/auth"
	"go-bill-tracker/internal/config"
	"go-bill-tracker/internal/database"
	"go-bill-tracker/internal/event"
	"go-bill-tracker/internal/handler"
	"go-bill-tracker/internal/middleware"
	"go-bill-tracker/internal/model"
	"go-bill-tracker/internal/repository"
	"go-bill-tracker/internal/service"
)

func newPostgresServer(t *testing.T) client {
	t.Helper()

	if os.Getenv("SKIP_INTEGRATION") == "true" {
		t.Skip("SKIP_INTEGRATION=true, skipping PostgreSQL integration tests")
	}

	ctx := context.Background()
	container, err := pgmodule.Run(ctx,
		"postgres:16-alpine",
		pgmodule.WithDatabase("bills_e2e"),
		pgmodule.WithUsername("test"),
		pgmodule.WithPassword("test"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second),
		),
	)
	if err != nil {
		t.Skipf("skipping: could not start PostgreSQL container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(context.Background()) })

	connStr, err := container.ConnectionString(ctx, "sslmode=disable")
	require.NoError(t, err)
	require.NoError(t, database.MigratePostgres(ctx, connStr))

	db, err := database.New(ctx, connStr, 4, 1)
	require.NoError(t, err)
	t.Cleanup(db.Close)

	tokens, err := auth.NewTokenManager("router-secret", auth.DefaultTokenTTL)
	require.NoError(t, err)

	bus := event.NewBus()
	authService := service.NewAuthService(repository.NewUserRepository(db.Pool), auth.NewPasswordHasher(bcrypt.MinCost), tokens, bus)
	billService := service.NewBillService(repository.NewBillRepository(db.Pool), bus)

	cfg := &config.Config{RequestTimeout: 10 * time.Second, CORSOrigins: []string{"*"}}
	h := New(cfg, middleware.NewAuthMiddleware(tokens, authService), Handlers{
		User:   handler.NewUserHandler(authService),
		Bill:   handler.NewBillHandler(billService),
		Health: db.Health,
	})

	server := httptest.NewServer(h)
	t.Cleanup(server.Close)
	return client{t: t, server: server}
}

func TestPostgres_OwnerIsolationOverHTTP(t *testing.T) {
	c := newPostgresServer(t)
	alice := c.register("alice", "a@x.com", "pw1")
	bob := c.register("bob", "b@x.com", "pw2")

	status, raw := c.do(http.MethodPost, "/bills", alice.Token, map[string]any{
		"name":    "Gas",
		"amount":  42,
		"dueDate": "2025-02-01",
		"userId":  bob.ID,
	})
	require.Equal(t, http.StatusCreated, status, string(raw))
	gas := decode[model.Bill](t, raw)
	assert.Equal(t, alice.ID, gas.UserID)

	status, _ = c.do(http.MethodGet, "/bills/"+gas.ID, bob.Token, nil)
	assert.Equal(t, http.StatusUnauthorized, status)

	status, raw = c.do(http.MethodGet, "/bills", alice.Token, nil)
	require.Equal(t, http.StatusOK, status)
	bills := decode[[]model.Bill](t, raw)
	require.Len(t, bills, 1)
	require.NotNil(t, bills[0].Owner)
	assert.Equal(t, "alice", bills[0].Owner.Username)

	status, raw = c.do(http.MethodPut, "/bills/"+gas.ID, alice.Token, map[string]any{"paid": true})
	require.Equal(t, http.StatusOK, status, string(raw))
	assert.True(t, decode[model.Bill](t, raw).Paid)

	status, _ = c.do(http.MethodDelete, "/bills/"+gas.ID, alice.Token, nil)
	assert.Equal(t, http.StatusOK, status)

	status, raw = c.do(http.MethodGet, "/health", "", nil)
	assert.Equal(t, http.StatusOK, status)
	assert.Equal(t, "ok", string(raw))
}
