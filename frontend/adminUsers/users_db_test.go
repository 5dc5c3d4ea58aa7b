package adminusers

import (
	"context"
	"errors"
	"path/filepath"
	"runtime"
	"testing"

	"github.com/uptrace/bun"

	"godam/frontend/login"
	"godam/infrastructure/argon"
	"godam/infrastructure/audit"
	"godam/infrastructure/sqlite"
)

func openAdminUsersTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "admin-users-test.db")
	db, err := sqlite.OpenDB(dbPath)
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatalf("runtime caller unavailable")
	}
	migrationsDir := filepath.Join(filepath.Dir(file), "..", "..", "infrastructure", "sqlite", "migrations")
	if err := sqlite.ApplyMigrations(context.Background(), db, migrationsDir); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
	return db
}

func TestCreateUser_HappyPathStoresHashAndRole(t *testing.T) {
	db := openAdminUsersTestDB(t)

	if err := CreateUser(context.Background(), db, nil, 0, "dispatch2", "Dispatch123!Strong", "dispatcher"); err != nil {
		t.Fatalf("create user: %v", err)
	}

	var role, passwordHash string
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT role, password_hash FROM users WHERE username = ?`, "dispatch2").Scan(ctx, &role, &passwordHash)
	})
	if err != nil {
		t.Fatalf("load user: %v", err)
	}
	if role != "dispatcher" {
		t.Fatalf("expected role=dispatcher, got %s", role)
	}
	ok, err := argon.ComparePasswordAndHash("Dispatch123!Strong", passwordHash)
	if err != nil || !ok {
		t.Fatalf("expected stored hash to match password, err=%v", err)
	}
}

func TestCreateUser_DuplicateUsernameRejectedCaseInsensitive(t *testing.T) {
	db := openAdminUsersTestDB(t)

	if err := CreateUser(context.Background(), db, nil, 0, "CaseUser", "Case123!Password", "dispatcher"); err != nil {
		t.Fatalf("seed user: %v", err)
	}
	err := CreateUser(context.Background(), db, nil, 0, "caseuser", "Case456!Password", "admin")
	if !errors.Is(err, ErrUsernameExists) {
		t.Fatalf("expected ErrUsernameExists, got %v", err)
	}
}

func TestCreateUser_ValidationErrors(t *testing.T) {
	db := openAdminUsersTestDB(t)
	cases := []struct {
		name, username, password, role string
		want                           error
	}{
		{"missing username", " ", "Case123!Password", "admin", ErrUsernameRequired},
		{"missing password", "u1", "", "admin", ErrPasswordRequired},
		{"unknown role", "u2", "Case123!Password", "scanner", ErrInvalidRole},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := CreateUser(context.Background(), db, nil, 0, tc.username, tc.password, tc.role)
			if !errors.Is(err, tc.want) {
				t.Fatalf("expected %v, got %v", tc.want, err)
			}
		})
	}
	if err := CreateUser(context.Background(), db, nil, 0, "weak", "short", "admin"); !errors.Is(err, login.ErrWeakPassword) {
		t.Fatalf("expected password policy error, got %v", err)
	}
}

func TestCreateUser_AuditsActor(t *testing.T) {
	db := openAdminUsersTestDB(t)
	if err := CreateUser(context.Background(), db, nil, 0, "root", "Root123!Password", "admin"); err != nil {
		t.Fatalf("seed actor: %v", err)
	}
	if err := CreateUser(context.Background(), db, audit.NewService(), 1, "dispatch3", "Dispatch123!Strong", "dispatcher"); err != nil {
		t.Fatalf("create user: %v", err)
	}
	var n int
	err := db.WithReadTx(context.Background(), func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw(`SELECT COUNT(*) FROM audit_logs WHERE action = ?`, audit.ActionUserCreated).Scan(ctx, &n)
	})
	if err != nil || n != 1 {
		t.Fatalf("expected one audit entry, got %d err=%v", n, err)
	}
}
