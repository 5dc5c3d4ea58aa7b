package adminusers

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/uptrace/bun"

	"godam/frontend/login"
	"godam/infrastructure/argon"
	"godam/infrastructure/audit"
	"godam/infrastructure/rbac"
	"godam/infrastructure/sqlite"
	"godam/models"
)

func LoadUsersPageData(ctx context.Context, db *sqlite.DB) (PageData, error) {
	data := PageData{Users: make([]UserView, 0)}
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewRaw("SELECT id, username, role FROM users ORDER BY id ASC").Scan(ctx, &data.Users)
	})
	return data, err
}

// CreateUser adds a console user. Usernames are unique regardless of case.
func CreateUser(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, actorID int64, username, password, role string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return ErrUsernameRequired
	}
	if strings.TrimSpace(password) == "" {
		return ErrPasswordRequired
	}
	if !rbac.ValidRole(role) {
		return ErrInvalidRole
	}
	if err := login.ValidatePasswordPolicy(password); err != nil {
		return err
	}
	hash, err := argon.CreateHash(password, argon.DefaultParams)
	if err != nil {
		return err
	}

	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		taken, err := tx.NewSelect().Model((*models.User)(nil)).Where("LOWER(username) = ?", strings.ToLower(username)).Exists(ctx)
		if err != nil {
			return err
		}
		if taken {
			return ErrUsernameExists
		}
		now := time.Now()
		user := &models.User{Username: username, PasswordHash: hash, Role: role, CreatedAt: now, UpdatedAt: now}
		if _, err := tx.NewInsert().Model(user).Exec(ctx); err != nil {
			return fmt.Errorf("insert user: %w", err)
		}
		if auditSvc == nil || actorID <= 0 {
			return nil
		}
		return auditSvc.Write(ctx, tx, audit.Entry{
			UserID:     actorID,
			Action:     audit.ActionUserCreated,
			EntityType: "user",
			EntityID:   fmt.Sprintf("%d", user.ID),
			After:      UserView{ID: user.ID, Username: user.Username, Role: user.Role},
		})
	})
}
