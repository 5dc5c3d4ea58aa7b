package audit

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/uptrace/bun"

	"godam/models"
)

// Actions recorded by the console.
const (
	ActionLogin        = "login"
	ActionPrintPDF     = "delivery_note.print_pdf"
	ActionPrintSurface = "delivery_note.print_surface"
	ActionDraftStaged  = "delivery_note.draft_staged"
	ActionExport       = "export"
	ActionUserCreated  = "user.created"
)

// Entry is one audit record before it is written.
type Entry struct {
	UserID     int64
	Action     string
	EntityType string
	EntityID   string
	Before     any
	After      any
}

// Service writes audit records inside the caller transaction.
type Service struct{}

func NewService() *Service {
	return &Service{}
}

func (s *Service) Write(ctx context.Context, tx bun.Tx, e Entry) error {
	beforeJSON, err := marshal(e.Before)
	if err != nil {
		return fmt.Errorf("audit before: %w", err)
	}
	afterJSON, err := marshal(e.After)
	if err != nil {
		return fmt.Errorf("audit after: %w", err)
	}
	_, err = tx.NewInsert().Model(&models.AuditLog{
		UserID:     e.UserID,
		Action:     e.Action,
		EntityType: e.EntityType,
		EntityID:   e.EntityID,
		BeforeJSON: beforeJSON,
		AfterJSON:  afterJSON,
	}).Exec(ctx)
	return err
}

func marshal(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
