package printing

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"godam/infrastructure/audit"
	"godam/infrastructure/metrics"
	"godam/infrastructure/sqlite"
	"godam/models"
)

// RecordPrintRun stores a print run and its audit entry in one transaction.
func RecordPrintRun(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, run *models.PrintRun, action string) error {
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert print run: %w", err)
		}
		if auditSvc == nil || run.UserID == nil {
			return nil
		}
		return auditSvc.Write(ctx, tx, audit.Entry{
			UserID:     *run.UserID,
			Action:     action,
			EntityType: "delivery_note",
			EntityID:   run.DNNumber,
			After:      run,
		})
	})
	if err != nil {
		return err
	}
	metrics.PrintRuns.WithLabelValues(run.Format).Inc()
	return nil
}

// ListPrintRuns returns the newest runs first.
func ListPrintRuns(ctx context.Context, db *sqlite.DB, limit int) ([]models.PrintRun, error) {
	if limit <= 0 {
		limit = 100
	}
	var runs []models.PrintRun
	err := db.WithReadTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return tx.NewSelect().Model(&runs).OrderExpr("pr.created_at DESC, pr.id DESC").Limit(limit).Scan(ctx)
	})
	if err != nil {
		return nil, fmt.Errorf("list print runs: %w", err)
	}
	return runs, nil
}

// RecordDraftStaged audits a draft handed to the print page.
func RecordDraftStaged(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID int64, draft *DraftPreview) error {
	return db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		return auditSvc.Write(ctx, tx, audit.Entry{
			UserID:     userID,
			Action:     audit.ActionDraftStaged,
			EntityType: "delivery_note_draft",
			EntityID:   draft.DNNumber,
			After:      draft,
		})
	})
}
