package exports

import (
	"context"
	"fmt"

	"github.com/uptrace/bun"

	"godam/infrastructure/audit"
	"godam/infrastructure/metrics"
	"godam/infrastructure/sqlite"
	"godam/models"
)

func recordExportRun(ctx context.Context, db *sqlite.DB, auditSvc *audit.Service, userID *int64, exportType, reference string) error {
	run := &models.ExportRun{UserID: userID, ExportType: exportType, Reference: reference}
	err := db.WithWriteTx(ctx, func(ctx context.Context, tx bun.Tx) error {
		if _, err := tx.NewInsert().Model(run).Exec(ctx); err != nil {
			return fmt.Errorf("insert export run: %w", err)
		}
		if auditSvc == nil || userID == nil {
			return nil
		}
		return auditSvc.Write(ctx, tx, audit.Entry{
			UserID:     *userID,
			Action:     audit.ActionExport,
			EntityType: exportType,
			EntityID:   reference,
		})
	})
	if err != nil {
		return err
	}
	metrics.Exports.WithLabelValues(exportType).Inc()
	return nil
}
