package exports

import (
	"godam/frontend/orders/progress"
	"godam/infrastructure/audit"
	"godam/infrastructure/printsurface"
	"godam/infrastructure/sqlite"
)

// Export types stored in export_runs.
const (
	TypeDeliveryNoteCSV   = "delivery_note_lines_csv"
	TypeDeliveryNoteXLSX  = "delivery_note_lines_xlsx"
	TypeOrderProgressXLSX = "order_progress_xlsx"
)

type Deps struct {
	DB       *sqlite.DB
	Audit    *audit.Service
	Registry *printsurface.Registry
	Progress *progress.Deps
}
