package exports

import (
	"bytes"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"godam/frontend/deliveryNotes/printing"
	"godam/frontend/orders/progress"
	sessioncontext "godam/frontend/shared/context"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

func sessionUserIDFromContext(r *http.Request) *int64 {
	session, ok := sessioncontext.GetSessionFromContext(r.Context())
	if !ok || session.UserID <= 0 {
		return nil
	}
	id := session.UserID
	return &id
}

func fileName(prefix, ref, ext string) string {
	ref = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, ref)
	if ref == "" {
		return prefix + "." + ext
	}
	return prefix + "-" + ref + "." + ext
}

func (d *Deps) payloadFor(w http.ResponseWriter, r *http.Request) (printing.TemplatePayload, bool) {
	ps, ok := d.Registry.Get(chi.URLParam(r, "session"))
	if !ok {
		http.Error(w, "print session expired", http.StatusNotFound)
		return printing.TemplatePayload{}, false
	}
	return printing.PayloadOf(ps), true
}

func (d *Deps) record(r *http.Request, exportType, reference string) {
	if err := recordExportRun(r.Context(), d.DB, d.Audit, sessionUserIDFromContext(r), exportType, reference); err != nil {
		slog.Error("record export run failed", slog.String("type", exportType), slog.Any("err", err))
	}
}

// DeliveryNoteCSVHandler exports the lines of a print session's delivery note.
func DeliveryNoteCSVHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.payloadFor(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := writeLinesCSV(&buf, p); err != nil {
			http.Error(w, "failed to export csv", http.StatusInternalServerError)
			return
		}
		ref := deref(p.DNNumber)
		w.Header().Set("Content-Type", "text/csv")
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName("delivery-note", ref, "csv"))
		_, _ = w.Write(buf.Bytes())
		d.record(r, TypeDeliveryNoteCSV, ref)
	}
}

// DeliveryNoteXLSXHandler exports the header and lines of a print session's delivery note.
func DeliveryNoteXLSXHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		p, ok := d.payloadFor(w, r)
		if !ok {
			return
		}
		var buf bytes.Buffer
		if err := writeLinesXLSX(&buf, p); err != nil {
			slog.Error("build delivery note xlsx", slog.Any("err", err))
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		ref := deref(p.DNNumber)
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName("delivery-note", ref, "xlsx"))
		_, _ = w.Write(buf.Bytes())
		d.record(r, TypeDeliveryNoteXLSX, ref)
	}
}

// OrderProgressXLSXHandler exports the stage of every part of an outbound order.
func OrderProgressXLSXHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outbound := strings.TrimSpace(chi.URLParam(r, "outboundNumber"))
		if outbound == "" {
			http.Error(w, "outbound number is required", http.StatusBadRequest)
			return
		}
		rows, err := progress.LoadProgress(r.Context(), d.Progress, outbound)
		if err != nil && len(rows) == 0 {
			slog.Warn("order progress export without data", slog.String("outbound", outbound), slog.Any("err", err))
			http.Error(w, fmt.Sprintf("no progress recorded for %s", outbound), http.StatusBadGateway)
			return
		}
		var buf bytes.Buffer
		if err := writeProgressXLSX(&buf, outbound, rows); err != nil {
			slog.Error("build progress xlsx", slog.Any("err", err))
			http.Error(w, "failed to export xlsx", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", xlsxContentType)
		w.Header().Set("Content-Disposition", "attachment; filename="+fileName("order-progress", outbound, "xlsx"))
		_, _ = w.Write(buf.Bytes())
		d.record(r, TypeOrderProgressXLSX, outbound)
	}
}
