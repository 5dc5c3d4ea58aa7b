package progress

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessioncontext "godam/frontend/shared/context"
	"godam/frontend/shared/nav"
	"godam/infrastructure/backend"
)

const ordersPath = "/tasker/orders"

// MovementLister is the part of the backend client the progress screens use.
type MovementLister interface {
	ListMovements(ctx context.Context, outboundNumber string) ([]backend.Movement, error)
}

type Deps struct {
	Tracker      *Tracker
	Movements    MovementLister
	FetchTimeout time.Duration
	Upgrader     websocket.Upgrader
}

// Row is one part line of the progress table.
type Row struct {
	PartNumber  string
	Description string
	Stage       int
}

// ProgressData drives the order progress page.
type ProgressData struct {
	OutboundNumber string
	Rows           []Row
	Warning        string
	Nav            nav.TopNavData
}

// LoadProgress seeds the tracker from the backend history and returns the page rows.
// When the backend fails, whatever the live feed has already recorded is returned with the error.
func LoadProgress(ctx context.Context, d *Deps, outbound string) ([]Row, error) {
	fetchCtx, cancel := context.WithTimeout(ctx, d.FetchTimeout)
	defer cancel()

	descriptions := map[string]string{}
	movements, err := d.Movements.ListMovements(fetchCtx, outbound)
	if err == nil {
		d.Tracker.Seed(outbound, FromMovements(movements))
		for _, m := range movements {
			if m.Description != "" {
				descriptions[m.PartNumber] = m.Description
			}
		}
	}
	parts := d.Tracker.Rows(outbound)
	rows := make([]Row, 0, len(parts))
	for _, p := range parts {
		rows = append(rows, Row{PartNumber: p.PartNumber, Description: descriptions[p.PartNumber], Stage: p.Stage})
	}
	return rows, err
}

// OrdersLandingQueryHandler asks for an outbound number.
func OrdersLandingQueryHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		if outbound := strings.TrimSpace(r.URL.Query().Get("outbound")); outbound != "" {
			http.Redirect(w, r, ordersPath+"/"+url.PathEscape(outbound)+"/progress", http.StatusSeeOther)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := OrdersLandingPage(nav.BuildTopNavData(session)).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render orders page", http.StatusInternalServerError)
		}
	}
}

// OrderProgressQueryHandler renders the stage table of one outbound order.
func OrderProgressQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		outbound := strings.TrimSpace(chi.URLParam(r, "outboundNumber"))
		if outbound == "" {
			http.Error(w, "outbound number is required", http.StatusBadRequest)
			return
		}
		data := ProgressData{OutboundNumber: outbound, Nav: nav.BuildTopNavData(session)}
		rows, err := LoadProgress(r.Context(), d, outbound)
		if err != nil {
			slog.Warn("load order movements", slog.String("outbound", outbound), slog.Any("err", err))
			if errors.Is(err, backend.ErrNotFound) {
				data.Warning = "Order " + outbound + " has no recorded movements."
			} else {
				data.Warning = "Unable to load movement history. Showing live picks only."
			}
		}
		data.Rows = rows

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := OrderProgressPage(data).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render order progress", http.StatusInternalServerError)
		}
	}
}

// OrderProgressSocketHandler streams stage changes of one order. The current
// stages are sent first so a reconnecting page never misses an advance.
func OrderProgressSocketHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		outbound := strings.TrimSpace(chi.URLParam(r, "outboundNumber"))
		if outbound == "" {
			http.Error(w, "outbound number is required", http.StatusBadRequest)
			return
		}
		conn, err := d.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("progress upgrade failed", slog.Any("err", err))
			return
		}
		defer conn.Close()

		changes, cancel := d.Tracker.Subscribe(outbound)
		defer cancel()

		closed := make(chan struct{})
		go func() {
			defer close(closed)
			for {
				if _, _, err := conn.ReadMessage(); err != nil {
					return
				}
			}
		}()

		for _, p := range d.Tracker.Rows(outbound) {
			if err := conn.WriteJSON(StageChange{OutboundNumber: outbound, PartNumber: p.PartNumber, Stage: p.Stage, StageName: StageName(p.Stage)}); err != nil {
				return
			}
		}
		for {
			select {
			case <-closed:
				return
			case <-r.Context().Done():
				return
			case change := <-changes:
				_ = conn.SetWriteDeadline(time.Now().Add(10 * time.Second))
				if err := conn.WriteJSON(change); err != nil {
					return
				}
			}
		}
	}
}
