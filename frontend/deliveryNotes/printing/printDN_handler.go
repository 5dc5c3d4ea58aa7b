package printing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	sessioncontext "godam/frontend/shared/context"
	"godam/frontend/shared/nav"
	"godam/infrastructure/audit"
	"godam/infrastructure/cache"
	"godam/infrastructure/printsurface"
	"godam/infrastructure/sqlite"
	"godam/models"
)

const (
	landingPath   = "/tasker/delivery-notes/print"
	loadWarning   = "Unable to load delivery note data."
	maxDraftBytes = 1 << 20
)

// Deps are the collaborators of the print handlers.
type Deps struct {
	DB                 *sqlite.DB
	Audit              *audit.Service
	Backend            Backend
	Registry           *printsurface.Registry
	Drafts             *cache.DraftCache
	PreparedByFallback string
	// FetchTimeout bounds backend lookups, including ones that finish after the page rendered.
	FetchTimeout time.Duration
	// RenderWait is how long the page waits for sources before rendering.
	RenderWait time.Duration
	Location   *time.Location
	Upgrader   websocket.Upgrader
}

// ResolvePreparedBy names the person printing, falling back when unknown.
func ResolvePreparedBy(username, fallback string) string {
	if u := strings.TrimSpace(username); u != "" {
		return u
	}
	return fallback
}

// SourceLabel describes where the printed data came from.
func SourceLabel(noteID, orderID *int64, snap Snapshot) string {
	switch {
	case noteID != nil && snap.Loaded[SourcePersisted]:
		return fmt.Sprintf("Delivery note #%d", *noteID)
	case orderID != nil:
		return fmt.Sprintf("Order #%d", *orderID)
	case snap.Loaded[SourceDraft]:
		return "Draft preview (session)"
	}
	return "Static template"
}

// sessionDraft reads the draft staged for one login session. A draft that no
// longer decodes is discarded.
type sessionDraft struct {
	drafts *cache.DraftCache
	token  string
}

func (s sessionDraft) LoadDraft() (*DraftPreview, error) {
	raw, ok := s.drafts.Get(s.token)
	if !ok {
		return nil, ErrNoDraft
	}
	draft, err := StaticDraft(raw).LoadDraft()
	if err != nil {
		slog.Warn("discarding unreadable draft", slog.Any("err", err))
		s.drafts.Delete(s.token)
		return nil, ErrNoDraft
	}
	return draft, nil
}

func parseOptionalID(v string) (*int64, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return nil, nil
	}
	id, err := strconv.ParseInt(v, 10, 64)
	if err != nil || id <= 0 {
		return nil, fmt.Errorf("invalid id %q", v)
	}
	return &id, nil
}

// PrintPageQueryHandler assembles the payload for ?id=&orderId= and opens a print session.
func PrintPageQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		top := nav.BuildTopNavData(session)
		q := r.URL.Query()

		noteID, err := parseOptionalID(q.Get("id"))
		if err != nil {
			http.Redirect(w, r, landingPath+"?error="+url.QueryEscape("Delivery note id must be a positive number"), http.StatusSeeOther)
			return
		}
		orderID, err := parseOptionalID(q.Get("orderId"))
		if err != nil {
			http.Redirect(w, r, landingPath+"?error="+url.QueryEscape("Order id must be a positive number"), http.StatusSeeOther)
			return
		}
		_, hasDraft := d.Drafts.Get(session.ID)
		if noteID == nil && orderID == nil && !hasDraft && q.Get("draft") == "" {
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			if err := PrintLandingPage(top, q.Get("error")).Render(r.Context(), w); err != nil {
				http.Error(w, "failed to render print page", http.StatusInternalServerError)
			}
			return
		}

		preparedBy := ResolvePreparedBy(session.User.Username, d.PreparedByFallback)
		meta := &PrintSession{DeliveryNoteID: noteID, OrderID: orderID, UserID: session.UserID, PreparedBy: preparedBy}
		ps := d.Registry.Create(meta)

		sources := []PayloadSource{
			NewBaseSource(preparedBy, time.Now(), d.Location),
			NewDraftPayloadSource(sessionDraft{drafts: d.Drafts, token: session.ID}, preparedBy),
		}
		if orderID != nil {
			sources = append(sources, NewOutboundPayloadSource(d.Backend, *orderID))
		}
		if noteID != nil {
			sources = append(sources, NewPersistedPayloadSource(d.Backend, *noteID, preparedBy))
		}

		statusOf := func(snap Snapshot) PrintStatus {
			st := PrintStatus{SourceLabel: SourceLabel(noteID, orderID, snap), Pending: !snap.Complete}
			if len(snap.Failures) > 0 {
				st.Warning = loadWarning
			}
			return st
		}

		fetchCtx, cancel := context.WithTimeout(context.WithoutCancel(r.Context()), d.FetchTimeout)
		assembly := NewAssembler(sources...).Start(fetchCtx, func(p TemplatePayload) { ps.Bridge.Deliver(p) })
		go func() {
			<-assembly.Done()
			meta.setStatus(statusOf(assembly.Wait(context.Background())))
			cancel()
		}()

		waitCtx, waitCancel := context.WithTimeout(r.Context(), d.RenderWait)
		meta.setStatus(statusOf(assembly.Wait(waitCtx)))
		waitCancel()
		st := meta.Status()

		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		err = PrintHostPage(HostPageData{
			SessionID:   ps.ID,
			SourceLabel: st.SourceLabel,
			Warning:     st.Warning,
			Pending:     st.Pending,
			Nav:         top,
		}).Render(r.Context(), w)
		if err != nil {
			http.Error(w, "failed to render print page", http.StatusInternalServerError)
		}
	}
}

func lookupSession(d *Deps, w http.ResponseWriter, r *http.Request) (*printsurface.Session, bool) {
	ps, ok := d.Registry.Get(chi.URLParam(r, "session"))
	if !ok {
		http.Error(w, "print session expired", http.StatusNotFound)
		return nil, false
	}
	return ps, true
}

// SurfacePageQueryHandler serves the isolated delivery-note document for the iframe.
func SurfacePageQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		w.Header().Set("X-Frame-Options", "SAMEORIGIN")
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := SurfacePage(ps.ID).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render surface", http.StatusInternalServerError)
		}
	}
}

// SurfaceSocketHandler attaches the surface's websocket to the session bridge.
func SurfaceSocketHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		conn, err := d.Upgrader.Upgrade(w, r, nil)
		if err != nil {
			slog.Warn("surface upgrade failed", slog.Any("err", err))
			return
		}
		ch := printsurface.NewWebsocketChannel(conn)
		defer ch.Close()

		if !ps.Bridge.Attach(r.Context(), ch) {
			return
		}
		defer ps.Bridge.Detach(ch)
		select {
		case <-ch.Done():
		case <-r.Context().Done():
		}
	}
}

// StatusQueryHandler reports the session's source status so the host page can
// pick up results and failures that arrive after it rendered.
func StatusQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		meta, ok := ps.Meta.(*PrintSession)
		if !ok {
			http.Error(w, "print session has no status", http.StatusNotFound)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Header().Set("Cache-Control", "no-store")
		_ = json.NewEncoder(w).Encode(meta.Status())
	}
}

// PrintCommandHandler triggers the browser print dialog on the attached surface.
func PrintCommandHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		if ps.Bridge.TriggerPrint() {
			d.recordRun(r.Context(), ps, "surface", audit.ActionPrintSurface)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// LanguageCommandHandler relays a language switch to the surface.
func LanguageCommandHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		lang := r.URL.Query().Get("lang")
		if strings.HasPrefix(r.Header.Get("Content-Type"), "application/json") {
			var body struct {
				Lang string `json:"lang"`
			}
			if err := json.NewDecoder(io.LimitReader(r.Body, 1024)).Decode(&body); err != nil {
				http.Error(w, "invalid language payload", http.StatusBadRequest)
				return
			}
			lang = body.Lang
		} else if v := r.FormValue("lang"); v != "" {
			lang = v
		}
		if lang != "en" && lang != "ar" {
			http.Error(w, "language must be en or ar", http.StatusBadRequest)
			return
		}
		ps.Bridge.SetLanguage(lang)
		w.WriteHeader(http.StatusNoContent)
	}
}

// PayloadOf returns the merged payload currently held by a print session.
func PayloadOf(ps *printsurface.Session) TemplatePayload {
	raw, ok := ps.Bridge.Payload()
	if !ok {
		return TemplatePayload{}
	}
	p, _ := raw.(TemplatePayload)
	return p
}

// PDFQueryHandler renders the session's current payload as a PDF.
func PDFQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		ps, ok := lookupSession(d, w, r)
		if !ok {
			return
		}
		payload := PayloadOf(ps)
		pdfBytes, err := RenderDeliveryNotePDF(payload)
		if err != nil {
			slog.Error("render delivery note pdf", slog.Any("err", err))
			http.Error(w, "failed to build delivery note pdf", http.StatusInternalServerError)
			return
		}
		d.recordRun(r.Context(), ps, "pdf", audit.ActionPrintPDF)

		name := "delivery-note"
		if payload.DNNumber != nil {
			name = "delivery-note-" + fileSafe(*payload.DNNumber)
		}
		w.Header().Set("Content-Type", "application/pdf")
		w.Header().Set("Content-Disposition", fmt.Sprintf("inline; filename=%s.pdf", name))
		_, _ = w.Write(pdfBytes)
	}
}

func (d *Deps) recordRun(ctx context.Context, ps *printsurface.Session, format, action string) {
	meta, _ := ps.Meta.(*PrintSession)
	run := &models.PrintRun{
		PrintSessionID: ps.ID,
		Format:         format,
		Language:       ps.Bridge.Language(),
	}
	if p := PayloadOf(ps); p.DNNumber != nil {
		run.DNNumber = *p.DNNumber
	}
	if meta != nil {
		run.DeliveryNoteID = meta.DeliveryNoteID
		run.OrderID = meta.OrderID
		if meta.UserID > 0 {
			uid := meta.UserID
			run.UserID = &uid
		}
	}
	if err := RecordPrintRun(ctx, d.DB, d.Audit, run, action); err != nil {
		slog.Error("record print run", slog.String("session", ps.ID), slog.Any("err", err))
	}
}

func fileSafe(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '-', r == '_':
			return r
		}
		return '-'
	}, s)
}

// StageDraftCommandHandler stores a delivery-note draft for the caller's next print page.
func StageDraftCommandHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, ok := sessioncontext.GetSessionFromContext(r.Context())
		if !ok {
			http.Error(w, "unauthorized", http.StatusUnauthorized)
			return
		}
		raw, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxDraftBytes))
		if err != nil {
			http.Error(w, "draft too large", http.StatusRequestEntityTooLarge)
			return
		}
		draft, err := StaticDraft(raw).LoadDraft()
		if err != nil {
			if errors.Is(err, ErrNoDraft) {
				http.Error(w, "draft body is required", http.StatusBadRequest)
				return
			}
			http.Error(w, "draft is not valid JSON", http.StatusBadRequest)
			return
		}
		d.Drafts.Put(session.ID, raw)
		if err := RecordDraftStaged(r.Context(), d.DB, d.Audit, session.UserID, draft); err != nil {
			slog.Error("audit draft staged", slog.Any("err", err))
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]string{"printUrl": landingPath + "?draft=1"})
	}
}

// DiscardDraftCommandHandler clears the caller's staged draft.
func DiscardDraftCommandHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if session, ok := sessioncontext.GetSessionFromContext(r.Context()); ok {
			d.Drafts.Delete(session.ID)
		}
		w.WriteHeader(http.StatusNoContent)
	}
}

// PrintRunsQueryHandler lists recent print runs for admins.
func PrintRunsQueryHandler(d *Deps) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		session, _ := sessioncontext.GetSessionFromContext(r.Context())
		runs, err := ListPrintRuns(r.Context(), d.DB, 200)
		if err != nil {
			http.Error(w, "failed to load print runs", http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "text/html; charset=utf-8")
		if err := PrintRunsPage(nav.BuildTopNavData(session), runs).Render(r.Context(), w); err != nil {
			http.Error(w, "failed to render print runs", http.StatusInternalServerError)
		}
	}
}
