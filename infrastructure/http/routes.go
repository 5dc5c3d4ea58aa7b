package http

import (
	"net/http"

	adminusers "godam/frontend/adminUsers"
	"godam/frontend/deliveryNotes/printing"
	exportspage "godam/frontend/exports"
	"godam/frontend/help"
	"godam/frontend/login"
	orderprogress "godam/frontend/orders/progress"
	"godam/infrastructure/rbac"

	"github.com/go-chi/chi/v5"
)

var (
	everyone   = []string{rbac.RoleAdmin, rbac.RoleDispatcher}
	adminsOnly = []string{rbac.RoleAdmin}
)

// RegisterLoginRoutes registers login/logout routes.
func (s *Server) RegisterLoginRoutes() {
	s.router.Get("/login", login.GetLoginScreenHandler)
	s.router.Post("/login", login.CreateLoginHandler(s.DB, s.Audit, s.SessionCache, s.UserCache, s.SecureCookie))
	s.router.Post("/logout", login.LogoutHandler(s.DB, s.SessionCache, s.Drafts, s.SecureCookie))
}

// RegisterAdminRoutes registers admin-only routes.
func (s *Server) RegisterAdminRoutes(r chi.Router) chi.Router {
	s.Rbac.Grant(adminsOnly, "PRINT_RUNS_VIEW", http.MethodGet, "/tasker/admin/print-runs")
	r.Get("/admin/print-runs", printing.PrintRunsQueryHandler(s.Print))

	s.Rbac.Grant(adminsOnly, "ADMIN_USERS_VIEW", http.MethodGet, "/tasker/admin/users")
	r.Get("/admin/users", adminusers.UsersPageQueryHandler(s.DB))
	s.Rbac.Grant(adminsOnly, "ADMIN_USERS_CREATE", http.MethodPost, "/tasker/admin/users")
	r.Post("/admin/users", adminusers.CreateUserCommandHandler(s.DB, s.Audit, s.UserCache))
	return r
}

// RegisterFrontendRoutes registers authenticated routes.
func (s *Server) RegisterFrontendRoutes(r chi.Router) chi.Router {
	s.RegisterPrintRoutes(r)
	s.RegisterOrderRoutes(r)
	s.RegisterExportRoutes(r)

	s.Rbac.Grant(everyone, "HELP_VIEW", http.MethodGet, "/tasker/help")
	r.Get("/help", help.HelpPageQueryHandler())
	return r
}

func (s *Server) RegisterPrintRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "DELIVERY_NOTE_PRINT_VIEW", http.MethodGet, "/tasker/delivery-notes/print")
	r.Get("/delivery-notes/print", printing.PrintPageQueryHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_SURFACE", http.MethodGet, "/tasker/delivery-notes/print/*/surface")
	r.Get("/delivery-notes/print/{session}/surface", printing.SurfacePageQueryHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_SURFACE", http.MethodGet, "/tasker/delivery-notes/print/*/ws")
	r.Get("/delivery-notes/print/{session}/ws", printing.SurfaceSocketHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_PRINT_VIEW", http.MethodGet, "/tasker/delivery-notes/print/*/status")
	r.Get("/delivery-notes/print/{session}/status", printing.StatusQueryHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_PRINT", http.MethodPost, "/tasker/delivery-notes/print/*/print")
	r.Post("/delivery-notes/print/{session}/print", printing.PrintCommandHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_LANGUAGE", http.MethodPost, "/tasker/delivery-notes/print/*/language")
	r.Post("/delivery-notes/print/{session}/language", printing.LanguageCommandHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_PDF", http.MethodGet, "/tasker/delivery-notes/print/*/pdf")
	r.Get("/delivery-notes/print/{session}/pdf", printing.PDFQueryHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_DRAFT", http.MethodPost, "/tasker/api/delivery-notes/draft")
	r.Post("/api/delivery-notes/draft", printing.StageDraftCommandHandler(s.Print))

	s.Rbac.Grant(everyone, "DELIVERY_NOTE_DRAFT", http.MethodDelete, "/tasker/api/delivery-notes/draft")
	r.Delete("/api/delivery-notes/draft", printing.DiscardDraftCommandHandler(s.Print))
}

func (s *Server) RegisterOrderRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "ORDER_PROGRESS_VIEW", http.MethodGet, "/tasker/orders")
	r.Get("/orders", orderprogress.OrdersLandingQueryHandler())

	s.Rbac.Grant(everyone, "ORDER_PROGRESS_VIEW", http.MethodGet, "/tasker/orders/*/progress")
	r.Get("/orders/{outboundNumber}/progress", orderprogress.OrderProgressQueryHandler(s.Progress))

	s.Rbac.Grant(everyone, "ORDER_PROGRESS_VIEW", http.MethodGet, "/tasker/orders/*/progress/ws")
	r.Get("/orders/{outboundNumber}/progress/ws", orderprogress.OrderProgressSocketHandler(s.Progress))
}

func (s *Server) RegisterExportRoutes(r chi.Router) {
	s.Rbac.Grant(everyone, "EXPORT_DELIVERY_NOTE", http.MethodGet, "/tasker/exports/delivery-notes/*")
	r.Get("/exports/delivery-notes/{session}.csv", exportspage.DeliveryNoteCSVHandler(s.Exports))
	r.Get("/exports/delivery-notes/{session}.xlsx", exportspage.DeliveryNoteXLSXHandler(s.Exports))

	s.Rbac.Grant(everyone, "EXPORT_ORDER_PROGRESS", http.MethodGet, "/tasker/exports/orders/*/progress.xlsx")
	r.Get("/exports/orders/{outboundNumber}/progress.xlsx", exportspage.OrderProgressXLSXHandler(s.Exports))
}
