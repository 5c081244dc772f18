package http

import (
	"bytes"
	"context"
	"embed"
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"time"

	sharedobs "github.com/couchcryptid/storm-data-shared/observability"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/couchcryptid/typhoon-dashboard/internal/adapter/chart"
	"github.com/couchcryptid/typhoon-dashboard/internal/dashboard"
	"github.com/couchcryptid/typhoon-dashboard/internal/domain"
	"github.com/couchcryptid/typhoon-dashboard/internal/view"
)

//go:embed templates/*.html
var templateFiles embed.FS

// Dashboard is the application surface served over HTTP.
type Dashboard interface {
	Render(ctx context.Context, in view.Intent) view.Page
	Chart(ctx context.Context, w io.Writer, in view.Intent, id string) error
	Export(ctx context.Context, w io.Writer, name domain.Name, format string) error
	Reload()
	sharedobs.ReadinessChecker
}

// Server serves the dashboard pages, charts, and exports alongside the
// health, readiness, and metrics endpoints.
type Server struct {
	httpServer *http.Server
	dash       Dashboard
	pages      *template.Template
	logger     *slog.Logger
}

// NewServer builds the router. POST /admin/reload is only mounted in dev mode.
func NewServer(addr string, dash Dashboard, devMode bool, logger *slog.Logger) (*Server, error) {
	pages, err := template.New("").Funcs(template.FuncMap{
		"chartURL": chartURL,
		"viewURL":  viewURL,
	}).ParseFS(templateFiles, "templates/*.html")
	if err != nil {
		return nil, err
	}

	r := chi.NewRouter()
	s := &Server{
		httpServer: &http.Server{
			Addr:         addr,
			Handler:      r,
			ReadTimeout:  10 * time.Second,
			WriteTimeout: 10 * time.Second,
			IdleTimeout:  60 * time.Second,
		},
		dash:   dash,
		pages:  pages,
		logger: logger,
	}

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(logger))
	r.Use(middleware.Recoverer)

	r.Get("/", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/views/"+string(view.Overview), http.StatusFound)
	})
	r.Get("/views/{section}", s.handlePage)
	r.Get("/api/views/{section}", s.handlePageJSON)
	r.Get("/charts/{section}/{chart}", s.handleChart)
	r.Get("/export/{file}", s.handleExport)
	if devMode {
		r.Post("/admin/reload", s.handleReload)
	}

	r.Get("/healthz", sharedobs.LivenessHandler())
	r.Get("/readyz", sharedobs.ReadinessHandler(dash))
	r.Handle("/metrics", promhttp.Handler())

	return s, nil
}

// Start begins listening. Returns http.ErrServerClosed on graceful shutdown.
func (s *Server) Start() error {
	s.logger.Info("http server starting", "addr", s.httpServer.Addr)
	return s.httpServer.ListenAndServe()
}

// Shutdown gracefully drains connections within the given context deadline.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}

// ServeHTTP delegates to the underlying handler, useful for testing.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.httpServer.Handler.ServeHTTP(w, r)
}

type pageData struct {
	view.Page
	Sections []view.Section
	Decades  []domain.Decade
}

func (s *Server) handlePage(w http.ResponseWriter, r *http.Request) {
	in, ok := s.intent(w, r)
	if !ok {
		return
	}
	p := s.dash.Render(r.Context(), in)

	var buf bytes.Buffer
	if err := s.pages.ExecuteTemplate(&buf, "page.html", pageData{Page: p, Sections: view.Sections, Decades: domain.Decades}); err != nil {
		s.logger.Error("template render failed", "section", in.Section, "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handlePageJSON(w http.ResponseWriter, r *http.Request) {
	in, ok := s.intent(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, s.dash.Render(r.Context(), in))
}

func (s *Server) handleChart(w http.ResponseWriter, r *http.Request) {
	in, ok := s.intent(w, r)
	if !ok {
		return
	}
	id, found := strings.CutSuffix(chi.URLParam(r, "chart"), ".svg")
	if !found {
		writeError(w, http.StatusNotFound, "charts are served as .svg")
		return
	}

	var buf bytes.Buffer
	if err := s.dash.Chart(r.Context(), &buf, in, id); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", chart.ContentType)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleExport(w http.ResponseWriter, r *http.Request) {
	file := chi.URLParam(r, "file")
	format := strings.TrimPrefix(path.Ext(file), ".")
	contentType, ok := view.ContentTypes[format]
	if !ok {
		writeError(w, http.StatusNotFound, "unknown export format")
		return
	}
	name, err := domain.ParseName(strings.TrimSuffix(file, path.Ext(file)))
	if err != nil {
		s.fail(w, err)
		return
	}

	var buf bytes.Buffer
	if err := s.dash.Export(r.Context(), &buf, name, format); err != nil {
		s.fail(w, err)
		return
	}
	w.Header().Set("Content-Type", contentType)
	w.Header().Set("Content-Disposition", `attachment; filename="`+file+`"`)
	_, _ = w.Write(buf.Bytes())
}

func (s *Server) handleReload(w http.ResponseWriter, _ *http.Request) {
	s.dash.Reload()
	w.WriteHeader(http.StatusNoContent)
}

// intent parses the section path parameter and the selection query. It
// writes the error response itself and reports whether to continue.
func (s *Server) intent(w http.ResponseWriter, r *http.Request) (view.Intent, bool) {
	q := r.URL.Query()
	in, err := view.ParseIntent(chi.URLParam(r, "section"), q.Get("decade"), q.Get("storm"), q.Get("dataset"))
	if err != nil {
		s.fail(w, err)
		return view.Intent{}, false
	}
	return in, true
}

// fail maps an error to its status code.
func (s *Server) fail(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, view.ErrUnknownSection),
		errors.Is(err, domain.ErrUnknownDataset),
		errors.Is(err, dashboard.ErrUnknownChart),
		errors.Is(err, dashboard.ErrUnavailable),
		errors.Is(err, dashboard.ErrUnknownFormat):
		writeError(w, http.StatusNotFound, err.Error())
	case errors.Is(err, domain.ErrUnknownDecade):
		writeError(w, http.StatusBadRequest, err.Error())
	default:
		s.logger.Error("request failed", "error", err)
		writeError(w, http.StatusInternalServerError, "internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func requestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)
			logger.Debug("http request",
				"method", r.Method,
				"path", r.URL.Path,
				"status", ww.Status(),
				"bytes", ww.BytesWritten(),
				"duration", time.Since(start),
				"request_id", middleware.GetReqID(r.Context()),
			)
		})
	}
}

// viewURL links to another section, keeping only the decade filter.
func viewURL(in view.Intent, sec view.Section) string {
	u := "/views/" + string(sec)
	if q := (view.Intent{Decade: in.Decade}).Query().Encode(); q != "" {
		u += "?" + q
	}
	return u
}

func chartURL(in view.Intent, id string) string {
	u := "/charts/" + string(in.Section) + "/" + id + ".svg"
	if q := in.Query().Encode(); q != "" {
		u += "?" + q
	}
	return u
}
