package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"os"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/cors"
	"go.uber.org/zap"

	apimw "github.com/hamed0406/sitecheck/internal/httpapi/middleware"
	"github.com/hamed0406/sitecheck/internal/report"
)

type Server struct {
	Logger  *zap.Logger
	Reports Store
}

func NewServer(l *zap.Logger, reportDir string) *Server {
	if l == nil {
		l = zap.NewNop()
	}
	return &Server{Logger: l, Reports: Store{Dir: reportDir}}
}

// Router wires the read-only report routes behind key auth and a per-IP
// rate limit. Deleting a report needs a key with delete scope.
func (s *Server) Router(keys apimw.Keys, allowedOrigins []string, publicRPM, publicBurst int) http.Handler {
	r := chi.NewRouter()
	r.Use(corsHandler(allowedOrigins))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/api/reports", func(r chi.Router) {
		r.Use(apimw.RateLimit(publicRPM, publicBurst))
		r.Use(apimw.Require(keys, apimw.ScopeRead))

		r.Get("/", s.handleList)
		r.Get("/latest", s.handleLatest)
		r.Get("/{name}", s.handleGet)
		r.With(apimw.Require(keys, apimw.ScopeDelete)).Delete("/{name}", s.handleDelete)
	})
	return r
}

func corsHandler(origins []string) func(http.Handler) http.Handler {
	if len(origins) == 0 {
		return cors.AllowAll().Handler
	}
	return cors.Handler(cors.Options{
		AllowedOrigins: origins,
		AllowedMethods: []string{http.MethodGet, http.MethodDelete, http.MethodOptions},
		AllowedHeaders: []string{"Authorization", "X-API-Key", "Content-Type"},
		MaxAge:         300,
	})
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

func (s *Server) writeErr(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidName):
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": err.Error()})
	case errors.Is(err, ErrNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{"error": err.Error()})
	default:
		s.Logger.Error("report_store_error", zap.Error(err))
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "internal error"})
	}
}

func (s *Server) handleList(w http.ResponseWriter, r *http.Request) {
	list, err := s.Reports.List()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (s *Server) handleLatest(w http.ResponseWriter, r *http.Request) {
	doc, err := s.Reports.Latest()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	writeJSON(w, http.StatusOK, doc)
}

var contentTypes = map[report.Format]string{
	report.FormatText: "text/plain; charset=utf-8",
	report.FormatJSON: "application/json",
	report.FormatCSV:  "text/csv; charset=utf-8",
	report.FormatXLSX: "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet",
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	p, f, err := s.Reports.path(name)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	file, err := os.Open(p)
	if err != nil {
		s.writeErr(w, err)
		return
	}
	defer file.Close()
	info, err := file.Stat()
	if err != nil {
		s.writeErr(w, err)
		return
	}
	w.Header().Set("Content-Type", contentTypes[f])
	http.ServeContent(w, r, name, info.ModTime(), file)
}

func (s *Server) handleDelete(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	if err := s.Reports.Delete(name); err != nil {
		s.writeErr(w, err)
		return
	}
	s.Logger.Info("report_deleted", zap.String("name", name))
	w.WriteHeader(http.StatusNoContent)
}
