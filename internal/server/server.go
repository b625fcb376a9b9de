// Package server exposes a base16sh.Service over HTTP.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strings"
	"time"

	"github.com/jsvensson/base16sh"
	"github.com/jsvensson/base16sh/internal/catalog"
	"github.com/jsvensson/base16sh/internal/scheme"
	"github.com/tliron/commonlog"
)

// Banner is the body served at the root path.
const Banner = "base16.sh server"

// Response headers describing the served scheme.
const (
	HeaderSchemeName   = "X-Scheme-Name"
	HeaderSchemeSystem = "X-Scheme-System"
	HeaderSchemePrev   = "X-Scheme-Prev"
	HeaderSchemeNext   = "X-Scheme-Next"
	HeaderTemplateName = "X-Template-Name"
)

const (
	contentTypeYAML = "application/yaml"
	contentTypeJSON = "application/json"
	contentTypeText = "text/plain; charset=utf-8"
)

var log = commonlog.GetLogger("base16sh.server")

// Server routes HTTP requests to a Service.
type Server struct {
	svc *base16sh.Service
	mux *http.ServeMux
}

// New creates a server for svc with all routes registered.
func New(svc *base16sh.Service) *Server {
	s := &Server{svc: svc, mux: http.NewServeMux()}
	s.register()
	return s
}

func (s *Server) register() {
	s.mux.HandleFunc("GET /{$}", s.handleBanner)
	s.mux.HandleFunc("GET /api/schemes", s.handleListSchemes)
	s.mux.HandleFunc("GET /api/schemes/{scheme}/neighbors", s.handleNeighbors)
	s.mux.HandleFunc("GET /api/templates", s.handleListTemplates)
	s.mux.HandleFunc("GET /{scheme}", s.handleScheme)
	s.mux.HandleFunc("GET /{scheme}/{template}", s.handleRender)
}

// Handler returns the HTTP handler with request logging applied.
func (s *Server) Handler() http.Handler {
	return logRequests(s.mux)
}

// Run serves on addr until ctx is cancelled, then shuts down gracefully,
// waiting at most timeout for in-flight requests.
func (s *Server) Run(ctx context.Context, addr string, timeout time.Duration) error {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return fmt.Errorf("listening on %s: %w", addr, err)
	}
	return s.Serve(ctx, ln, timeout)
}

// Serve is Run on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener, timeout time.Duration) error {
	srv := &http.Server{
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errc := make(chan error, 1)
	go func() {
		log.Infof("listening on %s", ln.Addr())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	log.Infof("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}
	if err := <-errc; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("http server: %w", err)
	}
	return nil
}

func (s *Server) handleBanner(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = w.Write([]byte(Banner))
}

type schemeListResponse struct {
	Order   string   `json:"order"`
	Schemes []string `json:"schemes"`
}

func (s *Server) handleListSchemes(w http.ResponseWriter, r *http.Request) {
	order, ok := parseOrder(w, r)
	if !ok {
		return
	}
	writeJSON(w, http.StatusOK, schemeListResponse{
		Order:   order.String(),
		Schemes: s.svc.ListSchemeNames(order),
	})
}

type templateListResponse struct {
	Templates []string `json:"templates"`
}

func (s *Server) handleListTemplates(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, templateListResponse{Templates: s.svc.ListTemplateNames()})
}

type neighborsResponse struct {
	Name  string `json:"name"`
	Order string `json:"order"`
	Prev  string `json:"prev,omitempty"`
	Next  string `json:"next,omitempty"`
}

func (s *Server) handleNeighbors(w http.ResponseWriter, r *http.Request) {
	order, ok := parseOrder(w, r)
	if !ok {
		return
	}

	res, err := s.svc.ResolveScheme(r.PathValue("scheme"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	if res.Redirect {
		redirect(w, r, "/api/schemes/"+res.Record.Name+"/neighbors")
		return
	}

	prev, next, err := s.svc.Neighbors(res.Record.Name, order)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, neighborsResponse{
		Name:  res.Record.Name,
		Order: order.String(),
		Prev:  prev,
		Next:  next,
	})
}

type schemeResponse struct {
	Name       string            `json:"name"`
	System     scheme.System     `json:"system"`
	Prev       string            `json:"prev,omitempty"`
	Next       string            `json:"next,omitempty"`
	Definition scheme.Definition `json:"definition"`
}

func (s *Server) handleScheme(w http.ResponseWriter, r *http.Request) {
	order, ok := parseOrder(w, r)
	if !ok {
		return
	}

	res, err := s.svc.ResolveScheme(r.PathValue("scheme"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := res.Record
	if res.Redirect {
		redirect(w, r, "/"+rec.Name)
		return
	}

	prev, next := s.neighbors(rec.Name, order)
	setSchemeHeaders(w, rec, prev, next)

	if wantsJSON(r) {
		def, err := s.svc.LoadScheme(rec)
		if err != nil {
			writeError(w, r, err)
			return
		}
		writeJSON(w, http.StatusOK, schemeResponse{
			Name:       rec.Name,
			System:     rec.System,
			Prev:       prev,
			Next:       next,
			Definition: def,
		})
		return
	}

	raw, err := s.svc.RawScheme(rec)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", contentTypeYAML)
	_, _ = w.Write(raw)
}

func (s *Server) handleRender(w http.ResponseWriter, r *http.Request) {
	order, ok := parseOrder(w, r)
	if !ok {
		return
	}

	res, err := s.svc.ResolveScheme(r.PathValue("scheme"))
	if err != nil {
		writeError(w, r, err)
		return
	}
	tmplName := r.PathValue("template")
	tmpl, err := s.svc.ResolveTemplate(tmplName)
	if err != nil {
		writeError(w, r, err)
		return
	}
	rec := res.Record
	if res.Redirect || tmplName != tmpl.Key {
		redirect(w, r, "/"+rec.Name+"/"+tmpl.Key)
		return
	}

	out, err := s.svc.Render(rec, tmpl, order)
	if err != nil {
		writeError(w, r, err)
		return
	}

	prev, next := s.neighbors(rec.Name, order)
	setSchemeHeaders(w, rec, prev, next)
	w.Header().Set(HeaderTemplateName, tmpl.Key)
	w.Header().Set("Content-Type", contentTypeText)
	_, _ = w.Write([]byte(out))
}

// neighbors looks up navigation for a resolved scheme. A scheme missing from
// the color order simply has no neighbours there.
func (s *Server) neighbors(name string, order catalog.Order) (prev, next string) {
	prev, next, err := s.svc.Neighbors(name, order)
	if err != nil {
		log.Debugf("no neighbours for %s: %v", name, err)
	}
	return prev, next
}

func setSchemeHeaders(w http.ResponseWriter, rec catalog.SchemeRecord, prev, next string) {
	h := w.Header()
	h.Set(HeaderSchemeName, rec.Name)
	h.Set(HeaderSchemeSystem, string(rec.System))
	if prev != "" {
		h.Set(HeaderSchemePrev, prev)
	}
	if next != "" {
		h.Set(HeaderSchemeNext, next)
	}
}

func parseOrder(w http.ResponseWriter, r *http.Request) (catalog.Order, bool) {
	order, err := catalog.ParseOrder(r.URL.Query().Get("order"))
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return order, false
	}
	return order, true
}

func wantsJSON(r *http.Request) bool {
	if r.URL.Query().Get("format") == "json" {
		return true
	}
	return strings.Contains(r.Header.Get("Accept"), contentTypeJSON)
}

// redirect sends a permanent redirect to path, keeping the query string.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.URL.RawQuery != "" {
		path += "?" + r.URL.RawQuery
	}
	http.Redirect(w, r, path, http.StatusMovedPermanently)
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, catalog.ErrNotFound) {
		http.Error(w, "not found", http.StatusNotFound)
		return
	}
	log.Errorf("%s %s: %v", r.Method, r.URL.Path, err)
	http.Error(w, "internal server error", http.StatusInternalServerError)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", contentTypeJSON)
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Errorf("writeJSON error: %v", err)
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		log.Debugf("%s %s %d %s", r.Method, r.URL.RequestURI(), rec.status, time.Since(start))
	})
}
