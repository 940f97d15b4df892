// Package web serves the catalog browser: a server-rendered page whose
// buttons post back to the view controller, plus a small JSON API.
package web

import (
	"encoding/json"
	"errors"
	"html/template"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/takeshy/drivevids/internal/catalog"
	"github.com/takeshy/drivevids/internal/gemini"
	"github.com/takeshy/drivevids/internal/view"
)

// Options configures NewServer.
type Options struct {
	Controller *view.Controller
	// Assistant may be nil; the AI endpoints then return empty lists.
	Assistant *gemini.Assistant
	// APIKey, when set, is required on every route except /health.
	APIKey string
	// MCP and SSE are mounted at /mcp and /sse when non-nil.
	MCP     http.Handler
	SSE     http.Handler
	Logger  *log.Logger
	Verbose bool
	Version string
}

type server struct {
	ctl       *view.Controller
	assistant *gemini.Assistant
	logger    *log.Logger
	version   string
	tpl       *template.Template
}

// NewServer builds the HTTP handler with its middleware chain.
func NewServer(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}
	s := &server{
		ctl:       opts.Controller,
		assistant: opts.Assistant,
		logger:    logger,
		version:   opts.Version,
		tpl:       template.Must(template.New("page").Parse(pageTpl)),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("GET /{$}", s.handleIndex)
	mux.HandleFunc("GET /health", s.handleHealth)
	mux.HandleFunc("GET /api/videos", s.handleVideos)
	mux.HandleFunc("GET /api/suggest", s.handleSuggest)
	mux.HandleFunc("GET /api/ai-filter", s.handleAIFilter)
	mux.HandleFunc("POST /search", s.handleSearch)
	mux.HandleFunc("POST /sort", s.handleSort)
	mux.HandleFunc("POST /view", s.handleView)
	mux.HandleFunc("POST /refresh", s.handleRefresh)
	mux.HandleFunc("POST /select/{id}", s.handleSelect)
	mux.HandleFunc("POST /select-all", s.handleSelectAll)
	mux.HandleFunc("POST /preview/close", s.handleClosePreview)
	mux.HandleFunc("POST /preview/{id}", s.handlePreview)
	mux.HandleFunc("POST /download/{id}", s.handleDownload)
	mux.HandleFunc("POST /download-selected", s.handleBulkDownload)
	mux.HandleFunc("POST /link/{id}", s.handleCopyLink)
	if opts.MCP != nil {
		mux.Handle("/mcp", opts.MCP)
	}
	if opts.SSE != nil {
		mux.Handle("/sse", opts.SSE)
	}

	var handler http.Handler = mux
	if opts.APIKey != "" {
		handler = APIKeyMiddleware(opts.APIKey, logger, handler)
	}
	if opts.Verbose {
		handler = RequestLogger(logger, handler)
	}
	return SecurityHeaders(handler)
}

// ensureLoaded runs the initial fetch on first use. After a failure the
// page shows the error until an explicit refresh.
func (s *server) ensureLoaded(r *http.Request) {
	if s.ctl.Loaded() || s.ctl.Err() != nil {
		return
	}
	_ = s.ctl.Refresh(r.Context())
}

func (s *server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.ensureLoaded(r)
	snap := s.ctl.Snapshot()

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if err := s.tpl.Execute(w, pageData{Snapshot: snap, AI: s.assistant.Enabled()}); err != nil {
		s.logger.Printf("render page: %v", err)
	}
}

type pageData struct {
	view.Snapshot
	AI bool
}

type healthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
	Version   string    `json:"version,omitempty"`
	Loaded    bool      `json:"loaded"`
	Videos    int       `json:"videos"`
}

func (s *server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.sendJSON(w, http.StatusOK, healthResponse{
		Status:    "ok",
		Timestamp: time.Now(),
		Version:   s.version,
		Loaded:    s.ctl.Loaded(),
		Videos:    len(s.ctl.Videos()),
	})
}

func (s *server) handleVideos(w http.ResponseWriter, r *http.Request) {
	s.ensureLoaded(r)
	s.sendJSON(w, http.StatusOK, s.ctl.Snapshot())
}

func (s *server) handleSuggest(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	terms := []string{}
	if q != "" && s.assistant.Enabled() {
		s.ensureLoaded(r)
		videos := s.ctl.Videos()
		names := make([]string, len(videos))
		for i, v := range videos {
			names[i] = v.Name
		}
		terms = s.assistant.Suggest(r.Context(), q, names)
	}
	s.sendJSON(w, http.StatusOK, map[string][]string{"terms": terms})
}

func (s *server) handleAIFilter(w http.ResponseWriter, r *http.Request) {
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	matches := []catalog.Video{}
	if q != "" && s.assistant.Enabled() {
		s.ensureLoaded(r)
		videos := s.ctl.Videos()
		refs := make([]gemini.VideoRef, len(videos))
		for i, v := range videos {
			refs[i] = gemini.VideoRef{ID: v.ID, Name: v.Name}
		}
		for _, id := range s.assistant.Filter(r.Context(), q, refs) {
			if v, ok := s.ctl.Video(id); ok {
				matches = append(matches, v)
			}
		}
	}
	s.sendJSON(w, http.StatusOK, map[string][]catalog.Video{"videos": matches})
}

func (s *server) handleSearch(w http.ResponseWriter, r *http.Request) {
	s.ctl.SetQuery(r.FormValue("q"))
	s.done(w, r, nil)
}

func (s *server) handleSort(w http.ResponseWriter, r *http.Request) {
	s.ctl.SetSort(view.ParseSortOrder(r.FormValue("order")))
	s.done(w, r, nil)
}

func (s *server) handleView(w http.ResponseWriter, r *http.Request) {
	s.ctl.SetViewMode(view.ParseMode(r.FormValue("mode")))
	s.done(w, r, nil)
}

func (s *server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	if err := s.ctl.Refresh(r.Context()); err != nil && wantsJSON(r) {
		s.sendError(w, http.StatusBadGateway, err.Error())
		return
	}
	s.done(w, r, nil)
}

func (s *server) handleSelect(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.ctl.Video(id); !ok {
		s.sendError(w, http.StatusNotFound, "video not found")
		return
	}
	selected := s.ctl.Toggle(id)
	s.done(w, r, map[string]bool{"selected": selected})
}

func (s *server) handleSelectAll(w http.ResponseWriter, r *http.Request) {
	s.ctl.ToggleAll()
	s.done(w, r, map[string]bool{"allSelected": s.ctl.AllSelected()})
}

func (s *server) handlePreview(w http.ResponseWriter, r *http.Request) {
	if !s.ctl.Preview(r.PathValue("id")) {
		s.sendError(w, http.StatusNotFound, "video not found")
		return
	}
	s.done(w, r, nil)
}

func (s *server) handleClosePreview(w http.ResponseWriter, r *http.Request) {
	s.ctl.ClosePreview()
	s.done(w, r, nil)
}

type downloadResponse struct {
	Mode string `json:"mode"`
	Link string `json:"link,omitempty"`
}

// handleDownload saves small files into the download directory and sends
// the browser to the link itself for large ones.
func (s *server) handleDownload(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, ok := s.ctl.Video(id); !ok {
		s.sendError(w, http.StatusNotFound, "video not found")
		return
	}

	mode, link := s.ctl.Download(id)
	switch mode {
	case view.DownloadExternal:
		if wantsJSON(r) {
			s.sendJSON(w, http.StatusOK, downloadResponse{Mode: "external", Link: link})
			return
		}
		http.Redirect(w, r, link, http.StatusSeeOther)
	case view.DownloadBackground:
		s.done(w, r, downloadResponse{Mode: "background"})
	default:
		s.done(w, r, downloadResponse{Mode: "skipped"})
	}
}

func (s *server) handleBulkDownload(w http.ResponseWriter, r *http.Request) {
	n := s.ctl.BulkDownload()
	s.done(w, r, map[string]int{"scheduled": n})
}

func (s *server) handleCopyLink(w http.ResponseWriter, r *http.Request) {
	url, err := s.ctl.CopyLink(r.PathValue("id"))
	if errors.Is(err, view.ErrNotFound) {
		s.sendError(w, http.StatusNotFound, "video not found")
		return
	}
	if err != nil {
		s.logger.Printf("copy link: %v", err)
	}
	s.done(w, r, map[string]string{"url": url})
}

// done answers a state-changing request: JSON for API clients, a redirect
// back to the page for form posts.
func (s *server) done(w http.ResponseWriter, r *http.Request, payload any) {
	if wantsJSON(r) {
		if payload == nil {
			payload = map[string]bool{"ok": true}
		}
		s.sendJSON(w, http.StatusOK, payload)
		return
	}
	http.Redirect(w, r, "/", http.StatusSeeOther)
}

func wantsJSON(r *http.Request) bool {
	return strings.Contains(r.Header.Get("Accept"), "application/json")
}

func (s *server) sendJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *server) sendError(w http.ResponseWriter, status int, msg string) {
	s.sendJSON(w, status, map[string]string{"error": msg})
}
