// Package cyresttest provides an in-process fake CyREST server for tests.
//
// The fake implements the endpoints used by cytopush, records every call,
// and exposes knobs for the failure modes the client must handle:
//
//	srv := cyresttest.New()
//	defer srv.Close()
//	srv.OmitSUID = true // POST /networks replies without networkSUID
//
//	client, _ := cyrest.NewClient(srv.BaseURL())
package cyresttest

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"slices"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"
)

// Route names used by [Server.Fail].
const (
	RouteStatus        = "GET /"
	RouteCreateNetwork = "POST /networks"
	RouteListLayouts   = "GET /apply/layouts"
	RouteApplyLayout   = "GET /apply/layouts/{layout}/{suid}"
	RouteDeleteStyles  = "DELETE /styles"
	RouteCreateStyle   = "POST /styles"
	RouteApplyStyle    = "GET /apply/styles/{style}/{suid}"
)

// DefaultLayouts is the layout list served unless Layouts is changed.
var DefaultLayouts = []string{"circular", "force-directed", "grid", "hierarchical", "kamada-kawai"}

// Call is one recorded request.
type Call struct {
	Method      string
	Path        string // escaped request path, e.g. /v1/apply/styles/My%20Visual%20Style/52
	Route       string // matched Route* constant
	ContentType string
	RequestID   string
	Body        []byte
}

// Server is a fake CyREST v1 server. Exported knobs must be set before the
// first request.
type Server struct {
	*httptest.Server

	// FirstSUID is the SUID handed to the first created network.
	FirstSUID int64

	// OmitSUID makes POST /networks reply with {} instead of {"networkSUID": n}.
	OmitSUID bool

	// NetworkReply, when set, is written verbatim as the POST /networks body.
	NetworkReply string

	// RenameStyle rewrites the title of a registered style, as a server
	// deduplicating names would.
	RenameStyle func(title string) string

	// Layouts is the set of known layout names.
	Layouts []string

	mu       sync.Mutex
	calls    []Call
	failures map[string]int
	nextSUID int64
	networks map[int64][]byte
	styles   []string
	layout   map[int64]string
	applied  map[int64]string
}

// New starts a fake server. Callers must Close it.
func New() *Server {
	s := &Server{
		FirstSUID: 52,
		Layouts:   slices.Clone(DefaultLayouts),
		failures:  make(map[string]int),
		networks:  make(map[int64][]byte),
		layout:    make(map[int64]string),
		applied:   make(map[int64]string),
		styles:    []string{"default"},
	}
	s.Server = httptest.NewServer(s.routes())
	return s
}

// BaseURL returns the v1 API root of the fake.
func (s *Server) BaseURL() string { return s.URL + "/v1/" }

// Fail makes route answer with status from now on.
func (s *Server) Fail(route string, status int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.failures[route] = status
}

// Calls returns the recorded requests in arrival order.
func (s *Server) Calls() []Call {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.calls)
}

// Routes returns the matched route of every recorded request.
func (s *Server) Routes() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	routes := make([]string, len(s.calls))
	for i, c := range s.calls {
		routes[i] = c.Route
	}
	return routes
}

// Network returns the body posted for network suid.
func (s *Server) Network(suid int64) ([]byte, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	b, ok := s.networks[suid]
	return b, ok
}

// Styles returns the titles of the registered styles.
func (s *Server) Styles() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return slices.Clone(s.styles)
}

// AppliedLayout returns the last layout applied to network suid.
func (s *Server) AppliedLayout(suid int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.layout[suid]
}

// AppliedStyle returns the style bound to network suid.
func (s *Server) AppliedStyle(suid int64) string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.applied[suid]
}

func (s *Server) routes() http.Handler {
	r := chi.NewRouter()
	r.Route("/v1", func(r chi.Router) {
		r.Get("/", s.record(RouteStatus, s.handleStatus))
		r.Post("/networks", s.record(RouteCreateNetwork, s.handleCreateNetwork))
		r.Get("/apply/layouts", s.record(RouteListLayouts, s.handleListLayouts))
		r.Get("/apply/layouts/{layout}/{suid}", s.record(RouteApplyLayout, s.handleApplyLayout))
		r.Delete("/styles", s.record(RouteDeleteStyles, s.handleDeleteStyles))
		r.Post("/styles", s.record(RouteCreateStyle, s.handleCreateStyle))
		r.Get("/apply/styles/{style}/{suid}", s.record(RouteApplyStyle, s.handleApplyStyle))
	})
	return r
}

// record logs the call and short-circuits configured failures.
func (s *Server) record(route string, next func(http.ResponseWriter, *http.Request, []byte)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		body, _ := io.ReadAll(r.Body)

		s.mu.Lock()
		s.calls = append(s.calls, Call{
			Method:      r.Method,
			Path:        r.URL.EscapedPath(),
			Route:       route,
			ContentType: r.Header.Get("Content-Type"),
			RequestID:   r.Header.Get("X-Request-ID"),
			Body:        body,
		})
		status, fail := s.failures[route]
		s.mu.Unlock()

		if fail {
			writeJSON(w, status, map[string]any{"errors": []map[string]string{{"message": "injected failure"}}})
			return
		}
		next(w, r, body)
	}
}

func (s *Server) handleStatus(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, map[string]any{
		"apiVersion":    "v1",
		"numberOfCores": 8,
		"memoryStatus":  map[string]int64{"usedMemory": 512, "freeMemory": 1024, "totalMemory": 1536, "maxMemory": 4096},
	})
}

func (s *Server) handleCreateNetwork(w http.ResponseWriter, _ *http.Request, body []byte) {
	if !json.Valid(body) {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "invalid JSON"})
		return
	}

	s.mu.Lock()
	if s.nextSUID == 0 {
		s.nextSUID = s.FirstSUID
	}
	suid := s.nextSUID
	s.nextSUID++
	s.networks[suid] = body
	s.mu.Unlock()

	if s.NetworkReply != "" {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		io.WriteString(w, s.NetworkReply)
		return
	}
	if s.OmitSUID {
		writeJSON(w, http.StatusOK, map[string]any{})
		return
	}
	writeJSON(w, http.StatusOK, map[string]int64{"networkSUID": suid})
}

func (s *Server) handleListLayouts(w http.ResponseWriter, _ *http.Request, _ []byte) {
	writeJSON(w, http.StatusOK, s.Layouts)
}

func (s *Server) handleApplyLayout(w http.ResponseWriter, r *http.Request, _ []byte) {
	name := param(r, "layout")
	suid, ok := s.lookupNetwork(w, r)
	if !ok {
		return
	}
	if !slices.Contains(s.Layouts, name) {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such layout: " + name})
		return
	}

	s.mu.Lock()
	s.layout[suid] = name
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]string{"message": "Layout applied successfully."})
}

func (s *Server) handleDeleteStyles(w http.ResponseWriter, _ *http.Request, _ []byte) {
	s.mu.Lock()
	// Cytoscape always keeps its built-in style.
	s.styles = []string{"default"}
	s.mu.Unlock()
	writeJSON(w, http.StatusOK, map[string]any{})
}

func (s *Server) handleCreateStyle(w http.ResponseWriter, _ *http.Request, body []byte) {
	var in struct {
		Title string `json:"title"`
	}
	if err := json.Unmarshal(body, &in); err != nil || in.Title == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "style needs a title"})
		return
	}

	title := in.Title
	if s.RenameStyle != nil {
		title = s.RenameStyle(title)
	}

	s.mu.Lock()
	base := title
	for n := 1; slices.Contains(s.styles, title); n++ {
		title = base + "_" + strconv.Itoa(n)
	}
	s.styles = append(s.styles, title)
	s.mu.Unlock()

	writeJSON(w, http.StatusOK, map[string]string{"title": title})
}

func (s *Server) handleApplyStyle(w http.ResponseWriter, r *http.Request, _ []byte) {
	name := param(r, "style")
	suid, ok := s.lookupNetwork(w, r)
	if !ok {
		return
	}

	s.mu.Lock()
	known := slices.Contains(s.styles, name)
	if known {
		s.applied[suid] = name
	}
	s.mu.Unlock()

	if !known {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such style: " + name})
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"message": "Visual Style applied."})
}

func (s *Server) lookupNetwork(w http.ResponseWriter, r *http.Request) (int64, bool) {
	suid, err := strconv.ParseInt(param(r, "suid"), 10, 64)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"message": "bad network SUID"})
		return 0, false
	}
	s.mu.Lock()
	_, exists := s.networks[suid]
	s.mu.Unlock()
	if !exists {
		writeJSON(w, http.StatusNotFound, map[string]string{"message": "no such network"})
		return 0, false
	}
	return suid, true
}

// param returns an unescaped URL parameter; chi yields escaped values when
// the request needed a raw path.
func param(r *http.Request, key string) string {
	v := chi.URLParam(r, key)
	if u, err := url.PathUnescape(v); err == nil {
		return u
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}
