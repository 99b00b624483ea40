package web

import (
	"context"
	"crypto/subtle"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"dtrange/internal/config"
	"dtrange/internal/daterange"
	"dtrange/internal/ics"
	appLog "dtrange/internal/log"
	"dtrange/internal/model"
	"dtrange/internal/rangeerr"
	"dtrange/internal/stepspec"
	"dtrange/internal/timepoint"
)

// maxPoints bounds a single response when neither the request nor the
// config asks for less.
const maxPoints = 10000

// Server exposes range generation over HTTP.
type Server struct {
	cfg *config.Config
	mux *http.ServeMux
}

// NewServer constructs a new Server.
func NewServer(cfg *config.Config) *Server {
	s := &Server{
		cfg: cfg,
		mux: http.NewServeMux(),
	}
	s.registerRoutes()
	return s
}

// Handler returns the underlying http.Handler for this server.
func (s *Server) Handler() http.Handler {
	h := http.Handler(s.mux)
	if s.basicAuthEnabled() {
		appLog.Info("HTTP basic auth enabled", "listen", "http://"+s.cfg.Listen)
		return s.basicAuthMiddleware(h)
	}
	return h
}

func (s *Server) basicAuthEnabled() bool {
	if s.cfg == nil || s.cfg.BasicAuth == nil {
		return false
	}
	return s.cfg.BasicAuth.Username != "" && s.cfg.BasicAuth.Password != ""
}

// basicAuthMiddleware wraps all handlers except /health with HTTP Basic Auth.
func (s *Server) basicAuthMiddleware(next http.Handler) http.Handler {
	username := s.cfg.BasicAuth.Username
	password := s.cfg.BasicAuth.Password

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path == "/health" {
			next.ServeHTTP(w, r)
			return
		}

		u, p, ok := r.BasicAuth()
		if !ok || !secureCompare(u, username) || !secureCompare(p, password) {
			w.Header().Set("WWW-Authenticate", `Basic realm="dtrange", charset="UTF-8"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// secureCompare compares two strings in constant time.
func secureCompare(a, b string) bool {
	if len(a) != len(b) {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(a), []byte(b)) == 1
}

// Serve listens on cfg.Listen until ctx is canceled, then shuts down
// gracefully.
func Serve(ctx context.Context, cfg *config.Config) error {
	srv := &http.Server{
		Addr:              cfg.Listen,
		Handler:           NewServer(cfg).Handler(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		appLog.Info("starting HTTP server", "listen", "http://"+cfg.Listen)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) registerRoutes() {
	s.mux.HandleFunc("/health", s.handleHealth)
	s.mux.HandleFunc("/api/range", s.handleRange)
	s.mux.HandleFunc("/api/range.ics", s.handleRangeICS)
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok\n"))
}

type rangeResponse struct {
	Start     time.Time     `json:"start"`
	End       time.Time     `json:"end"`
	Step      string        `json:"step"`
	Direction string        `json:"direction"`
	Reason    string        `json:"reason,omitempty"`
	Truncated bool          `json:"truncated"`
	Points    []model.Point `json:"points"`
}

// handleRange serves:
//
//	GET /api/range?start=2022-01-01&end=2022-02-01&step=P1D&format=%25Y-%25m-%25d&limit=100
//
// step, format and tz default to the config; limit is capped at maxPoints.
func (s *Server) handleRange(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	p, limit, err := s.planFromQuery(r)
	if err != nil {
		writeRangeError(w, err)
		return
	}

	resp := rangeResponse{
		Start:     p.Start,
		End:       p.End,
		Step:      p.Step.String(),
		Direction: p.Direction.String(),
		Points:    []model.Point{},
	}
	if p.Empty() {
		resp.Reason = p.Reason.String()
	}

	for t := range p.All() {
		if len(resp.Points) == limit {
			resp.Truncated = true
			break
		}
		resp.Points = append(resp.Points, model.NewPoint(len(resp.Points), t))
	}

	appLog.Info("api range request",
		"start", resp.Start.Format(time.RFC3339Nano),
		"end", resp.End.Format(time.RFC3339Nano),
		"step", resp.Step,
		"count", len(resp.Points),
		"truncated", resp.Truncated,
	)
	writeJSON(w, http.StatusOK, resp)
}

// handleRangeICS serves the same query as an iCalendar feed.
func (s *Server) handleRangeICS(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeError(w, http.StatusMethodNotAllowed, "method not allowed")
		return
	}

	p, limit, err := s.planFromQuery(r)
	if err != nil {
		writeRangeError(w, err)
		return
	}

	seq := func(yield func(time.Time) bool) {
		n := 0
		for t := range p.All() {
			if n == limit || !yield(t) {
				return
			}
			n++
		}
	}

	w.Header().Set("Content-Type", "text/calendar; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	if _, err := ics.Encode(w, seq, ics.EncodeOptions{Summary: r.URL.Query().Get("summary")}); err != nil {
		appLog.Error("api range.ics: write failed", err)
	}
}

func (s *Server) planFromQuery(r *http.Request) (*daterange.Plan, int, error) {
	q := r.URL.Query()
	if q.Get("start") == "" || q.Get("end") == "" {
		return nil, 0, rangeerr.Configuration("start and end are required")
	}

	tz := s.cfg.Timezone
	if v := q.Get("tz"); v != "" {
		tz = v
	}
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, 0, rangeerr.Configuration("unknown timezone " + strconv.Quote(tz))
	}

	spec := s.cfg.Step
	if v := q.Get("step"); v != "" {
		spec = v
	}
	st, err := stepspec.Parse(spec)
	if err != nil {
		return nil, 0, err
	}

	format := s.cfg.InputFormat
	if v := q.Get("format"); v != "" {
		format = v
	}

	limit := parseIntDefault(q.Get("limit"), s.cfg.Limit)
	if limit <= 0 || limit > maxPoints {
		limit = maxPoints
	}

	// The generator is left uncapped; the handlers stop early and report
	// truncation themselves.
	g := daterange.New(daterange.Options{Location: loc})
	p, err := g.Plan(daterange.Request{
		Start:  timepoint.Text(q.Get("start")),
		End:    timepoint.Text(q.Get("end")),
		Step:   st,
		Format: format,
	})
	return p, limit, err
}

func parseIntDefault(s string, def int) int {
	if s == "" {
		return def
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return def
	}
	return n
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		appLog.Error("failed to write JSON response", err)
	}
}

type errResp struct {
	Error string `json:"error"`
	Kind  string `json:"kind,omitempty"`
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, errResp{Error: msg})
}

// writeRangeError reports request errors as 400 with their kind.
func writeRangeError(w http.ResponseWriter, err error) {
	var re *rangeerr.Error
	if errors.As(err, &re) {
		writeJSON(w, http.StatusBadRequest, errResp{Error: err.Error(), Kind: string(re.Kind)})
		return
	}
	appLog.Error("api range: unexpected error", err)
	writeError(w, http.StatusInternalServerError, err.Error())
}
