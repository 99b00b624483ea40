package web

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"dtrange/internal/config"
)

func get(t *testing.T, h http.Handler, path string, query url.Values) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, path+"?"+query.Encode(), nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	return rec
}

func TestHealth(t *testing.T) {
	rec := get(t, NewServer(config.DefaultConfig()).Handler(), "/health", nil)
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok\n", rec.Body.String())
}

func TestRange(t *testing.T) {
	h := NewServer(config.DefaultConfig()).Handler()
	rec := get(t, h, "/api/range", url.Values{
		"start": {"2000-01-01"},
		"end":   {"2023-01-01"},
		"step":  {"P1Y"},
	})
	require.Equal(t, http.StatusOK, rec.Code)

	var resp rangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Equal(t, "ascending", resp.Direction)
	assert.False(t, resp.Truncated)
	require.Len(t, resp.Points, 23)
	assert.Equal(t, 2000, resp.Points[0].Time.Year())
	assert.Equal(t, 2022, resp.Points[22].Time.Year())
}

func TestRangeLimitAndReason(t *testing.T) {
	h := NewServer(config.DefaultConfig()).Handler()

	rec := get(t, h, "/api/range", url.Values{
		"start":  {"2022-01-01 00:00"},
		"end":    {"2022-01-02 00:00"},
		"step":   {"1h"},
		"format": {"YYYY-MM-DD HH:mm"},
		"limit":  {"5"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	var resp rangeResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.True(t, resp.Truncated)
	assert.Len(t, resp.Points, 5)

	rec = get(t, h, "/api/range", url.Values{
		"start": {"2022-01-30"},
		"end":   {"2022-01-01"},
		"step":  {"P1D"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	resp = rangeResponse{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.Empty(t, resp.Points)
	assert.Equal(t, "non-terminating step", resp.Reason)
}

func TestRangeErrors(t *testing.T) {
	h := NewServer(config.DefaultConfig()).Handler()

	tests := []struct {
		name  string
		query url.Values
		kind  string
	}{
		{"missing end", url.Values{"start": {"2022-01-01"}}, "configuration"},
		{"bad text", url.Values{"start": {"01/01/2022"}, "end": {"2022-01-02"}}, "format"},
		{"bad step", url.Values{"start": {"2022-01-01"}, "end": {"2022-01-02"}, "step": {"often"}}, "configuration"},
		{"zero step", url.Values{"start": {"2022-01-01"}, "end": {"2022-01-02"}, "step": {"0s"}}, "configuration"},
		{"bad tz", url.Values{"start": {"2022-01-01"}, "end": {"2022-01-02"}, "tz": {"Nowhere/Land"}}, "configuration"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := get(t, h, "/api/range", tt.query)
			assert.Equal(t, http.StatusBadRequest, rec.Code)

			var resp errResp
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
			assert.Equal(t, tt.kind, resp.Kind)
		})
	}

	req := httptest.NewRequest(http.MethodPost, "/api/range", nil)
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusMethodNotAllowed, rec.Code)
}

func TestRangeICS(t *testing.T) {
	h := NewServer(config.DefaultConfig()).Handler()
	rec := get(t, h, "/api/range.ics", url.Values{
		"start":   {"2022-01-01"},
		"end":     {"2022-02-01"},
		"step":    {"@weekly"},
		"summary": {"standup"},
	})
	require.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "text/calendar; charset=utf-8", rec.Header().Get("Content-Type"))
	assert.Equal(t, 5, strings.Count(rec.Body.String(), "BEGIN:VEVENT"))
	assert.Contains(t, rec.Body.String(), "SUMMARY:standup")
}

func TestBasicAuth(t *testing.T) {
	cfg := config.DefaultConfig()
	cfg.BasicAuth = &config.BasicAuthConfig{Username: "u", Password: "p"}
	h := NewServer(cfg).Handler()

	q := url.Values{"start": {"2022-01-01"}, "end": {"2022-01-02"}}
	assert.Equal(t, http.StatusUnauthorized, get(t, h, "/api/range", q).Code)
	assert.Equal(t, http.StatusOK, get(t, h, "/health", nil).Code)

	req := httptest.NewRequest(http.MethodGet, "/api/range?"+q.Encode(), nil)
	req.SetBasicAuth("u", "p")
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusOK, rec.Code)
}
