package api

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/time/rate"

	"github.com/Sidddev15/geo-alert/internal/auth"
	"github.com/Sidddev15/geo-alert/internal/event"
	"github.com/Sidddev15/geo-alert/internal/gate"
	"github.com/Sidddev15/geo-alert/internal/metrics"
	"github.com/Sidddev15/geo-alert/internal/notify"
	"github.com/Sidddev15/geo-alert/internal/store"
)

const defaultHistoryLimit = 50

// Handler holds all HTTP handler dependencies.
type Handler struct {
	store        store.Store
	authority    *auth.Authority
	origins      *auth.Origins
	notifier     notify.Notifier
	issueLimiter *rate.Limiter
	mux          *http.ServeMux
}

// Deps wires a Handler. IssueLimiter may be nil to disable throttling.
type Deps struct {
	Store        store.Store
	Authority    *auth.Authority
	Origins      *auth.Origins
	Notifier     notify.Notifier
	IssueLimiter *rate.Limiter
}

// New creates an HTTP handler and registers all routes.
func New(d Deps) http.Handler {
	h := &Handler{
		store:        d.Store,
		authority:    d.Authority,
		origins:      d.Origins,
		notifier:     d.Notifier,
		issueLimiter: d.IssueLimiter,
		mux:          http.NewServeMux(),
	}

	h.mux.HandleFunc("GET /health", h.health)
	h.mux.HandleFunc("GET /auth/issue-token", h.issueToken)
	h.mux.HandleFunc("POST /v1/events", h.ingestEvent)
	h.mux.HandleFunc("GET /v1/history", h.history)
	h.mux.Handle("GET /metrics", promhttp.Handler())

	return loggingMiddleware(h.mux)
}

// GET /health — liveness probe.
func (h *Handler) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]bool{"ok": true})
}

// GET /auth/issue-token — mints an origin-bound send token.
func (h *Handler) issueToken(w http.ResponseWriter, r *http.Request) {
	origin := r.Header.Get("Origin")
	if !h.origins.Allowed(origin) {
		writeError(w, http.StatusForbidden, "origin missing or not allowed")
		return
	}
	if h.issueLimiter != nil && !h.issueLimiter.Allow() {
		writeError(w, http.StatusTooManyRequests, "token issuance rate exceeded")
		return
	}

	token, err := h.authority.Issue(origin)
	if err != nil {
		slog.Error("token issue failed", "err", err)
		writeError(w, http.StatusInternalServerError, "token issue failed")
		return
	}
	metrics.TokensIssued.Inc()
	writeJSON(w, http.StatusOK, map[string]interface{}{
		"ok":           true,
		"token":        token,
		"expiresInSec": int(h.authority.TTL().Seconds()),
	})
}

// ingestResponse acknowledges a validated ping. A suppressed or failed
// alert is still a success: the event is already persisted.
type ingestResponse struct {
	OK      bool   `json:"ok"`
	Emailed bool   `json:"emailed"`
	Reason  string `json:"reason,omitempty"`
}

// POST /v1/events — authorize, validate, decide, persist, notify.
func (h *Handler) ingestEvent(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	var in event.Incoming
	if err := json.NewDecoder(r.Body).Decode(&in); err != nil {
		writeError(w, http.StatusBadRequest, fmt.Sprintf("invalid JSON: %s", err))
		return
	}
	if details := in.Validate(); len(details) > 0 {
		writeValidationError(w, details)
		return
	}

	now := time.Now().UTC()
	decision, err := gate.Decide(r.Context(), in, now, h.store)
	if err != nil {
		slog.Error("gate decision failed", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	// Persist before any notification attempt, and regardless of the
	// decision: every validated ping is recorded.
	stored := event.Stored{
		ID:           uuid.New().String(),
		CreatedAtIso: now.Format(event.ISOLayout),
		Lat:          in.Lat,
		Lng:          in.Lng,
		EventType:    in.EventType,
		Battery:      event.NormalizeBattery(in.Battery),
	}
	if in.Notes != "" {
		stored.Notes = &in.Notes
	}
	if err := h.store.Append(r.Context(), stored); err != nil {
		slog.Error("event append failed", "err", err, "id", stored.ID)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}
	metrics.EventsIngested.Inc()

	if !decision.OK {
		metrics.AlertsSuppressed.WithLabelValues(suppressionLabel(decision.Reason)).Inc()
		writeJSON(w, http.StatusOK, ingestResponse{OK: true, Emailed: false, Reason: decision.Reason})
		return
	}

	if err := h.notifier.Notify(r.Context(), in); err != nil {
		// The event is already durable; acknowledge and surface the failure.
		slog.Error("alert send failed", "err", err, "id", stored.ID)
		metrics.NotifyFailures.Inc()
		writeJSON(w, http.StatusOK, ingestResponse{OK: true, Emailed: false, Reason: "Email send failed"})
		return
	}
	metrics.AlertsSent.Inc()
	writeJSON(w, http.StatusOK, ingestResponse{OK: true, Emailed: true})
}

type historyResponse struct {
	OK         bool           `json:"ok"`
	Events     []event.Stored `json:"events"`
	NextBefore *string        `json:"nextBefore,omitempty"`
}

// GET /v1/history?limit&before — backward cursor pagination, newest first.
func (h *Handler) history(w http.ResponseWriter, r *http.Request) {
	if _, ok := h.authorize(w, r); !ok {
		return
	}

	limit := defaultHistoryLimit
	if s := r.URL.Query().Get("limit"); s != "" {
		n, err := strconv.Atoi(s)
		if err != nil {
			writeError(w, http.StatusBadRequest, "limit must be a number")
			return
		}
		limit = n
	}
	before := r.URL.Query().Get("before")

	events, err := h.store.ListBefore(r.Context(), before, limit)
	if err != nil {
		slog.Error("history query failed", "err", err)
		writeError(w, http.StatusInternalServerError, "storage failure")
		return
	}

	resp := historyResponse{OK: true, Events: events}
	if resp.Events == nil {
		resp.Events = []event.Stored{}
	}
	if len(events) > 0 {
		next := events[len(events)-1].CreatedAtIso
		resp.NextBefore = &next
	}
	writeJSON(w, http.StatusOK, resp)
}

// authorize runs the shared origin + bearer-token checks. On failure it
// writes the response and returns ok=false.
func (h *Handler) authorize(w http.ResponseWriter, r *http.Request) (origin string, ok bool) {
	origin = r.Header.Get("Origin")
	if !h.origins.Allowed(origin) {
		writeError(w, http.StatusForbidden, "origin missing or not allowed")
		return "", false
	}
	token, ok := bearerToken(r)
	if !ok {
		writeError(w, http.StatusUnauthorized, "missing bearer token")
		return "", false
	}
	if _, err := h.authority.Verify(token, origin); err != nil {
		writeError(w, http.StatusUnauthorized, err.Error())
		return "", false
	}
	return origin, true
}

func bearerToken(r *http.Request) (string, bool) {
	header := r.Header.Get("Authorization")
	token, found := strings.CutPrefix(header, "Bearer ")
	if !found || token == "" {
		return "", false
	}
	return token, true
}

func suppressionLabel(reason string) string {
	if strings.HasPrefix(reason, "Cooldown") {
		return "cooldown"
	}
	return "daily_cap"
}
