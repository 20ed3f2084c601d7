// Package api exposes the problem bank over a read-only JSON API.
package api

import (
	"encoding/json"
	"errors"
	"log/slog"
	"math/rand"
	"net/http"
	"strconv"
	"sync"

	"github.com/go-chi/chi/v5"

	"github.com/prepdeck/problembank/internal/bank"
	"github.com/prepdeck/problembank/internal/platform/cache"
	"github.com/prepdeck/problembank/internal/platform/database"
)

// Handler serves the problem bank. Cache and database are optional; a
// nil value simply disables the corresponding behavior.
type Handler struct {
	bank   *bank.Bank
	cache  *cache.Cache
	db     *database.DB
	logger *slog.Logger

	mu  sync.Mutex
	rnd *rand.Rand
}

// NewHandler creates a handler over a loaded bank.
func NewHandler(b *bank.Bank, c *cache.Cache, db *database.DB, logger *slog.Logger, seed int64) *Handler {
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler{
		bank:   b,
		cache:  c,
		db:     db,
		logger: logger,
		rnd:    rand.New(rand.NewSource(seed)),
	}
}

type listResponse struct {
	Total    int            `json:"total"`
	Problems []bank.Problem `json:"problems"`
}

type topicsResponse struct {
	Topics []string `json:"topics"`
}

type errorResponse struct {
	Error string `json:"error"`
}

// ListProblems handles GET /api/v1/problems with optional difficulty and
// topic filters.
func (h *Handler) ListProblems(w http.ResponseWriter, r *http.Request) {
	var difficulty bank.Difficulty
	if raw := r.URL.Query().Get("difficulty"); raw != "" {
		d, err := bank.ParseDifficulty(raw)
		if err != nil {
			respondError(w, http.StatusBadRequest, err.Error())
			return
		}
		difficulty = d
	}

	problems := h.bank.Filter(difficulty, r.URL.Query().Get("topic"))
	if problems == nil {
		problems = []bank.Problem{}
	}
	respondJSON(w, http.StatusOK, listResponse{Total: len(problems), Problems: problems})
}

// GetProblem handles GET /api/v1/problems/{slug}, serving the rendered
// payload through the cache when one is configured.
func (h *Handler) GetProblem(w http.ResponseWriter, r *http.Request) {
	slug := chi.URLParam(r, "slug")

	if h.cache != nil {
		if payload, ok, err := h.cache.GetProblem(r.Context(), slug); err != nil {
			h.logger.Warn("cache read failed", "slug", slug, "error", err)
		} else if ok {
			writeJSONBytes(w, http.StatusOK, payload)
			return
		}
	}

	p, err := h.bank.BySlug(slug)
	if errors.Is(err, bank.ErrNotFound) {
		respondError(w, http.StatusNotFound, "problem not found")
		return
	}
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	payload, err := json.Marshal(p)
	if err != nil {
		respondError(w, http.StatusInternalServerError, "internal error")
		return
	}

	if h.cache != nil {
		if err := h.cache.SetProblem(r.Context(), slug, payload); err != nil {
			h.logger.Warn("cache write failed", "slug", slug, "error", err)
		}
	}
	writeJSONBytes(w, http.StatusOK, payload)
}

// RandomSet handles GET /api/v1/problems/random. Counts default to the
// standard study-set draw of 2 easy, 2 medium, 1 hard.
func (h *Handler) RandomSet(w http.ResponseWriter, r *http.Request) {
	easy, err := countParam(r, "easy", 2)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	medium, err := countParam(r, "medium", 2)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}
	hard, err := countParam(r, "hard", 1)
	if err != nil {
		respondError(w, http.StatusBadRequest, err.Error())
		return
	}

	h.mu.Lock()
	set := h.bank.RandomSet(easy, medium, hard, h.rnd)
	h.mu.Unlock()

	respondJSON(w, http.StatusOK, set)
}

// ListTopics handles GET /api/v1/topics.
func (h *Handler) ListTopics(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, topicsResponse{Topics: h.bank.Topics()})
}

// Healthz reports liveness.
func (h *Handler) Healthz(w http.ResponseWriter, r *http.Request) {
	respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// Readyz reports readiness, checking database and cache connectivity
// when they are configured.
func (h *Handler) Readyz(w http.ResponseWriter, r *http.Request) {
	if h.db != nil {
		if err := h.db.HealthCheck(r.Context()); err != nil {
			h.logger.Error("database not ready", "error", err)
			respondError(w, http.StatusServiceUnavailable, "database unavailable")
			return
		}
	}
	if h.cache != nil {
		if err := h.cache.HealthCheck(r.Context()); err != nil {
			h.logger.Error("cache not ready", "error", err)
			respondError(w, http.StatusServiceUnavailable, "cache unavailable")
			return
		}
	}
	respondJSON(w, http.StatusOK, map[string]string{"status": "ready"})
}

func countParam(r *http.Request, name string, fallback int) (int, error) {
	raw := r.URL.Query().Get(name)
	if raw == "" {
		return fallback, nil
	}
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, errors.New(name + " must be a non-negative integer")
	}
	return n, nil
}

func respondJSON(w http.ResponseWriter, status int, payload any) {
	data, err := json.Marshal(payload)
	if err != nil {
		http.Error(w, `{"error":"encoding response"}`, http.StatusInternalServerError)
		return
	}
	writeJSONBytes(w, status, data)
}

func respondError(w http.ResponseWriter, status int, msg string) {
	respondJSON(w, status, errorResponse{Error: msg})
}

func writeJSONBytes(w http.ResponseWriter, status int, data []byte) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(data)
}
