package httpserver

import (
	"crypto/sha1"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"reviewlens/internal/adapters/observability"
	"reviewlens/internal/adapters/shopify"
	"reviewlens/internal/app"
	"reviewlens/internal/domain"
)

const maxBodyBytes = 16 << 20

type Handlers struct {
	Analysis  *app.AnalysisService
	Questions *app.QuestionService
	Export    *app.ExportService
}

type problem struct {
	Type   string `json:"type"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

func (s *Server) MountHandlers(h *Handlers) {
	s.mux.Get("/", h.index)
	s.mux.Get("/health", h.health)
	s.mux.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(200); _, _ = w.Write([]byte("ok")) })

	s.mux.Route("/v1", func(r chi.Router) {
		r.Post("/analyze", h.analyzeTexts)
		r.Post("/analyze/shopify", h.analyzeShopify)
		r.Post("/analyze/feed", h.analyzeFeed)
		r.Get("/shopify/supported-apps", h.supportedApps)
		r.Post("/ask", h.ask)
		r.Post("/export/{format}", h.export)
		r.Get("/schemas/{name}", h.schema)
	})

	// pre-v1 paths kept for existing clients
	s.mux.Post("/analyze-reviews", h.analyzeTexts)
	s.mux.Post("/analyze/shopify", h.analyzeShopify)
	s.mux.Get("/shopify/supported-apps", h.supportedApps)
}

func writeProblem(w http.ResponseWriter, status int, title, detail string) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(problem{Type: "about:blank", Title: title, Status: status, Detail: detail}); err != nil {
		log.Error().Err(err).Msg("write JSON problem response failed")
	}
}

// statusFor maps service errors onto HTTP statuses.
func statusFor(err error) int {
	var inErr *domain.InputError
	var stErr *domain.StatusError
	hasStatus := errors.As(err, &stErr)
	switch {
	case errors.As(err, &inErr):
		return http.StatusBadRequest
	case errors.Is(err, domain.ErrSourceAuth):
		if hasStatus && stErr.Code == http.StatusForbidden {
			return http.StatusForbidden
		}
		return http.StatusUnauthorized
	case errors.Is(err, domain.ErrSourceNotFound), errors.Is(err, domain.ErrNoReviews):
		return http.StatusNotFound
	case hasStatus:
		if stErr.Code >= 500 || stErr.Code < 400 {
			return http.StatusBadGateway
		}
		return stErr.Code
	case errors.Is(err, domain.ErrSourceUnavailable):
		return http.StatusBadGateway
	}
	return http.StatusInternalServerError
}

func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := statusFor(err)
	ev := log.Warn()
	detail := err.Error()
	if status == http.StatusInternalServerError {
		ev = log.Error()
		detail = "internal error"
	}
	ev.Err(err).Str("route", routeOf(r)).Str("kind", observability.LabelErr(err)).Int("status", status).Msg("request failed")
	writeProblem(w, status, http.StatusText(status), detail)
}

// decode reads a JSON body. Bad JSON is answered here and reported as false.
func decode(w http.ResponseWriter, r *http.Request, dst any) bool {
	r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var inErr *domain.InputError
		if errors.As(err, &inErr) {
			writeProblem(w, http.StatusBadRequest, "Invalid request", inErr.Error())
			return false
		}
		writeProblem(w, http.StatusBadRequest, "Invalid JSON", err.Error())
		return false
	}
	return true
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		log.Error().Err(err).Msg("write JSON response failed")
	}
}

// calcETagAndBody marshals once and hashes once, returning both ETag and body.
func calcETagAndBody(v any) (string, []byte) {
	body, err := json.Marshal(v)
	if err != nil {
		log.Error().Err(err).Msg("failed to marshal object for ETag/body")
		return "", nil
	}
	sum := sha1.Sum(body)
	etag := `W/"` + hex.EncodeToString(sum[:]) + `"`
	return etag, body
}

// writeCacheable serves static documents with a weak ETag and honours If-None-Match.
func writeCacheable(w http.ResponseWriter, r *http.Request, v any) {
	etag, body := calcETagAndBody(v)
	if etag == "" {
		writeProblem(w, http.StatusInternalServerError, "Internal Server Error", "encode response")
		return
	}
	if inm := r.Header.Get("If-None-Match"); inm != "" && inm == etag {
		w.Header().Set("ETag", etag)
		w.WriteHeader(http.StatusNotModified)
		return
	}
	w.Header().Set("ETag", etag)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(body); err != nil {
		log.Error().Err(err).Msg("failed to write cacheable body")
	}
}

func (h *Handlers) index(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, map[string]any{
		"message": "reviewlens review analytics API",
		"health":  "/health",
		"endpoints": map[string]string{
			"manual_analysis":     "POST /v1/analyze",
			"shopify_integration": "POST /v1/analyze/shopify",
			"feed_integration":    "POST /v1/analyze/feed",
			"supported_apps":      "GET /v1/shopify/supported-apps",
			"ask":                 "POST /v1/ask",
			"export":              "POST /v1/export/{csv|xlsx|docx}",
			"schemas":             "GET /v1/schemas/{" + strings.Join(SchemaNames(), "|") + "}",
			"metrics":             "GET /metrics",
		},
	})
}

func (h *Handlers) health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "healthy", "message": "reviewlens is running"})
}

func (h *Handlers) analyzeTexts(w http.ResponseWriter, r *http.Request) {
	var req AnalyzeRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Analysis.AnalyzeTexts(req.Reviews, nil)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) analyzeShopify(w http.ResponseWriter, r *http.Request) {
	var req ShopifyRequest
	if !decode(w, r, &req) {
		return
	}
	h.analyzeSource(w, r, req.criteria())
}

func (h *Handlers) analyzeFeed(w http.ResponseWriter, r *http.Request) {
	var req FeedRequest
	if !decode(w, r, &req) {
		return
	}
	h.analyzeSource(w, r, req.criteria())
}

func (h *Handlers) analyzeSource(w http.ResponseWriter, r *http.Request, c domain.FetchCriteria) {
	res, err := h.Analysis.AnalyzeSource(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) supportedApps(w http.ResponseWriter, r *http.Request) {
	writeCacheable(w, r, map[string]any{
		"message":        "The Shopify Admin API has no reviews endpoint; stores keep reviews in one of these apps.",
		"supported_apps": shopify.SupportedApps(),
		"recommendation": "Judge.me is the most common choice and has a free tier.",
		"note":           "Send review_app and review_app_token to read reviews through that app's API.",
	})
}

func (h *Handlers) ask(w http.ResponseWriter, r *http.Request) {
	var req app.AskRequest
	if !decode(w, r, &req) {
		return
	}
	res, err := h.Questions.Ask(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func (h *Handlers) export(w http.ResponseWriter, r *http.Request) {
	var req app.ExportRequest
	if !decode(w, r, &req) {
		return
	}
	req.Format = chi.URLParam(r, "format")
	res, err := h.Export.Export(r.Context(), req)
	if err != nil {
		writeError(w, r, err)
		return
	}
	w.Header().Set("Content-Type", res.ContentType)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", res.Filename))
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write(res.Body); err != nil {
		log.Error().Err(err).Msg("failed to write export body")
	}
}

func (h *Handlers) schema(w http.ResponseWriter, r *http.Request) {
	name := chi.URLParam(r, "name")
	s, ok := Schema(name)
	if !ok {
		writeProblem(w, http.StatusNotFound, "Not Found", fmt.Sprintf("no schema named %q; known: %s", name, strings.Join(SchemaNames(), ", ")))
		return
	}
	writeCacheable(w, r, s)
}
