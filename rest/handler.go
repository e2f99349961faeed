package rest

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"github.com/klauspost/compress/gzhttp"

	"github.com/hugr-lab/listing"
	"github.com/hugr-lab/listing/filter"
	"github.com/hugr-lab/listing/internal/recovery"
	"github.com/hugr-lab/listing/store"
)

// HandlerConfig contains configuration of a listing Handler.
type HandlerConfig[C any] struct {
	// Service runs the listings.
	// REQUIRED: MUST NOT be nil.
	Service *listing.Service[C]

	// Store is queried for the entity rows.
	// REQUIRED: MUST NOT be nil.
	Store store.Store[C]

	// Entity is the catalog entity listed by the handler.
	// REQUIRED: MUST be known to the service catalog.
	Entity string

	// Codec decodes predicate tokens.
	// OPTIONAL: If nil, requests with a predicate parameter are rejected.
	Codec *filter.Codec

	// Logger for request errors.
	// OPTIONAL: Uses slog.Default() if nil.
	Logger *slog.Logger
}

// Handler serves one entity listing as JSON:
//
//	{"metadata": {...}, "results": [...], "terms": {...}, "stats": {...}}
//
// Malformed parameters are answered with 400, unknown entities with 404 and
// store failures or panics with 500.
type Handler[C any] struct {
	cfg    HandlerConfig[C]
	logger *slog.Logger
}

// NewHandler creates a listing handler.
// Returns error if the service or the store is nil.
func NewHandler[C any](cfg HandlerConfig[C]) (*Handler[C], error) {
	if cfg.Service == nil {
		return nil, errors.New("rest: nil listing service")
	}
	if cfg.Store == nil {
		return nil, listing.ErrNilStore
	}
	logger := cfg.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Handler[C]{cfg: cfg, logger: logger}, nil
}

// errorResponse is the body of non-200 responses.
type errorResponse struct {
	Error string `json:"error"`
}

// ServeHTTP implements http.Handler.
func (h *Handler[C]) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		w.Header().Set("Allow", "GET, HEAD")
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}

	params, err := ParseParameters(r.URL.Query(), h.cfg.Service.Config(), h.cfg.Codec)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	res, err := recovery.RecoverToValue(h.logger, "Result", func() (*listing.Result, error) {
		return h.cfg.Service.Result(r.Context(), h.cfg.Store, h.cfg.Entity, params)
	})
	switch {
	case errors.Is(err, listing.ErrEntityNotFound):
		writeJSON(w, http.StatusNotFound, errorResponse{Error: err.Error()})
		return
	case err != nil:
		h.logger.Error("Listing failed",
			"entity", h.cfg.Entity,
			"query", r.URL.RawQuery,
			"error", err)
		writeJSON(w, http.StatusInternalServerError, errorResponse{Error: "listing failed"})
		return
	}
	writeJSON(w, http.StatusOK, res)
}

func writeJSON(w http.ResponseWriter, statusCode int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(body)
}

// Compress wraps h with gzip response compression for clients that accept it.
func Compress(h http.Handler) http.Handler {
	return gzhttp.GzipHandler(h)
}
