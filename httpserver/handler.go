package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"math/big"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/ruteri/rwa-id-gateway/api"
	"github.com/ruteri/rwa-id-gateway/interfaces"
	"github.com/ruteri/rwa-id-gateway/metrics"
	"github.com/ruteri/rwa-id-gateway/resolver"
)

const (
	// maxBodySize is the maximum allowed request body size (64KB).
	maxBodySize = 64 * 1024

	endpointResolve = "resolve"
	endpointCCIP    = "ccip"
)

// RequestError provides structured error information for HTTP responses.
// It includes both an HTTP status code and the underlying error.
type RequestError struct {
	// StatusCode is the HTTP status code to return.
	StatusCode int

	// Err is the underlying error.
	Err error
}

// Error returns the error message from the underlying error.
func (e *RequestError) Error() string {
	return e.Err.Error()
}

func (e *RequestError) Unwrap() error {
	return e.Err
}

// requestErrorFor maps the error taxonomy onto HTTP status codes.
// Messages of unexpected failures are not exposed to callers.
func requestErrorFor(err error) *RequestError {
	switch {
	case errors.Is(err, interfaces.ErrInvalidName),
		errors.Is(err, interfaces.ErrMalformedWireName),
		errors.Is(err, interfaces.ErrMalformedPayload):
		return &RequestError{StatusCode: http.StatusBadRequest, Err: err}
	case errors.Is(err, interfaces.ErrProjectNotFound):
		return &RequestError{StatusCode: http.StatusNotFound, Err: interfaces.ErrProjectNotFound}
	case errors.Is(err, interfaces.ErrRegistryUnavailable):
		return &RequestError{StatusCode: http.StatusInternalServerError, Err: interfaces.ErrRegistryUnavailable}
	default:
		return &RequestError{StatusCode: http.StatusInternalServerError, Err: errors.New("internal error")}
	}
}

// ChainIDReader reports the chain the registry lives on.
type ChainIDReader interface {
	ChainID(ctx context.Context) (*big.Int, error)
}

// Handler processes HTTP requests for the RWA-ID gateway.
type Handler struct {
	resolver *resolver.Service
	chain    ChainIDReader
	metrics  *metrics.Metrics
	log      *slog.Logger
}

// NewHandler creates a new HTTP request handler with the specified dependencies.
//
// Parameters:
//   - service: resolution service performing lookups and signing
//   - chain: chain id source for the health endpoint, may be nil
//   - m: metrics collectors, may be nil
//   - log: Structured logger for operational insights
func NewHandler(service *resolver.Service, chain ChainIDReader, m *metrics.Metrics, log *slog.Logger) *Handler {
	return &Handler{
		resolver: service,
		chain:    chain,
		metrics:  m,
		log:      log,
	}
}

// HandleHealth reports the registry, signer and chain id. It never fails:
// when the chain id cannot be fetched it answers ok=false with the error.
//
// URL format: GET /health
func (h *Handler) HandleHealth(w http.ResponseWriter, r *http.Request) {
	resp := api.HealthResponse{
		OK:       true,
		Service:  api.ServiceName,
		Registry: h.resolver.RegistryAddress().Hex(),
		Signer:   h.resolver.SignerAddress().Hex(),
	}

	if h.chain != nil {
		chainID, err := h.chain.ChainID(r.Context())
		if err != nil {
			h.log.Warn("Failed to fetch chain id", "err", err)
			resp.OK = false
			resp.Error = err.Error()
		} else {
			resp.ChainID = chainID.String()
		}
	}

	h.writeJSON(w, http.StatusOK, resp)
}

// HandleSigner reports the gateway's signing address.
//
// URL format: GET /signer
func (h *Handler) HandleSigner(w http.ResponseWriter, r *http.Request) {
	h.writeJSON(w, http.StatusOK, api.SignerResponse{SignerAddress: h.resolver.SignerAddress().Hex()})
}

// HandleResolve resolves a dotted name and returns the signed resolution.
//
// URL format: GET /resolve?name=label.slug.rwa-id.eth
//
// Response: JSON ResolveResponse, or {error} with 400 (missing or invalid
// name), 404 (unknown project) or 500.
func (h *Handler) HandleResolve(w http.ResponseWriter, r *http.Request) {
	name := r.URL.Query().Get("name")
	if name == "" {
		h.metrics.ObserveResolution(endpointResolve, interfaces.ErrInvalidName)
		h.writeError(w, http.StatusBadRequest, "Missing ?name=", false)
		return
	}

	res, err := h.resolver.Resolve(r.Context(), name)
	h.metrics.ObserveResolution(endpointResolve, err)
	if err != nil {
		h.handleError(w, err, false, "name", name)
		return
	}

	h.writeJSON(w, http.StatusOK, api.NewResolveResponse(res))
}

// HandleCCIPRead serves the EIP-3668 GET callback.
//
// URL format: GET /{sender}/{data}.json
//
// data is the hex encoded abi.encode(bytes dnsName, bytes extraData), with or
// without the 0x prefix. Response: {"data": "0x..."}.
func (h *Handler) HandleCCIPRead(w http.ResponseWriter, r *http.Request) {
	h.ccipRead(w, r, chi.URLParam(r, "sender"), chi.URLParam(r, "data"))
}

// HandleCCIPReadPost serves the EIP-3668 POST callback.
//
// URL format: POST /ccip
// Request body: {"sender": "0x...", "data": "0x..."}
func (h *Handler) HandleCCIPReadPost(w http.ResponseWriter, r *http.Request) {
	var req api.CCIPRequest
	if err := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodySize)).Decode(&req); err != nil {
		h.metrics.ObserveResolution(endpointCCIP, interfaces.ErrMalformedPayload)
		h.log.Debug("Failed to decode CCIP-Read request body", "err", err)
		h.writeError(w, http.StatusBadRequest, "Invalid request body", true)
		return
	}

	h.ccipRead(w, r, req.Sender, req.Data)
}

func (h *Handler) ccipRead(w http.ResponseWriter, r *http.Request, sender string, data string) {
	if sender != "" {
		if _, err := interfaces.NewContractAddressFromHex(sender); err != nil {
			h.metrics.ObserveResolution(endpointCCIP, interfaces.ErrMalformedPayload)
			h.writeError(w, http.StatusBadRequest, "Invalid sender address", true)
			return
		}
	}

	encoded, _, err := h.resolver.ResolveCCIP(r.Context(), sender, data)
	h.metrics.ObserveResolution(endpointCCIP, err)
	if err != nil {
		h.handleError(w, err, true, "sender", sender)
		return
	}

	h.writeJSON(w, http.StatusOK, api.NewCCIPResponse(encoded))
}

func (h *Handler) handleError(w http.ResponseWriter, err error, ccipPath bool, args ...any) {
	reqErr := requestErrorFor(err)
	logArgs := append([]any{"err", err, "status", reqErr.StatusCode}, args...)
	if reqErr.StatusCode >= http.StatusInternalServerError {
		h.log.Error("Resolution failed", logArgs...)
	} else {
		h.log.Warn("Resolution rejected", logArgs...)
	}
	h.writeError(w, reqErr.StatusCode, reqErr.Error(), ccipPath)
}

func (h *Handler) writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Warn("Failed to write JSON response", "err", err)
	}
}

func (h *Handler) writeError(w http.ResponseWriter, status int, message string, ccipPath bool) {
	resp := api.ErrorResponse{Error: message}
	if ccipPath {
		resp.Message = message
	}
	h.writeJSON(w, status, resp)
}
