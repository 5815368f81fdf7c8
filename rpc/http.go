package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"artledger/native/collateral"
	"artledger/native/stable"
	"artledger/observability"
)

const (
	jsonRPCVersion  = "2.0"
	maxRequestBytes = 1 << 20 // 1 MiB
)

const (
	codeParseError     = -32700
	codeInvalidRequest = -32600
	codeMethodNotFound = -32601
	codeInvalidParams  = -32602
	codeUnauthorized   = -32001
	codeServerError    = -32000
)

// Server exposes both ledgers over JSON-RPC 2.0 on a single POST endpoint.
// Mutating methods act on behalf of the account named in the request's
// "from" field; there is no signature verification at this layer.
type Server struct {
	collateral *collateral.Engine
	stable     *stable.Engine
	log        *slog.Logger

	httpSrv *http.Server
}

func NewServer(collateralEngine *collateral.Engine, stableEngine *stable.Engine, logger *slog.Logger) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		collateral: collateralEngine,
		stable:     stableEngine,
		log:        logger.With("component", "rpc"),
	}
}

// Router builds the HTTP surface: the JSON-RPC endpoint at "/", Prometheus
// metrics at "/metrics" and a liveness probe at "/healthz".
func (s *Server) Router() *chi.Mux {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Post("/", s.handle)
	r.Handle("/metrics", promhttp.Handler())
	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"status":"ok"}`))
	})
	return r
}

func (s *Server) Start(addr string) error {
	s.httpSrv = &http.Server{
		Addr:              addr,
		Handler:           s.Router(),
		ReadHeaderTimeout: 5 * time.Second,
	}
	s.log.Info("starting JSON-RPC server", "addr", addr)
	if err := s.httpSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpSrv == nil {
		return nil
	}
	return s.httpSrv.Shutdown(ctx)
}

type RPCRequest struct {
	JSONRPC string            `json:"jsonrpc"`
	Method  string            `json:"method"`
	Params  []json.RawMessage `json:"params"`
	ID      interface{}       `json:"id"`
}

type RPCResponse struct {
	JSONRPC string      `json:"jsonrpc"`
	ID      interface{} `json:"id"`
	Result  interface{} `json:"result,omitempty"`
	Error   *RPCError   `json:"error,omitempty"`
}

type RPCError struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

func writeError(w http.ResponseWriter, status int, id interface{}, code int, message string, data interface{}) {
	if status <= 0 {
		status = http.StatusBadRequest
	}
	if status != http.StatusOK {
		w.WriteHeader(status)
	}
	errObj := &RPCError{Code: code, Message: message}
	if data != nil {
		errObj.Data = data
	}
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Error: errObj}
	_ = json.NewEncoder(w).Encode(resp)
}

func writeResult(w http.ResponseWriter, id interface{}, result interface{}) {
	resp := RPCResponse{JSONRPC: jsonRPCVersion, ID: id, Result: result}
	_ = json.NewEncoder(w).Encode(resp)
}

// writeEngineError maps ledger errors onto JSON-RPC codes. Authorisation
// failures get their own code so clients can distinguish them from plain
// state errors.
func writeEngineError(w http.ResponseWriter, id interface{}, err error) {
	switch {
	case errors.Is(err, collateral.ErrUnauthorized) || errors.Is(err, stable.ErrUnauthorized):
		writeError(w, http.StatusForbidden, id, codeUnauthorized, err.Error(), nil)
	case errors.Is(err, collateral.ErrParseAmount) || errors.Is(err, collateral.ErrAmountOverflow) ||
		errors.Is(err, collateral.ErrZeroAmount) || errors.Is(err, stable.ErrZeroAmount) ||
		errors.Is(err, stable.ErrAmountOverflow) || errors.Is(err, collateral.ErrSelfAllowance) ||
		errors.Is(err, stable.ErrSelfTransfer):
		writeError(w, http.StatusBadRequest, id, codeInvalidParams, err.Error(), nil)
	default:
		writeError(w, http.StatusOK, id, codeServerError, err.Error(), nil)
	}
}

func (s *Server) handle(w http.ResponseWriter, r *http.Request) {
	reader := http.MaxBytesReader(w, r.Body, maxRequestBytes)
	defer func() {
		_ = reader.Close()
	}()

	w.Header().Set("Content-Type", "application/json")

	body, err := io.ReadAll(reader)
	if err != nil {
		status := http.StatusBadRequest
		message := "failed to read request body"
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			status = http.StatusRequestEntityTooLarge
			message = fmt.Sprintf("request body exceeds %d bytes", maxRequestBytes)
		}
		writeError(w, status, nil, codeInvalidRequest, message, err.Error())
		return
	}
	if len(bytes.TrimSpace(body)) == 0 {
		writeError(w, http.StatusBadRequest, nil, codeInvalidRequest, "request body required", nil)
		return
	}

	req := &RPCRequest{}
	if err := json.Unmarshal(body, req); err != nil {
		writeError(w, http.StatusBadRequest, nil, codeParseError, "invalid JSON payload", err.Error())
		return
	}
	if req.JSONRPC != "" && req.JSONRPC != jsonRPCVersion {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "unsupported jsonrpc version", req.JSONRPC)
		return
	}
	if req.Method == "" {
		writeError(w, http.StatusBadRequest, req.ID, codeInvalidRequest, "method required", nil)
		return
	}

	handler, ok := s.methods()[req.Method]
	if !ok {
		writeError(w, http.StatusNotFound, req.ID, codeMethodNotFound, fmt.Sprintf("method %q not found", req.Method), nil)
		return
	}

	start := time.Now()
	handlerErr := handler(w, req)
	observability.Ledger().Observe(req.Method, start, handlerErr)
	if handlerErr != nil {
		s.log.Debug("rpc call failed", "method", req.Method, "error", handlerErr)
	}
}

type rpcHandler func(w http.ResponseWriter, req *RPCRequest) error

func (s *Server) methods() map[string]rpcHandler {
	return map[string]rpcHandler{
		"collateral_submitPrice":             s.handleCollateralSubmitPrice,
		"collateral_submitAssetPrice":        s.handleCollateralSubmitAssetPrice,
		"collateral_stakeAndMint":            s.handleCollateralStakeAndMint,
		"collateral_burnToUnstake":           s.handleCollateralBurnToUnstake,
		"collateral_refreshReward":           s.handleCollateralRefreshReward,
		"collateral_transfer":                s.handleCollateralTransfer,
		"collateral_transferFrom":            s.handleCollateralTransferFrom,
		"collateral_setAllowance":            s.handleCollateralSetAllowance,
		"collateral_sellAssetToAUSD":         s.handleCollateralSellAsset,
		"collateral_buyAssetWithAUSD":        s.handleCollateralBuyAsset,
		"collateral_buyCollateralWithNative": s.handleCollateralBuyWithNative,
		"collateral_buyStableWithNative":     s.handleCollateralBuyStableWithNative,
		"collateral_exchangeToAUSD":          s.handleCollateralExchangeToAUSD,
		"collateral_exchangeFromAUSD":        s.handleCollateralExchangeFromAUSD,
		"collateral_registerAccount":         s.handleCollateralRegisterAccount,
		"collateral_unregisterAccount":       s.handleCollateralUnregisterAccount,
		"collateral_getTotalSupply":          s.handleCollateralTotalSupply,
		"collateral_getTotalStaked":          s.handleCollateralTotalStaked,
		"collateral_getBalance":              s.handleCollateralBalance,
		"collateral_getStakedBalance":        s.handleCollateralStakedBalance,
		"collateral_getTotalBalance":         s.handleCollateralTotalBalance,
		"collateral_getAllowance":            s.handleCollateralAllowance,
		"collateral_getPrice":                s.handleCollateralPrice,
		"collateral_getAssetPrice":           s.handleCollateralAssetPrice,
		"collateral_getAssetBalance":         s.handleCollateralAssetBalance,
		"collateral_getRewardPaidAt":         s.handleCollateralRewardPaidAt,
		"collateral_getOwner":                s.handleCollateralOwner,
		"stable_transfer":                    s.handleStableTransfer,
		"stable_getTotalSupply":              s.handleStableTotalSupply,
		"stable_getBalance":                  s.handleStableBalance,
	}
}

// singleParam enforces the one-object parameter convention shared by every
// method and decodes it into dst.
func singleParam(req *RPCRequest, dst interface{}) error {
	if len(req.Params) != 1 {
		return fmt.Errorf("parameter object required")
	}
	dec := json.NewDecoder(bytes.NewReader(req.Params[0]))
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid parameters: %w", err)
	}
	return nil
}
