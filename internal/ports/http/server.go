// Package http serves read only views of the governance and vote state.
// Statuses are derived at request time, the same way the processor derives
// them for a transaction.
package http

import (
	"context"
	"dao-governance/internal/governance"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/ports/http/middleware/cors"
	"dao-governance/internal/vote"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// StateFunc opens a view of the ledger for a single request.
type StateFunc func(ctx context.Context) ledger.State

type server struct {
	governance *governance.Engine
	votes      *vote.Engine
	state      StateFunc
	now        func() time.Time

	httpServer *http.Server
	addr       string
	logger     *zap.Logger
}

func NewServer(logger *zap.Logger, governance *governance.Engine, votes *vote.Engine, state StateFunc, address string) *server {
	ser := &server{
		governance: governance,
		votes:      votes,
		state:      state,
		now:        time.Now,
		addr:       address,
		logger:     logger,
	}
	ser.httpServer = &http.Server{
		Handler:           ser.Handler(),
		Addr:              address,
		ReadHeaderTimeout: 10 * time.Second,
	}
	return ser
}

func (ser *server) badRequest(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusBadRequest)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a bad request error message: " + err.Error())
	}
	ser.logger.Warn(message)
}

func (ser *server) serverError(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusInternalServerError)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a server error message: " + err.Error())
	}
	ser.logger.Error(message)
}

func (ser *server) notFound(w http.ResponseWriter, message string) {
	w.WriteHeader(http.StatusNotFound)
	if _, err := w.Write([]byte(message)); err != nil {
		ser.logger.Error("failed to write a not found error message: " + err.Error())
	}
}

// engineError maps an engine failure to a response.
func (ser *server) engineError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, model.ErrNotFound):
		ser.notFound(w, err.Error())
	case errors.Is(err, model.ErrInvalidInput):
		ser.badRequest(w, err.Error())
	default:
		ser.serverError(w, err.Error())
	}
}

func (ser *server) respond(w http.ResponseWriter, v interface{}) {
	response, err := json.Marshal(v)
	if err != nil {
		ser.serverError(w, "marshalling the response failed: "+err.Error())
		return
	}

	w.Header().Set("Content-Type", "application/json")
	if _, err := w.Write(response); err != nil {
		ser.logger.Error("failed to write the response: " + err.Error())
	}
}

func (ser *server) registerHandlers(router *mux.Router) {

	router.HandleFunc("/health", healthcheck)

	router.HandleFunc("/api/proposals/{proposalID}", ser.getProposal).Methods(http.MethodGet)
	router.HandleFunc("/api/proposals/{proposalID}/status", ser.getProposalStatus).Methods(http.MethodGet)
	router.HandleFunc("/api/daos/{daoID}/schemes", ser.getGovernanceSchemes).Methods(http.MethodGet)

	router.HandleFunc("/api/voting-items/{votingItemID}", ser.getVotingItem).Methods(http.MethodGet)
	router.HandleFunc("/api/voting-items/{votingItemID}/result", ser.getVotingResult).Methods(http.MethodGet)
	router.HandleFunc("/api/voting-items/{votingItemID}/records/{voter}", ser.getVotingRecord).Methods(http.MethodGet)
}

func healthcheck(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("all good here"))
}

func (ser *server) Handler() http.Handler {
	router := mux.NewRouter()
	ser.registerHandlers(router)

	return cors.AddCorsPolicy(router)
}

func (ser *server) Run() error {
	ser.logger.Info("serving the query gateway", zap.String("addr", ser.addr))
	return ser.httpServer.ListenAndServe()
}

func (ser *server) Shutdown(ctx context.Context) error {
	return ser.httpServer.Shutdown(ctx)
}

func normalize(param string) string {
	return strings.TrimSpace(param)
}

func readHash(r *http.Request, name string) (common.Hash, error) {
	value := normalize(mux.Vars(r)[name])
	if len(common.FromHex(value)) != common.HashLength {
		return common.Hash{}, model.InvalidInput("invalid " + name + ": " + value)
	}
	return common.HexToHash(value), nil
}
