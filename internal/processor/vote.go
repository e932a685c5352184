package processor

import (
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/vote"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/processor_pb2"
	"go.uber.org/zap"
)

type VoteHandler struct {
	logger *zap.Logger
	engine *vote.Engine
	config Config
}

func NewVoteHandler(logger *zap.Logger, engine *vote.Engine, config Config) *VoteHandler {
	return &VoteHandler{
		logger: logger,
		engine: engine,
		config: config,
	}
}

func (h *VoteHandler) FamilyName() string {
	return votefamily.FamilyName
}

func (h *VoteHandler) FamilyVersions() []string {
	return []string{votefamily.FamilyVersion}
}

// Namespaces includes the ledger clock, which vote transactions advance as
// well.
func (h *VoteHandler) Namespaces() []string {
	return []string{votefamily.Namespace(), assetfamily.Namespace(), governancefamily.GetClockAddress()}
}

func (h *VoteHandler) Apply(request *processor_pb2.TpProcessRequest, state *processor.Context) error {
	return toProcessorError(h.process(request, state))
}

func (h *VoteHandler) process(request *processor_pb2.TpProcessRequest, state ledger.State) error {
	ctx, cancel := newRequestContext(h.config.Timeout)
	defer cancel()

	tx, env, err := newTxContext(ctx, request, state, h.config.Clock)
	if err != nil {
		h.logger.Info("transaction rejected", zap.String("txID", request.GetSignature()), zap.Error(err))
		return err
	}

	err = h.apply(tx, env)
	if err != nil {
		h.logger.Info("transaction rejected",
			zap.String("action", env.Action),
			zap.String("txID", tx.TxID),
			zap.Error(err))
	}
	return err
}

func (h *VoteHandler) apply(tx ledger.TxContext, env ledger.Envelope) error {
	h.logger.Debug("applying the transaction", zap.String("action", env.Action), zap.String("sender", tx.Sender))

	switch votefamily.Action(env.Action) {
	case votefamily.ActionCreateVoteScheme:
		var req votefamily.CreateVoteSchemeRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		_, err := h.engine.CreateVoteScheme(tx, req)
		return err

	case votefamily.ActionVote:
		var req votefamily.VoteRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		_, err := h.engine.Vote(tx, req)
		return err

	case votefamily.ActionRegisterCommitment:
		var req votefamily.RegisterCommitmentRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		_, err := h.engine.RegisterCommitment(tx, req)
		return err

	case votefamily.ActionWithdraw:
		var req votefamily.WithdrawRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		return h.engine.Withdraw(tx, req)
	}

	return unknownAction(env.Action)
}

var _ processor.TransactionHandler = (*VoteHandler)(nil)
