package processor

import (
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/governance"
	"dao-governance/internal/ledger"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/processor_pb2"
	"go.uber.org/zap"
)

type GovernanceHandler struct {
	logger *zap.Logger
	engine *governance.Engine
	config Config
}

func NewGovernanceHandler(logger *zap.Logger, engine *governance.Engine, config Config) *GovernanceHandler {
	return &GovernanceHandler{
		logger: logger,
		engine: engine,
		config: config,
	}
}

func (h *GovernanceHandler) FamilyName() string {
	return governancefamily.FamilyName
}

func (h *GovernanceHandler) FamilyVersions() []string {
	return []string{governancefamily.FamilyVersion}
}

func (h *GovernanceHandler) Namespaces() []string {
	return []string{governancefamily.Namespace(), assetfamily.Namespace()}
}

func (h *GovernanceHandler) Apply(request *processor_pb2.TpProcessRequest, state *processor.Context) error {
	return toProcessorError(h.process(request, state))
}

func (h *GovernanceHandler) process(request *processor_pb2.TpProcessRequest, state ledger.State) error {
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

func (h *GovernanceHandler) apply(tx ledger.TxContext, env ledger.Envelope) error {
	h.logger.Debug("applying the transaction", zap.String("action", env.Action), zap.String("sender", tx.Sender))

	switch governancefamily.Action(env.Action) {
	case governancefamily.ActionAddGovernanceScheme:
		var req governancefamily.AddGovernanceSchemeRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		_, err := h.engine.AddGovernanceScheme(tx, req)
		return err

	case governancefamily.ActionUpdateGovernanceSchemeThreshold:
		var req governancefamily.UpdateGovernanceSchemeThresholdRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		return h.engine.UpdateGovernanceSchemeThreshold(tx, req)

	case governancefamily.ActionCreateProposal:
		var req governancefamily.CreateProposalRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		engine, err := h.withSettings(tx)
		if err != nil {
			return err
		}
		_, err = engine.CreateProposal(tx, req)
		return err

	case governancefamily.ActionCreateVetoProposal:
		var req governancefamily.CreateVetoProposalRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		engine, err := h.withSettings(tx)
		if err != nil {
			return err
		}
		_, err = engine.CreateVetoProposal(tx, req)
		return err

	case governancefamily.ActionVetoProposal:
		var req governancefamily.VetoProposalRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		return h.engine.VetoProposal(tx, req)

	case governancefamily.ActionExecuteProposal:
		var req governancefamily.ExecuteProposalRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		return h.engine.ExecuteProposal(tx, req)

	case governancefamily.ActionClearProposal:
		var req governancefamily.ClearProposalRequest
		if err := bind(env, &req); err != nil {
			return err
		}
		return h.engine.ClearProposal(tx, req)
	}

	return unknownAction(env.Action)
}

// withSettings returns the engine with its periods overridden by the
// settings stored on chain.
func (h *GovernanceHandler) withSettings(tx ledger.TxContext) (*governance.Engine, error) {
	periods, err := loadPeriods(tx.State, h.engine.Periods())
	if err != nil {
		return nil, err
	}
	return h.engine.WithPeriods(periods), nil
}

var _ processor.TransactionHandler = (*GovernanceHandler)(nil)
