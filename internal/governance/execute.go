package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"go.uber.org/zap"
)

// ExecuteProposal dispatches the embedded transaction as the proposal's
// governance scheme. Anyone may trigger it inside the execute window.
func (e *Engine) ExecuteProposal(tx ledger.TxContext, req governancefamily.ExecuteProposalRequest) error {
	proposal, err := e.GetProposalInfo(tx.State, req.ProposalID)
	if err != nil {
		return err
	}

	now := tx.Timestamp()
	w := proposal.TimeWindow
	if now <= w.ExecuteStart || now >= w.ExecuteEnd {
		return model.Precondition("Proposal " + proposal.ProposalID.Hex() + " is not in the execute window.")
	}

	state, err := e.derive(tx, proposal)
	if err != nil {
		return err
	}
	if state.Stage != model.ProposalStageExecute ||
		(state.Status != model.ProposalStatusApproved && state.Status != model.ProposalStatusChallenged) {
		return model.Precondition("Proposal " + proposal.ProposalID.Hex() + " can not be executed in " + state.String() + ".")
	}
	if proposal.Transaction == nil {
		return model.Precondition("Proposal " + proposal.ProposalID.Hex() + " has no transaction.")
	}

	call := proposal.Transaction
	if err := e.dispatcher.Send(tx.As(proposal.BasicInfo.SchemeAddress), call.ContractAddress, call.MethodName, call.Params); err != nil {
		return err
	}

	// the call may have changed the proposal, a veto finishes itself
	proposal, err = e.GetProposalInfo(tx.State, req.ProposalID)
	if err != nil {
		return err
	}
	proposal.Status, proposal.Stage = model.ProposalStatusExecuted, model.ProposalStageFinished
	if err := e.saveProposal(tx.State, proposal); err != nil {
		return err
	}

	event := model.ProposalExecuted{
		ProposalID: proposal.ProposalID,
		DAOID:      proposal.BasicInfo.DAOID,
		ExecuteAt:  now,
	}
	if err := ledger.Emit(tx.State, model.EventProposalExecuted, event, ledger.Attr("proposalID", proposal.ProposalID.Hex())); err != nil {
		return err
	}

	e.logger.Info("proposal executed", zap.String("proposalID", proposal.ProposalID.Hex()), zap.String("contract", call.ContractAddress), zap.String("method", call.MethodName), zap.String("executor", tx.Sender))
	return nil
}

// ClearProposal is kept for interface parity, proposals are never deleted.
func (e *Engine) ClearProposal(tx ledger.TxContext, req governancefamily.ClearProposalRequest) error {
	if _, err := e.GetProposalInfo(tx.State, req.ProposalID); err != nil {
		return err
	}
	e.logger.Debug("clear proposal ignored", zap.String("proposalID", req.ProposalID.Hex()))
	return nil
}
