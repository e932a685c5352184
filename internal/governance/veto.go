package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"go.uber.org/zap"
)

// CreateVetoProposal challenges a high council proposal during its pending
// stage. The veto proposal's embedded transaction calls VetoProposal back
// on this contract once the veto is approved.
func (e *Engine) CreateVetoProposal(tx ledger.TxContext, req governancefamily.CreateVetoProposalRequest) (common.Hash, error) {
	if err := validateBasicInfo(req.BasicInfo); err != nil {
		return common.Hash{}, err
	}
	if req.VetoTargetID == (common.Hash{}) {
		return common.Hash{}, model.InvalidInput("Invalid veto target.")
	}

	target, err := e.GetProposalInfo(tx.State, req.VetoTargetID)
	if err != nil {
		return common.Hash{}, err
	}
	if target.ProposalType != model.ProposalTypeGovernance {
		return common.Hash{}, model.Precondition("Only governance proposals can be vetoed.")
	}
	if target.BasicInfo.DAOID != req.BasicInfo.DAOID {
		return common.Hash{}, model.InvalidInput("Veto target belongs to another dao.")
	}

	targetState, err := e.derive(tx, target)
	if err != nil {
		return common.Hash{}, err
	}
	if targetState.Status != model.ProposalStatusApproved || targetState.Stage != model.ProposalStagePending {
		return common.Hash{}, model.Precondition("Proposal " + req.VetoTargetID.Hex() + " can not be vetoed in " + targetState.String() + ".")
	}

	scheme, voteScheme, token, err := e.loadProposalContext(tx, req.BasicInfo)
	if err != nil {
		return common.Hash{}, err
	}
	if scheme.Mechanism != model.GovernanceMechanismReferendum {
		return common.Hash{}, model.InvalidInput("Veto proposals are voted by referendum.")
	}

	now := tx.Timestamp()
	activeEnd := now + seconds(e.periods.VetoActive)
	window := model.TimeWindow{
		ActiveStart:  now,
		ActiveEnd:    activeEnd,
		ExecuteStart: activeEnd,
		ExecuteEnd:   activeEnd + seconds(e.periods.VetoExecute),
	}

	// the veto window is fixed
	info := req.BasicInfo
	info.ActiveTimePeriod, info.ActiveStartTime, info.ActiveEndTime = 0, 0, 0

	vetoID, err := hashing.ContentID(info, model.ProposalTypeVeto, req.VetoTargetID, tx.Sender, tx.TxID)
	if err != nil {
		return common.Hash{}, err
	}

	params, err := cbor.Marshal(governancefamily.VetoProposalRequest{ProposalID: req.VetoTargetID, VetoProposalID: vetoID}, cbor.CanonicalEncOptions())
	if err != nil {
		return common.Hash{}, err
	}

	veto := model.Proposal{
		ProposalID:   vetoID,
		BasicInfo:    info,
		ProposalType: model.ProposalTypeVeto,
		Status:       model.ProposalStatusPendingVote,
		Stage:        model.ProposalStageActive,
		TimeWindow:   window,
		Proposer:     tx.Sender,
		Transaction: &model.Transaction{
			ContractAddress: e.address,
			MethodName:      governancefamily.MethodVetoProposal,
			Params:          params,
		},
		VetoTargetID:  req.VetoTargetID,
		Mechanism:     scheme.Mechanism,
		VoteSchemeID:  scheme.VoteSchemeID,
		VoteMechanism: voteScheme.Mechanism,
		Threshold:     scheme.Threshold,
	}
	if err := e.persistNew(tx, veto, token); err != nil {
		return common.Hash{}, err
	}

	target.Status = model.ProposalStatusChallenged
	target.Stage = model.ProposalStagePending
	if err := e.saveProposal(tx.State, target); err != nil {
		return common.Hash{}, err
	}

	e.logger.Info("veto proposal created", zap.String("proposalID", vetoID.Hex()), zap.String("vetoTargetID", req.VetoTargetID.Hex()), zap.String("proposer", tx.Sender))
	return vetoID, nil
}

// VetoProposal finishes both the target and the approved veto proposal.
// The sender has to be a governance scheme of the target's dao, which is
// what an executed veto proposal calls as.
func (e *Engine) VetoProposal(tx ledger.TxContext, req governancefamily.VetoProposalRequest) error {
	target, err := e.GetProposalInfo(tx.State, req.ProposalID)
	if err != nil {
		return err
	}
	veto, err := e.GetProposalInfo(tx.State, req.VetoProposalID)
	if err != nil {
		return err
	}

	allowed, err := e.isSchemeAddress(tx.State, target.BasicInfo.DAOID, tx.Sender)
	if err != nil {
		return err
	}
	if !allowed {
		return model.PermissionDenied("No permission.")
	}

	if veto.ProposalType != model.ProposalTypeVeto || veto.VetoTargetID != target.ProposalID {
		return model.InvalidInput("Invalid veto proposal.")
	}

	targetState, err := e.derive(tx, target)
	if err != nil {
		return err
	}
	if targetState.Stage != model.ProposalStagePending ||
		(targetState.Status != model.ProposalStatusApproved && targetState.Status != model.ProposalStatusChallenged) {
		return model.Precondition("Proposal " + target.ProposalID.Hex() + " can not be vetoed in " + targetState.String() + ".")
	}

	vetoState, err := e.derive(tx, veto)
	if err != nil {
		return err
	}
	if vetoState.Status != model.ProposalStatusApproved || vetoState.Stage != model.ProposalStageExecute {
		return model.Precondition("Veto proposal " + veto.ProposalID.Hex() + " is not approved.")
	}

	now := tx.Timestamp()
	veto.Status, veto.Stage = model.ProposalStatusExecuted, model.ProposalStageFinished
	target.Status, target.Stage = model.ProposalStatusVetoed, model.ProposalStageFinished

	if err := e.saveProposal(tx.State, veto); err != nil {
		return err
	}
	if err := e.saveProposal(tx.State, target); err != nil {
		return err
	}

	event := model.ProposalVetoed{
		ProposalID:     target.ProposalID,
		VetoProposalID: veto.ProposalID,
		DAOID:          target.BasicInfo.DAOID,
		VetoAt:         now,
	}
	if err := ledger.Emit(tx.State, model.EventProposalVetoed, event, ledger.Attr("proposalID", target.ProposalID.Hex())); err != nil {
		return err
	}

	e.logger.Info("proposal vetoed", zap.String("proposalID", target.ProposalID.Hex()), zap.String("vetoProposalID", veto.ProposalID.Hex()))
	return nil
}
