package governance

import (
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/threshold"

	"github.com/ethereum/go-ethereum/common"
)

// GetProposalStatus derives the current status and stage of a proposal.
func (e *Engine) GetProposalStatus(tx ledger.TxContext, proposalID common.Hash) (model.ProposalState, error) {
	proposal, err := e.GetProposalInfo(tx.State, proposalID)
	if err != nil {
		return model.ProposalState{}, err
	}
	return e.derive(tx, proposal)
}

func (e *Engine) derive(tx ledger.TxContext, p model.Proposal) (model.ProposalState, error) {
	now := tx.Timestamp()
	w := p.TimeWindow

	if p.Stage == model.ProposalStageFinished {
		return model.ProposalState{Status: p.Status, Stage: p.Stage}, nil
	}
	if p.Stage == model.ProposalStageActive && now < w.ActiveEnd {
		return model.ProposalState{Status: p.Status, Stage: p.Stage}, nil
	}

	result, err := e.tally.GetVotingResult(tx.State, p.ProposalID)
	if err != nil {
		return model.ProposalState{}, err
	}

	var councilCount int64
	if p.Mechanism == model.GovernanceMechanismHighCouncil {
		council, err := e.councilMembers(tx, p.BasicInfo.DAOID)
		if err != nil {
			return model.ProposalState{}, err
		}
		councilCount = int64(len(council))
	}

	verdict, terminal := threshold.Resolve(threshold.Input{
		Threshold:     p.Threshold,
		Mechanism:     p.Mechanism,
		VoteMechanism: p.VoteMechanism,
		Result:        result,
		CouncilCount:  councilCount,
	})
	if terminal {
		return model.ProposalState{Status: verdict, Stage: model.ProposalStageFinished}, nil
	}

	switch p.ProposalType {
	case model.ProposalTypeAdvisory:
		return model.ProposalState{Status: model.ProposalStatusApproved, Stage: model.ProposalStageFinished}, nil

	case model.ProposalTypeGovernance:
		approved := model.ProposalStatusApproved
		if p.Status == model.ProposalStatusChallenged {
			approved = model.ProposalStatusChallenged
		}

		if p.Mechanism == model.GovernanceMechanismHighCouncil && now >= w.ActiveEnd && now < w.ExecuteStart {
			return model.ProposalState{Status: approved, Stage: model.ProposalStagePending}, nil
		}
		if now >= w.ExecuteEnd {
			return model.ProposalState{Status: model.ProposalStatusExpired, Stage: model.ProposalStageFinished}, nil
		}
		return model.ProposalState{Status: approved, Stage: model.ProposalStageExecute}, nil

	case model.ProposalTypeVeto:
		if now >= w.ExecuteEnd {
			return model.ProposalState{Status: model.ProposalStatusExpired, Stage: model.ProposalStageFinished}, nil
		}
		return model.ProposalState{Status: model.ProposalStatusApproved, Stage: model.ProposalStageExecute}, nil
	}

	return model.ProposalState{}, model.InvalidInput("Invalid proposal type.")
}
