package governancefamily

import (
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

type Action string

const (
	ActionAddGovernanceScheme             Action = "add_governance_scheme"
	ActionUpdateGovernanceSchemeThreshold Action = "update_governance_scheme_threshold"
	ActionCreateProposal                  Action = "create_proposal"
	ActionCreateVetoProposal              Action = "create_veto_proposal"
	ActionVetoProposal                    Action = "veto_proposal"
	ActionExecuteProposal                 Action = "execute_proposal"
	ActionClearProposal                   Action = "clear_proposal"
)

const (
	FamilyName    string = "daogovernance"
	FamilyVersion string = "1.0"

	// to hold the proposals
	proposalPrefix = "proposal"
	// to hold the governance schemes of a dao, keyed by the scheme address
	schemePrefix = "scheme"
	// to hold the scheme addresses registered for a dao
	daoPrefix = "dao"
	// to hold the ledger clock
	clockPrefix = "clock"
)

// MethodVetoProposal is the method name a veto proposal's embedded
// transaction calls on the governance contract.
const MethodVetoProposal = "VetoProposal"

type AddGovernanceSchemeRequest struct {
	DAOID        common.Hash               `cbor:"daoID"`
	Mechanism    model.GovernanceMechanism `cbor:"mechanism"`
	VoteSchemeID common.Hash               `cbor:"voteSchemeID"`
	Threshold    model.Threshold           `cbor:"threshold"`
}

type UpdateGovernanceSchemeThresholdRequest struct {
	DAOID         common.Hash     `cbor:"daoID"`
	SchemeAddress string          `cbor:"schemeAddress"`
	Threshold     model.Threshold `cbor:"threshold"`
}

type CreateProposalRequest struct {
	BasicInfo    model.ProposalBasicInfo `cbor:"basicInfo"`
	ProposalType model.ProposalType      `cbor:"proposalType"`
	Transaction  *model.Transaction      `cbor:"transaction"`
}

type CreateVetoProposalRequest struct {
	BasicInfo    model.ProposalBasicInfo `cbor:"basicInfo"`
	VetoTargetID common.Hash             `cbor:"vetoTargetID"`
}

// VetoProposalRequest is also the params layout of a veto proposal's
// embedded transaction.
type VetoProposalRequest struct {
	ProposalID     common.Hash `cbor:"proposalID"`
	VetoProposalID common.Hash `cbor:"vetoProposalID"`
}

type ExecuteProposalRequest struct {
	ProposalID common.Hash `cbor:"proposalID"`
}

type ClearProposalRequest struct {
	ProposalID common.Hash `cbor:"proposalID"`
}

// DAOSchemes lists the scheme addresses registered for a dao.
type DAOSchemes struct {
	SchemeAddresses []string `cbor:"schemeAddresses"`
}
