package model

import (
	"github.com/ethereum/go-ethereum/common"
)

// Transaction is the call a governance or veto proposal performs once it
// is executed. Params are opaque to the governance engine.
type Transaction struct {
	ContractAddress string `cbor:"contractAddress"`
	MethodName      string `cbor:"methodName"`
	Params          []byte `cbor:"params"`
}

type ProposalBasicInfo struct {
	DAOID         common.Hash `cbor:"daoID"`
	Title         string      `cbor:"title"`
	Description   string      `cbor:"description"`
	ForumURL      string      `cbor:"forumURL"`
	SchemeAddress string      `cbor:"schemeAddress"`
	IsAnonymous   bool        `cbor:"isAnonymous"`

	// either a relative period in seconds or an explicit start/end pair
	ActiveTimePeriod int64 `cbor:"activeTimePeriod"`
	ActiveStartTime  int64 `cbor:"activeStartTime"`
	ActiveEndTime    int64 `cbor:"activeEndTime"`
}

// TimeWindow values are unix seconds.
type TimeWindow struct {
	ActiveStart  int64 `cbor:"activeStart"`
	ActiveEnd    int64 `cbor:"activeEnd"`
	ExecuteStart int64 `cbor:"executeStart"`
	ExecuteEnd   int64 `cbor:"executeEnd"`
}

type Proposal struct {
	ProposalID   common.Hash       `cbor:"proposalID"`
	BasicInfo    ProposalBasicInfo `cbor:"basicInfo"`
	ProposalType ProposalType      `cbor:"proposalType"`
	Status       ProposalStatus    `cbor:"status"`
	Stage        ProposalStage     `cbor:"stage"`
	TimeWindow   TimeWindow        `cbor:"timeWindow"`
	Proposer     string            `cbor:"proposer"`
	Transaction  *Transaction      `cbor:"transaction"`
	VetoTargetID common.Hash       `cbor:"vetoTargetID"`

	// snapshot of the governance scheme at creation time
	Mechanism     GovernanceMechanism `cbor:"mechanism"`
	VoteSchemeID  common.Hash         `cbor:"voteSchemeID"`
	VoteMechanism VoteMechanism       `cbor:"voteMechanism"`
	Threshold     Threshold           `cbor:"threshold"`
}

// ProposalState is the derived {status, stage} pair of a proposal.
type ProposalState struct {
	Status ProposalStatus
	Stage  ProposalStage
}

func (s ProposalState) String() string {
	return s.Status.String() + "/" + s.Stage.String()
}

type GovernanceScheme struct {
	DAOID         common.Hash         `cbor:"daoID"`
	SchemeAddress string              `cbor:"schemeAddress"`
	Mechanism     GovernanceMechanism `cbor:"mechanism"`
	VoteSchemeID  common.Hash         `cbor:"voteSchemeID"`
	Threshold     Threshold           `cbor:"threshold"`
}
