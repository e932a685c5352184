package model

import (
	"github.com/ethereum/go-ethereum/common"
)

const (
	EventProposalCreated      = "daogovernance/proposal_created"
	EventProposalExecuted     = "daogovernance/proposal_executed"
	EventProposalVetoed       = "daogovernance/proposal_vetoed"
	EventVotingItemRegistered = "daovote/voting_item_registered"
	EventVoted                = "daovote/voted"
	EventCommitted            = "daovote/committed"
	EventWithdrawn            = "daovote/withdrawn"
)

type ProposalCreated struct {
	ProposalID    common.Hash  `cbor:"proposalID"`
	DAOID         common.Hash  `cbor:"daoID"`
	ProposalType  ProposalType `cbor:"proposalType"`
	Proposer      string       `cbor:"proposer"`
	SchemeAddress string       `cbor:"schemeAddress"`
	TimeWindow    TimeWindow   `cbor:"timeWindow"`
	VetoTargetID  common.Hash  `cbor:"vetoTargetID"`
}

type ProposalExecuted struct {
	ProposalID common.Hash `cbor:"proposalID"`
	DAOID      common.Hash `cbor:"daoID"`
	ExecuteAt  int64       `cbor:"executeAt"`
}

type ProposalVetoed struct {
	ProposalID     common.Hash `cbor:"proposalID"`
	VetoProposalID common.Hash `cbor:"vetoProposalID"`
	DAOID          common.Hash `cbor:"daoID"`
	VetoAt         int64       `cbor:"vetoAt"`
}

type VotingItemRegistered struct {
	VotingItem VotingItem `cbor:"votingItem"`
}

type Voted struct {
	VotingItemID common.Hash `cbor:"votingItemID"`
	Voter        string      `cbor:"voter"`
	Option       VoteOption  `cbor:"option"`
	Amount       int64       `cbor:"amount"`
	VoteID       common.Hash `cbor:"voteID"`
	VoteAt       int64       `cbor:"voteAt"`
}

type Committed struct {
	VotingItemID common.Hash `cbor:"votingItemID"`
	Commitment   common.Hash `cbor:"commitment"`
	LeafIndex    int64       `cbor:"leafIndex"`
	CommitAt     int64       `cbor:"commitAt"`
}

type Withdrawn struct {
	DAOID         common.Hash   `cbor:"daoID"`
	Withdrawer    string        `cbor:"withdrawer"`
	VotingItemIDs []common.Hash `cbor:"votingItemIDs"`
	Amount        int64         `cbor:"amount"`
	WithdrawAt    int64         `cbor:"withdrawAt"`
}
