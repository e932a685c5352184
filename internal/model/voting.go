package model

import (
	"github.com/ethereum/go-ethereum/common"
)

type VoteScheme struct {
	SchemeID         common.Hash   `cbor:"schemeID"`
	Mechanism        VoteMechanism `cbor:"mechanism"`
	WithoutLockToken bool          `cbor:"withoutLockToken"`
}

// VotingItem is registered once per proposal and never changes afterwards.
type VotingItem struct {
	VotingItemID        common.Hash         `cbor:"votingItemID"`
	DAOID               common.Hash         `cbor:"daoID"`
	SchemeID            common.Hash         `cbor:"schemeID"`
	AcceptedToken       string              `cbor:"acceptedToken"`
	StartTimestamp      int64               `cbor:"startTimestamp"`
	EndTimestamp        int64               `cbor:"endTimestamp"`
	GovernanceMechanism GovernanceMechanism `cbor:"governanceMechanism"`
	IsAnonymous         bool                `cbor:"isAnonymous"`
}

// CommitmentDeadline splits an anonymous item into its commit and reveal
// phases.
func (item VotingItem) CommitmentDeadline() int64 {
	return item.StartTimestamp + (item.EndTimestamp-item.StartTimestamp)/2
}

type VotingResult struct {
	VotingItemID     common.Hash `cbor:"votingItemID"`
	ApproveCounts    int64       `cbor:"approveCounts"`
	RejectCounts     int64       `cbor:"rejectCounts"`
	AbstainCounts    int64       `cbor:"abstainCounts"`
	VotesAmount      int64       `cbor:"votesAmount"`
	TotalVotersCount int64       `cbor:"totalVotersCount"`
}

func (r VotingResult) TotalVotes() int64 {
	return r.ApproveCounts + r.RejectCounts + r.AbstainCounts
}

// Add counts weight for the option.
func (r *VotingResult) Add(option VoteOption, weight int64) {
	switch option {
	case VoteOptionApproved:
		r.ApproveCounts += weight
	case VoteOptionRejected:
		r.RejectCounts += weight
	case VoteOptionAbstained:
		r.AbstainCounts += weight
	}
	r.VotesAmount += weight
}

type VotingRecord struct {
	VotingItemID  common.Hash `cbor:"votingItemID"`
	Voter         string      `cbor:"voter"`
	Amount        int64       `cbor:"amount"`
	Option        VoteOption  `cbor:"option"`
	VoteTimestamp int64       `cbor:"voteTimestamp"`
	VoteID        common.Hash `cbor:"voteID"`
}

// LockedAmount is the escrow bookkeeping of a lock mode token ballot voter.
type LockedAmount struct {
	Amount int64 `cbor:"amount"`
}

// Proof is a groth16 proof, coordinates are decimal field elements.
type Proof struct {
	A [2]string    `cbor:"a"`
	B [2][2]string `cbor:"b"`
	C [2]string    `cbor:"c"`
}
