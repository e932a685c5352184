package votefamily

import (
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

type Action string

const (
	ActionCreateVoteScheme   Action = "create_vote_scheme"
	ActionVote               Action = "vote"
	ActionRegisterCommitment Action = "register_commitment"
	ActionWithdraw           Action = "withdraw"
)

const (
	FamilyName    string = "daovote"
	FamilyVersion string = "1.0"

	schemePrefix = "scheme"
	itemPrefix   = "item"
	resultPrefix = "result"
	// to hold the public voting record of a voter on an item
	recordPrefix = "record"
	// anonymous voting bookkeeping, append only
	commitmentPrefix = "commitment"
	committerPrefix  = "committer"
	nullifierPrefix  = "nullifier"
	// escrow bookkeeping of lock mode token ballots
	lockPrefix = "lock"
)

type CreateVoteSchemeRequest struct {
	Mechanism        model.VoteMechanism `cbor:"mechanism"`
	WithoutLockToken bool                `cbor:"withoutLockToken"`
}

// AnonymousVote replaces the voter identity of a reveal with a nullifier
// and a membership proof. Root names the tree root the proof was built
// against, the last root when empty.
type AnonymousVote struct {
	Nullifier common.Hash `cbor:"nullifier"`
	Proof     model.Proof `cbor:"proof"`
	Root      common.Hash `cbor:"root"`
}

type VoteRequest struct {
	VotingItemID common.Hash      `cbor:"votingItemID"`
	Option       model.VoteOption `cbor:"option"`
	Amount       int64            `cbor:"amount"`
	Anonymous    *AnonymousVote   `cbor:"anonymous"`
}

type RegisterCommitmentRequest struct {
	VotingItemID common.Hash `cbor:"votingItemID"`
	Commitment   common.Hash `cbor:"commitment"`
	Amount       int64       `cbor:"amount"`
}

type WithdrawRequest struct {
	DAOID         common.Hash   `cbor:"daoID"`
	VotingItemIDs []common.Hash `cbor:"votingItemIDs"`
	Amount        int64         `cbor:"amount"`
}

// RegisterRequest is sent by the governance contract only.
type RegisterRequest struct {
	VotingItemID        common.Hash               `cbor:"votingItemID"`
	DAOID               common.Hash               `cbor:"daoID"`
	SchemeID            common.Hash               `cbor:"schemeID"`
	AcceptedToken       string                    `cbor:"acceptedToken"`
	StartTimestamp      int64                     `cbor:"startTimestamp"`
	EndTimestamp        int64                     `cbor:"endTimestamp"`
	GovernanceMechanism model.GovernanceMechanism `cbor:"governanceMechanism"`
	IsAnonymous         bool                      `cbor:"isAnonymous"`
}
