package model

import "fmt"

type ProposalType int

const (
	ProposalTypeUnused ProposalType = iota
	ProposalTypeGovernance
	ProposalTypeVeto
	ProposalTypeAdvisory
)

type ProposalStage int

const (
	ProposalStageUnused ProposalStage = iota
	ProposalStageActive
	ProposalStagePending
	ProposalStageExecute
	ProposalStageFinished
)

type ProposalStatus int

const (
	ProposalStatusUnused ProposalStatus = iota
	ProposalStatusPendingVote
	ProposalStatusApproved
	ProposalStatusRejected
	ProposalStatusAbstained
	ProposalStatusBelowThreshold
	ProposalStatusChallenged
	ProposalStatusVetoed
	ProposalStatusExecuted
	ProposalStatusExpired
)

// GovernanceMechanism decides who may vote and how the quorum is computed.
type GovernanceMechanism int

const (
	GovernanceMechanismUnused GovernanceMechanism = iota
	GovernanceMechanismReferendum
	GovernanceMechanismHighCouncil
	GovernanceMechanismOrganization
)

// VoteMechanism decides how much a single vote weighs.
type VoteMechanism int

const (
	VoteMechanismUnused VoteMechanism = iota
	VoteMechanismTokenBallot
	VoteMechanismUniqueVote
)

type VoteOption int

const (
	VoteOptionApproved VoteOption = iota
	VoteOptionRejected
	VoteOptionAbstained
)

var (
	proposalTypeNames = map[ProposalType]string{
		ProposalTypeUnused:     "unused",
		ProposalTypeGovernance: "governance",
		ProposalTypeVeto:       "veto",
		ProposalTypeAdvisory:   "advisory",
	}
	proposalStageNames = map[ProposalStage]string{
		ProposalStageUnused:   "unused",
		ProposalStageActive:   "active",
		ProposalStagePending:  "pending",
		ProposalStageExecute:  "execute",
		ProposalStageFinished: "finished",
	}
	proposalStatusNames = map[ProposalStatus]string{
		ProposalStatusUnused:         "unused",
		ProposalStatusPendingVote:    "pending_vote",
		ProposalStatusApproved:       "approved",
		ProposalStatusRejected:       "rejected",
		ProposalStatusAbstained:      "abstained",
		ProposalStatusBelowThreshold: "below_threshold",
		ProposalStatusChallenged:     "challenged",
		ProposalStatusVetoed:         "vetoed",
		ProposalStatusExecuted:       "executed",
		ProposalStatusExpired:        "expired",
	}
	governanceMechanismNames = map[GovernanceMechanism]string{
		GovernanceMechanismUnused:       "unused",
		GovernanceMechanismReferendum:   "referendum",
		GovernanceMechanismHighCouncil:  "high_council",
		GovernanceMechanismOrganization: "organization",
	}
	voteMechanismNames = map[VoteMechanism]string{
		VoteMechanismUnused:      "unused",
		VoteMechanismTokenBallot: "token_ballot",
		VoteMechanismUniqueVote:  "unique_vote",
	}
	voteOptionNames = map[VoteOption]string{
		VoteOptionApproved:  "approved",
		VoteOptionRejected:  "rejected",
		VoteOptionAbstained: "abstained",
	}
)

func enumName[T comparable](names map[T]string, value T) string {
	if name, ok := names[value]; ok {
		return name
	}
	return fmt.Sprint("unknown(", value, ")")
}

func (t ProposalType) String() string        { return enumName(proposalTypeNames, t) }
func (s ProposalStage) String() string       { return enumName(proposalStageNames, s) }
func (s ProposalStatus) String() string      { return enumName(proposalStatusNames, s) }
func (m GovernanceMechanism) String() string { return enumName(governanceMechanismNames, m) }
func (m VoteMechanism) String() string       { return enumName(voteMechanismNames, m) }
func (o VoteOption) String() string          { return enumName(voteOptionNames, o) }
func (m GovernanceMechanism) IsValid() bool {
	return m > GovernanceMechanismUnused && m <= GovernanceMechanismOrganization
}
func (m VoteMechanism) IsValid() bool { return m > VoteMechanismUnused && m <= VoteMechanismUniqueVote }
func (o VoteOption) IsValid() bool    { return o >= VoteOptionApproved && o <= VoteOptionAbstained }
