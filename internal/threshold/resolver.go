// Package threshold turns a proposal's threshold snapshot and its live
// tally into a verdict.
package threshold

import (
	"dao-governance/internal/model"

	"github.com/holiman/uint256"
)

type Input struct {
	Threshold     model.Threshold
	Mechanism     model.GovernanceMechanism
	VoteMechanism model.VoteMechanism
	Result        model.VotingResult
	// current council (or block producer) count, only read for HighCouncil
	CouncilCount int64
}

// Quorum returns the minimal number of voters.
func Quorum(t model.Threshold, mechanism model.GovernanceMechanism, councilCount int64) int64 {
	if mechanism != model.GovernanceMechanismHighCouncil {
		return t.MinimalRequiredThreshold
	}
	product := t.MinimalRequiredThreshold * councilCount
	return (product + model.AbstractVoteTotal - 1) / model.AbstractVoteTotal
}

// Resolve runs the checks in order turnout, volume, rejection, abstention,
// approval and returns the first failing verdict. ok is false when the
// tally passes every check.
func Resolve(in Input) (verdict model.ProposalStatus, ok bool) {
	t, r := in.Threshold, in.Result

	if r.TotalVotersCount < Quorum(t, in.Mechanism, in.CouncilCount) {
		return model.ProposalStatusBelowThreshold, true
	}

	total := r.TotalVotes()
	if in.VoteMechanism != model.VoteMechanismUniqueVote && total < t.MinimalVoteThreshold {
		return model.ProposalStatusBelowThreshold, true
	}

	if compareShare(r.RejectCounts, t.MaximalRejectionThreshold, total) > 0 {
		return model.ProposalStatusRejected, true
	}

	if compareShare(r.AbstainCounts, t.MaximalAbstentionThreshold, total) > 0 {
		return model.ProposalStatusAbstained, true
	}

	if compareShare(r.ApproveCounts, t.MinimalApproveThreshold, total) <= 0 {
		return model.ProposalStatusBelowThreshold, true
	}

	return model.ProposalStatusApproved, false
}

// compareShare compares count/total with basisPoints/AbstractVoteTotal.
// Token tallies are large enough to overflow the int64 products.
func compareShare(count int64, basisPoints int64, total int64) int {
	left := new(uint256.Int).Mul(nonNegative(count), nonNegative(model.AbstractVoteTotal))
	right := new(uint256.Int).Mul(nonNegative(basisPoints), nonNegative(total))
	return left.Cmp(right)
}

func nonNegative(v int64) *uint256.Int {
	if v < 0 {
		return new(uint256.Int)
	}
	return uint256.NewInt(uint64(v))
}
