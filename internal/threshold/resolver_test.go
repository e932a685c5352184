package threshold_test

import (
	"dao-governance/internal/model"
	"dao-governance/internal/threshold"
	"testing"

	"github.com/stretchr/testify/assert"
)

func baseThreshold() model.Threshold {
	return model.Threshold{
		MinimalRequiredThreshold:   2,
		MinimalVoteThreshold:       10,
		MinimalApproveThreshold:    5000,
		MaximalRejectionThreshold:  3000,
		MaximalAbstentionThreshold: 3000,
	}
}

func TestResolve(t *testing.T) {
	tests := []struct {
		name     string
		result   model.VotingResult
		verdict  model.ProposalStatus
		terminal bool
	}{
		{
			name:     "below quorum",
			result:   model.VotingResult{ApproveCounts: 100, TotalVotersCount: 1},
			verdict:  model.ProposalStatusBelowThreshold,
			terminal: true,
		},
		{
			name:     "below volume",
			result:   model.VotingResult{ApproveCounts: 9, TotalVotersCount: 3},
			verdict:  model.ProposalStatusBelowThreshold,
			terminal: true,
		},
		{
			name:     "rejected",
			result:   model.VotingResult{ApproveCounts: 60, RejectCounts: 40, TotalVotersCount: 3},
			verdict:  model.ProposalStatusRejected,
			terminal: true,
		},
		{
			name:     "abstained",
			result:   model.VotingResult{ApproveCounts: 60, AbstainCounts: 40, TotalVotersCount: 3},
			verdict:  model.ProposalStatusAbstained,
			terminal: true,
		},
		{
			name:     "approval not above the minimum",
			result:   model.VotingResult{ApproveCounts: 50, RejectCounts: 25, AbstainCounts: 25, TotalVotersCount: 3},
			verdict:  model.ProposalStatusBelowThreshold,
			terminal: true,
		},
		{
			name:     "approved",
			result:   model.VotingResult{ApproveCounts: 80, RejectCounts: 10, AbstainCounts: 10, TotalVotersCount: 3},
			verdict:  model.ProposalStatusApproved,
			terminal: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			verdict, terminal := threshold.Resolve(threshold.Input{
				Threshold:     baseThreshold(),
				Mechanism:     model.GovernanceMechanismReferendum,
				VoteMechanism: model.VoteMechanismTokenBallot,
				Result:        tt.result,
			})
			assert.Equal(t, tt.verdict, verdict)
			assert.Equal(t, tt.terminal, terminal)
		})
	}
}

func TestResolvePrecedence(t *testing.T) {
	// fails turnout and rejection at once, turnout wins
	result := model.VotingResult{RejectCounts: 100, TotalVotersCount: 1}
	verdict, terminal := threshold.Resolve(threshold.Input{
		Threshold:     baseThreshold(),
		Mechanism:     model.GovernanceMechanismReferendum,
		VoteMechanism: model.VoteMechanismTokenBallot,
		Result:        result,
	})
	assert.True(t, terminal)
	assert.Equal(t, model.ProposalStatusBelowThreshold, verdict)

	// fails rejection and abstention at once, rejection wins
	result = model.VotingResult{ApproveCounts: 30, RejectCounts: 35, AbstainCounts: 35, TotalVotersCount: 3}
	verdict, _ = threshold.Resolve(threshold.Input{
		Threshold:     baseThreshold(),
		Mechanism:     model.GovernanceMechanismReferendum,
		VoteMechanism: model.VoteMechanismTokenBallot,
		Result:        result,
	})
	assert.Equal(t, model.ProposalStatusRejected, verdict)
}

func TestResolveLargeTokenTallies(t *testing.T) {
	// 8 decimal tokens: a billion tokens is 1e17 base units
	const unit int64 = 100_000_000
	input := threshold.Input{
		Threshold:     baseThreshold(),
		Mechanism:     model.GovernanceMechanismReferendum,
		VoteMechanism: model.VoteMechanismTokenBallot,
		Result: model.VotingResult{
			ApproveCounts:    8_000_000_000 * unit,
			RejectCounts:     2_000_000_000 * unit,
			TotalVotersCount: 2,
		},
	}

	verdict, terminal := threshold.Resolve(input)
	assert.False(t, terminal)
	assert.Equal(t, model.ProposalStatusApproved, verdict)

	input.Result.RejectCounts = 4_000_000_000 * unit
	verdict, terminal = threshold.Resolve(input)
	assert.True(t, terminal)
	assert.Equal(t, model.ProposalStatusRejected, verdict)
}

func TestResolveUniqueVoteSkipsVolume(t *testing.T) {
	result := model.VotingResult{ApproveCounts: 2, TotalVotersCount: 2}
	in := threshold.Input{
		Threshold:     baseThreshold(),
		Mechanism:     model.GovernanceMechanismOrganization,
		VoteMechanism: model.VoteMechanismUniqueVote,
		Result:        result,
	}
	_, terminal := threshold.Resolve(in)
	assert.False(t, terminal)

	in.VoteMechanism = model.VoteMechanismTokenBallot
	verdict, terminal := threshold.Resolve(in)
	assert.True(t, terminal)
	assert.Equal(t, model.ProposalStatusBelowThreshold, verdict)
}

func TestQuorum(t *testing.T) {
	th := model.Threshold{MinimalRequiredThreshold: 1}
	assert.Equal(t, int64(1), threshold.Quorum(th, model.GovernanceMechanismHighCouncil, 2))

	th.MinimalRequiredThreshold = 6666
	assert.Equal(t, int64(2), threshold.Quorum(th, model.GovernanceMechanismHighCouncil, 3))
	assert.Equal(t, int64(6666), threshold.Quorum(th, model.GovernanceMechanismReferendum, 3))

	th.MinimalRequiredThreshold = 6667
	assert.Equal(t, int64(3), threshold.Quorum(th, model.GovernanceMechanismHighCouncil, 3))
}

func TestQuorumGrowsWithCouncil(t *testing.T) {
	th := model.Threshold{MinimalRequiredThreshold: 5000, MinimalApproveThreshold: 5000}
	result := model.VotingResult{ApproveCounts: 2, TotalVotersCount: 2}

	in := threshold.Input{
		Threshold:     th,
		Mechanism:     model.GovernanceMechanismHighCouncil,
		VoteMechanism: model.VoteMechanismUniqueVote,
		Result:        result,
		CouncilCount:  4,
	}
	_, terminal := threshold.Resolve(in)
	assert.False(t, terminal)

	previous := threshold.Quorum(th, in.Mechanism, 4)
	for council := int64(5); council <= 20; council++ {
		quorum := threshold.Quorum(th, in.Mechanism, council)
		assert.GreaterOrEqual(t, quorum, previous)
		previous = quorum
	}

	// the council doubled, the same tally no longer reaches the quorum
	in.CouncilCount = 8
	verdict, terminal := threshold.Resolve(in)
	assert.True(t, terminal)
	assert.Equal(t, model.ProposalStatusBelowThreshold, verdict)
}
