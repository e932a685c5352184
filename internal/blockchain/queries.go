package blockchain

import (
	"context"
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
)

// GetProposal returns the proposal as stored. Its status and stage may lag
// behind the derived ones until the next transaction touches it.
func (c Client) GetProposal(ctx context.Context, proposalID common.Hash) (model.Proposal, error) {
	var proposal model.Proposal
	err := c.GetState(ctx, governancefamily.GetProposalAddressFromID(proposalID), &proposal)
	return proposal, err
}

func (c Client) GetVotingItem(ctx context.Context, votingItemID common.Hash) (model.VotingItem, error) {
	var item model.VotingItem
	err := c.GetState(ctx, votefamily.GetVotingItemAddress(votingItemID), &item)
	return item, err
}

func (c Client) GetVotingResult(ctx context.Context, votingItemID common.Hash) (model.VotingResult, error) {
	var result model.VotingResult
	err := c.GetState(ctx, votefamily.GetVotingResultAddress(votingItemID), &result)
	return result, err
}
