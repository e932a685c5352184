package main

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/model"
	"dao-governance/internal/signkeys"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecodeRequests(t *testing.T) {
	itemID := common.HexToHash("0x01")

	body, err := decodeVoteRequest(votefamily.ActionVote, []byte(`{"votingItemID":"`+itemID.Hex()+`","option":1,"amount":5}`))
	require.NoError(t, err)
	vote, ok := body.(*votefamily.VoteRequest)
	require.True(t, ok)
	assert.Equal(t, itemID, vote.VotingItemID)
	assert.Equal(t, model.VoteOption(1), vote.Option)
	assert.Equal(t, int64(5), vote.Amount)
	assert.Nil(t, vote.Anonymous)

	body, err = decodeGovernanceRequest(governancefamily.ActionExecuteProposal, []byte(`{"proposalID":"`+itemID.Hex()+`"}`))
	require.NoError(t, err)
	assert.Equal(t, &governancefamily.ExecuteProposalRequest{ProposalID: itemID}, body)

	_, err = decodeVoteRequest(votefamily.Action("register"), []byte(`{}`))
	assert.Error(t, err)
	_, err = decodeGovernanceRequest(governancefamily.ActionClearProposal, []byte(`{"proposalID":`))
	assert.Error(t, err)
}

func TestBuildTransaction(t *testing.T) {
	keys, err := signkeys.GenerateKeys()
	require.NoError(t, err)
	signer := keys.GetSigner()

	transaction, err := buildTransaction("vote", string(votefamily.ActionCreateVoteScheme), []byte(`{"mechanism":1,"withoutLockToken":true}`), 1000, signer)
	require.NoError(t, err)
	assert.NotEmpty(t, transaction.GetTransactionID())

	_, err = buildTransaction("assets", "transfer", []byte(`{}`), 1000, signer)
	assert.Error(t, err)
}
