package votefamily_test

import (
	"dao-governance/internal/blockchain/votefamily"
	"strings"
	"testing"

	"github.com/ethereum/go-ethereum/common"
	"github.com/stretchr/testify/assert"
)

func TestAddress(t *testing.T) {
	daoID := common.HexToHash("0xd1")
	itemID := common.HexToHash("0xa1")
	hash := common.HexToHash("0xc1")

	addrs := []string{
		votefamily.GetVoteSchemeAddress(hash),
		votefamily.GetVotingItemAddress(itemID),
		votefamily.GetVotingResultAddress(itemID),
		votefamily.GetVotingRecordAddress(itemID, "alice"),
		votefamily.GetCommitmentAddress(itemID, hash),
		votefamily.GetCommitterAddress(itemID, "alice"),
		votefamily.GetNullifierAddress(itemID, hash),
		votefamily.GetVoterLockAddress(daoID, "alice"),
		votefamily.GetProposalLockAddress(daoID, itemID, "alice"),
	}

	seen := make(map[string]bool)
	for _, addr := range addrs {
		assert.Len(t, addr, 70)
		assert.True(t, strings.HasPrefix(addr, votefamily.Namespace()))
		assert.False(t, seen[addr], "duplicate address %s", addr)
		seen[addr] = true
	}
}

func TestRecordAddressDependsOnVoter(t *testing.T) {
	itemID := common.HexToHash("0xa1")
	alice := votefamily.GetVotingRecordAddress(itemID, "alice")
	bob := votefamily.GetVotingRecordAddress(itemID, "bob")

	assert.NotEqual(t, alice, bob)
	assert.Equal(t, alice[0:18], bob[0:18])
}
