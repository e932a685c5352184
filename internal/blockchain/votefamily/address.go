package votefamily

import (
	"dao-governance/internal/hashing"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	familyHash           = ""
	schemePrefixHash     = ""
	itemPrefixHash       = ""
	resultPrefixHash     = ""
	recordPrefixHash     = ""
	commitmentPrefixHash = ""
	committerPrefixHash  = ""
	nullifierPrefixHash  = ""
	lockPrefixHash       = ""

	calcOnce sync.Once
)

func initHashVars() {
	calcOnce.Do(func() {
		familyHash = hashing.CalculateSHA512(FamilyName)
		schemePrefixHash = hashing.CalculateSHA512(schemePrefix)
		itemPrefixHash = hashing.CalculateSHA512(itemPrefix)
		resultPrefixHash = hashing.CalculateSHA512(resultPrefix)
		recordPrefixHash = hashing.CalculateSHA512(recordPrefix)
		commitmentPrefixHash = hashing.CalculateSHA512(commitmentPrefix)
		committerPrefixHash = hashing.CalculateSHA512(committerPrefix)
		nullifierPrefixHash = hashing.CalculateSHA512(nullifierPrefix)
		lockPrefixHash = hashing.CalculateSHA512(lockPrefix)
	})
}

func Namespace() string {
	initHashVars()
	return familyHash[0:6]
}

func single(prefixHash string, key string) string {
	return familyHash[0:6] + prefixHash[0:6] + hashing.CalculateSHA512(key)[0:58]
}

func pair(prefixHash string, first string, second string) string {
	return familyHash[0:6] + prefixHash[0:6] + hashing.CalculateSHA512(first)[0:6] + hashing.CalculateSHA512(second)[0:52]
}

func GetVoteSchemeAddress(schemeID common.Hash) string {
	initHashVars()
	return single(schemePrefixHash, schemeID.Hex())
}

func GetVotingItemAddress(votingItemID common.Hash) string {
	initHashVars()
	return single(itemPrefixHash, votingItemID.Hex())
}

func GetVotingResultAddress(votingItemID common.Hash) string {
	initHashVars()
	return single(resultPrefixHash, votingItemID.Hex())
}

func GetVotingRecordAddress(votingItemID common.Hash, voter string) string {
	initHashVars()
	return pair(recordPrefixHash, votingItemID.Hex(), voter)
}

func GetCommitmentAddress(votingItemID common.Hash, commitment common.Hash) string {
	initHashVars()
	return pair(commitmentPrefixHash, votingItemID.Hex(), commitment.Hex())
}

// GetCommitterAddress marks that a voter already committed on an item.
func GetCommitterAddress(votingItemID common.Hash, voter string) string {
	initHashVars()
	return pair(committerPrefixHash, votingItemID.Hex(), voter)
}

func GetNullifierAddress(votingItemID common.Hash, nullifier common.Hash) string {
	initHashVars()
	return pair(nullifierPrefixHash, votingItemID.Hex(), nullifier.Hex())
}

// GetVoterLockAddress holds the total amount a voter has locked in a dao.
func GetVoterLockAddress(daoID common.Hash, voter string) string {
	initHashVars()
	return pair(lockPrefixHash, daoID.Hex(), voter)
}

// GetProposalLockAddress holds the amount a voter has locked on one item.
func GetProposalLockAddress(daoID common.Hash, votingItemID common.Hash, voter string) string {
	initHashVars()

	daoHash := hashing.CalculateSHA512(daoID.Hex())
	itemHash := hashing.CalculateSHA512(votingItemID.Hex())
	voterHash := hashing.CalculateSHA512(voter)

	return familyHash[0:6] + lockPrefixHash[0:6] + daoHash[0:6] + itemHash[0:6] + voterHash[0:46]
}
