package governancefamily

import (
	"dao-governance/internal/hashing"
	"strings"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

var (
	familyHash         = ""
	proposalPrefixHash = ""
	schemePrefixHash   = ""
	daoPrefixHash      = ""
	clockPrefixHash    = ""

	calcOnce sync.Once
)

func initHashVars() {
	calcOnce.Do(func() {
		familyHash = hashing.CalculateSHA512(FamilyName)
		proposalPrefixHash = hashing.CalculateSHA512(proposalPrefix)
		schemePrefixHash = hashing.CalculateSHA512(schemePrefix)
		daoPrefixHash = hashing.CalculateSHA512(daoPrefix)
		clockPrefixHash = hashing.CalculateSHA512(clockPrefix)
	})
}

// Namespace is the address prefix the family handler registers for.
func Namespace() string {
	initHashVars()
	return familyHash[0:6]
}

// GetProposalAddressFromID calculates the proposal address; if the proposal ID is empty,
// it returns the address prefix of all the proposals
func GetProposalAddressFromID(proposalID common.Hash) (address string) {
	initHashVars()

	address = familyHash[0:6] + proposalPrefixHash[0:6]

	if proposalID != (common.Hash{}) {
		proposalIDHash := hashing.CalculateSHA512(proposalID.Hex())
		address += proposalIDHash[0:58]
	}

	return address
}

func GetSchemeAddress(daoID common.Hash, schemeAddress string) (address string) {
	initHashVars()

	daoHash := hashing.CalculateSHA512(daoID.Hex())
	schemeHash := hashing.CalculateSHA512(schemeAddress)

	return familyHash[0:6] + schemePrefixHash[0:6] + daoHash[0:6] + schemeHash[0:52]
}

func GetDAOSchemesAddress(daoID common.Hash) (address string) {
	initHashVars()

	daoHash := hashing.CalculateSHA512(daoID.Hex())

	return familyHash[0:6] + daoPrefixHash[0:6] + daoHash[0:58]
}

// GetClockAddress holds the latest transaction time of both families, read
// on chains without block info.
func GetClockAddress() string {
	initHashVars()
	return familyHash[0:6] + clockPrefixHash[0:6] + strings.Repeat("0", 58)
}
