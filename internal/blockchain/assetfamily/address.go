// Package assetfamily addresses the token balances and commitment trees the
// governance and vote families keep next to their own records. Both
// handlers write here, so these records commit or roll back with the
// transaction that changed them.
package assetfamily

import (
	"dao-governance/internal/hashing"
	"sync"

	"github.com/ethereum/go-ethereum/common"
)

const (
	Name = "daoassets"

	balancePrefix = "balance"
	treePrefix    = "tree"
)

var (
	familyHash        = ""
	balancePrefixHash = ""
	treePrefixHash    = ""

	calcOnce sync.Once
)

func initHashVars() {
	calcOnce.Do(func() {
		familyHash = hashing.CalculateSHA512(Name)
		balancePrefixHash = hashing.CalculateSHA512(balancePrefix)
		treePrefixHash = hashing.CalculateSHA512(treePrefix)
	})
}

func Namespace() string {
	initHashVars()
	return familyHash[0:6]
}

func GetBalanceAddress(symbol string, owner string) string {
	initHashVars()

	symbolHash := hashing.CalculateSHA512(symbol)
	ownerHash := hashing.CalculateSHA512(owner)

	return familyHash[0:6] + balancePrefixHash[0:6] + symbolHash[0:6] + ownerHash[0:52]
}

func GetTreeAddress(treeID common.Hash) string {
	initHashVars()
	return familyHash[0:6] + treePrefixHash[0:6] + hashing.CalculateSHA512(treeID.Hex())[0:58]
}
