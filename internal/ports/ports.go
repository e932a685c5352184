// Package ports declares the collaborators the governance and vote engines
// call synchronously while a transaction runs.
package ports

import (
	"context"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/holiman/uint256"
)

type DAOInfo struct {
	DAOID           common.Hash
	Creator         string
	GovernanceToken string
	IsNetworkDAO    bool
}

type DAO interface {
	// GetDAOInfo fails with model.ErrNotFound for unknown DAOs
	GetDAOInfo(ctx context.Context, daoID common.Hash) (DAOInfo, error)
	GetSubsistStatus(ctx context.Context, daoID common.Hash) (bool, error)
	GetIsMember(ctx context.Context, daoID common.Hash, member string) (bool, error)
}

type Election interface {
	GetHighCouncilMembers(ctx context.Context, daoID common.Hash) ([]string, error)
	// GetVictories returns the current block producers of the network DAO
	GetVictories(ctx context.Context, daoID common.Hash) ([]string, error)
}

// Token and MerkleAccumulator keep their records in the ledger state of the
// running transaction.
type Token interface {
	TokenExists(state ledger.State, symbol string) (bool, error)
	GetBalance(state ledger.State, owner string, symbol string) (int64, error)
	TransferFrom(state ledger.State, from, to, symbol string, amount int64) error
	// Transfer moves funds out of a virtual account owned by the caller
	Transfer(state ledger.State, from, to, symbol string, amount int64) error
}

// MerkleAccumulator is an append-only tree keeping a bounded history of roots.
type MerkleAccumulator interface {
	CreateTree(state ledger.State, treeID common.Hash) error
	InsertLeaf(state ledger.State, treeID common.Hash, leaf common.Hash) (int64, error)
	GetLastRoot(state ledger.State, treeID common.Hash) (common.Hash, error)
	GetNextIndex(state ledger.State, treeID common.Hash) (int64, error)
	IsKnownRoot(state ledger.State, treeID common.Hash, root common.Hash) (bool, error)
}

// PublicInputs of an anonymous vote proof: root, nullifier, option, 0, 0, 0.
type PublicInputs [6]*uint256.Int

func NewPublicInputs(root common.Hash, nullifier common.Hash, option model.VoteOption) PublicInputs {
	return PublicInputs{
		new(uint256.Int).SetBytes32(root.Bytes()),
		new(uint256.Int).SetBytes32(nullifier.Bytes()),
		uint256.NewInt(uint64(option)),
		uint256.NewInt(0),
		uint256.NewInt(0),
		uint256.NewInt(0),
	}
}

type ProofVerifier interface {
	VerifyProof(ctx context.Context, proof model.Proof, inputs PublicInputs) (bool, error)
}

// Collaborators bundles the ports an engine depends on.
type Collaborators struct {
	DAO      DAO
	Election Election
	Token    Token
	Merkle   MerkleAccumulator
	Verifier ProofVerifier
}
