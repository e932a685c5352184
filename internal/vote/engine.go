// Package vote owns voting items, their tallies and the escrow bookkeeping
// of lock mode token ballots. Anonymous items replace the public voting
// record with a commit and reveal over a merkle accumulator.
package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"dao-governance/internal/ports"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

type Engine struct {
	logger *zap.Logger

	// address of this contract, owner of the escrow virtual accounts
	address           string
	governanceAddress string

	dao      ports.DAO
	election ports.Election
	token    ports.Token
	merkle   ports.MerkleAccumulator
	verifier ports.ProofVerifier
}

func NewEngine(logger *zap.Logger, address string, governanceAddress string, collaborators ports.Collaborators) *Engine {
	return &Engine{
		logger:            logger,
		address:           address,
		governanceAddress: governanceAddress,
		dao:               collaborators.DAO,
		election:          collaborators.Election,
		token:             collaborators.Token,
		merkle:            collaborators.Merkle,
		verifier:          collaborators.Verifier,
	}
}

func (e *Engine) Address() string {
	return e.address
}

// EscrowAccount is the virtual account holding the locked votes of voter
// in a dao.
func (e *Engine) EscrowAccount(daoID common.Hash, voter string) string {
	return hashing.VirtualAddress(e.address, voter, daoID.Hex())
}

func (e *Engine) GetVoteScheme(state ledger.State, schemeID common.Hash) (model.VoteScheme, error) {
	var scheme model.VoteScheme
	found, err := ledger.Load(state, votefamily.GetVoteSchemeAddress(schemeID), &scheme)
	if err != nil {
		return model.VoteScheme{}, err
	}
	if !found {
		return model.VoteScheme{}, model.NotFound("Vote scheme not found.")
	}
	return scheme, nil
}

func (e *Engine) GetVotingItem(state ledger.State, votingItemID common.Hash) (model.VotingItem, error) {
	var item model.VotingItem
	found, err := ledger.Load(state, votefamily.GetVotingItemAddress(votingItemID), &item)
	if err != nil {
		return model.VotingItem{}, err
	}
	if !found {
		return model.VotingItem{}, model.NotFound("Voting item not found.")
	}
	return item, nil
}

func (e *Engine) GetVotingResult(state ledger.State, votingItemID common.Hash) (model.VotingResult, error) {
	var result model.VotingResult
	found, err := ledger.Load(state, votefamily.GetVotingResultAddress(votingItemID), &result)
	if err != nil {
		return model.VotingResult{}, err
	}
	if !found {
		return model.VotingResult{}, model.NotFound("Voting result not found.")
	}
	return result, nil
}

// GetVotingRecord returns the public record of voter, found is false when
// the voter has not voted on the item.
func (e *Engine) GetVotingRecord(state ledger.State, votingItemID common.Hash, voter string) (record model.VotingRecord, found bool, err error) {
	found, err = ledger.Load(state, votefamily.GetVotingRecordAddress(votingItemID, voter), &record)
	return record, found, err
}

// GetLockedAmount is the total amount voter has locked in the dao.
func (e *Engine) GetLockedAmount(state ledger.State, daoID common.Hash, voter string) (int64, error) {
	var locked model.LockedAmount
	if _, err := ledger.Load(state, votefamily.GetVoterLockAddress(daoID, voter), &locked); err != nil {
		return 0, err
	}
	return locked.Amount, nil
}

func (e *Engine) GetProposalLockedAmount(state ledger.State, daoID common.Hash, votingItemID common.Hash, voter string) (int64, error) {
	var locked model.LockedAmount
	if _, err := ledger.Load(state, votefamily.GetProposalLockAddress(daoID, votingItemID, voter), &locked); err != nil {
		return 0, err
	}
	return locked.Amount, nil
}

func (e *Engine) IsCommitmentUsed(state ledger.State, votingItemID common.Hash, commitment common.Hash) (bool, error) {
	return ledger.Exists(state, votefamily.GetCommitmentAddress(votingItemID, commitment))
}

func (e *Engine) IsNullifierUsed(state ledger.State, votingItemID common.Hash, nullifier common.Hash) (bool, error) {
	return ledger.Exists(state, votefamily.GetNullifierAddress(votingItemID, nullifier))
}
