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

// RegisterCommitment deposits a commitment during the first half of an
// anonymous item's voting period. Eligibility and weight rules apply to the
// committer exactly as for a public vote.
func (e *Engine) RegisterCommitment(tx ledger.TxContext, req votefamily.RegisterCommitmentRequest) (int64, error) {
	if req.VotingItemID == (common.Hash{}) {
		return 0, model.InvalidInput("Invalid voting item id.")
	}
	if req.Commitment == (common.Hash{}) {
		return 0, model.InvalidInput("Invalid commitment.")
	}
	if req.Amount <= 0 {
		return 0, model.InvalidInput("Invalid vote amount.")
	}

	item, err := e.GetVotingItem(tx.State, req.VotingItemID)
	if err != nil {
		return 0, err
	}
	if !item.IsAnonymous {
		return 0, model.Precondition("Voting item is not anonymous.")
	}

	now := tx.Timestamp()
	if now < item.StartTimestamp || now > item.CommitmentDeadline() {
		return 0, model.Precondition("Commitment phase not started or already ended.")
	}

	used, err := e.IsCommitmentUsed(tx.State, item.VotingItemID, req.Commitment)
	if err != nil {
		return 0, err
	}
	if used {
		return 0, model.Precondition("Commitment already exists.")
	}

	committerAddress := votefamily.GetCommitterAddress(item.VotingItemID, tx.Sender)
	committed, err := ledger.Exists(tx.State, committerAddress)
	if err != nil {
		return 0, err
	}
	if committed {
		return 0, model.Precondition("Voter already committed.")
	}

	scheme, err := e.GetVoteScheme(tx.State, item.SchemeID)
	if err != nil {
		return 0, err
	}
	if err := e.assertEligible(tx, item, tx.Sender); err != nil {
		return 0, err
	}
	if err := e.assertWeight(tx, item, scheme, tx.Sender, req.Amount); err != nil {
		return 0, err
	}

	if err := e.lock(tx, item, scheme, tx.Sender, req.Amount); err != nil {
		return 0, err
	}

	leafIndex, err := e.merkle.InsertLeaf(tx.State, item.VotingItemID, req.Commitment)
	if err != nil {
		return 0, err
	}

	if err := ledger.Save(tx.State, votefamily.GetCommitmentAddress(item.VotingItemID, req.Commitment), true); err != nil {
		return 0, err
	}
	if err := ledger.Save(tx.State, committerAddress, true); err != nil {
		return 0, err
	}

	event := model.Committed{
		VotingItemID: item.VotingItemID,
		Commitment:   req.Commitment,
		LeafIndex:    leafIndex,
		CommitAt:     now,
	}
	if err := ledger.Emit(tx.State, model.EventCommitted, event, ledger.Attr("votingItemID", item.VotingItemID.Hex())); err != nil {
		return 0, err
	}

	e.logger.Info("commitment registered", zap.String("votingItemID", item.VotingItemID.Hex()), zap.Int64("leafIndex", leafIndex))
	return leafIndex, nil
}

// reveal counts an anonymous vote with unit weight once its proof checks
// out against a root of the accumulator's history. The sender is not
// recorded.
func (e *Engine) reveal(tx ledger.TxContext, item model.VotingItem, req votefamily.VoteRequest) (common.Hash, error) {
	now := tx.Timestamp()
	if now <= item.CommitmentDeadline() || now > item.EndTimestamp {
		return common.Hash{}, model.Precondition("Reveal phase not started or already ended.")
	}

	nullifier := req.Anonymous.Nullifier
	if nullifier == (common.Hash{}) {
		return common.Hash{}, model.InvalidInput("Invalid nullifier.")
	}

	spent, err := e.IsNullifierUsed(tx.State, item.VotingItemID, nullifier)
	if err != nil {
		return common.Hash{}, err
	}
	if spent {
		return common.Hash{}, model.Precondition("Nullifier already exists.")
	}

	root, err := e.proofRoot(tx, item, req.Anonymous.Root)
	if err != nil {
		return common.Hash{}, err
	}

	valid, err := e.verifier.VerifyProof(tx.Ctx, req.Anonymous.Proof, ports.NewPublicInputs(root, nullifier, req.Option))
	if err != nil {
		return common.Hash{}, err
	}
	if !valid {
		return common.Hash{}, model.Precondition("Invalid proof.")
	}

	result, err := e.GetVotingResult(tx.State, item.VotingItemID)
	if err != nil {
		return common.Hash{}, err
	}
	result.Add(req.Option, 1)
	result.TotalVotersCount++

	voteID, err := hashing.ContentID(req, tx.Sender, tx.TxID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := ledger.Save(tx.State, votefamily.GetNullifierAddress(item.VotingItemID, nullifier), true); err != nil {
		return common.Hash{}, err
	}
	if err := ledger.Save(tx.State, votefamily.GetVotingResultAddress(item.VotingItemID), result); err != nil {
		return common.Hash{}, err
	}

	event := model.Voted{
		VotingItemID: item.VotingItemID,
		Option:       req.Option,
		Amount:       1,
		VoteID:       voteID,
		VoteAt:       now,
	}
	if err := ledger.Emit(tx.State, model.EventVoted, event, ledger.Attr("votingItemID", item.VotingItemID.Hex())); err != nil {
		return common.Hash{}, err
	}

	e.logger.Info("anonymous vote revealed", zap.String("votingItemID", item.VotingItemID.Hex()), zap.Stringer("option", req.Option))
	return voteID, nil
}

func (e *Engine) proofRoot(tx ledger.TxContext, item model.VotingItem, requested common.Hash) (common.Hash, error) {
	if requested == (common.Hash{}) {
		return e.merkle.GetLastRoot(tx.State, item.VotingItemID)
	}

	known, err := e.merkle.IsKnownRoot(tx.State, item.VotingItemID, requested)
	if err != nil {
		return common.Hash{}, err
	}
	if !known {
		return common.Hash{}, model.Precondition("Unknown merkle root.")
	}
	return requested, nil
}
