package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Vote casts a vote. Public items record the voter, anonymous items accept
// a reveal carrying a nullifier and a proof instead.
func (e *Engine) Vote(tx ledger.TxContext, req votefamily.VoteRequest) (common.Hash, error) {
	if req.VotingItemID == (common.Hash{}) {
		return common.Hash{}, model.InvalidInput("Invalid voting item id.")
	}
	if !req.Option.IsValid() {
		return common.Hash{}, model.InvalidInput("Invalid vote option.")
	}

	item, err := e.GetVotingItem(tx.State, req.VotingItemID)
	if err != nil {
		return common.Hash{}, err
	}

	if item.IsAnonymous {
		if req.Anonymous == nil {
			return common.Hash{}, model.InvalidInput("Anonymous vote requires a nullifier and a proof.")
		}
		return e.reveal(tx, item, req)
	}
	if req.Anonymous != nil {
		return common.Hash{}, model.InvalidInput("Voting item is not anonymous.")
	}

	return e.publicVote(tx, item, req)
}

func (e *Engine) publicVote(tx ledger.TxContext, item model.VotingItem, req votefamily.VoteRequest) (common.Hash, error) {
	if req.Amount <= 0 {
		return common.Hash{}, model.InvalidInput("Invalid vote amount.")
	}

	now := tx.Timestamp()
	if now < item.StartTimestamp || now > item.EndTimestamp {
		return common.Hash{}, model.Precondition("Vote not started or already ended.")
	}

	scheme, err := e.GetVoteScheme(tx.State, item.SchemeID)
	if err != nil {
		return common.Hash{}, err
	}

	if err := e.assertEligible(tx, item, tx.Sender); err != nil {
		return common.Hash{}, err
	}
	if err := e.assertWeight(tx, item, scheme, tx.Sender, req.Amount); err != nil {
		return common.Hash{}, err
	}

	record, voted, err := e.GetVotingRecord(tx.State, item.VotingItemID, tx.Sender)
	if err != nil {
		return common.Hash{}, err
	}
	if voted && scheme.Mechanism == model.VoteMechanismUniqueVote {
		return common.Hash{}, model.Precondition("Already voted.")
	}

	result, err := e.GetVotingResult(tx.State, item.VotingItemID)
	if err != nil {
		return common.Hash{}, err
	}

	voteID, err := hashing.ContentID(req, tx.Sender, tx.TxID)
	if err != nil {
		return common.Hash{}, err
	}

	record.VotingItemID = item.VotingItemID
	record.Voter = tx.Sender
	record.Amount += req.Amount
	record.Option = req.Option
	record.VoteTimestamp = now
	record.VoteID = voteID

	result.Add(req.Option, req.Amount)
	if !voted {
		result.TotalVotersCount++
	}

	if err := e.lock(tx, item, scheme, tx.Sender, req.Amount); err != nil {
		return common.Hash{}, err
	}

	if err := ledger.Save(tx.State, votefamily.GetVotingRecordAddress(item.VotingItemID, tx.Sender), record); err != nil {
		return common.Hash{}, err
	}
	if err := ledger.Save(tx.State, votefamily.GetVotingResultAddress(item.VotingItemID), result); err != nil {
		return common.Hash{}, err
	}

	event := model.Voted{
		VotingItemID: item.VotingItemID,
		Voter:        tx.Sender,
		Option:       req.Option,
		Amount:       req.Amount,
		VoteID:       voteID,
		VoteAt:       now,
	}
	if err := ledger.Emit(tx.State, model.EventVoted, event, ledger.Attr("votingItemID", item.VotingItemID.Hex())); err != nil {
		return common.Hash{}, err
	}

	e.logger.Info("voted", zap.String("votingItemID", item.VotingItemID.Hex()), zap.String("voter", tx.Sender), zap.Stringer("option", req.Option), zap.Int64("amount", req.Amount))
	return voteID, nil
}

// assertEligible checks the voter against the governance mechanism of the item.
func (e *Engine) assertEligible(tx ledger.TxContext, item model.VotingItem, voter string) error {
	switch item.GovernanceMechanism {
	case model.GovernanceMechanismHighCouncil:
		info, err := e.dao.GetDAOInfo(tx.Ctx, item.DAOID)
		if err != nil {
			return err
		}

		var council []string
		if info.IsNetworkDAO {
			council, err = e.election.GetVictories(tx.Ctx, item.DAOID)
		} else {
			council, err = e.election.GetHighCouncilMembers(tx.Ctx, item.DAOID)
		}
		if err != nil {
			return err
		}
		if !lo.Contains(council, voter) {
			return model.PermissionDenied("Voter is not a high council member.")
		}

	case model.GovernanceMechanismOrganization:
		member, err := e.dao.GetIsMember(tx.Ctx, item.DAOID, voter)
		if err != nil {
			return err
		}
		if !member {
			return model.PermissionDenied("Voter is not a member of the organization.")
		}

	case model.GovernanceMechanismReferendum:
	default:
		return model.InvalidInput("Invalid governance mechanism.")
	}

	return nil
}

// assertWeight validates amount against the vote mechanism without moving
// any funds.
func (e *Engine) assertWeight(tx ledger.TxContext, item model.VotingItem, scheme model.VoteScheme, voter string, amount int64) error {
	switch scheme.Mechanism {
	case model.VoteMechanismUniqueVote:
		if amount != 1 {
			return model.InvalidInput("Invalid vote amount.")
		}
		return nil

	case model.VoteMechanismTokenBallot:
		balance, err := e.token.GetBalance(tx.State, voter, item.AcceptedToken)
		if err != nil {
			return err
		}
		if balance < amount {
			return model.Precondition("Insufficient balance.")
		}
		return nil
	}

	return model.InvalidInput("Invalid vote mechanism.")
}

// lock escrows amount into the voter's virtual account for lock mode token
// ballots and books it against the dao and the item.
func (e *Engine) lock(tx ledger.TxContext, item model.VotingItem, scheme model.VoteScheme, voter string, amount int64) error {
	if scheme.Mechanism != model.VoteMechanismTokenBallot || scheme.WithoutLockToken {
		return nil
	}

	if err := e.token.TransferFrom(tx.State, voter, e.EscrowAccount(item.DAOID, voter), item.AcceptedToken, amount); err != nil {
		return err
	}

	for _, address := range []string{
		votefamily.GetVoterLockAddress(item.DAOID, voter),
		votefamily.GetProposalLockAddress(item.DAOID, item.VotingItemID, voter),
	} {
		var locked model.LockedAmount
		if _, err := ledger.Load(tx.State, address, &locked); err != nil {
			return err
		}
		locked.Amount += amount
		if err := ledger.Save(tx.State, address, locked); err != nil {
			return err
		}
	}

	e.logger.Debug("vote locked", zap.String("votingItemID", item.VotingItemID.Hex()), zap.String("voter", voter), zap.Int64("amount", amount))
	return nil
}
