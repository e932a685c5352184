package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

// Withdraw releases the locked votes of finished items back to the sender.
// The declared amount has to match the locked sum exactly.
func (e *Engine) Withdraw(tx ledger.TxContext, req votefamily.WithdrawRequest) error {
	if req.DAOID == (common.Hash{}) {
		return model.InvalidInput("Invalid dao id.")
	}
	if len(req.VotingItemIDs) == 0 {
		return model.InvalidInput("Voting item ids are required.")
	}
	if len(lo.Uniq(req.VotingItemIDs)) != len(req.VotingItemIDs) {
		return model.InvalidInput("Duplicate voting item ids.")
	}
	if req.Amount <= 0 {
		return model.InvalidInput("Invalid withdraw amount.")
	}

	now := tx.Timestamp()
	voter := tx.Sender

	token := ""
	locks := make([]int64, 0, len(req.VotingItemIDs))
	for _, itemID := range req.VotingItemIDs {
		item, err := e.GetVotingItem(tx.State, itemID)
		if err != nil {
			return err
		}
		if item.DAOID != req.DAOID {
			return model.InvalidInput("Voting item " + itemID.Hex() + " does not belong to the dao.")
		}
		if now <= item.EndTimestamp {
			return model.Precondition("Vote of " + itemID.Hex() + " has not ended.")
		}
		if token != "" && token != item.AcceptedToken {
			return model.InvalidInput("Voting items accept different tokens.")
		}
		token = item.AcceptedToken

		locked, err := e.GetProposalLockedAmount(tx.State, req.DAOID, itemID, voter)
		if err != nil {
			return err
		}
		locks = append(locks, locked)
	}

	total := lo.Sum(locks)
	if total != req.Amount {
		return model.Precondition("Invalid withdraw amount.")
	}

	voterLocked, err := e.GetLockedAmount(tx.State, req.DAOID, voter)
	if err != nil {
		return err
	}
	if voterLocked < total {
		return model.Precondition("Insufficient locked amount.")
	}

	if err := e.token.Transfer(tx.State, e.EscrowAccount(req.DAOID, voter), voter, token, total); err != nil {
		return err
	}

	for _, itemID := range req.VotingItemIDs {
		address := votefamily.GetProposalLockAddress(req.DAOID, itemID, voter)
		if err := ledger.Save(tx.State, address, model.LockedAmount{}); err != nil {
			return err
		}
	}
	if err := ledger.Save(tx.State, votefamily.GetVoterLockAddress(req.DAOID, voter), model.LockedAmount{Amount: voterLocked - total}); err != nil {
		return err
	}

	event := model.Withdrawn{
		DAOID:         req.DAOID,
		Withdrawer:    voter,
		VotingItemIDs: req.VotingItemIDs,
		Amount:        total,
		WithdrawAt:    now,
	}
	if err := ledger.Emit(tx.State, model.EventWithdrawn, event, ledger.Attr("daoID", req.DAOID.Hex())); err != nil {
		return err
	}

	e.logger.Info("votes withdrawn", zap.String("daoID", req.DAOID.Hex()), zap.String("voter", voter), zap.Int64("amount", total))
	return nil
}
