package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/multierr"
	"go.uber.org/zap"
)

func validateRegister(req votefamily.RegisterRequest) error {
	var err error
	if req.VotingItemID == (common.Hash{}) {
		err = multierr.Append(err, model.InvalidInput("Invalid voting item id."))
	}
	if req.DAOID == (common.Hash{}) {
		err = multierr.Append(err, model.InvalidInput("Invalid dao id."))
	}
	if req.StartTimestamp <= 0 || req.EndTimestamp <= req.StartTimestamp {
		err = multierr.Append(err, model.InvalidInput("Invalid voting period."))
	}
	if !req.GovernanceMechanism.IsValid() {
		err = multierr.Append(err, model.InvalidInput("Invalid governance mechanism."))
	}
	return err
}

// Register creates the voting item of a proposal together with its empty
// result. Only the governance contract may call it.
func (e *Engine) Register(tx ledger.TxContext, req votefamily.RegisterRequest) error {
	if tx.Sender != e.governanceAddress {
		return model.PermissionDenied("No permission.")
	}

	if err := validateRegister(req); err != nil {
		return err
	}

	scheme, err := e.GetVoteScheme(tx.State, req.SchemeID)
	if err != nil {
		return err
	}

	if scheme.Mechanism == model.VoteMechanismTokenBallot {
		if req.AcceptedToken == "" {
			return model.InvalidInput("Accepted token is required.")
		}
		exists, err := e.token.TokenExists(tx.State, req.AcceptedToken)
		if err != nil {
			return err
		}
		if !exists {
			return model.NotFound("Token " + req.AcceptedToken + " not found.")
		}
	}

	subsisting, err := e.dao.GetSubsistStatus(tx.Ctx, req.DAOID)
	if err != nil {
		return err
	}
	if !subsisting {
		return model.Precondition("DAO is not in subsistence.")
	}

	itemAddress := votefamily.GetVotingItemAddress(req.VotingItemID)
	exists, err := ledger.Exists(tx.State, itemAddress)
	if err != nil {
		return err
	}
	if exists {
		return model.Precondition("Voting item already exists.")
	}

	item := model.VotingItem{
		VotingItemID:        req.VotingItemID,
		DAOID:               req.DAOID,
		SchemeID:            req.SchemeID,
		AcceptedToken:       req.AcceptedToken,
		StartTimestamp:      req.StartTimestamp,
		EndTimestamp:        req.EndTimestamp,
		GovernanceMechanism: req.GovernanceMechanism,
		IsAnonymous:         req.IsAnonymous,
	}

	if item.IsAnonymous {
		if err := e.merkle.CreateTree(tx.State, item.VotingItemID); err != nil {
			return err
		}
	}

	if err := ledger.Save(tx.State, itemAddress, item); err != nil {
		return err
	}
	result := model.VotingResult{VotingItemID: item.VotingItemID}
	if err := ledger.Save(tx.State, votefamily.GetVotingResultAddress(item.VotingItemID), result); err != nil {
		return err
	}

	if err := ledger.Emit(tx.State, model.EventVotingItemRegistered, model.VotingItemRegistered{VotingItem: item},
		ledger.Attr("votingItemID", item.VotingItemID.Hex()),
		ledger.Attr("daoID", item.DAOID.Hex()),
	); err != nil {
		return err
	}

	e.logger.Info("voting item registered", zap.String("votingItemID", item.VotingItemID.Hex()), zap.String("daoID", item.DAOID.Hex()), zap.Bool("anonymous", item.IsAnonymous))
	return nil
}
