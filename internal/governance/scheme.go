package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"github.com/samber/lo"
	"go.uber.org/zap"
)

func (e *Engine) GetGovernanceScheme(state ledger.State, daoID common.Hash, schemeAddress string) (model.GovernanceScheme, error) {
	var scheme model.GovernanceScheme
	found, err := ledger.Load(state, governancefamily.GetSchemeAddress(daoID, schemeAddress), &scheme)
	if err != nil {
		return model.GovernanceScheme{}, err
	}
	if !found {
		return model.GovernanceScheme{}, model.NotFound("Governance scheme not found.")
	}
	return scheme, nil
}

// GetSchemeAddresses lists the governance schemes registered for the dao.
func (e *Engine) GetSchemeAddresses(state ledger.State, daoID common.Hash) ([]string, error) {
	var schemes governancefamily.DAOSchemes
	if _, err := ledger.Load(state, governancefamily.GetDAOSchemesAddress(daoID), &schemes); err != nil {
		return nil, err
	}
	return schemes.SchemeAddresses, nil
}

// SchemeAddress derives the address a scheme executes proposals as.
func (e *Engine) SchemeAddress(daoID common.Hash, mechanism model.GovernanceMechanism) string {
	return hashing.VirtualAddress(e.address, daoID.Hex(), mechanism.String())
}

func (e *Engine) assertCreator(tx ledger.TxContext, daoID common.Hash) error {
	info, err := e.dao.GetDAOInfo(tx.Ctx, daoID)
	if err != nil {
		return err
	}
	if info.Creator != tx.Sender {
		return model.PermissionDenied("No permission.")
	}
	return nil
}

// AddGovernanceScheme registers the one scheme a dao may have per mechanism.
func (e *Engine) AddGovernanceScheme(tx ledger.TxContext, req governancefamily.AddGovernanceSchemeRequest) (string, error) {
	if req.DAOID == (common.Hash{}) {
		return "", model.InvalidInput("Invalid dao id.")
	}
	if !req.Mechanism.IsValid() {
		return "", model.InvalidInput("Invalid governance mechanism.")
	}

	if err := e.assertCreator(tx, req.DAOID); err != nil {
		return "", err
	}
	if err := req.Threshold.Validate(req.Mechanism); err != nil {
		return "", err
	}
	if _, err := e.tally.GetVoteScheme(tx.State, req.VoteSchemeID); err != nil {
		return "", err
	}

	schemeAddress := e.SchemeAddress(req.DAOID, req.Mechanism)
	address := governancefamily.GetSchemeAddress(req.DAOID, schemeAddress)
	exists, err := ledger.Exists(tx.State, address)
	if err != nil {
		return "", err
	}
	if exists {
		return "", model.Precondition("Governance scheme already exists.")
	}

	schemes, err := e.GetSchemeAddresses(tx.State, req.DAOID)
	if err != nil {
		return "", err
	}

	scheme := model.GovernanceScheme{
		DAOID:         req.DAOID,
		SchemeAddress: schemeAddress,
		Mechanism:     req.Mechanism,
		VoteSchemeID:  req.VoteSchemeID,
		Threshold:     req.Threshold,
	}
	if err := ledger.Save(tx.State, address, scheme); err != nil {
		return "", err
	}
	if err := ledger.Save(tx.State, governancefamily.GetDAOSchemesAddress(req.DAOID), governancefamily.DAOSchemes{
		SchemeAddresses: append(schemes, schemeAddress),
	}); err != nil {
		return "", err
	}

	e.logger.Info("governance scheme added", zap.String("daoID", req.DAOID.Hex()), zap.String("schemeAddress", schemeAddress), zap.Stringer("mechanism", req.Mechanism))
	return schemeAddress, nil
}

// UpdateGovernanceSchemeThreshold only affects proposals created afterwards.
func (e *Engine) UpdateGovernanceSchemeThreshold(tx ledger.TxContext, req governancefamily.UpdateGovernanceSchemeThresholdRequest) error {
	scheme, err := e.GetGovernanceScheme(tx.State, req.DAOID, req.SchemeAddress)
	if err != nil {
		return err
	}
	if err := e.assertCreator(tx, req.DAOID); err != nil {
		return err
	}
	if err := req.Threshold.Validate(scheme.Mechanism); err != nil {
		return err
	}

	scheme.Threshold = req.Threshold
	if err := ledger.Save(tx.State, governancefamily.GetSchemeAddress(req.DAOID, req.SchemeAddress), scheme); err != nil {
		return err
	}

	e.logger.Info("governance scheme threshold updated", zap.String("daoID", req.DAOID.Hex()), zap.String("schemeAddress", req.SchemeAddress))
	return nil
}

func (e *Engine) isSchemeAddress(state ledger.State, daoID common.Hash, address string) (bool, error) {
	schemes, err := e.GetSchemeAddresses(state, daoID)
	if err != nil {
		return false, err
	}
	return lo.Contains(schemes, address), nil
}
