package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/hashing"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/ethereum/go-ethereum/common"
	"go.uber.org/zap"
)

// CreateVoteScheme stores a vote scheme under the hash of its settings, so
// each combination exists at most once.
func (e *Engine) CreateVoteScheme(tx ledger.TxContext, req votefamily.CreateVoteSchemeRequest) (common.Hash, error) {
	if !req.Mechanism.IsValid() {
		return common.Hash{}, model.InvalidInput("Invalid vote mechanism.")
	}

	schemeID, err := hashing.ContentID(req.Mechanism, req.WithoutLockToken)
	if err != nil {
		return common.Hash{}, err
	}

	address := votefamily.GetVoteSchemeAddress(schemeID)
	exists, err := ledger.Exists(tx.State, address)
	if err != nil {
		return common.Hash{}, err
	}
	if exists {
		return common.Hash{}, model.Precondition("Vote scheme already exists.")
	}

	scheme := model.VoteScheme{
		SchemeID:         schemeID,
		Mechanism:        req.Mechanism,
		WithoutLockToken: req.WithoutLockToken,
	}
	if err := ledger.Save(tx.State, address, scheme); err != nil {
		return common.Hash{}, err
	}

	e.logger.Info("vote scheme created", zap.String("schemeID", schemeID.Hex()), zap.Stringer("mechanism", req.Mechanism), zap.Bool("withoutLockToken", req.WithoutLockToken))
	return schemeID, nil
}
