package governance

import (
	"dao-governance/internal/blockchain/governancefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/fxamacker/cbor"
)

// Invoke serves inline calls, the embedded transaction of an executed veto
// proposal lands here.
func (e *Engine) Invoke(tx ledger.TxContext, method string, params []byte) error {
	switch method {
	case governancefamily.MethodVetoProposal:
		var req governancefamily.VetoProposalRequest
		if err := cbor.Unmarshal(params, &req); err != nil {
			return model.InvalidInput("Invalid params of " + method + ": " + err.Error())
		}
		return e.VetoProposal(tx, req)
	}

	return model.NotFound("Method " + method + " not found.")
}

var _ ledger.Contract = (*Engine)(nil)
