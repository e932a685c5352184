package vote

import (
	"dao-governance/internal/blockchain/votefamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"

	"github.com/fxamacker/cbor"
)

const (
	MethodRegister         = "Register"
	MethodCreateVoteScheme = "CreateVoteScheme"
)

// Invoke serves inline calls from other contracts, such as the governance
// contract registering a voting item or an executed proposal creating a
// vote scheme.
func (e *Engine) Invoke(tx ledger.TxContext, method string, params []byte) error {
	switch method {
	case MethodRegister:
		var req votefamily.RegisterRequest
		if err := cbor.Unmarshal(params, &req); err != nil {
			return model.InvalidInput("Invalid params of " + method + ": " + err.Error())
		}
		return e.Register(tx, req)

	case MethodCreateVoteScheme:
		var req votefamily.CreateVoteSchemeRequest
		if err := cbor.Unmarshal(params, &req); err != nil {
			return model.InvalidInput("Invalid params of " + method + ": " + err.Error())
		}
		_, err := e.CreateVoteScheme(tx, req)
		return err
	}

	return model.NotFound("Method " + method + " not found.")
}

var _ ledger.Contract = (*Engine)(nil)
