package ledger

import (
	"dao-governance/internal/model"
	"sync"
)

// Contract is anything an embedded transaction can be dispatched to.
type Contract interface {
	Invoke(tx TxContext, method string, params []byte) error
}

// Router delivers inline calls to registered contracts. The call runs
// inside the caller's transaction, so a failing callee aborts the caller.
type Router struct {
	mutex     sync.RWMutex
	contracts map[string]Contract
}

func NewRouter() *Router {
	return &Router{contracts: make(map[string]Contract)}
}

func (r *Router) Register(address string, contract Contract) {
	r.mutex.Lock()
	defer r.mutex.Unlock()

	r.contracts[address] = contract
}

func (r *Router) Send(tx TxContext, to string, method string, params []byte) error {
	r.mutex.RLock()
	contract, ok := r.contracts[to]
	r.mutex.RUnlock()

	if !ok {
		return model.NotFound("Contract " + to + " not found.")
	}
	return contract.Invoke(tx, method, params)
}
