// Package onchain implements the token and accumulator ports on top of the
// ledger state, next to the records of the engines calling them.
package onchain

import (
	"dao-governance/internal/blockchain/assetfamily"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"fmt"
	"sync"
)

type balance struct {
	Amount int64 `cbor:"amount"`
}

// TokenLedger keeps balances in the ledger state. An owner without a
// balance record holds its genesis allocation.
type TokenLedger struct {
	mutex       sync.RWMutex
	allocations map[string]map[string]int64
}

func NewTokenLedger() *TokenLedger {
	return &TokenLedger{allocations: make(map[string]map[string]int64)}
}

// Create declares a token with no allocations.
func (l *TokenLedger) Create(symbol string) {
	l.mutex.Lock()
	defer l.mutex.Unlock()

	if _, ok := l.allocations[symbol]; !ok {
		l.allocations[symbol] = make(map[string]int64)
	}
}

// Mint adds to the genesis allocation of owner. It must not be called once
// transactions run against the ledger.
func (l *TokenLedger) Mint(symbol, owner string, amount int64) {
	l.Create(symbol)

	l.mutex.Lock()
	defer l.mutex.Unlock()
	l.allocations[symbol][owner] += amount
}

func (l *TokenLedger) TokenExists(state ledger.State, symbol string) (bool, error) {
	l.mutex.RLock()
	defer l.mutex.RUnlock()

	_, ok := l.allocations[symbol]
	return ok, nil
}

func (l *TokenLedger) GetBalance(state ledger.State, owner string, symbol string) (int64, error) {
	var b balance
	found, err := ledger.Load(state, assetfamily.GetBalanceAddress(symbol, owner), &b)
	if err != nil {
		return 0, err
	}
	if found {
		return b.Amount, nil
	}

	l.mutex.RLock()
	defer l.mutex.RUnlock()
	return l.allocations[symbol][owner], nil
}

func (l *TokenLedger) TransferFrom(state ledger.State, from, to, symbol string, amount int64) error {
	return l.move(state, from, to, symbol, amount)
}

func (l *TokenLedger) Transfer(state ledger.State, from, to, symbol string, amount int64) error {
	return l.move(state, from, to, symbol, amount)
}

func (l *TokenLedger) move(state ledger.State, from, to, symbol string, amount int64) error {
	exists, _ := l.TokenExists(state, symbol)
	if !exists {
		return model.NotFound("Token " + symbol + " not found.")
	}
	if amount <= 0 {
		return model.InvalidInput("Invalid amount.")
	}

	fromBalance, err := l.GetBalance(state, from, symbol)
	if err != nil {
		return err
	}
	if fromBalance < amount {
		return model.Precondition(fmt.Sprintf("Insufficient balance of %s: %d < %d.", symbol, fromBalance, amount))
	}
	if from == to {
		return nil
	}

	toBalance, err := l.GetBalance(state, to, symbol)
	if err != nil {
		return err
	}

	if err := ledger.Save(state, assetfamily.GetBalanceAddress(symbol, from), balance{Amount: fromBalance - amount}); err != nil {
		return err
	}
	return ledger.Save(state, assetfamily.GetBalanceAddress(symbol, to), balance{Amount: toBalance + amount})
}
