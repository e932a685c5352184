package ledger

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/processor"
)

// State is the key-value view of the ledger a transaction runs against.
// *processor.Context satisfies it.
type State interface {
	GetState(addresses []string) (map[string][]byte, error)
	SetState(pairs map[string][]byte) ([]string, error)
	DeleteState(addresses []string) ([]string, error)
	AddEvent(eventType string, attributes []processor.Attribute, data []byte) error
}

// TxContext carries everything an engine needs to run one transaction.
type TxContext struct {
	Ctx    context.Context
	TxID   string
	Sender string
	Now    time.Time
	State  State
}

// As returns a copy of the context with the sender replaced, used for
// inline calls made on behalf of a contract.
func (tx TxContext) As(sender string) TxContext {
	tx.Sender = sender
	return tx
}

func (tx TxContext) Timestamp() int64 {
	return tx.Now.Unix()
}

// Load decodes the record at address into v, found is false when the
// address holds no data.
func Load(state State, address string, v interface{}) (found bool, err error) {
	entries, err := state.GetState([]string{address})
	if err != nil {
		return false, errors.New("failed to read the state at " + address + ": " + err.Error())
	}

	data, ok := entries[address]
	if !ok || len(data) == 0 {
		return false, nil
	}

	if err := cbor.Unmarshal(data, v); err != nil {
		return false, errors.New("failed to unmarshal the state at " + address + ": " + err.Error())
	}
	return true, nil
}

func Save(state State, address string, v interface{}) error {
	data, err := cbor.Marshal(v, cbor.CanonicalEncOptions())
	if err != nil {
		return errors.New("failed to marshal the state for " + address + ": " + err.Error())
	}

	written, err := state.SetState(map[string][]byte{address: data})
	if err != nil {
		return errors.New("failed to write the state at " + address + ": " + err.Error())
	}
	if len(written) != 1 {
		return fmt.Errorf("unexpected number of written addresses: %d", len(written))
	}
	return nil
}

// Exists reports whether address holds any data.
func Exists(state State, address string) (bool, error) {
	entries, err := state.GetState([]string{address})
	if err != nil {
		return false, errors.New("failed to read the state at " + address + ": " + err.Error())
	}
	return len(entries[address]) > 0, nil
}

// Emit publishes v as the cbor payload of an event.
func Emit(state State, eventType string, v interface{}, attributes ...processor.Attribute) error {
	data, err := cbor.Marshal(v, cbor.CanonicalEncOptions())
	if err != nil {
		return errors.New("failed to marshal the event " + eventType + ": " + err.Error())
	}

	if err := state.AddEvent(eventType, attributes, data); err != nil {
		return errors.New("failed to add the event " + eventType + ": " + err.Error())
	}
	return nil
}

func Attr(key, value string) processor.Attribute {
	return processor.Attribute{Key: key, Value: value}
}
