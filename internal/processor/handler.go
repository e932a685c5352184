// Package processor adapts the governance and vote engines to the sawtooth
// transaction processor interface.
package processor

import (
	"context"
	"dao-governance/internal/ledger"
	"dao-governance/internal/model"
	"errors"
	"time"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/processor_pb2"
)

var validationErrors = []error{
	model.ErrInvalidInput,
	model.ErrNotFound,
	model.ErrPrecondition,
	model.ErrPermissionDenied,
	model.ErrInvalidThreshold,
}

// toProcessorError rejects the transaction for domain failures and reports
// anything else as an internal error, so the validator retries it.
func toProcessorError(err error) error {
	if err == nil {
		return nil
	}
	for _, target := range validationErrors {
		if errors.Is(err, target) {
			return &processor.InvalidTransactionError{Msg: err.Error()}
		}
	}
	return &processor.InternalError{Msg: err.Error()}
}

// Config tunes both transaction handlers.
type Config struct {
	Timeout time.Duration
	Clock   Clock
}

// newTxContext decodes the payload envelope of request and resolves the
// time the transaction runs at with clock.
func newTxContext(ctx context.Context, request *processor_pb2.TpProcessRequest, state ledger.State, clock Clock) (ledger.TxContext, ledger.Envelope, error) {
	header := request.GetHeader()
	if header == nil || header.GetSignerPublicKey() == "" {
		return ledger.TxContext{}, ledger.Envelope{}, model.InvalidInput("Missing transaction signer.")
	}

	env, err := ledger.DecodeEnvelope(request.GetPayload())
	if err != nil {
		return ledger.TxContext{}, ledger.Envelope{}, model.InvalidInput(err.Error())
	}

	now, err := clock.now(state, time.Unix(env.Timestamp, 0).UTC())
	if err != nil {
		return ledger.TxContext{}, ledger.Envelope{}, err
	}

	return ledger.TxContext{
		Ctx:    ctx,
		TxID:   request.GetSignature(),
		Sender: header.GetSignerPublicKey(),
		Now:    now,
		State:  state,
	}, env, nil
}

func newRequestContext(timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(context.Background())
	}
	return context.WithTimeout(context.Background(), timeout)
}

func unknownAction(action string) error {
	return model.InvalidInput("Unknown action " + action + ".")
}

func bind(env ledger.Envelope, v interface{}) error {
	if err := env.Bind(v); err != nil {
		return model.InvalidInput(err.Error())
	}
	return nil
}
