package ledger

import (
	"errors"

	"github.com/fxamacker/cbor"
)

// Envelope is the wire payload of every transaction: an action tag, the
// block time chosen by the submitter and the cbor encoded request body.
type Envelope struct {
	Action    string `cbor:"action"`
	Timestamp int64  `cbor:"timestamp"`
	Data      []byte `cbor:"data"`
}

func EncodeEnvelope(action string, timestamp int64, body interface{}) ([]byte, error) {
	data, err := cbor.Marshal(body, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, errors.New("failed to dump the request body: " + err.Error())
	}

	payload, err := cbor.Marshal(Envelope{Action: action, Timestamp: timestamp, Data: data}, cbor.CanonicalEncOptions())
	if err != nil {
		return nil, errors.New("failed to dump the payload: " + err.Error())
	}
	return payload, nil
}

func DecodeEnvelope(payload []byte) (Envelope, error) {
	var env Envelope
	if err := cbor.Unmarshal(payload, &env); err != nil {
		return Envelope{}, errors.New("failed to decode the payload: " + err.Error())
	}
	if env.Action == "" {
		return Envelope{}, errors.New("action is missing")
	}
	if env.Timestamp <= 0 {
		return Envelope{}, errors.New("timestamp is missing")
	}
	return env, nil
}

// Bind decodes the request body into v.
func (e Envelope) Bind(v interface{}) error {
	if err := cbor.Unmarshal(e.Data, v); err != nil {
		return errors.New("failed to decode the " + e.Action + " request: " + err.Error())
	}
	return nil
}
