package blockchain

import (
	"context"
	"dao-governance/internal/ledger"
	"errors"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
)

var ErrReadOnly = errors.New("remote state is read only")

// RemoteState is a read only ledger.State served by the validator REST API,
// so view operations of the engines can run outside the processor.
type RemoteState struct {
	ctx    context.Context
	client *Client
}

func NewRemoteState(ctx context.Context, client *Client) *RemoteState {
	return &RemoteState{ctx: ctx, client: client}
}

func (s *RemoteState) GetState(addresses []string) (map[string][]byte, error) {
	result := make(map[string][]byte, len(addresses))
	for _, address := range addresses {
		data, err := s.client.GetRawState(s.ctx, address)
		if err != nil {
			return nil, err
		}
		if len(data) > 0 {
			result[address] = data
		}
	}
	return result, nil
}

func (s *RemoteState) SetState(map[string][]byte) ([]string, error) {
	return nil, ErrReadOnly
}

func (s *RemoteState) DeleteState([]string) ([]string, error) {
	return nil, ErrReadOnly
}

func (s *RemoteState) AddEvent(string, []processor.Attribute, []byte) error {
	return ErrReadOnly
}

var _ ledger.State = (*RemoteState)(nil)
