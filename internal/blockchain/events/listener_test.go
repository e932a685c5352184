package events

import (
	"dao-governance/internal/model"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/client_event_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/events_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/validator_pb2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

func TestDispatch(t *testing.T) {
	listener := NewEventListener(zap.NewNop(), "tcp://localhost:4004")

	var mutex sync.Mutex
	var executed []model.ProposalExecuted
	Handle(listener, model.EventProposalExecuted, func(event model.ProposalExecuted) error {
		mutex.Lock()
		defer mutex.Unlock()
		executed = append(executed, event)
		return nil
	})
	listener.SetHandler(model.EventVoted, func(data []byte) error {
		return errors.New("broken handler")
	})

	payload, err := cbor.Marshal(model.ProposalExecuted{ProposalID: common.HexToHash("0x01"), ExecuteAt: 42}, cbor.CanonicalEncOptions())
	require.NoError(t, err)

	listener.dispatch(&events_pb2.EventList{
		Events: []*events_pb2.Event{
			{EventType: model.EventProposalExecuted, Data: payload},
			{EventType: model.EventVoted, Data: []byte{0x01}},
			{EventType: "sawtooth/block-commit"},
			{EventType: model.EventProposalExecuted, Data: []byte("not cbor")},
		},
	})
	listener.wg.Wait()

	require.Len(t, executed, 1)
	assert.Equal(t, common.HexToHash("0x01"), executed[0].ProposalID)
	assert.EqualValues(t, 42, executed[0].ExecuteAt)
}

// validatorConnection answers subscriptions like a validator would and
// records what the listener sent.
type validatorConnection struct {
	t                 *testing.T
	inbox             chan *validator_pb2.Message
	answerUnsubscribe bool

	mutex  sync.Mutex
	sent   []validator_pb2.Message_MessageType
	closed bool
}

func newValidatorConnection(t *testing.T, answerUnsubscribe bool) *validatorConnection {
	return &validatorConnection{t: t, inbox: make(chan *validator_pb2.Message, 16), answerUnsubscribe: answerUnsubscribe}
}

func (c *validatorConnection) SendNewMsg(msgType validator_pb2.Message_MessageType, content []byte) (string, error) {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	if c.closed {
		return "", errors.New("connection closed")
	}
	c.sent = append(c.sent, msgType)
	corrId := fmt.Sprintf("corr-%d", len(c.sent))

	switch msgType {
	case validator_pb2.Message_CLIENT_EVENTS_SUBSCRIBE_REQUEST:
		c.reply(validator_pb2.Message_CLIENT_EVENTS_SUBSCRIBE_RESPONSE, corrId,
			&client_event_pb2.ClientEventsSubscribeResponse{Status: client_event_pb2.ClientEventsSubscribeResponse_OK})
	case validator_pb2.Message_CLIENT_EVENTS_UNSUBSCRIBE_REQUEST:
		if c.answerUnsubscribe {
			c.reply(validator_pb2.Message_CLIENT_EVENTS_UNSUBSCRIBE_RESPONSE, corrId,
				&client_event_pb2.ClientEventsUnsubscribeResponse{Status: client_event_pb2.ClientEventsUnsubscribeResponse_OK})
		}
	}
	return corrId, nil
}

func (c *validatorConnection) reply(msgType validator_pb2.Message_MessageType, corrId string, content proto.Message) {
	data, err := proto.Marshal(content)
	assert.NoError(c.t, err)
	c.inbox <- &validator_pb2.Message{MessageType: msgType, CorrelationId: corrId, Content: data}
}

func (c *validatorConnection) publish(events ...*events_pb2.Event) {
	data, err := proto.Marshal(&events_pb2.EventList{Events: events})
	require.NoError(c.t, err)
	c.inbox <- &validator_pb2.Message{MessageType: validator_pb2.Message_CLIENT_EVENTS, Content: data}
}

func (c *validatorConnection) RecvMsg() (string, *validator_pb2.Message, error) {
	return "", <-c.inbox, nil
}

func (c *validatorConnection) RecvMsgWithId(corrId string) (string, *validator_pb2.Message, error) {
	for {
		msg := <-c.inbox
		if msg.GetCorrelationId() == corrId {
			return "", msg, nil
		}
	}
}

func (c *validatorConnection) Close() {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	c.closed = true
}

func (c *validatorConnection) poll(timeout time.Duration) (bool, error) {
	if len(c.inbox) > 0 {
		return true, nil
	}
	time.Sleep(timeout)
	return len(c.inbox) > 0, nil
}

func (c *validatorConnection) sentTypes() []validator_pb2.Message_MessageType {
	c.mutex.Lock()
	defer c.mutex.Unlock()
	return append([]validator_pb2.Message_MessageType(nil), c.sent...)
}

func stopWithin(t *testing.T, listener *EventListener, timeout time.Duration) error {
	stopped := make(chan error, 1)
	go func() { stopped <- listener.Stop() }()

	select {
	case err := <-stopped:
		return err
	case <-time.After(timeout):
		require.FailNow(t, "listener did not stop")
		return nil
	}
}

func TestListenAndStop(t *testing.T) {
	listener := NewEventListener(zap.NewNop(), "tcp://localhost:4004")
	listener.pollInterval = 5 * time.Millisecond

	received := make(chan model.Voted, 1)
	Handle(listener, model.EventVoted, func(event model.Voted) error {
		received <- event
		return nil
	})

	conn := newValidatorConnection(t, true)
	require.NoError(t, listener.start(conn, conn.poll))

	payload, err := cbor.Marshal(model.Voted{Voter: "alice", Amount: 3}, cbor.CanonicalEncOptions())
	require.NoError(t, err)
	conn.publish(&events_pb2.Event{EventType: model.EventVoted, Data: payload})

	select {
	case event := <-received:
		assert.Equal(t, "alice", event.Voter)
	case <-time.After(time.Second):
		require.FailNow(t, "event not dispatched")
	}

	require.NoError(t, stopWithin(t, listener, time.Second))
	assert.Equal(t, []validator_pb2.Message_MessageType{
		validator_pb2.Message_CLIENT_EVENTS_SUBSCRIBE_REQUEST,
		validator_pb2.Message_CLIENT_EVENTS_UNSUBSCRIBE_REQUEST,
	}, conn.sentTypes())
	assert.True(t, conn.closed)
}

func TestStopWithoutUnsubscribeResponse(t *testing.T) {
	listener := NewEventListener(zap.NewNop(), "tcp://localhost:4004")
	listener.pollInterval = 5 * time.Millisecond
	listener.unsubscribeTimeout = 50 * time.Millisecond
	listener.SetHandler(model.EventVoted, func([]byte) error { return nil })

	conn := newValidatorConnection(t, false)
	require.NoError(t, listener.start(conn, conn.poll))

	err := stopWithin(t, listener, time.Second)
	assert.Error(t, err)
	assert.True(t, conn.closed)
}
