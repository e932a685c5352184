// based on https://www.hyperledger.org/blog/2019/02/19/hyperledger-sawtooth-events-in-go-2
package events

import (
	"errors"
	"sync"
	"time"

	"github.com/fxamacker/cbor"
	"github.com/hyperledger/sawtooth-sdk-go/messaging"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/client_event_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/events_pb2"
	"github.com/hyperledger/sawtooth-sdk-go/protobuf/validator_pb2"
	"github.com/pebbe/zmq4"
	"go.uber.org/zap"
	"google.golang.org/protobuf/proto"
)

const (
	defaultPollInterval       = 200 * time.Millisecond
	defaultUnsubscribeTimeout = 5 * time.Second
)

type HandlerFunc func(data []byte) error

// connection is the part of the validator connection the listener uses.
// Once Start returns, only the listen loop touches it.
type connection interface {
	SendNewMsg(t validator_pb2.Message_MessageType, c []byte) (string, error)
	RecvMsg() (string, *validator_pb2.Message, error)
	RecvMsgWithId(corrId string) (string, *validator_pb2.Message, error)
	Close()
}

// pollFunc reports whether a message is ready to be received, waiting at
// most timeout.
type pollFunc func(timeout time.Duration) (bool, error)

type EventListener struct {
	log          *zap.Logger
	connection   connection
	poll         pollFunc
	validatorUrl string
	handlers     map[string]HandlerFunc
	quit         chan struct{}
	done         chan struct{}
	err          error
	wg           *sync.WaitGroup

	pollInterval       time.Duration
	unsubscribeTimeout time.Duration
}

func NewEventListener(logger *zap.Logger, validatorUrl string) *EventListener {
	return &EventListener{
		log:                logger,
		validatorUrl:       validatorUrl,
		handlers:           make(map[string]HandlerFunc),
		wg:                 &sync.WaitGroup{},
		pollInterval:       defaultPollInterval,
		unsubscribeTimeout: defaultUnsubscribeTimeout,
	}
}

// Handle registers a handler receiving the cbor decoded payload of every
// event of eventType.
func Handle[T any](e *EventListener, eventType string, handler func(event T) error) {
	e.SetHandler(eventType, func(data []byte) error {
		var event T
		if err := cbor.Unmarshal(data, &event); err != nil {
			return errors.New("failed to decode the event " + eventType + ": " + err.Error())
		}
		return handler(event)
	})
}

func (e *EventListener) SetHandler(eventType string, handler HandlerFunc) {
	e.handlers[eventType] = handler
}

func (e *EventListener) Start() error {
	zmqContext, err := zmq4.NewContext()
	if err != nil {
		return err
	}

	zmqConnection, err := messaging.NewConnection(
		zmqContext,
		zmq4.DEALER,
		e.validatorUrl,
		false,
	)
	if err != nil {
		return err
	}

	poller := zmq4.NewPoller()
	poller.Add(zmqConnection.Socket(), zmq4.POLLIN)

	return e.start(zmqConnection, func(timeout time.Duration) (bool, error) {
		polled, err := poller.Poll(timeout)
		if err != nil {
			return false, err
		}
		return len(polled) > 0, nil
	})
}

func (e *EventListener) start(conn connection, poll pollFunc) error {
	e.connection = conn
	e.poll = poll

	eventTypes := make([]string, 0, len(e.handlers))
	for eventType := range e.handlers {
		eventTypes = append(eventTypes, eventType)
	}
	if err := e.subscribe(eventTypes); err != nil {
		e.connection.Close()
		return err
	}

	e.quit = make(chan struct{})
	e.done = make(chan struct{})
	go func() {
		defer close(e.done)
		e.err = e.listenLoop()
		if e.err != nil {
			e.log.Info("stopped listening on blockchain events", zap.Error(e.err))
		}
	}()

	return nil
}

// Stop makes the listen loop unsubscribe and return, then closes the
// connection and waits for the running handlers.
func (e *EventListener) Stop() error {
	if e.done == nil {
		return nil
	}
	close(e.quit)
	<-e.done
	e.connection.Close()

	e.log.Info("waiting for all the event handlers to finish...")
	e.wg.Wait()
	e.log.Info("event listener handlers finished")

	return e.err
}

func (e *EventListener) listenLoop() error {
	e.log.Info("start listening on blockchain events")

	for {
		select {
		case <-e.quit:
			return e.unsubscribe()
		default:
		}

		ready, err := e.poll(e.pollInterval)
		if err != nil {
			return err
		}
		if !ready {
			continue
		}

		_, message, err := e.connection.RecvMsg()
		if err != nil {
			return err
		}
		e.handleMessage(message)
	}
}

func (e *EventListener) handleMessage(message *validator_pb2.Message) {
	// Check if received is a client event message
	if message.GetMessageType() != validator_pb2.Message_CLIENT_EVENTS {
		e.log.Warn("received a message not requested for", zap.String("type", message.GetMessageType().String()))
		return
	}

	eventList := &events_pb2.EventList{}
	if err := proto.Unmarshal(message.GetContent(), eventList); err != nil {
		e.log.Error("failed to unmarshal the event list", zap.Error(err))
		return
	}
	e.dispatch(eventList)
}

func (e *EventListener) dispatch(eventList *events_pb2.EventList) {
	for _, event := range eventList.GetEvents() {
		e.log.Info("event received: " + event.GetEventType())

		handler, ok := e.handlers[event.GetEventType()]
		if !ok {
			e.log.Warn("handler missing for the event: " + event.GetEventType())
			continue
		}

		e.wg.Add(1)
		go func(event *events_pb2.Event) {
			defer e.wg.Done()

			if err := handler(event.GetData()); err != nil {
				e.log.Error("error when handling the event: " + err.Error())
			}
		}(event)
	}
}

func (e *EventListener) subscribe(eventTypes []string) error {
	subscriptions := make([]*events_pb2.EventSubscription, 0, len(eventTypes))
	for _, eventType := range eventTypes {
		subscriptions = append(subscriptions, &events_pb2.EventSubscription{EventType: eventType})
	}

	request := &client_event_pb2.ClientEventsSubscribeRequest{
		Subscriptions: subscriptions,
	}
	serializedReq, err := proto.Marshal(request)
	if err != nil {
		return err
	}

	// Send the subscription request, get a correlation id from the SDK
	corrId, err := e.connection.SendNewMsg(
		validator_pb2.Message_CLIENT_EVENTS_SUBSCRIBE_REQUEST,
		serializedReq,
	)
	if err != nil {
		return err
	}
	e.log.Debug("waiting for receiving the subscription confirmation...")

	_, response, err := e.connection.RecvMsgWithId(corrId)
	if err != nil {
		return err
	}

	subsResponse := &client_event_pb2.ClientEventsSubscribeResponse{}
	if err := proto.Unmarshal(response.GetContent(), subsResponse); err != nil {
		return err
	}
	if subsResponse.Status != client_event_pb2.ClientEventsSubscribeResponse_OK {
		return errors.New("client subscription failed, subscription status: " + subsResponse.String())
	}

	e.log.Info("successfully subscribed to the events", zap.Strings("eventTypes", eventTypes))

	return nil
}

// unsubscribe runs on the listen loop. Events arriving before the response
// are still dispatched.
func (e *EventListener) unsubscribe() error {
	serialized, err := proto.Marshal(&client_event_pb2.ClientEventsUnsubscribeRequest{})
	if err != nil {
		return err
	}

	corrId, err := e.connection.SendNewMsg(
		validator_pb2.Message_CLIENT_EVENTS_UNSUBSCRIBE_REQUEST,
		serialized,
	)
	if err != nil {
		return err
	}

	deadline := time.Now().Add(e.unsubscribeTimeout)
	for time.Now().Before(deadline) {
		ready, err := e.poll(e.pollInterval)
		if err != nil {
			return err
		}
		if !ready {
			continue
		}

		_, response, err := e.connection.RecvMsg()
		if err != nil {
			return err
		}
		if response.GetCorrelationId() != corrId {
			e.handleMessage(response)
			continue
		}

		unsubscribeResponse := &client_event_pb2.ClientEventsUnsubscribeResponse{}
		if err := proto.Unmarshal(response.GetContent(), unsubscribeResponse); err != nil {
			return err
		}
		if unsubscribeResponse.Status != client_event_pb2.ClientEventsUnsubscribeResponse_OK {
			return errors.New("client couldn't unsubscribe successfully, status: " + unsubscribeResponse.String())
		}
		return nil
	}

	return errors.New("no unsubscribe response from the validator")
}
