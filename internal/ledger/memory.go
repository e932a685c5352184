package ledger

import (
	"sync"

	"github.com/hyperledger/sawtooth-sdk-go/processor"
)

type Event struct {
	Type       string
	Attributes []processor.Attribute
	Data       []byte
}

// MemoryState is an in-memory State. Writes and events are staged until
// Commit, Discard drops them so a failed transaction leaves nothing behind.
type MemoryState struct {
	mutex sync.RWMutex

	committed map[string][]byte
	events    []Event

	staged       map[string][]byte
	stagedEvents []Event
}

func NewMemoryState() *MemoryState {
	return &MemoryState{
		committed: make(map[string][]byte),
		staged:    make(map[string][]byte),
	}
}

func (s *MemoryState) GetState(addresses []string) (map[string][]byte, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	result := make(map[string][]byte, len(addresses))
	for _, addr := range addresses {
		if data, ok := s.staged[addr]; ok {
			result[addr] = copyBytes(data)
			continue
		}
		if data, ok := s.committed[addr]; ok {
			result[addr] = copyBytes(data)
		}
	}
	return result, nil
}

func (s *MemoryState) SetState(pairs map[string][]byte) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	written := make([]string, 0, len(pairs))
	for addr, data := range pairs {
		s.staged[addr] = copyBytes(data)
		written = append(written, addr)
	}
	return written, nil
}

// DeleteState stages an empty value, which reads back as absent.
func (s *MemoryState) DeleteState(addresses []string) ([]string, error) {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for _, addr := range addresses {
		s.staged[addr] = nil
	}
	return addresses, nil
}

func (s *MemoryState) AddEvent(eventType string, attributes []processor.Attribute, data []byte) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.stagedEvents = append(s.stagedEvents, Event{Type: eventType, Attributes: attributes, Data: copyBytes(data)})
	return nil
}

func (s *MemoryState) Commit() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	for addr, data := range s.staged {
		if len(data) == 0 {
			delete(s.committed, addr)
			continue
		}
		s.committed[addr] = data
	}
	s.events = append(s.events, s.stagedEvents...)
	s.staged = make(map[string][]byte)
	s.stagedEvents = nil
}

func (s *MemoryState) Discard() {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.staged = make(map[string][]byte)
	s.stagedEvents = nil
}

// Events returns the committed events in emission order.
func (s *MemoryState) Events() []Event {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	events := make([]Event, len(s.events))
	copy(events, s.events)
	return events
}

// Run executes fn and commits its writes when it succeeds, discards them
// otherwise.
func (s *MemoryState) Run(fn func() error) error {
	if err := fn(); err != nil {
		s.Discard()
		return err
	}
	s.Commit()
	return nil
}

func copyBytes(data []byte) []byte {
	if data == nil {
		return nil
	}
	c := make([]byte, len(data))
	copy(c, data)
	return c
}
