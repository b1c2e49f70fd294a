package async

//go:generate mockgen -source=internal_broker.go -destination=../../../test/unit/doubles/infra/async/internal_broker_mock.go -package=async -mock_names=InternalBroker=MockInternalBroker

import (
	"context"
	"errors"
	"slices"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

type BrokerTopicName string

type BrokerMessage struct {
	Event string
	Value any
	Span  trace.Span
	Error error
}

// InternalBroker is an in-process fan-out bus. The activity feed uses it to
// push audit entries to websocket sessions without coupling the use cases to
// the transport.
type InternalBroker interface {
	Subscribe(topic BrokerTopicName) (Subscription, error)
	Unsubscribe(topic BrokerTopicName, subscription Subscription) error
	Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error
	Stop()
}

var _ InternalBroker = (*LocalBroker)(nil)

var (
	ErrTopicNotFound      = errors.New("topic not found")
	ErrSubscriberNotFound = errors.New("subscriber not found")
)

type Subscription struct {
	ID       string
	Receiver chan BrokerMessage
}

type subscriber struct {
	once         sync.Once
	active       bool
	subscription Subscription
}

func (s *subscriber) safeClose() {
	s.once.Do(func() {
		s.active = false
		close(s.subscription.Receiver)
	})
}

func NewLocalBroker() *LocalBroker {
	return &LocalBroker{
		subscribers: make(map[BrokerTopicName][]*subscriber),
	}
}

type LocalBroker struct {
	mu          sync.RWMutex
	subscribers map[BrokerTopicName][]*subscriber
}

func (b *LocalBroker) Subscribe(topic BrokerTopicName) (Subscription, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscription := Subscription{
		ID:       uuid.NewString(),
		Receiver: make(chan BrokerMessage),
	}
	b.subscribers[topic] = append(b.subscribers[topic], &subscriber{subscription: subscription, active: true})
	return subscription, nil
}

func (b *LocalBroker) Unsubscribe(topic BrokerTopicName, subscription Subscription) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	subscribers, ok := b.subscribers[topic]
	if !ok {
		return ErrTopicNotFound
	}

	index := slices.IndexFunc(subscribers, func(s *subscriber) bool { return s.subscription.ID == subscription.ID })
	if index < 0 {
		return ErrSubscriberNotFound
	}

	subscribers[index].safeClose()
	return nil
}

func (b *LocalBroker) Publish(ctx context.Context, topic BrokerTopicName, msg BrokerMessage) error {
	msg.Span = trace.SpanFromContext(ctx)

	b.mu.RLock()
	subscribers, ok := b.subscribers[topic]
	b.mu.RUnlock()
	if !ok {
		return ErrTopicNotFound
	}

	go b.dispatch(subscribers, msg)
	return nil
}

func (b *LocalBroker) dispatch(subscribers []*subscriber, msg BrokerMessage) {
	for _, s := range subscribers {
		if s.active {
			s.subscription.Receiver <- msg
		}
	}
}

func (b *LocalBroker) Stop() {
	b.mu.Lock()
	defer b.mu.Unlock()

	for _, subscribers := range b.subscribers {
		for _, s := range subscribers {
			s.safeClose()
		}
	}
}
