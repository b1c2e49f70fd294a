package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// In-memory implementation for local runs and tests. All factories share one
// process-wide broker so publishers and consumers created independently still
// see each other.

type MemoryPublisherFactory struct {
	broker *MemoryBroker
}

func NewMemoryPublisherFactory() *MemoryPublisherFactory {
	return &MemoryPublisherFactory{
		broker: GetMemoryBroker(),
	}
}

func (f *MemoryPublisherFactory) New(topic Topic, prototype Message) (Publisher, error) {
	return &MemoryPublisher{
		broker: f.broker,
		topic:  topic,
	}, nil
}

type MemoryPublisher struct {
	broker *MemoryBroker
	topic  Topic
}

func (p *MemoryPublisher) Publish(ctx context.Context, key Key, message Message) error {
	return p.broker.Publish(p.topic, key, message)
}

type MemoryConsumerFactory struct {
	broker *MemoryBroker
	group  string
}

func NewMemoryConsumerFactory(group string) *MemoryConsumerFactory {
	return &MemoryConsumerFactory{
		broker: GetMemoryBroker(),
		group:  group,
	}
}

func (f *MemoryConsumerFactory) New() Consumer {
	return &MemoryConsumer{
		broker: f.broker,
		group:  f.group,
	}
}

type MemoryConsumer struct {
	broker *MemoryBroker
	group  string
}

func (c *MemoryConsumer) Consume(topic Topic, handler MessageHandler, prototype Prototype) error {
	return c.broker.Subscribe(topic, c.group, handler)
}

type memorySubscriber struct {
	group   string
	handler MessageHandler
}

type MemoryBroker struct {
	mu          sync.RWMutex
	subscribers map[Topic][]*memorySubscriber
}

var (
	memoryBroker     *MemoryBroker
	memoryBrokerOnce sync.Once
)

func GetMemoryBroker() *MemoryBroker {
	memoryBrokerOnce.Do(func() {
		memoryBroker = &MemoryBroker{
			subscribers: make(map[Topic][]*memorySubscriber),
		}
	})
	return memoryBroker
}

func (b *MemoryBroker) Publish(topic Topic, key Key, message Message) error {
	b.mu.RLock()
	subscribers := b.subscribers[topic]
	b.mu.RUnlock()

	for _, subscriber := range subscribers {
		go func(s *memorySubscriber) {
			defer func() {
				if r := recover(); r != nil {
					slog.Error("panic in message handler", slog.Any("recovered", r))
				}
			}()

			if err := s.handler(context.Background(), key, message); err != nil {
				slog.Error("error in message handler",
					slog.String("topic", string(topic)),
					slog.String("group", s.group),
					slog.String("error", err.Error()))
			}
		}(subscriber)
	}

	return nil
}

func (b *MemoryBroker) Subscribe(topic Topic, group string, handler MessageHandler) error {
	if handler == nil {
		return fmt.Errorf("handler must not be nil")
	}

	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers[topic] = append(b.subscribers[topic], &memorySubscriber{
		group:   group,
		handler: handler,
	})

	return nil
}

// Reset clears all subscribers. Tests use it to isolate state.
func (b *MemoryBroker) Reset() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.subscribers = make(map[Topic][]*memorySubscriber)
}
