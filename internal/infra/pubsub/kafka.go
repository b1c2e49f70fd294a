package pubsub

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"asset-server/internal/infra/avro"

	"github.com/lovoo/goka"
	"github.com/riferrei/srclient"
)

const (
	maxRetries    int           = 10
	retryInterval time.Duration = 5 * time.Second
)

// publisherKey identifies a publisher configuration so concurrent callers
// share a single emitter per topic and prototype.
type publisherKey struct {
	brokers           string
	topic             string
	prototypeType     string
	schemaRegistryURL string
}

type publisherInstance struct {
	publisher *SimpleKafkaPublisher
	once      sync.Once
	err       error
}

var (
	publishersMap   = make(map[publisherKey]*publisherInstance)
	publishersMutex sync.Mutex
)

func NewKafkaPublisher(brokers []string, topic string, prototype any, schemaRegistryURL string) (*SimpleKafkaPublisher, error) {
	key := publisherKey{
		brokers:           strings.Join(brokers, ","),
		topic:             topic,
		prototypeType:     fmt.Sprintf("%T", prototype),
		schemaRegistryURL: schemaRegistryURL,
	}

	publishersMutex.Lock()
	instance, exists := publishersMap[key]
	if !exists {
		instance = &publisherInstance{}
		publishersMap[key] = instance
	}
	publishersMutex.Unlock()

	instance.once.Do(func() {
		slog.Debug("creating kafka publisher",
			slog.String("topic", topic),
			slog.String("prototypeType", key.prototypeType),
			slog.String("schemaRegistryURL", schemaRegistryURL))

		codec, err := newWireCodec(prototype, schemaRegistryURL)
		if err != nil {
			instance.err = fmt.Errorf("creating wire codec: %w", err)
			return
		}

		for try := 0; try < maxRetries; try++ {
			slog.Debug("connecting to kafka brokers", slog.String("brokers", key.brokers))
			emitter, err := goka.NewEmitter(brokers, goka.Stream(topic), codec)
			if err != nil {
				time.Sleep(retryInterval)
				continue
			}

			instance.publisher = &SimpleKafkaPublisher{emitter: emitter}
			return
		}

		instance.err = fmt.Errorf("connecting to kafka brokers after %d retries", maxRetries)
	})

	if instance.err != nil {
		return nil, instance.err
	}

	return instance.publisher, nil
}

// newWireCodec picks the serialization format: Confluent Avro when a schema
// registry is configured, plain JSON otherwise.
func newWireCodec(prototype any, schemaRegistryURL string) (Codec, error) {
	if schemaRegistryURL == "" {
		return newJSONCodec(prototype), nil
	}

	registry := srclient.CreateSchemaRegistryClient(schemaRegistryURL)
	codec, err := avro.NewConfluentAvroCodec(prototype, registry)
	if err != nil {
		return nil, err
	}

	return codec, nil
}

var _ Publisher = (*SimpleKafkaPublisher)(nil)

type SimpleKafkaPublisher struct {
	emitter *goka.Emitter
}

func (p *SimpleKafkaPublisher) Publish(_ context.Context, key Key, message Message) error {
	slog.Debug("publishing message", slog.String("key", string(key)))
	if err := p.emitter.EmitSync(string(key), message); err != nil {
		slog.Error("emitting message", slog.String("error", err.Error()))
		return err
	}

	return nil
}

type consumerKey struct {
	brokers           string
	group             string
	schemaRegistryURL string
}

type consumerInstance struct {
	consumer *SimpleKafkaConsumer
	once     sync.Once
}

var (
	consumersMap   = make(map[consumerKey]*consumerInstance)
	consumersMutex sync.Mutex
)

func NewKafkaConsumer(brokers []string, group string, schemaRegistryURL string) *SimpleKafkaConsumer {
	key := consumerKey{
		brokers:           strings.Join(brokers, ","),
		group:             group,
		schemaRegistryURL: schemaRegistryURL,
	}

	consumersMutex.Lock()
	instance, exists := consumersMap[key]
	if !exists {
		instance = &consumerInstance{}
		consumersMap[key] = instance
	}
	consumersMutex.Unlock()

	instance.once.Do(func() {
		slog.Debug("creating kafka consumer",
			slog.String("group", group),
			slog.String("brokers", key.brokers),
			slog.String("schemaRegistryURL", schemaRegistryURL))

		instance.consumer = &SimpleKafkaConsumer{
			brokers:           brokers,
			group:             goka.Group(group),
			schemaRegistryURL: schemaRegistryURL,
		}
	})

	return instance.consumer
}

var _ Consumer = (*SimpleKafkaConsumer)(nil)

type SimpleKafkaConsumer struct {
	brokers           []string
	group             goka.Group
	schemaRegistryURL string
}

func (c *SimpleKafkaConsumer) Consume(topic Topic, handler MessageHandler, prototype Prototype) error {
	cb := func(gokaCtx goka.Context, msg any) {
		slog.Debug("message received", slog.Any("msg", msg))
		ctx, span := CreateChildSpan(gokaCtx.Context(), fmt.Sprintf("consume %s", topic))
		defer span.End()

		if err := handler(ctx, Key(gokaCtx.Key()), msg); err != nil {
			slog.Error("handling message",
				slog.String("topic", string(topic)),
				slog.String("error", err.Error()))
		}
	}

	codec, err := newWireCodec(prototype, c.schemaRegistryURL)
	if err != nil {
		return fmt.Errorf("creating wire codec: %w", err)
	}

	group := goka.DefineGroup(
		c.group,
		goka.Input(goka.Stream(topic), codec, cb),
	)
	processor, err := goka.NewProcessor(c.brokers, group)
	if err != nil {
		return fmt.Errorf("creating processor: %w", err)
	}

	return processor.Run(context.Background())
}
