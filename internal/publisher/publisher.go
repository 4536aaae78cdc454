package publisher

import (
	"context"
	"encoding/json"
	"fmt"
	"strconv"

	kafkago "github.com/segmentio/kafka-go"
	"github.com/stwalsh4118/desiverse/api/internal/config"
	"github.com/stwalsh4118/desiverse/api/internal/logger"
	"github.com/stwalsh4118/desiverse/api/internal/models"
)

// BatchSize is the number of messages handed to one WriteMessages call.
const BatchSize = 500

// Publisher announces a freshly generated dataset to downstream consumers.
type Publisher interface {
	Publish(ctx context.Context, records []models.TourismRecord) error
	Close() error
}

// messageWriter is the subset of *kafkago.Writer used here.
type messageWriter interface {
	WriteMessages(ctx context.Context, msgs ...kafkago.Message) error
	Close() error
}

// KafkaPublisher writes one JSON message per record to a Kafka topic.
type KafkaPublisher struct {
	writer messageWriter
	log    *logger.Logger
}

// NewKafkaPublisher creates a producer for the configured topic.
func NewKafkaPublisher(cfg config.KafkaConfig, log *logger.Logger) *KafkaPublisher {
	w := &kafkago.Writer{
		Addr:         kafkago.TCP(cfg.Brokers...),
		Topic:        cfg.Topic,
		Balancer:     &kafkago.Hash{},
		RequiredAcks: kafkago.RequireAll,
		BatchSize:    BatchSize,
	}
	return &KafkaPublisher{writer: w, log: log}
}

// New returns a KafkaPublisher when Kafka is enabled and a NopPublisher otherwise.
func New(cfg config.KafkaConfig, log *logger.Logger) Publisher {
	if !cfg.Enabled {
		return NopPublisher{}
	}
	return NewKafkaPublisher(cfg, log)
}

// Publish serializes records and writes them in batches of BatchSize.
func (p *KafkaPublisher) Publish(ctx context.Context, records []models.TourismRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := make([]kafkago.Message, 0, min(BatchSize, len(records)))
	written := 0
	for i := range records {
		msg, err := serializeToMessage(records[i])
		if err != nil {
			return err
		}
		batch = append(batch, msg)

		if len(batch) == BatchSize || i == len(records)-1 {
			if err := p.writer.WriteMessages(ctx, batch...); err != nil {
				return fmt.Errorf("failed to publish records (%d of %d written): %w", written, len(records), err)
			}
			written += len(batch)
			batch = batch[:0]
		}
	}

	p.log.Debug("Published dataset", map[string]interface{}{"records": written})
	return nil
}

// Close flushes and closes the underlying writer.
func (p *KafkaPublisher) Close() error {
	return p.writer.Close()
}

// serializeToMessage marshals a record into a Kafka message keyed by state.
func serializeToMessage(r models.TourismRecord) (kafkago.Message, error) {
	data, err := json.Marshal(r)
	if err != nil {
		return kafkago.Message{}, fmt.Errorf("serialize tourism record %s: %w", r.Key(), err)
	}
	return kafkago.Message{
		Key:   []byte(r.Key().String()),
		Value: data,
		Headers: []kafkago.Header{
			{Key: "region", Value: []byte(r.Region)},
			{Key: "year", Value: []byte(strconv.Itoa(r.Year))},
		},
	}, nil
}

// NopPublisher discards everything. Used when Kafka is disabled.
type NopPublisher struct{}

// Publish does nothing.
func (NopPublisher) Publish(context.Context, []models.TourismRecord) error { return nil }

// Close does nothing.
func (NopPublisher) Close() error { return nil }
