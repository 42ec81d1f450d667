package snapshots

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicesync/pkg/logger"
)

const fetchRetryDelay = time.Second

// ackMsg is the part of jetstream.Msg the consumer settles messages with.
type ackMsg interface {
	Data() []byte
	Subject() string
	Ack() error
	Nak() error
	Term() error
}

type Consumer struct {
	streamName   string
	consumerName string
	fetchBatch   int
	consumer     jetstream.Consumer
	logger       logger.Logger
}

// NewConsumer binds to the durable pull consumer, creating it when missing.
func NewConsumer(ctx context.Context, js jetstream.JetStream, cfg *Config, log logger.Logger) (*Consumer, error) {
	consumer, err := js.Consumer(ctx, cfg.StreamName, cfg.ConsumerName)
	if err != nil {
		if !errors.Is(err, jetstream.ErrConsumerNotFound) {
			return nil, fmt.Errorf("failed to get consumer %s: %w", cfg.ConsumerName, err)
		}

		consumer, err = js.CreateConsumer(ctx, cfg.StreamName, jetstream.ConsumerConfig{
			Durable:       cfg.ConsumerName,
			AckPolicy:     jetstream.AckExplicitPolicy,
			AckWait:       time.Duration(cfg.AckWait),
			MaxDeliver:    cfg.MaxDeliver,
			MaxAckPending: cfg.FetchBatch * 10,
			FilterSubject: cfg.Subject,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to create consumer %s: %w", cfg.ConsumerName, err)
		}

		log.Info().
			Str("stream", cfg.StreamName).
			Str("consumer", cfg.ConsumerName).
			Str("subject", cfg.Subject).
			Msg("Created durable pull consumer")
	}

	return &Consumer{
		streamName:   cfg.StreamName,
		consumerName: cfg.ConsumerName,
		fetchBatch:   cfg.FetchBatch,
		consumer:     consumer,
		logger:       log,
	}, nil
}

// ProcessMessages pulls batches until ctx is cancelled. Messages are handled
// one at a time so a device's snapshots apply in delivery order.
func (c *Consumer) ProcessMessages(ctx context.Context, processor *Processor) {
	c.logger.Info().
		Str("stream", c.streamName).
		Str("consumer", c.consumerName).
		Msg("Starting pull consumer")

	for {
		if ctx.Err() != nil {
			c.logger.Info().Msg("Stopping message processing")

			return
		}

		msgs, err := c.consumer.Fetch(c.fetchBatch, jetstream.FetchMaxWait(defaultFetchMaxWait))
		if err != nil {
			c.logger.Warn().Err(err).Msg("Failed to fetch messages")

			select {
			case <-ctx.Done():
			case <-time.After(fetchRetryDelay):
			}

			continue
		}

		for msg := range msgs.Messages() {
			c.handleMessage(ctx, msg, processor)
		}

		if err := msgs.Error(); err != nil && !errors.Is(err, jetstream.ErrNoMessages) {
			c.logger.Debug().Err(err).Msg("Fetch ended with error")
		}
	}
}

// handleMessage acks on success, terms errors that cannot heal and naks the
// rest so JetStream redelivers them until MaxDeliver.
func (c *Consumer) handleMessage(ctx context.Context, msg ackMsg, processor *Processor) {
	_, err := processor.Process(ctx, msg.Data())

	switch {
	case err == nil:
		if ackErr := msg.Ack(); ackErr != nil {
			c.logger.Warn().Err(ackErr).Msg("Failed to ack message")
		}
	case IsTerminal(err):
		c.logger.Error().Err(err).Str("subject", msg.Subject()).Msg("Dropping snapshot that cannot be processed")

		if termErr := msg.Term(); termErr != nil {
			c.logger.Warn().Err(termErr).Msg("Failed to term message")
		}
	default:
		c.logger.Warn().Err(err).Str("subject", msg.Subject()).Msg("Snapshot processing failed, will retry")

		if nakErr := msg.Nak(); nakErr != nil {
			c.logger.Warn().Err(nakErr).Msg("Failed to nak message")
		}
	}
}
