package natsutil

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

const (
	// SyncCompletedEventType is the CloudEvents type of a committed snapshot.
	SyncCompletedEventType = "com.carverauto.devicesync.sync.completed"
	// DefaultEventsSubject is where sync outcomes are published.
	DefaultEventsSubject = "events.inventory.sync"
	// DefaultEventsStream holds the published outcomes.
	DefaultEventsStream = "events"

	eventSource      = "devicesync/registry"
	eventSpecVersion = "1.0"
	eventContentType = "application/json"
)

var ErrOutcomeNil = errors.New("sync outcome is nil")

// streamPublisher is the slice of jetstream.JetStream the publisher uses.
type streamPublisher interface {
	Publish(ctx context.Context, subject string, data []byte, opts ...jetstream.PublishOpt) (*jetstream.PubAck, error)
}

// EventPublisher publishes sync outcomes as CloudEvents to JetStream.
type EventPublisher struct {
	js      streamPublisher
	stream  string
	subject string
	logger  logger.Logger
}

func NewEventPublisher(js jetstream.JetStream, streamName, subject string, log logger.Logger) *EventPublisher {
	return newEventPublisher(js, streamName, subject, log)
}

func newEventPublisher(js streamPublisher, streamName, subject string, log logger.Logger) *EventPublisher {
	if subject == "" {
		subject = DefaultEventsSubject
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &EventPublisher{
		js:      js,
		stream:  streamName,
		subject: subject,
		logger:  log,
	}
}

// PublishSyncOutcome publishes one sync.completed event. The message id is
// the CloudEvent id so JetStream drops a duplicate publish of the same event.
func (p *EventPublisher) PublishSyncOutcome(ctx context.Context, outcome *models.SyncOutcome) error {
	if outcome == nil {
		return ErrOutcomeNil
	}

	id := uuid.New().String()

	payload, err := encodeSyncCompletedEvent(outcome, id, p.subject, time.Now().UTC())
	if err != nil {
		return err
	}

	ack, err := p.js.Publish(ctx, p.subject, payload, jetstream.WithMsgID(id))
	if err != nil {
		return fmt.Errorf("failed to publish sync outcome event: %w", err)
	}

	p.logger.Debug().
		Str("event_id", id).
		Str("subject", p.subject).
		Str("stream", ack.Stream).
		Uint64("seq", ack.Sequence).
		Str("snapshot_id", outcome.SnapshotID).
		Msg("Published sync outcome event")

	return nil
}

func encodeSyncCompletedEvent(outcome *models.SyncOutcome, id, subject string, now time.Time) ([]byte, error) {
	eventTime := outcome.ProcessedAt
	if eventTime.IsZero() {
		eventTime = now
	}

	event := models.CloudEvent{
		SpecVersion:     eventSpecVersion,
		ID:              id,
		Source:          eventSource,
		Type:            SyncCompletedEventType,
		DataContentType: eventContentType,
		Subject:         subject,
		Time:            &eventTime,
		Data:            outcome,
	}

	payload, err := json.Marshal(event)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal sync outcome event: %w", err)
	}

	return payload, nil
}

// CreateEventPublisherWithDomain binds a publisher to an existing connection,
// creating the stream or extending its subjects so subject is captured.
func CreateEventPublisherWithDomain(
	ctx context.Context, nc *nats.Conn, domain, streamName, subject string, log logger.Logger,
) (*EventPublisher, error) {
	js, err := newJetStream(nc, domain)
	if err != nil {
		return nil, err
	}

	if streamName == "" {
		streamName = DefaultEventsStream
	}

	if subject == "" {
		subject = DefaultEventsSubject
	}

	if err := ensureStreamSubject(ctx, js, streamName, subject, log); err != nil {
		return nil, err
	}

	return NewEventPublisher(js, streamName, subject, log), nil
}

func newJetStream(nc *nats.Conn, domain string) (jetstream.JetStream, error) {
	if domain == "" {
		js, err := jetstream.New(nc)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context: %w", err)
		}

		return js, nil
	}

	js, err := jetstream.NewWithDomain(nc, domain)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", domain, err)
	}

	return js, nil
}

func ensureStreamSubject(ctx context.Context, js jetstream.JetStream, streamName, subject string, log logger.Logger) error {
	stream, err := js.Stream(ctx, streamName)
	if err != nil {
		if !isStreamMissingErr(err) {
			return fmt.Errorf("failed to get stream %s: %w", streamName, err)
		}

		if _, err := js.CreateStream(ctx, jetstream.StreamConfig{
			Name:     streamName,
			Subjects: []string{subject},
		}); err != nil {
			return fmt.Errorf("failed to create stream %s: %w", streamName, err)
		}

		log.Info().Str("stream", streamName).Str("subject", subject).Msg("Created NATS JetStream stream")

		return nil
	}

	cfg := stream.CachedInfo().Config

	subjects := ensureSubjectList(cfg.Subjects, subject)
	if len(subjects) == len(cfg.Subjects) {
		return nil
	}

	cfg.Subjects = subjects

	if _, err := js.UpdateStream(ctx, cfg); err != nil {
		return fmt.Errorf("failed to add subject %s to stream %s: %w", subject, streamName, err)
	}

	log.Info().Str("stream", streamName).Str("subject", subject).Msg("Added subject to NATS JetStream stream")

	return nil
}

// ensureSubjectList appends subject unless a pattern already covers it.
func ensureSubjectList(subjects []string, subject string) []string {
	for _, pattern := range subjects {
		if matchesSubject(pattern, subject) {
			return subjects
		}
	}

	return append(subjects, subject)
}

// matchesSubject applies NATS wildcard rules: "*" matches one token and a
// trailing ">" matches one or more.
func matchesSubject(pattern, subject string) bool {
	patternTokens := strings.Split(pattern, ".")
	subjectTokens := strings.Split(subject, ".")

	for i, token := range patternTokens {
		if token == ">" {
			return i == len(patternTokens)-1 && len(subjectTokens) > i
		}

		if i >= len(subjectTokens) {
			return false
		}

		if token != "*" && token != subjectTokens[i] {
			return false
		}
	}

	return len(patternTokens) == len(subjectTokens)
}

func isStreamMissingErr(err error) bool {
	return errors.Is(err, jetstream.ErrStreamNotFound) ||
		errors.Is(err, jetstream.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrStreamNotFound) ||
		errors.Is(err, nats.ErrNoStreamResponse) ||
		errors.Is(err, nats.ErrNoResponders)
}
