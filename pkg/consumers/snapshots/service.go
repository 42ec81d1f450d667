package snapshots

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"

	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/lifecycle"
	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/registry"
)

var ErrStopTimeout = errors.New("timed out waiting for in-flight snapshots")

// Service drives the snapshot consumer. It owns the NATS connection and the
// catalog handle and closes both on Stop.
type Service struct {
	cfg       *Config
	nc        *nats.Conn
	db        db.Service
	processor *Processor
	logger    logger.Logger

	cancel context.CancelFunc
	wg     sync.WaitGroup
}

var _ lifecycle.Service = (*Service)(nil)

func NewService(cfg *Config, manager registry.Manager, nc *nats.Conn, database db.Service, log logger.Logger) (*Service, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Service{
		cfg:       cfg,
		nc:        nc,
		db:        database,
		processor: NewProcessor(manager, log),
		logger:    log,
	}, nil
}

func (s *Service) Start(ctx context.Context) error {
	js, err := s.jetStream()
	if err != nil {
		return err
	}

	if err := s.ensureStream(ctx, js); err != nil {
		return err
	}

	consumer, err := NewConsumer(ctx, js, s.cfg, s.logger)
	if err != nil {
		return err
	}

	runCtx, cancel := context.WithCancel(ctx)
	s.cancel = cancel

	s.wg.Add(1)

	go func() {
		defer s.wg.Done()

		consumer.ProcessMessages(runCtx, s.processor)
	}()

	s.logger.Info().
		Str("stream", s.cfg.StreamName).
		Str("consumer", s.cfg.ConsumerName).
		Msg("Snapshot consumer started")

	return nil
}

func (s *Service) jetStream() (jetstream.JetStream, error) {
	if s.cfg.Domain != "" {
		js, err := jetstream.NewWithDomain(s.nc, s.cfg.Domain)
		if err != nil {
			return nil, fmt.Errorf("failed to create JetStream context with domain %s: %w", s.cfg.Domain, err)
		}

		return js, nil
	}

	js, err := jetstream.New(s.nc)
	if err != nil {
		return nil, fmt.Errorf("failed to create JetStream context: %w", err)
	}

	return js, nil
}

func (s *Service) ensureStream(ctx context.Context, js jetstream.JetStream) error {
	_, err := js.Stream(ctx, s.cfg.StreamName)
	if err == nil {
		return nil
	}

	if !errors.Is(err, jetstream.ErrStreamNotFound) {
		return fmt.Errorf("failed to get stream %s: %w", s.cfg.StreamName, err)
	}

	if _, err := js.CreateStream(ctx, jetstream.StreamConfig{
		Name:     s.cfg.StreamName,
		Subjects: []string{s.cfg.Subject},
	}); err != nil {
		return fmt.Errorf("failed to create stream %s: %w", s.cfg.StreamName, err)
	}

	s.logger.Info().Str("stream", s.cfg.StreamName).Str("subject", s.cfg.Subject).Msg("Created snapshot stream")

	return nil
}

// Stop cancels the pull loop and waits for the snapshot in flight before
// closing NATS and the catalog.
func (s *Service) Stop(ctx context.Context) error {
	if s.cancel != nil {
		s.cancel()
	}

	done := make(chan struct{})

	go func() {
		s.wg.Wait()
		close(done)
	}()

	var errs []error

	select {
	case <-done:
	case <-ctx.Done():
		errs = append(errs, ErrStopTimeout)
	}

	if s.nc != nil {
		if err := s.nc.Drain(); err != nil && !errors.Is(err, nats.ErrConnectionClosed) {
			errs = append(errs, fmt.Errorf("drain nats: %w", err))
		}
	}

	if s.db != nil {
		if err := s.db.Close(); err != nil {
			errs = append(errs, fmt.Errorf("close catalog: %w", err))
		}
	}

	s.logger.Info().Msg("Snapshot consumer stopped")

	return errors.Join(errs...)
}
