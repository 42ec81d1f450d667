package snapshots

import (
	"errors"
	"time"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

var (
	ErrMissingNATSURL        = errors.New("nats_url is required")
	ErrMissingStreamName     = errors.New("stream_name is required")
	ErrMissingConsumerName   = errors.New("consumer_name is required")
	ErrMissingDatabaseConfig = errors.New("cnpg host and database are required")
	ErrInvalidMaxDeliver     = errors.New("max_deliver must be at least 1")
	ErrInvalidFetchBatch     = errors.New("fetch_batch must not be negative")
)

const (
	DefaultSubject      = "inventory.snapshots"
	defaultMaxDeliver   = 5
	defaultFetchBatch   = 10
	defaultAckWait      = 30 * time.Second
	defaultFetchMaxWait = 5 * time.Second
)

// EventsConfig selects where committed outcomes are published.
type EventsConfig struct {
	Enabled    bool   `json:"enabled" yaml:"enabled"`
	StreamName string `json:"stream_name" yaml:"stream_name"`
	Subject    string `json:"subject" yaml:"subject"`
}

type MetricsConfig struct {
	ExportInterval models.Duration `json:"export_interval" yaml:"export_interval"`
}

// Config is the device-sync service configuration.
type Config struct {
	NATSURL         string                 `json:"nats_url" yaml:"nats_url"`
	Domain          string                 `json:"domain" yaml:"domain"`
	StreamName      string                 `json:"stream_name" yaml:"stream_name"`
	ConsumerName    string                 `json:"consumer_name" yaml:"consumer_name"`
	Subject         string                 `json:"subject" yaml:"subject"`
	MaxDeliver      int                    `json:"max_deliver" yaml:"max_deliver"`
	FetchBatch      int                    `json:"fetch_batch" yaml:"fetch_batch"`
	AckWait         models.Duration        `json:"ack_wait" yaml:"ack_wait"`
	ShutdownTimeout models.Duration        `json:"shutdown_timeout" yaml:"shutdown_timeout"`
	Events          EventsConfig           `json:"events" yaml:"events"`
	Security        *models.SecurityConfig `json:"security" yaml:"security"`
	CNPG            *models.CNPGDatabase   `json:"cnpg" yaml:"cnpg"`
	Logging         *logger.Config         `json:"logging" yaml:"logging"`
	Metrics         MetricsConfig          `json:"metrics" yaml:"metrics"`
}

// Validate fills defaults for optional knobs and reports every missing
// required field at once.
func (c *Config) Validate() error {
	var errs []error

	if c.NATSURL == "" {
		errs = append(errs, ErrMissingNATSURL)
	}

	if c.StreamName == "" {
		errs = append(errs, ErrMissingStreamName)
	}

	if c.ConsumerName == "" {
		errs = append(errs, ErrMissingConsumerName)
	}

	if c.CNPG == nil || c.CNPG.Host == "" || c.CNPG.Database == "" {
		errs = append(errs, ErrMissingDatabaseConfig)
	}

	if c.MaxDeliver < 0 {
		errs = append(errs, ErrInvalidMaxDeliver)
	}

	if c.FetchBatch < 0 {
		errs = append(errs, ErrInvalidFetchBatch)
	}

	if len(errs) > 0 {
		return errors.Join(errs...)
	}

	c.applyDefaults()

	return nil
}

func (c *Config) applyDefaults() {
	if c.Subject == "" {
		c.Subject = DefaultSubject
	}

	if c.MaxDeliver == 0 {
		c.MaxDeliver = defaultMaxDeliver
	}

	if c.FetchBatch == 0 {
		c.FetchBatch = defaultFetchBatch
	}

	if c.AckWait <= 0 {
		c.AckWait = models.Duration(defaultAckWait)
	}
}
