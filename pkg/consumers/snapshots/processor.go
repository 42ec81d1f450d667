package snapshots

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
	"github.com/carverauto/devicesync/pkg/registry"
)

var (
	ErrEmptyMessage = errors.New("empty message received")
	ErrUnmarshal    = errors.New("failed to unmarshal snapshot")
)

// terminalErrors will fail again on every redelivery.
//
//nolint:gochecknoglobals // read-only classification table
var terminalErrors = []error{
	ErrEmptyMessage,
	ErrUnmarshal,
	registry.ErrSnapshotRequired,
	registry.ErrSnapshotOwnerRequired,
	registry.ErrInvalidSnapshotUUID,
	registry.ErrDeviceNotComputer,
	registry.ErrComponentNotComponent,
	registry.ErrInvalidTagID,
	models.ErrUnknownDeviceKind,
	registry.ErrNeedsIdentity,
	registry.ErrMismatchBetweenTags,
	registry.ErrTagKindMismatch,
	registry.ErrInsufficientPermission,
}

// IsTerminal reports whether redelivering the message cannot succeed.
func IsTerminal(err error) bool {
	for _, target := range terminalErrors {
		if errors.Is(err, target) {
			return true
		}
	}

	return false
}

// Processor decodes snapshot payloads and hands them to the registry.
type Processor struct {
	manager registry.Manager
	logger  logger.Logger
}

func NewProcessor(manager registry.Manager, log logger.Logger) *Processor {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Processor{manager: manager, logger: log}
}

func (p *Processor) Process(ctx context.Context, data []byte) (*models.SyncOutcome, error) {
	if len(data) == 0 {
		return nil, ErrEmptyMessage
	}

	var snapshot models.Snapshot
	if err := json.Unmarshal(data, &snapshot); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshal, err)
	}

	outcome, err := p.manager.ProcessSnapshot(ctx, &snapshot)
	if err != nil {
		return nil, fmt.Errorf("snapshot %s: %w", snapshot.UUID, err)
	}

	p.logger.Debug().
		Str("snapshot_id", outcome.SnapshotID).
		Int64("device_id", outcome.DeviceID).
		Int("changes", len(outcome.Changes)).
		Msg("Processed snapshot")

	return outcome, nil
}
