package snapshots

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
	"github.com/carverauto/devicesync/pkg/registry"
)

var errCatalogDown = errors.New("catalog unavailable")

const snapshotPayload = `{
	"uuid": "0f8fad5b-d9cb-469f-a165-70867728950e",
	"owner_id": "owner-1",
	"device": {"type": "Desktop", "manufacturer": "Acme", "model": "X1", "serial_number": "S1"},
	"components": [
		{"type": "RamModule", "manufacturer": "Acme", "model": "R1", "serial_number": "A"}
	]
}`

func TestProcessorDecodesAndDelegates(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	manager := registry.NewMockManager(ctrl)

	manager.EXPECT().
		ProcessSnapshot(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, snapshot *models.Snapshot) (*models.SyncOutcome, error) {
			assert.Equal(t, "owner-1", snapshot.OwnerID)
			assert.Equal(t, "Desktop", snapshot.Device.Type)
			require.Len(t, snapshot.Components, 1)
			assert.Equal(t, "RamModule", snapshot.Components[0].Type)

			return &models.SyncOutcome{SnapshotID: snapshot.UUID, DeviceID: 1}, nil
		})

	outcome, err := NewProcessor(manager, logger.NewTestLogger()).Process(context.Background(), []byte(snapshotPayload))

	require.NoError(t, err)
	assert.Equal(t, int64(1), outcome.DeviceID)
}

func TestProcessorRejectsBadPayloads(t *testing.T) {
	t.Parallel()

	ctrl := gomock.NewController(t)
	processor := NewProcessor(registry.NewMockManager(ctrl), nil)

	_, err := processor.Process(context.Background(), nil)
	require.ErrorIs(t, err, ErrEmptyMessage)
	assert.True(t, IsTerminal(err))

	_, err = processor.Process(context.Background(), []byte(`{"device":`))
	require.ErrorIs(t, err, ErrUnmarshal)
	assert.True(t, IsTerminal(err))
}

func TestIsTerminal(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		err  error
		want bool
	}{
		{name: "needs identity", err: registry.ErrNeedsIdentity, want: true},
		{name: "tag mismatch", err: registry.ErrMismatchBetweenTags, want: true},
		{name: "tag on another kind family", err: fmt.Errorf("register RamModule component: %w", registry.ErrTagKindMismatch), want: true},
		{name: "foreign owner", err: registry.ErrInsufficientPermission, want: true},
		{
			name: "joined validation errors",
			err:  errors.Join(registry.ErrSnapshotOwnerRequired, fmt.Errorf("device: %w", models.ErrUnknownDeviceKind)),
			want: true,
		},
		{name: "wrapped tag id", err: fmt.Errorf("snapshot s1: %w", registry.ErrInvalidTagID), want: true},
		{name: "conflict exhausted", err: registry.ErrConflictRetryExhausted, want: false},
		{name: "storage failure", err: errCatalogDown, want: false},
		{name: "cancelled", err: context.Canceled, want: false},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tt.want, IsTerminal(tt.err))
		})
	}
}
