package natsutil

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/nats-io/nats.go"
	"github.com/nats-io/nats.go/jetstream"
	"github.com/sebdah/goldie/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

var errTestFixture = errors.New("fixture error")

type capturedMsg struct {
	subject string
	data    []byte
}

type fakeJetStream struct {
	published []capturedMsg
	err       error
}

func (f *fakeJetStream) Publish(_ context.Context, subject string, data []byte, _ ...jetstream.PublishOpt) (*jetstream.PubAck, error) {
	if f.err != nil {
		return nil, f.err
	}

	f.published = append(f.published, capturedMsg{subject: subject, data: data})

	return &jetstream.PubAck{Stream: "events", Sequence: uint64(len(f.published))}, nil
}

func fixtureOutcome() *models.SyncOutcome {
	at := time.Date(2025, 3, 1, 10, 0, 0, 0, time.UTC)
	snapshotID := "0f8fad5b-d9cb-469f-a165-70867728950e"

	return &models.SyncOutcome{
		SnapshotID:   snapshotID,
		OwnerID:      "owner-1",
		DeviceID:     1,
		Kind:         models.KindDesktop,
		HID:          "desktop-acme-x1-s1",
		ComponentIDs: []int64{3, 4},
		Changes: []*models.ChangeRecord{
			{
				ID:           uuid.MustParse("9b2f5e1a-7c44-4d0e-8f61-3a5b2c7d9e01"),
				SnapshotID:   snapshotID,
				Kind:         models.ChangeAttached,
				DeviceID:     1,
				ComponentIDs: []int64{4},
				CreatedAt:    at,
			},
			{
				ID:           uuid.MustParse("c3d8a6f2-1b7e-4a90-b5c4-6e2f8d1a0b37"),
				SnapshotID:   snapshotID,
				Kind:         models.ChangeDetached,
				DeviceID:     1,
				ComponentIDs: []int64{2},
				CreatedAt:    at,
			},
		},
		Registered:  []int64{4},
		Severity:    models.SeverityInfo,
		ProcessedAt: at,
	}
}

func TestSyncCompletedEventGolden(t *testing.T) {
	t.Parallel()

	payload, err := encodeSyncCompletedEvent(
		fixtureOutcome(),
		"6f1c1f43-3f5d-4c57-9a38-2d1f4a0c9e11",
		DefaultEventsSubject,
		time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC),
	)
	require.NoError(t, err)

	var pretty bytes.Buffer
	require.NoError(t, json.Indent(&pretty, payload, "", "  "))

	g := goldie.New(t,
		goldie.WithFixtureDir("testdata/golden"),
		goldie.WithNameSuffix(".golden"),
	)
	g.Assert(t, "sync_completed_event", pretty.Bytes())
}

func TestEncodeSyncCompletedEventDefaultsTime(t *testing.T) {
	t.Parallel()

	outcome := fixtureOutcome()
	outcome.ProcessedAt = time.Time{}
	now := time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC)

	payload, err := encodeSyncCompletedEvent(outcome, "id-1", DefaultEventsSubject, now)
	require.NoError(t, err)

	var event struct {
		Time time.Time `json:"time"`
	}
	require.NoError(t, json.Unmarshal(payload, &event))
	assert.True(t, now.Equal(event.Time))
}

func TestPublishSyncOutcome(t *testing.T) {
	t.Parallel()

	js := &fakeJetStream{}
	publisher := newEventPublisher(js, "events", "", logger.NewTestLogger())

	require.NoError(t, publisher.PublishSyncOutcome(context.Background(), fixtureOutcome()))
	require.Len(t, js.published, 1)
	assert.Equal(t, DefaultEventsSubject, js.published[0].subject)

	var event models.CloudEvent
	require.NoError(t, json.Unmarshal(js.published[0].data, &event))
	assert.Equal(t, SyncCompletedEventType, event.Type)
	assert.Equal(t, eventSource, event.Source)

	_, err := uuid.Parse(event.ID)
	require.NoError(t, err)
}

func TestPublishSyncOutcomeErrors(t *testing.T) {
	t.Parallel()

	publisher := newEventPublisher(&fakeJetStream{err: errTestFixture}, "events", "events.custom", nil)

	require.ErrorIs(t, publisher.PublishSyncOutcome(context.Background(), nil), ErrOutcomeNil)
	require.ErrorIs(t, publisher.PublishSyncOutcome(context.Background(), fixtureOutcome()), errTestFixture)
}

func TestEnsureSubjectList(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		subjects []string
		want     []string
	}{
		{
			name: "adds subject when list empty",
			want: []string{"events.inventory.sync"},
		},
		{
			name:     "keeps list when wildcard matches",
			subjects: []string{"events.inventory.*"},
			want:     []string{"events.inventory.*"},
		},
		{
			name:     "keeps list when greater wildcard matches",
			subjects: []string{"events.>"},
			want:     []string{"events.>"},
		},
		{
			name:     "appends when unmatched",
			subjects: []string{"events.poller.*"},
			want:     []string{"events.poller.*", "events.inventory.sync"},
		},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			got := ensureSubjectList(append([]string(nil), tc.subjects...), DefaultEventsSubject)
			assert.Equal(t, tc.want, got)
		})
	}
}

func TestMatchesSubject(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		pattern  string
		subject  string
		expected bool
	}{
		{"exact match", "events.inventory.sync", "events.inventory.sync", true},
		{"single wildcard", "events.*.sync", "events.inventory.sync", true},
		{"greater wildcard", "events.>", "events.inventory.sync", true},
		{"greater wildcard needs a token", "events.inventory.sync.>", "events.inventory.sync", false},
		{"no match length", "events.*", "events.inventory.sync", false},
		{"no match tokens", "inventory.snapshots.*", "events.inventory.sync", false},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, matchesSubject(tc.pattern, tc.subject))
		})
	}
}

func TestIsStreamMissingErr(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name     string
		err      error
		expected bool
	}{
		{"jetstream no stream response", jetstream.ErrNoStreamResponse, true},
		{"jetstream stream not found", jetstream.ErrStreamNotFound, true},
		{"nats no stream response", nats.ErrNoStreamResponse, true},
		{"nats stream not found", nats.ErrStreamNotFound, true},
		{"nats no responders", nats.ErrNoResponders, true},
		{"other error", errTestFixture, false},
	}

	for _, tc := range tests {
		tc := tc

		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			assert.Equal(t, tc.expected, isStreamMissingErr(tc.err))
		})
	}
}
