/*
 * Copyright 2025 Carver Automation Corporation.
 *
 * Licensed under the Apache License, Version 2.0 (the "License");
 * you may not use this file except in compliance with the License.
 * You may obtain a copy of the License at
 *
 *     http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing, software
 * distributed under the License is distributed on an "AS IS" BASIS,
 * WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
 * See the License for the specific language governing permissions and
 * limitations under the License.
 */

package registry

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	otelcodes "go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

const registryTracerName = "devicesync.registry"

// DeviceRegistry runs snapshots through the engine, one catalog transaction
// per snapshot.
type DeviceRegistry struct {
	db        db.Service
	engine    *Engine
	publisher ChangePublisher
	logger    logger.Logger
	tracer    trace.Tracer

	// committed observes every run whose transaction committed.
	committed func(context.Context, *SyncResult)
}

var _ Manager = (*DeviceRegistry)(nil)

// Option configures a DeviceRegistry.
type Option func(*DeviceRegistry)

// WithChangePublisher publishes every committed outcome.
func WithChangePublisher(publisher ChangePublisher) Option {
	return func(r *DeviceRegistry) {
		if r == nil || publisher == nil {
			return
		}

		r.publisher = publisher
	}
}

// NewDeviceRegistry creates the snapshot processor backed by database.
func NewDeviceRegistry(database db.Service, log logger.Logger, opts ...Option) *DeviceRegistry {
	if log == nil {
		log = logger.NewNopLogger()
	}

	r := &DeviceRegistry{
		db:        database,
		engine:    NewEngine(log),
		logger:    log,
		tracer:    logger.GetTracer(registryTracerName),
		committed: recordCommittedRun,
	}

	for _, opt := range opts {
		opt(r)
	}

	return r
}

// ProcessSnapshot validates snapshot, reconciles it in one transaction and
// publishes the committed outcome.
func (r *DeviceRegistry) ProcessSnapshot(ctx context.Context, snapshot *models.Snapshot) (*models.SyncOutcome, error) {
	ctx, span := r.tracer.Start(ctx, "devicesync.ProcessSnapshot")
	defer span.End()

	if err := validateSnapshot(snapshot); err != nil {
		span.RecordError(err)
		span.SetStatus(otelcodes.Error, "invalid snapshot")

		return nil, err
	}

	span.SetAttributes(
		attribute.String("snapshot.uuid", snapshot.UUID),
		attribute.String("snapshot.owner_id", snapshot.OwnerID),
		attribute.String("device.type", snapshot.Device.Type),
		attribute.Int("snapshot.components", len(snapshot.Components)),
	)

	var (
		result  *SyncResult
		outcome *models.SyncOutcome
	)

	// the callback may run again after a transient failure; only the
	// attempt that committed is kept
	err := r.db.WithTx(ctx, func(tx db.Tx) error {
		attempt, err := r.engine.Run(ctx, tx, newSyncRequest(snapshot))
		if err != nil {
			return err
		}

		if err := r.engine.PersistChanges(ctx, tx, attempt, snapshot.UUID); err != nil {
			return err
		}

		result = attempt
		outcome = newSyncOutcome(snapshot, attempt)

		return nil
	})
	if err != nil {
		recordFailedRun(ctx, err)

		span.RecordError(err)
		span.SetStatus(otelcodes.Error, err.Error())

		r.logger.Warn().
			Err(err).
			Str("snapshot", snapshot.UUID).
			Str("owner_id", snapshot.OwnerID).
			Msg("snapshot synchronization failed")

		return nil, err
	}

	r.committed(ctx, result)

	span.SetAttributes(
		attribute.Int64("device.id", outcome.DeviceID),
		attribute.Int("changes", len(outcome.Changes)),
	)
	span.SetStatus(otelcodes.Ok, "synchronized")

	if outcome.Severity == models.SeverityWarning {
		r.logger.Warn().
			Str("snapshot", outcome.SnapshotID).
			Int64("device_id", outcome.DeviceID).
			Msg("device synchronized without a hardware id")
	}

	r.logger.Info().
		Str("snapshot", outcome.SnapshotID).
		Int64("device_id", outcome.DeviceID).
		Str("hid", outcome.HID).
		Int("components", len(outcome.ComponentIDs)).
		Int("changes", len(outcome.Changes)).
		Int("registered", len(outcome.Registered)).
		Msg("snapshot synchronized")

	r.publish(ctx, outcome)

	return outcome, nil
}

// publish is best effort; the catalog is already committed.
func (r *DeviceRegistry) publish(ctx context.Context, outcome *models.SyncOutcome) {
	if r.publisher == nil {
		return
	}

	if err := r.publisher.PublishSyncOutcome(ctx, outcome); err != nil {
		r.logger.Error().
			Err(err).
			Str("snapshot", outcome.SnapshotID).
			Int64("device_id", outcome.DeviceID).
			Msg("failed to publish sync outcome")
	}
}
