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

// Package registry implements the synchronization engine that reconciles
// inventory snapshots against the device catalog.
package registry

import (
	"context"
	"fmt"

	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/logger"
	"github.com/carverauto/devicesync/pkg/models"
)

// SyncRequest is one device with the components it reported.
//
// Components is tri-state: nil leaves the persisted composition untouched,
// an empty slice detaches every component, anything else replaces the
// composition.
type SyncRequest struct {
	OwnerID       string
	Device        *models.Device
	Components    []*models.Device
	ForceCreation bool
}

// SyncResult is what a synchronization run resolved and changed. Changes
// holds composition records only; rows created by the run are listed in
// Registered.
type SyncResult struct {
	Device     *models.Device
	Components []*models.Device
	Changes    []*models.ChangeRecord
	Registered []*models.ChangeRecord

	stats runStats
}

// Engine resolves devices and composition inside a caller-owned transaction.
// It keeps no state between runs.
type Engine struct {
	logger logger.Logger
}

// NewEngine creates a synchronization engine.
func NewEngine(log logger.Logger) *Engine {
	if log == nil {
		log = logger.NewNopLogger()
	}

	return &Engine{logger: log}
}

// Run registers the device and its components and diffs the composition.
// Nothing about composition is written; see PersistChanges.
func (e *Engine) Run(ctx context.Context, tx db.Tx, req *SyncRequest) (*SyncResult, error) {
	if req == nil || req.Device == nil {
		return nil, ErrSyncRequestInvalid
	}

	result := &SyncResult{}
	blacklist := models.NewIDSet()

	device, isNew, err := e.register(ctx, tx, &result.stats, req.OwnerID, req.Device, blacklist, req.ForceCreation, nil)
	if err != nil {
		return nil, err
	}

	if isNew {
		result.Registered = append(result.Registered, models.NewRegistered(device.ID))
	}

	previous, err := tx.ListComponentIDs(ctx, device.ID)
	if err != nil {
		return nil, fmt.Errorf("load composition of device %d: %w", device.ID, err)
	}

	device.Components = models.NewIDSet(previous...)
	result.Device = device

	if req.Components == nil {
		return result, nil
	}

	components := make([]*models.Device, 0, len(req.Components))

	for _, transient := range req.Components {
		if transient == nil {
			continue
		}

		component, isNew, err := e.register(ctx, tx, &result.stats, req.OwnerID, transient, blacklist, req.ForceCreation, device)
		if err != nil {
			return nil, fmt.Errorf("register %s component: %w", transient.Kind, err)
		}

		if isNew {
			result.Registered = append(result.Registered, models.NewRegistered(component.ID))
		}

		components = append(components, component)
	}

	result.Changes = diffComposition(device, components)
	applyComposition(device, components)
	result.Components = components

	e.logger.Debug().
		Int64("device_id", device.ID).
		Int("components", device.Components.Len()).
		Int("changes", len(result.Changes)).
		Int("registered", len(result.Registered)).
		Msg("synchronization run complete")

	return result, nil
}

// PersistChanges writes the composition changes of result and appends its
// change records, all within tx. Detaches are written before attaches so a
// component moving between parents ends up under the new one.
func (*Engine) PersistChanges(ctx context.Context, tx db.Tx, result *SyncResult, snapshotID string) error {
	if result == nil {
		return nil
	}

	for _, kind := range []models.ChangeKind{models.ChangeDetached, models.ChangeAttached} {
		for _, change := range result.Changes {
			if change.Kind != kind {
				continue
			}

			var parentID *int64

			if kind == models.ChangeAttached {
				id := change.DeviceID
				parentID = &id
			}

			if err := tx.SetParent(ctx, parentID, change.ComponentIDs); err != nil {
				return fmt.Errorf("persist %s of device %d: %w", kind, change.DeviceID, err)
			}
		}
	}

	records := make([]*models.ChangeRecord, 0, len(result.Registered)+len(result.Changes))
	records = append(records, result.Registered...)
	records = append(records, result.Changes...)

	for _, record := range records {
		record.SnapshotID = snapshotID
	}

	if err := tx.InsertChangeRecords(ctx, records); err != nil {
		return fmt.Errorf("persist change records: %w", err)
	}

	return nil
}
