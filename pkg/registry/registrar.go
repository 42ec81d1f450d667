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
	"fmt"

	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/identitymap"
	"github.com/carverauto/devicesync/pkg/models"
)

// Register resolves transient to a persisted device, creating it when no
// match exists. It returns the persisted device and whether this call
// created it.
//
// parent is the computer a component is being registered under, or nil.
// blacklist is shared by every Register call of one synchronization run.
func (e *Engine) Register(
	ctx context.Context,
	tx db.Tx,
	ownerID string,
	transient *models.Device,
	blacklist models.IDSet,
	forceCreation bool,
	parent *models.Device,
) (*models.Device, bool, error) {
	return e.register(ctx, tx, &runStats{}, ownerID, transient, blacklist, forceCreation, parent)
}

func (e *Engine) register(
	ctx context.Context,
	tx db.Tx,
	stats *runStats,
	ownerID string,
	transient *models.Device,
	blacklist models.IDSet,
	forceCreation bool,
	parent *models.Device,
) (*models.Device, bool, error) {
	if transient == nil {
		return nil, false, ErrSyncRequestInvalid
	}

	if blacklist == nil {
		blacklist = models.NewIDSet()
	}

	transient.OwnerID = ownerID

	device, strategy, err := e.match(ctx, tx, stats, transient, parent, blacklist)
	if err != nil {
		return nil, false, err
	}

	isNew := false

	switch {
	case device != nil:
		if device.OwnerID != ownerID {
			return nil, false, fmt.Errorf("%w: device %d", ErrInsufficientPermission, device.ID)
		}

		if err := e.mergeAndUpdate(ctx, tx, stats, transient, device); err != nil {
			return nil, false, err
		}

		stats.registration(strategy.outcome())

	case transient.Kind.IsComputer() && transient.HID == nil && !forceCreation:
		return nil, false, fmt.Errorf("%w: %s", ErrNeedsIdentity, transient.Kind)

	default:
		device, isNew, err = e.insert(ctx, tx, stats, transient)
		if err != nil {
			return nil, false, err
		}

		if isNew {
			stats.registration(outcomeCreated)
		}
	}

	if len(transient.TagIDs) > 0 {
		if err := tx.LinkTags(ctx, ownerID, transient.TagIDs, device.ID); err != nil {
			return nil, false, fmt.Errorf("link tags to device %d: %w", device.ID, err)
		}
	}

	e.logger.Debug().
		Int64("device_id", device.ID).
		Str("type", string(device.Kind)).
		Str("hid", device.HIDValue()).
		Str("strategy", string(strategy)).
		Bool("is_new", isNew).
		Msg("registered device")

	return device, isNew, nil
}

// insert creates a catalog row for transient inside a savepoint. When another
// writer registered the same identity first, the savepoint is rolled back and
// the winner's row is returned instead.
func (e *Engine) insert(ctx context.Context, tx db.Tx, stats *runStats, transient *models.Device) (*models.Device, bool, error) {
	row := newCatalogRow(transient)

	err := tx.Savepoint(ctx, func(sp db.Tx) error {
		return sp.InsertDevice(ctx, row)
	})
	if err == nil {
		return row, true, nil
	}

	violation, ok := db.AsUniqueViolation(err)
	if !ok {
		return nil, false, err
	}

	stats.conflict(conflictDetected)

	e.logger.Info().
		Str("constraint", violation.Constraint).
		Str("column", violation.Column).
		Str("hid", transient.HIDValue()).
		Bool("from_detail", violation.FromDetail).
		Msg("device registered concurrently, re-resolving")

	existing, err := e.resolveConflict(ctx, tx, transient, violation)
	if err != nil {
		return nil, false, err
	}

	if existing == nil {
		return nil, false, fmt.Errorf("%w: %w", ErrConflictRetryExhausted, violation)
	}

	if existing.OwnerID != transient.OwnerID {
		return nil, false, fmt.Errorf("%w: device %d", ErrInsufficientPermission, existing.ID)
	}

	if err := e.mergeAndUpdate(ctx, tx, stats, transient, existing); err != nil {
		return nil, false, err
	}

	stats.conflict(conflictResolved)

	return existing, false, nil
}

// resolveConflict looks the device up again by the column that conflicted.
func (*Engine) resolveConflict(
	ctx context.Context,
	tx db.Tx,
	transient *models.Device,
	violation *db.UniqueViolation,
) (*models.Device, error) {
	switch violation.Column {
	case db.ConflictColumnHID:
		if transient.HID == nil {
			return nil, nil
		}

		device, err := tx.GetDeviceByHID(ctx, transient.OwnerID, transient.Kind, *transient.HID)
		if err != nil {
			return nil, fmt.Errorf("re-resolve by hid: %w", err)
		}

		return device, nil
	default:
		return nil, fmt.Errorf("%w: %w %q", ErrConflictRetryExhausted, db.ErrUnsupportedConflictColumn, violation.Column)
	}
}

// mergeAndUpdate merges src into dst, derives dst's hid again from the merged
// properties and persists dst when either changed. A hid that cannot be
// derived leaves the stored one in place.
//
// When the derived hid already belongs to another device of the owner, dst
// keeps its stored hid and only the properties are written.
func (e *Engine) mergeAndUpdate(ctx context.Context, tx db.Tx, stats *runStats, src, dst *models.Device) error {
	merged := mergePhysicalProperties(src, dst)

	storedHID := dst.HID
	derivedHID := identitymap.HIDForDevice(dst)
	rekeyed := derivedHID != nil && !sameHID(storedHID, derivedHID)

	if !merged && !rekeyed {
		return nil
	}

	if rekeyed {
		dst.HID = derivedHID
	}

	err := tx.Savepoint(ctx, func(sp db.Tx) error {
		return sp.UpdateDeviceProperties(ctx, dst)
	})
	if err == nil {
		if rekeyed {
			e.logger.Info().
				Int64("device_id", dst.ID).
				Str("previous_hid", hidValue(storedHID)).
				Str("hid", dst.HIDValue()).
				Msg("re-derived device hid")
		}

		return nil
	}

	violation, ok := db.AsUniqueViolation(err)
	if !ok || !rekeyed {
		dst.HID = storedHID
		return fmt.Errorf("update device %d: %w", dst.ID, err)
	}

	stats.conflict(conflictKeptHID)

	e.logger.Warn().
		Int64("device_id", dst.ID).
		Str("hid", dst.HIDValue()).
		Str("constraint", violation.Constraint).
		Msg("derived hid belongs to another device; keeping the stored hid")

	dst.HID = storedHID

	if err := tx.UpdateDeviceProperties(ctx, dst); err != nil {
		return fmt.Errorf("update device %d: %w", dst.ID, err)
	}

	return nil
}

func sameHID(a, b *string) bool {
	if a == nil || b == nil {
		return a == b
	}

	return *a == *b
}

func hidValue(hid *string) string {
	if hid == nil {
		return ""
	}

	return *hid
}

// newCatalogRow copies the persistable fields of a transient device. New rows
// start without a parent; composition is written after the diff.
func newCatalogRow(transient *models.Device) *models.Device {
	return &models.Device{
		Kind:               transient.Kind,
		HID:                transient.HID,
		OwnerID:            transient.OwnerID,
		PhysicalProperties: transient.PhysicalProperties,
	}
}
