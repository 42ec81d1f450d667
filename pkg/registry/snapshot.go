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
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/carverauto/devicesync/pkg/identitymap"
	"github.com/carverauto/devicesync/pkg/models"
)

// validateSnapshot checks the parts of a snapshot the engine relies on and
// reports every problem at once.
func validateSnapshot(snapshot *models.Snapshot) error {
	if snapshot == nil {
		return ErrSnapshotRequired
	}

	var errs []error

	if strings.TrimSpace(snapshot.OwnerID) == "" {
		errs = append(errs, ErrSnapshotOwnerRequired)
	}

	if snapshot.UUID != "" {
		if _, err := uuid.Parse(snapshot.UUID); err != nil {
			errs = append(errs, fmt.Errorf("%w: %q", ErrInvalidSnapshotUUID, snapshot.UUID))
		}
	}

	kind, err := models.ParseDeviceKind(snapshot.Device.Type)

	switch {
	case err != nil:
		errs = append(errs, fmt.Errorf("device: %w", err))
	case !kind.IsComputer():
		errs = append(errs, fmt.Errorf("%w: %s", ErrDeviceNotComputer, kind))
	}

	errs = append(errs, validateTags("device", snapshot.Device.Tags)...)

	for i := range snapshot.Components {
		report := &snapshot.Components[i]
		where := fmt.Sprintf("component %d", i)

		kind, err := models.ParseDeviceKind(report.Type)

		switch {
		case err != nil:
			errs = append(errs, fmt.Errorf("%s: %w", where, err))
		case !kind.IsComponent():
			errs = append(errs, fmt.Errorf("%s: %w: %s", where, ErrComponentNotComponent, kind))
		}

		errs = append(errs, validateTags(where, report.Tags)...)
	}

	return errors.Join(errs...)
}

func validateTags(where string, tags []string) []error {
	var errs []error

	for _, tag := range tags {
		if strings.Contains(tag, "/") {
			errs = append(errs, fmt.Errorf("%s: %w: %q", where, ErrInvalidTagID, tag))
		}
	}

	return errs
}

// newSyncRequest builds fresh transient devices from a validated snapshot.
// It is called once per transaction attempt so no state leaks between
// retries.
func newSyncRequest(snapshot *models.Snapshot) *SyncRequest {
	req := &SyncRequest{
		OwnerID:       snapshot.OwnerID,
		Device:        newTransientDevice(snapshot.OwnerID, &snapshot.Device),
		ForceCreation: snapshot.ForceCreation,
	}

	if snapshot.Components != nil {
		req.Components = make([]*models.Device, 0, len(snapshot.Components))

		for i := range snapshot.Components {
			req.Components = append(req.Components, newTransientDevice(snapshot.OwnerID, &snapshot.Components[i]))
		}
	}

	return req
}

func newTransientDevice(ownerID string, report *models.DeviceReport) *models.Device {
	device := &models.Device{
		Kind:               models.DeviceKind(report.Type),
		OwnerID:            ownerID,
		PhysicalProperties: report.PhysicalProperties,
	}

	if len(report.Tags) > 0 {
		device.TagIDs = append([]string(nil), report.Tags...)
	}

	device.HID = identitymap.HIDForDevice(device)

	return device
}

// newSyncOutcome summarizes a committed run.
func newSyncOutcome(snapshot *models.Snapshot, result *SyncResult) *models.SyncOutcome {
	device := result.Device

	outcome := &models.SyncOutcome{
		SnapshotID:   snapshot.UUID,
		OwnerID:      snapshot.OwnerID,
		DeviceID:     device.ID,
		Kind:         device.Kind,
		HID:          device.HIDValue(),
		ComponentIDs: device.Components.Sorted(),
		Changes:      result.Changes,
		Severity:     models.SeverityInfo,
		ProcessedAt:  time.Now().UTC(),
	}

	if outcome.Changes == nil {
		outcome.Changes = []*models.ChangeRecord{}
	}

	for _, record := range result.Registered {
		outcome.Registered = append(outcome.Registered, record.DeviceID)
	}

	if device.HID == nil {
		outcome.Severity = models.SeverityWarning
	}

	return outcome
}
