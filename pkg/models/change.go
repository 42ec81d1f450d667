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

package models

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

var ErrUnknownChangeKind = errors.New("unknown change kind")

// ChangeKind discriminates the append-only change records.
type ChangeKind string

const (
	// ChangeRegistered records a row created in the catalog.
	ChangeRegistered ChangeKind = "registered"
	// ChangeAttached records components that joined a device.
	ChangeAttached ChangeKind = "attached"
	// ChangeDetached records components that left a device.
	ChangeDetached ChangeKind = "detached"
)

func ParseChangeKind(s string) (ChangeKind, error) {
	switch kind := ChangeKind(s); kind {
	case ChangeRegistered, ChangeAttached, ChangeDetached:
		return kind, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownChangeKind, s)
	}
}

// ChangeRecord is an immutable audit entry produced by a synchronization run.
// For Registered records ComponentIDs is empty and DeviceID is the new row.
type ChangeRecord struct {
	ID           uuid.UUID  `json:"id"`
	SnapshotID   string     `json:"snapshot_id,omitempty"`
	Kind         ChangeKind `json:"kind"`
	DeviceID     int64      `json:"device_id"`
	ComponentIDs []int64    `json:"component_ids,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
}

// NewAttached builds an Attached record; ids are stored in ascending order.
func NewAttached(deviceID int64, components IDSet) *ChangeRecord {
	return newChangeRecord(ChangeAttached, deviceID, components.Sorted())
}

// NewDetached builds a Detached record; ids are stored in ascending order.
func NewDetached(deviceID int64, components IDSet) *ChangeRecord {
	return newChangeRecord(ChangeDetached, deviceID, components.Sorted())
}

func NewRegistered(deviceID int64) *ChangeRecord {
	return newChangeRecord(ChangeRegistered, deviceID, nil)
}

func newChangeRecord(kind ChangeKind, deviceID int64, components []int64) *ChangeRecord {
	return &ChangeRecord{
		ID:           uuid.New(),
		Kind:         kind,
		DeviceID:     deviceID,
		ComponentIDs: components,
		CreatedAt:    time.Now().UTC(),
	}
}
