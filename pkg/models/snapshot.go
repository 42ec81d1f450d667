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

import "time"

// Severity of a processed snapshot.
type Severity string

const (
	SeverityInfo    Severity = "info"
	SeverityWarning Severity = "warning"
)

// Snapshot is an inventory report as it arrives on the wire.
//
// Components distinguishes "unknown" from "none": a missing or null array
// decodes to a nil slice and leaves the stored composition alone, while an
// empty array strips every component from the device.
type Snapshot struct {
	UUID          string         `json:"uuid"`
	OwnerID       string         `json:"owner_id"`
	Software      string         `json:"software,omitempty"`
	Version       string         `json:"version,omitempty"`
	ForceCreation bool           `json:"force_creation,omitempty"`
	Device        DeviceReport   `json:"device"`
	Components    []DeviceReport `json:"components"`
	Created       time.Time      `json:"created,omitempty"`
}

// DeviceReport describes one device or component inside a snapshot.
type DeviceReport struct {
	Type string `json:"type"`
	PhysicalProperties
	Tags []string `json:"tags,omitempty"`
}

// SyncOutcome is the committed result of processing one snapshot.
type SyncOutcome struct {
	SnapshotID   string          `json:"snapshot_id"`
	OwnerID      string          `json:"owner_id"`
	DeviceID     int64           `json:"device_id"`
	Kind         DeviceKind      `json:"type"`
	HID          string          `json:"hid,omitempty"`
	ComponentIDs []int64         `json:"component_ids"`
	Changes      []*ChangeRecord `json:"changes"`
	Registered   []int64         `json:"registered,omitempty"`
	Severity     Severity        `json:"severity"`
	ProcessedAt  time.Time       `json:"processed_at"`
}
