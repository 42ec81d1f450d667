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
	"encoding/json"
	"sort"
	"time"
)

// PhysicalProperties are the measurable attributes of a device. A nil field
// means the value is unknown, never "empty".
type PhysicalProperties struct {
	Manufacturer *string  `json:"manufacturer,omitempty"`
	Model        *string  `json:"model,omitempty"`
	SerialNumber *string  `json:"serial_number,omitempty"`
	Weight       *float64 `json:"weight,omitempty"`
	Width        *float64 `json:"width,omitempty"`
	Height       *float64 `json:"height,omitempty"`

	// Component specific.
	Memory *int64   `json:"memory,omitempty"`
	Size   *int64   `json:"size,omitempty"`
	Speed  *float64 `json:"speed,omitempty"`
	Cores  *int32   `json:"cores,omitempty"`
	Slots  *int32   `json:"slots,omitempty"`
	USB    *int32   `json:"usb,omitempty"`
}

// Device is a catalog entry: either a computer or one of its components.
type Device struct {
	ID      int64      `json:"id"`
	Kind    DeviceKind `json:"type"`
	HID     *string    `json:"hid,omitempty"`
	OwnerID string     `json:"owner_id"`

	PhysicalProperties

	// ParentID is only meaningful for components.
	ParentID *int64 `json:"parent_id,omitempty"`
	// Components is only meaningful for computers. It is reassigned by the
	// composition differ and nowhere else.
	Components IDSet `json:"components,omitempty"`

	// TagIDs are the tag references carried by a transient device.
	TagIDs []string `json:"tags,omitempty"`

	CreatedAt time.Time `json:"created_at,omitempty"`
	UpdatedAt time.Time `json:"updated_at,omitempty"`
}

// IsPersisted reports whether the device has a catalog id.
func (d *Device) IsPersisted() bool {
	return d != nil && d.ID != 0
}

// ParentIDValue returns the parent id or 0 when the component is loose.
func (d *Device) ParentIDValue() int64 {
	if d == nil || d.ParentID == nil {
		return 0
	}

	return *d.ParentID
}

// HIDValue returns the hid or "" when none could be derived.
func (d *Device) HIDValue() string {
	if d == nil || d.HID == nil {
		return ""
	}

	return *d.HID
}

// Tag is a physical label that authoritatively links to a device.
type Tag struct {
	ID        string  `json:"id"`
	Secondary *string `json:"secondary,omitempty"`
	OwnerID   string  `json:"owner_id"`
	DeviceID  *int64  `json:"device_id,omitempty"`
}

// IDSet is a set of catalog ids.
type IDSet map[int64]struct{}

func NewIDSet(ids ...int64) IDSet {
	set := make(IDSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}

	return set
}

func (s IDSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s IDSet) Has(id int64) bool {
	_, ok := s[id]
	return ok
}

func (s IDSet) Len() int {
	return len(s)
}

// Minus returns the ids in s that are not in other.
func (s IDSet) Minus(other IDSet) IDSet {
	out := make(IDSet)

	for id := range s {
		if !other.Has(id) {
			out[id] = struct{}{}
		}
	}

	return out
}

func (s IDSet) Equal(other IDSet) bool {
	if len(s) != len(other) {
		return false
	}

	for id := range s {
		if !other.Has(id) {
			return false
		}
	}

	return true
}

func (s IDSet) Clone() IDSet {
	out := make(IDSet, len(s))
	for id := range s {
		out[id] = struct{}{}
	}

	return out
}

// Sorted returns the ids in ascending order.
func (s IDSet) Sorted() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

// MarshalJSON encodes the set as an ascending array.
func (s IDSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Sorted())
}

func (s *IDSet) UnmarshalJSON(b []byte) error {
	var ids []int64
	if err := json.Unmarshal(b, &ids); err != nil {
		return err
	}

	*s = NewIDSet(ids...)

	return nil
}
