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
	"errors"
	"fmt"
	"reflect"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"

	"github.com/carverauto/devicesync/pkg/db"
	"github.com/carverauto/devicesync/pkg/identitymap"
	"github.com/carverauto/devicesync/pkg/models"
)

const testOwner = "owner-1"

var errTestCommit = errors.New("commit failed: connection lost")

// fakeCatalog is an in-memory catalog. Writes apply immediately and every
// write leaves an undo entry on its transaction, so a failed savepoint or
// commit takes back exactly what that transaction wrote. Like a sequence,
// nextID is never rolled back. The (owner_id, hid) uniqueness of the real
// schema is enforced.
type fakeCatalog struct {
	mu      sync.Mutex
	nextID  int64
	devices map[int64]*models.Device
	tags    []*models.Tag
	records []*models.ChangeRecord

	// beforeInsert, when set, runs without the lock before every insert.
	beforeInsert func()

	// failCommits makes that many commits fail. With retryCommits the
	// callback then runs again, as WithTx does after a transient error.
	failCommits  int
	retryCommits bool
	attempts     int
}

var (
	_ db.Service = (*fakeCatalog)(nil)
	_ db.Tx      = (*fakeTx)(nil)
)

func newFakeCatalog() *fakeCatalog {
	return &fakeCatalog{devices: make(map[int64]*models.Device)}
}

func (c *fakeCatalog) WithTx(_ context.Context, fn func(db.Tx) error) error {
	for {
		tx := &fakeTx{c: c}

		c.mu.Lock()
		c.attempts++
		c.mu.Unlock()

		err := fn(tx)
		if err == nil && c.takeCommitFailure() {
			err = errTestCommit
		}

		if err == nil {
			return nil
		}

		tx.rollbackTo(0)

		if !errors.Is(err, errTestCommit) || !c.retryCommits {
			return err
		}
	}
}

func (c *fakeCatalog) takeCommitFailure() bool {
	c.mu.Lock()
	defer c.mu.Unlock()

	if c.failCommits == 0 {
		return false
	}

	c.failCommits--

	return true
}

func (c *fakeCatalog) attemptCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.attempts
}

func (*fakeCatalog) Close() error { return nil }

// seed stores device as-is and returns its id.
func (c *fakeCatalog) seed(device *models.Device) int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.nextID++
	stored := *device
	stored.ID = c.nextID
	stored.Components = nil
	stored.TagIDs = nil
	c.devices[stored.ID] = &stored

	return stored.ID
}

func (c *fakeCatalog) seedTag(tag *models.Tag) {
	c.mu.Lock()
	defer c.mu.Unlock()

	stored := *tag
	c.tags = append(c.tags, &stored)
}

func (c *fakeCatalog) device(id int64) *models.Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	d, ok := c.devices[id]
	if !ok {
		return nil
	}

	out := *d

	return &out
}

func (c *fakeCatalog) deviceByHID(ownerID, hid string) *models.Device {
	c.mu.Lock()
	defer c.mu.Unlock()

	for _, d := range c.devices {
		if d.OwnerID == ownerID && d.HIDValue() == hid {
			out := *d
			return &out
		}
	}

	return nil
}

func (c *fakeCatalog) deviceCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()

	return len(c.devices)
}

func (c *fakeCatalog) componentsOf(parentID int64) []int64 {
	c.mu.Lock()
	defer c.mu.Unlock()

	return c.componentsOfLocked(parentID)
}

func (c *fakeCatalog) componentsOfLocked(parentID int64) []int64 {
	ids := []int64{}

	for id, d := range c.devices {
		if d.ParentID != nil && *d.ParentID == parentID {
			ids = append(ids, id)
		}
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	return ids
}

func (c *fakeCatalog) tag(ownerID, id string) *models.Tag {
	c.mu.Lock()
	defer c.mu.Unlock()

	if tag := c.findTagLocked(ownerID, id); tag != nil {
		out := *tag
		return &out
	}

	return nil
}

func (c *fakeCatalog) findTagLocked(ownerID, id string) *models.Tag {
	for _, tag := range c.tags {
		if tag.OwnerID != ownerID {
			continue
		}

		if tag.ID == id || tag.Secondary != nil && *tag.Secondary == id {
			return tag
		}
	}

	return nil
}

func (c *fakeCatalog) changeRecords() []*models.ChangeRecord {
	c.mu.Lock()
	defer c.mu.Unlock()

	return append([]*models.ChangeRecord(nil), c.records...)
}

type fakeTx struct {
	c *fakeCatalog

	// undo entries run under c.mu, newest first
	undo []func()
}

func (t *fakeTx) Savepoint(_ context.Context, fn func(db.Tx) error) error {
	mark := len(t.undo)

	if err := fn(t); err != nil {
		t.rollbackTo(mark)
		return err
	}

	return nil
}

func (t *fakeTx) rollbackTo(mark int) {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	for i := len(t.undo) - 1; i >= mark; i-- {
		t.undo[i]()
	}

	t.undo = t.undo[:mark]
}

func (t *fakeTx) GetDeviceByID(_ context.Context, id int64) (*models.Device, error) {
	return t.c.device(id), nil
}

func (t *fakeTx) GetDeviceByHID(_ context.Context, ownerID string, kind models.DeviceKind, hid string) (*models.Device, error) {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	for _, d := range t.c.devices {
		if d.OwnerID == ownerID && d.Kind == kind && d.HIDValue() == hid {
			out := *d
			return &out, nil
		}
	}

	return nil, nil
}

func (t *fakeTx) FindSimilarComponent(_ context.Context, q *db.SimilarComponentQuery) (*models.Device, error) {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	excluded := models.NewIDSet(q.Exclude...)

	ids := make([]int64, 0, len(t.c.devices))
	for id := range t.c.devices {
		ids = append(ids, id)
	}

	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	for _, id := range ids {
		d := t.c.devices[id]

		if d.OwnerID != q.OwnerID || d.Kind != q.Kind || d.HID != nil || excluded.Has(id) {
			continue
		}

		if !reflect.DeepEqual(d.ParentID, q.ParentID) || !reflect.DeepEqual(d.PhysicalProperties, q.Properties) {
			continue
		}

		out := *d

		return &out, nil
	}

	return nil, nil
}

func (t *fakeTx) ListComponentIDs(_ context.Context, parentID int64) ([]int64, error) {
	return t.c.componentsOf(parentID), nil
}

func (t *fakeTx) InsertDevice(_ context.Context, device *models.Device) error {
	if t.c.beforeInsert != nil {
		t.c.beforeInsert()
	}

	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	if device.HID != nil {
		for _, d := range t.c.devices {
			if d.OwnerID == device.OwnerID && d.HIDValue() == *device.HID {
				return &pgconn.PgError{
					Code:           "23505",
					ConstraintName: "devices_owner_hid_key",
					Detail:         fmt.Sprintf("Key (owner_id, hid)=(%s, %s) already exists.", device.OwnerID, *device.HID),
				}
			}
		}
	}

	t.c.nextID++
	device.ID = t.c.nextID
	device.CreatedAt = time.Now().UTC()
	device.UpdatedAt = device.CreatedAt

	stored := *device
	stored.Components = nil
	stored.TagIDs = nil
	t.c.devices[device.ID] = &stored

	id := device.ID
	t.undo = append(t.undo, func() { delete(t.c.devices, id) })

	return nil
}

func (t *fakeTx) UpdateDeviceProperties(_ context.Context, device *models.Device) error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	stored, ok := t.c.devices[device.ID]
	if !ok {
		return db.ErrDeviceNotPersisted
	}

	if device.HID != nil {
		for id, d := range t.c.devices {
			if id != device.ID && d.OwnerID == device.OwnerID && d.HIDValue() == *device.HID {
				return &pgconn.PgError{
					Code:           "23505",
					ConstraintName: "devices_owner_hid_key",
					Detail:         fmt.Sprintf("Key (owner_id, hid)=(%s, %s) already exists.", device.OwnerID, *device.HID),
				}
			}
		}
	}

	before := *stored
	t.undo = append(t.undo, func() { *stored = before })

	stored.HID = device.HID
	stored.PhysicalProperties = device.PhysicalProperties
	stored.UpdatedAt = time.Now().UTC()

	return nil
}

func (t *fakeTx) SetParent(_ context.Context, parentID *int64, componentIDs []int64) error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	for _, id := range componentIDs {
		stored, ok := t.c.devices[id]
		if !ok {
			continue
		}

		previous := stored.ParentID
		t.undo = append(t.undo, func() { stored.ParentID = previous })

		if parentID == nil {
			stored.ParentID = nil
			continue
		}

		p := *parentID
		stored.ParentID = &p
	}

	return nil
}

func (t *fakeTx) GetTags(_ context.Context, ownerID string, ids []string) ([]*models.Tag, error) {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	var out []*models.Tag

	for _, id := range ids {
		if tag := t.c.findTagLocked(ownerID, id); tag != nil {
			cp := *tag
			out = append(out, &cp)
		}
	}

	return out, nil
}

func (t *fakeTx) LinkTags(_ context.Context, ownerID string, ids []string, deviceID int64) error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	for _, id := range ids {
		tag := t.c.findTagLocked(ownerID, id)
		if tag == nil {
			linked := deviceID
			issued := &models.Tag{ID: id, OwnerID: ownerID, DeviceID: &linked}
			t.c.tags = append(t.c.tags, issued)
			t.undo = append(t.undo, func() { t.c.tags = removeTag(t.c.tags, issued) })

			continue
		}

		if tag.DeviceID == nil {
			linked := deviceID
			tag.DeviceID = &linked
			t.undo = append(t.undo, func() { tag.DeviceID = nil })
		}
	}

	return nil
}

func (t *fakeTx) InsertChangeRecords(_ context.Context, records []*models.ChangeRecord) error {
	t.c.mu.Lock()
	defer t.c.mu.Unlock()

	t.c.records = append(t.c.records, records...)

	t.undo = append(t.undo, func() {
		kept := t.c.records[:0]

		for _, r := range t.c.records {
			if !slices.Contains(records, r) {
				kept = append(kept, r)
			}
		}

		t.c.records = kept
	})

	return nil
}

func removeTag(tags []*models.Tag, tag *models.Tag) []*models.Tag {
	return slices.DeleteFunc(tags, func(t *models.Tag) bool { return t == tag })
}

func strPtr(s string) *string { return &s }

func int64Ptr(v int64) *int64 { return &v }

// report builds a snapshot entry; an empty serial leaves the device without
// a hid.
func report(kind models.DeviceKind, manufacturer, model, serial string, tags ...string) models.DeviceReport {
	r := models.DeviceReport{
		Type: string(kind),
		Tags: tags,
	}

	r.Manufacturer = strPtr(manufacturer)
	r.Model = strPtr(model)

	if serial != "" {
		r.SerialNumber = strPtr(serial)
	}

	return r
}

func transient(kind models.DeviceKind, manufacturer, model, serial string, tags ...string) *models.Device {
	r := report(kind, manufacturer, model, serial, tags...)
	return newTransientDevice(testOwner, &r)
}

func hidOf(kind models.DeviceKind, manufacturer, model, serial string) string {
	hid, ok := identitymap.BuildHID(string(kind), manufacturer, model, serial)
	if !ok {
		panic("test device has no hid")
	}

	return hid
}
