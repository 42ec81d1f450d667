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

package db

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/carverauto/devicesync/pkg/models"
)

const deviceColumns = `id, kind, hid, owner_id, parent_id,
	manufacturer, model, serial_number, weight, width, height,
	memory, size, speed, cores, slots, usb,
	created_at, updated_at`

const (
	selectDeviceByIDSQL = `SELECT ` + deviceColumns + `
FROM devices
WHERE id = $1`

	selectDeviceByHIDSQL = `SELECT ` + deviceColumns + `
FROM devices
WHERE owner_id = $1 AND kind = $2 AND hid = $3`

	// Physical properties compare with IS NOT DISTINCT FROM so that two
	// unknown values count as equal.
	selectSimilarComponentSQL = `SELECT ` + deviceColumns + `
FROM devices
WHERE owner_id = $1
  AND kind = $2
  AND hid IS NULL
  AND parent_id IS NOT DISTINCT FROM $3
  AND manufacturer IS NOT DISTINCT FROM $4
  AND model IS NOT DISTINCT FROM $5
  AND serial_number IS NOT DISTINCT FROM $6
  AND weight IS NOT DISTINCT FROM $7
  AND width IS NOT DISTINCT FROM $8
  AND height IS NOT DISTINCT FROM $9
  AND memory IS NOT DISTINCT FROM $10
  AND size IS NOT DISTINCT FROM $11
  AND speed IS NOT DISTINCT FROM $12
  AND cores IS NOT DISTINCT FROM $13
  AND slots IS NOT DISTINCT FROM $14
  AND usb IS NOT DISTINCT FROM $15
  AND NOT (id = ANY($16))
ORDER BY id
LIMIT 1`

	selectComponentIDsSQL = `SELECT id FROM devices WHERE parent_id = $1 ORDER BY id`

	insertDeviceSQL = `INSERT INTO devices (
	kind, hid, owner_id, parent_id,
	manufacturer, model, serial_number, weight, width, height,
	memory, size, speed, cores, slots, usb
) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16)
RETURNING id, created_at, updated_at`

	// hid is written with the properties it is derived from.
	updateDevicePropertiesSQL = `UPDATE devices SET
	hid = $2,
	manufacturer = $3, model = $4, serial_number = $5,
	weight = $6, width = $7, height = $8,
	memory = $9, size = $10, speed = $11, cores = $12, slots = $13, usb = $14,
	updated_at = now()
WHERE id = $1
RETURNING updated_at`

	setParentSQL = `UPDATE devices SET parent_id = $1, updated_at = now() WHERE id = ANY($2)`

	selectTagsSQL = `SELECT id, secondary, owner_id, device_id
FROM tags
WHERE owner_id = $1 AND (id = ANY($2) OR secondary = ANY($2))
ORDER BY id`

	// Links an unlinked tag, or issues the tag when the owner has never seen
	// it. A tag already linked to a device is left alone.
	linkTagSQL = `WITH linked AS (
	UPDATE tags SET device_id = $3
	WHERE owner_id = $1 AND (id = $2 OR secondary = $2) AND device_id IS NULL
	RETURNING id
)
INSERT INTO tags (id, owner_id, device_id)
SELECT $2, $1, $3
WHERE NOT EXISTS (SELECT 1 FROM tags WHERE owner_id = $1 AND (id = $2 OR secondary = $2))
ON CONFLICT (id, owner_id) DO NOTHING`

	insertChangeRecordSQL = `INSERT INTO device_change_records (
	id, snapshot_id, kind, device_id, component_ids, created_at
) VALUES ($1, $2, $3, $4, $5, $6)`
)

// cnpgTx implements Tx on top of a pgx transaction. Nested transactions are
// SAVEPOINTs.
type cnpgTx struct {
	tx pgx.Tx
}

var _ Tx = (*cnpgTx)(nil)

func (t *cnpgTx) Savepoint(ctx context.Context, fn func(Tx) error) error {
	nested, err := t.tx.Begin(ctx)
	if err != nil {
		return fmt.Errorf("cnpg savepoint: %w", err)
	}

	if err := fn(&cnpgTx{tx: nested}); err != nil {
		if rbErr := nested.Rollback(ctx); rbErr != nil {
			return errors.Join(err, fmt.Errorf("cnpg rollback to savepoint: %w", rbErr))
		}

		return err
	}

	if err := nested.Commit(ctx); err != nil {
		return fmt.Errorf("cnpg release savepoint: %w", err)
	}

	return nil
}

func (t *cnpgTx) GetDeviceByID(ctx context.Context, id int64) (*models.Device, error) {
	return scanDevice(t.tx.QueryRow(ctx, selectDeviceByIDSQL, id))
}

func (t *cnpgTx) GetDeviceByHID(ctx context.Context, ownerID string, kind models.DeviceKind, hid string) (*models.Device, error) {
	return scanDevice(t.tx.QueryRow(ctx, selectDeviceByHIDSQL, ownerID, string(kind), hid))
}

func (t *cnpgTx) FindSimilarComponent(ctx context.Context, query *SimilarComponentQuery) (*models.Device, error) {
	if query == nil {
		return nil, nil
	}

	return scanDevice(t.tx.QueryRow(ctx, selectSimilarComponentSQL, similarComponentArgs(query)...))
}

func (t *cnpgTx) ListComponentIDs(ctx context.Context, parentID int64) ([]int64, error) {
	rows, err := t.tx.Query(ctx, selectComponentIDsSQL, parentID)
	if err != nil {
		return nil, fmt.Errorf("%w: components of %d: %w", ErrFailedToQuery, parentID, err)
	}

	ids, err := pgx.CollectRows(rows, pgx.RowTo[int64])
	if err != nil {
		return nil, fmt.Errorf("%w: components of %d: %w", ErrFailedToScan, parentID, err)
	}

	return ids, nil
}

// InsertDevice persists a new device and fills in its id and timestamps. A
// unique violation is returned as a *UniqueViolation.
func (t *cnpgTx) InsertDevice(ctx context.Context, device *models.Device) error {
	if device == nil {
		return ErrDeviceNil
	}

	if device.ID != 0 {
		return ErrDeviceAlreadyPersisted
	}

	err := t.tx.QueryRow(ctx, insertDeviceSQL, insertDeviceArgs(device)...).
		Scan(&device.ID, &device.CreatedAt, &device.UpdatedAt)
	if err != nil {
		if violation, ok := AsUniqueViolation(err); ok {
			return violation
		}

		return fmt.Errorf("%w: device: %w", ErrFailedToInsert, err)
	}

	return nil
}

func (t *cnpgTx) UpdateDeviceProperties(ctx context.Context, device *models.Device) error {
	if device == nil {
		return ErrDeviceNil
	}

	if device.ID == 0 {
		return ErrDeviceNotPersisted
	}

	err := t.tx.QueryRow(ctx, updateDevicePropertiesSQL, updateDeviceArgs(device)...).Scan(&device.UpdatedAt)
	if err != nil {
		if violation, ok := AsUniqueViolation(err); ok {
			return violation
		}

		return fmt.Errorf("%w: device %d: %w", ErrFailedToUpdate, device.ID, err)
	}

	return nil
}

func (t *cnpgTx) SetParent(ctx context.Context, parentID *int64, componentIDs []int64) error {
	if len(componentIDs) == 0 {
		return nil
	}

	if _, err := t.tx.Exec(ctx, setParentSQL, parentID, componentIDs); err != nil {
		return fmt.Errorf("%w: parent of %v: %w", ErrFailedToUpdate, componentIDs, err)
	}

	return nil
}

func (t *cnpgTx) GetTags(ctx context.Context, ownerID string, ids []string) ([]*models.Tag, error) {
	if len(ids) == 0 {
		return nil, nil
	}

	rows, err := t.tx.Query(ctx, selectTagsSQL, ownerID, ids)
	if err != nil {
		return nil, fmt.Errorf("%w: tags: %w", ErrFailedToQuery, err)
	}

	tags, err := pgx.CollectRows(rows, func(row pgx.CollectableRow) (*models.Tag, error) {
		var tag models.Tag

		err := row.Scan(&tag.ID, &tag.Secondary, &tag.OwnerID, &tag.DeviceID)

		return &tag, err
	})
	if err != nil {
		return nil, fmt.Errorf("%w: tags: %w", ErrFailedToScan, err)
	}

	return tags, nil
}

func (t *cnpgTx) LinkTags(ctx context.Context, ownerID string, ids []string, deviceID int64) error {
	if len(ids) == 0 {
		return nil
	}

	batch := &pgx.Batch{}
	for _, id := range ids {
		batch.Queue(linkTagSQL, ownerID, id, deviceID)
	}

	return sendBatch(ctx, t.tx, batch, "tags")
}

func (t *cnpgTx) InsertChangeRecords(ctx context.Context, records []*models.ChangeRecord) error {
	if len(records) == 0 {
		return nil
	}

	batch := &pgx.Batch{}

	for _, record := range records {
		if record == nil {
			continue
		}

		componentIDs := record.ComponentIDs
		if componentIDs == nil {
			componentIDs = []int64{}
		}

		batch.Queue(insertChangeRecordSQL,
			record.ID,
			nullableString(record.SnapshotID),
			string(record.Kind),
			record.DeviceID,
			componentIDs,
			record.CreatedAt,
		)
	}

	return sendBatch(ctx, t.tx, batch, "change_records")
}

func sendBatch(ctx context.Context, tx pgx.Tx, batch *pgx.Batch, name string) (err error) {
	br := tx.SendBatch(ctx, batch)
	defer func() {
		if closeErr := br.Close(); closeErr != nil && err == nil {
			err = fmt.Errorf("cnpg %s batch close: %w", name, closeErr)
		}
	}()

	for i := 0; i < batch.Len(); i++ {
		if _, err = br.Exec(); err != nil {
			return fmt.Errorf("%w: %s (command %d): %w", ErrFailedToInsert, name, i, err)
		}
	}

	return nil
}

func scanDevice(row pgx.Row) (*models.Device, error) {
	var (
		device models.Device
		kind   string
		p      = &device.PhysicalProperties
	)

	err := row.Scan(
		&device.ID, &kind, &device.HID, &device.OwnerID, &device.ParentID,
		&p.Manufacturer, &p.Model, &p.SerialNumber, &p.Weight, &p.Width, &p.Height,
		&p.Memory, &p.Size, &p.Speed, &p.Cores, &p.Slots, &p.USB,
		&device.CreatedAt, &device.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}

	if err != nil {
		return nil, fmt.Errorf("%w: device: %w", ErrFailedToScan, err)
	}

	device.Kind = models.DeviceKind(kind)

	return &device, nil
}

func insertDeviceArgs(d *models.Device) []interface{} {
	p := &d.PhysicalProperties

	return []interface{}{
		string(d.Kind), d.HID, d.OwnerID, d.ParentID,
		p.Manufacturer, p.Model, p.SerialNumber, p.Weight, p.Width, p.Height,
		p.Memory, p.Size, p.Speed, p.Cores, p.Slots, p.USB,
	}
}

func updateDeviceArgs(d *models.Device) []interface{} {
	p := &d.PhysicalProperties

	return []interface{}{
		d.ID, d.HID,
		p.Manufacturer, p.Model, p.SerialNumber,
		p.Weight, p.Width, p.Height,
		p.Memory, p.Size, p.Speed, p.Cores, p.Slots, p.USB,
	}
}

func similarComponentArgs(q *SimilarComponentQuery) []interface{} {
	p := &q.Properties

	// a NULL array would make "id = ANY" NULL and filter every row
	exclude := q.Exclude
	if exclude == nil {
		exclude = []int64{}
	}

	return []interface{}{
		q.OwnerID, string(q.Kind), q.ParentID,
		p.Manufacturer, p.Model, p.SerialNumber, p.Weight, p.Width, p.Height,
		p.Memory, p.Size, p.Speed, p.Cores, p.Slots, p.USB,
		exclude,
	}
}

func nullableString(s string) *string {
	if s == "" {
		return nil
	}

	return &s
}
