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
	"github.com/carverauto/devicesync/pkg/models"
)

// matchStrategy records which rule resolved a transient device.
type matchStrategy string

const (
	matchNone    matchStrategy = ""
	matchTag     matchStrategy = "tag"
	matchHID     matchStrategy = "hid"
	matchSimilar matchStrategy = "similar"
)

func (s matchStrategy) outcome() string {
	switch s {
	case matchTag:
		return outcomeMatchedTag
	case matchHID:
		return outcomeMatchedHID
	case matchSimilar:
		return outcomeMatchedSimilar
	case matchNone:
		return outcomeCreated
	default:
		return string(s)
	}
}

// match finds the persisted device a transient device refers to. Rules are
// tried in order: linked tags, hid equality, then physical similarity for
// anonymous components. A similar match is added to blacklist so no other
// transient in the same run can claim it.
func (e *Engine) match(
	ctx context.Context,
	tx db.Tx,
	stats *runStats,
	transient, parent *models.Device,
	blacklist models.IDSet,
) (*models.Device, matchStrategy, error) {
	device, err := e.matchByTags(ctx, tx, stats, transient)
	if err != nil {
		return nil, matchNone, err
	}

	if device != nil {
		return device, matchTag, nil
	}

	if transient.HID != nil {
		device, err = tx.GetDeviceByHID(ctx, transient.OwnerID, transient.Kind, *transient.HID)
		if err != nil {
			return nil, matchNone, fmt.Errorf("match by hid: %w", err)
		}

		if device != nil {
			return device, matchHID, nil
		}

		return nil, matchNone, nil
	}

	if !transient.Kind.IsComponent() {
		return nil, matchNone, nil
	}

	query := &db.SimilarComponentQuery{
		OwnerID:    transient.OwnerID,
		Kind:       transient.Kind,
		Properties: transient.PhysicalProperties,
		Exclude:    blacklist.Sorted(),
	}

	if parent.IsPersisted() {
		parentID := parent.ID
		query.ParentID = &parentID
	}

	device, err = tx.FindSimilarComponent(ctx, query)
	if err != nil {
		return nil, matchNone, fmt.Errorf("match by similarity: %w", err)
	}

	if device == nil {
		return nil, matchNone, nil
	}

	blacklist.Add(device.ID)

	return device, matchSimilar, nil
}

// matchByTags resolves the device the transient's tags are linked to. Tags
// are authoritative: a hid disagreement is logged but does not override them.
// A tag never resolves a component to a computer or the other way round.
func (e *Engine) matchByTags(ctx context.Context, tx db.Tx, stats *runStats, transient *models.Device) (*models.Device, error) {
	if len(transient.TagIDs) == 0 {
		return nil, nil
	}

	tags, err := tx.GetTags(ctx, transient.OwnerID, transient.TagIDs)
	if err != nil {
		return nil, fmt.Errorf("match by tags: %w", err)
	}

	linked := models.NewIDSet()

	for _, tag := range tags {
		if tag.DeviceID != nil {
			linked.Add(*tag.DeviceID)
		}
	}

	switch linked.Len() {
	case 0:
		return nil, nil
	case 1:
	default:
		return nil, fmt.Errorf("%w: %v", ErrMismatchBetweenTags, linked.Sorted())
	}

	deviceID := linked.Sorted()[0]

	device, err := tx.GetDeviceByID(ctx, deviceID)
	if err != nil {
		return nil, fmt.Errorf("match by tags: %w", err)
	}

	if device == nil {
		return nil, nil
	}

	if device.Kind.IsComputer() != transient.Kind.IsComputer() {
		return nil, fmt.Errorf("%w: %s reported, device %d is a %s",
			ErrTagKindMismatch, transient.Kind, device.ID, device.Kind)
	}

	if transient.HID != nil && device.HIDValue() != *transient.HID {
		stats.identityMismatch()

		e.logger.Warn().
			Int64("device_id", device.ID).
			Str("device_hid", device.HIDValue()).
			Str("reported_hid", *transient.HID).
			Strs("tags", transient.TagIDs).
			Msg("tag-matched device has a different hid; keeping the tag match")
	}

	return device, nil
}
