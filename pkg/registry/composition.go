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
	"sort"

	"github.com/carverauto/devicesync/pkg/models"
)

// diffComposition compares the persisted composition of device with the
// resolved incoming components. Records come out in audit order: detaches
// from other parents (by ascending parent id), then the attach to device,
// then the detach from device.
func diffComposition(device *models.Device, incoming []*models.Device) []*models.ChangeRecord {
	incomingIDs := componentIDs(incoming)
	adding := incomingIDs.Minus(device.Components)
	removing := device.Components.Minus(incomingIDs)

	oldParents := make(map[int64]models.IDSet)

	for _, component := range incoming {
		if !adding.Has(component.ID) {
			continue
		}

		// parent 0 is a fresh component that belongs nowhere yet
		oldParent := component.ParentIDValue()
		if oldParent == 0 || oldParent == device.ID {
			continue
		}

		if oldParents[oldParent] == nil {
			oldParents[oldParent] = models.NewIDSet()
		}

		oldParents[oldParent].Add(component.ID)
	}

	parentIDs := make([]int64, 0, len(oldParents))
	for id := range oldParents {
		parentIDs = append(parentIDs, id)
	}

	sort.Slice(parentIDs, func(i, j int) bool { return parentIDs[i] < parentIDs[j] })

	changes := make([]*models.ChangeRecord, 0, len(parentIDs)+2)

	for _, id := range parentIDs {
		changes = append(changes, models.NewDetached(id, oldParents[id]))
	}

	if adding.Len() > 0 {
		changes = append(changes, models.NewAttached(device.ID, adding))
	}

	if removing.Len() > 0 {
		changes = append(changes, models.NewDetached(device.ID, removing))
	}

	return changes
}

// applyComposition makes incoming the composition of device. It is the only
// place composition is mutated in memory.
func applyComposition(device *models.Device, incoming []*models.Device) {
	device.Components = componentIDs(incoming)

	for _, component := range incoming {
		parentID := device.ID
		component.ParentID = &parentID
	}
}

func componentIDs(components []*models.Device) models.IDSet {
	ids := models.NewIDSet()
	for _, component := range components {
		ids.Add(component.ID)
	}

	return ids
}
