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

import "github.com/carverauto/devicesync/pkg/models"

// mergePhysicalProperties copies every known physical property of src onto
// dst and reports whether dst changed. Identity, ownership and composition
// are left alone.
func mergePhysicalProperties(src, dst *models.Device) bool {
	s, d := &src.PhysicalProperties, &dst.PhysicalProperties

	changed := mergeField(&d.Manufacturer, s.Manufacturer)
	changed = mergeField(&d.Model, s.Model) || changed
	changed = mergeField(&d.SerialNumber, s.SerialNumber) || changed
	changed = mergeField(&d.Weight, s.Weight) || changed
	changed = mergeField(&d.Width, s.Width) || changed
	changed = mergeField(&d.Height, s.Height) || changed
	changed = mergeField(&d.Memory, s.Memory) || changed
	changed = mergeField(&d.Size, s.Size) || changed
	changed = mergeField(&d.Speed, s.Speed) || changed
	changed = mergeField(&d.Cores, s.Cores) || changed
	changed = mergeField(&d.Slots, s.Slots) || changed
	changed = mergeField(&d.USB, s.USB) || changed

	return changed
}

func mergeField[T comparable](dst **T, src *T) bool {
	if src == nil {
		return false
	}

	if *dst != nil && **dst == *src {
		return false
	}

	v := *src
	*dst = &v

	return true
}
