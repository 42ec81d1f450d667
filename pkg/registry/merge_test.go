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
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/carverauto/devicesync/pkg/models"
)

func TestMergePhysicalProperties(t *testing.T) {
	t.Parallel()

	weight := 2.5
	cores := int32(4)

	tests := []struct {
		name    string
		src     models.PhysicalProperties
		dst     models.PhysicalProperties
		changed bool
		want    models.PhysicalProperties
	}{
		{
			name:    "unknown source values keep destination",
			src:     models.PhysicalProperties{},
			dst:     models.PhysicalProperties{Model: strPtr("X1")},
			changed: false,
			want:    models.PhysicalProperties{Model: strPtr("X1")},
		},
		{
			name:    "equal values are not a change",
			src:     models.PhysicalProperties{Model: strPtr("X1"), Weight: &weight},
			dst:     models.PhysicalProperties{Model: strPtr("X1"), Weight: &weight},
			changed: false,
			want:    models.PhysicalProperties{Model: strPtr("X1"), Weight: &weight},
		},
		{
			name:    "new values are copied",
			src:     models.PhysicalProperties{Cores: &cores, Model: strPtr("X2")},
			dst:     models.PhysicalProperties{Model: strPtr("X1"), SerialNumber: strPtr("S1")},
			changed: true,
			want:    models.PhysicalProperties{Cores: &cores, Model: strPtr("X2"), SerialNumber: strPtr("S1")},
		},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			src := &models.Device{Kind: models.KindDesktop, PhysicalProperties: tt.src}
			dst := &models.Device{ID: 9, Kind: models.KindDesktop, HID: strPtr("keep"), PhysicalProperties: tt.dst}

			assert.Equal(t, tt.changed, mergePhysicalProperties(src, dst))
			assert.Equal(t, tt.want, dst.PhysicalProperties)
			assert.Equal(t, int64(9), dst.ID)
			assert.Equal(t, "keep", dst.HIDValue())
		})
	}
}

func TestMergePhysicalProperties_DoesNotAliasSource(t *testing.T) {
	t.Parallel()

	src := &models.Device{PhysicalProperties: models.PhysicalProperties{Model: strPtr("X1")}}
	dst := &models.Device{}

	mergePhysicalProperties(src, dst)
	*src.Model = "changed"

	assert.Equal(t, "X1", *dst.Model)
}
