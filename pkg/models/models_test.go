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
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

func TestParseDeviceKind(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in        string
		computer  bool
		component bool
		wantErr   bool
	}{
		{in: "Desktop", computer: true},
		{in: "Microtower", computer: true},
		{in: "RamModule", component: true},
		{in: "NetworkAdapter", component: true},
		{in: "desktop", wantErr: true},
		{in: "", wantErr: true},
		{in: "Printer", wantErr: true},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()

			kind, err := ParseDeviceKind(tt.in)
			if tt.wantErr {
				require.ErrorIs(t, err, ErrUnknownDeviceKind)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.computer, kind.IsComputer())
			assert.Equal(t, tt.component, kind.IsComponent())
			assert.True(t, kind.Valid())
		})
	}
}

func TestIDSetOperations(t *testing.T) {
	t.Parallel()

	a := NewIDSet(3, 1, 2)
	b := NewIDSet(2, 3, 4)

	assert.Equal(t, []int64{1}, a.Minus(b).Sorted())
	assert.Equal(t, []int64{4}, b.Minus(a).Sorted())
	assert.True(t, a.Equal(NewIDSet(1, 2, 3)))
	assert.False(t, a.Equal(b))

	clone := a.Clone()
	clone.Add(9)
	assert.False(t, a.Has(9))
	assert.Equal(t, 4, clone.Len())
}

func TestIDSetJSON(t *testing.T) {
	t.Parallel()

	raw, err := json.Marshal(NewIDSet(7, 3, 5))
	require.NoError(t, err)
	assert.JSONEq(t, `[3,5,7]`, string(raw))

	var decoded IDSet
	require.NoError(t, json.Unmarshal([]byte(`[1,2]`), &decoded))
	assert.True(t, decoded.Equal(NewIDSet(1, 2)))
}

func TestSnapshotComponentsNilVersusEmpty(t *testing.T) {
	t.Parallel()

	var unknown Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"a","device":{"type":"Desktop"}}`), &unknown))
	assert.Nil(t, unknown.Components)

	var explicitNull Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"a","device":{"type":"Desktop"},"components":null}`), &explicitNull))
	assert.Nil(t, explicitNull.Components)

	var strip Snapshot
	require.NoError(t, json.Unmarshal([]byte(`{"uuid":"a","device":{"type":"Desktop"},"components":[]}`), &strip))
	require.NotNil(t, strip.Components)
	assert.Empty(t, strip.Components)
}

func TestDeviceReportDecodesPhysicalProperties(t *testing.T) {
	t.Parallel()

	var report DeviceReport
	require.NoError(t, json.Unmarshal([]byte(`{
		"type": "RamModule",
		"manufacturer": "Kingston",
		"serial_number": "ABC",
		"size": 4096,
		"speed": 1600.0,
		"tags": ["t-1"]
	}`), &report))

	assert.Equal(t, "RamModule", report.Type)
	require.NotNil(t, report.Manufacturer)
	assert.Equal(t, "Kingston", *report.Manufacturer)
	assert.Nil(t, report.Model)
	require.NotNil(t, report.Size)
	assert.Equal(t, int64(4096), *report.Size)
	assert.Equal(t, []string{"t-1"}, report.Tags)
}

func TestDurationUnmarshal(t *testing.T) {
	t.Parallel()

	var fromString Duration
	require.NoError(t, json.Unmarshal([]byte(`"1m30s"`), &fromString))
	assert.Equal(t, 90*time.Second, time.Duration(fromString))

	var fromNumber Duration
	require.NoError(t, json.Unmarshal([]byte(`1000000000`), &fromNumber))
	assert.Equal(t, time.Second, time.Duration(fromNumber))

	var bad Duration
	require.Error(t, json.Unmarshal([]byte(`true`), &bad))

	var cfg struct {
		Timeout  Duration `yaml:"timeout"`
		Lifetime Duration `yaml:"lifetime"`
	}
	require.NoError(t, yaml.Unmarshal([]byte("timeout: 5s\nlifetime: 2000000000\n"), &cfg))
	assert.Equal(t, 5*time.Second, time.Duration(cfg.Timeout))
	assert.Equal(t, 2*time.Second, time.Duration(cfg.Lifetime))
}

func TestChangeRecordConstructors(t *testing.T) {
	t.Parallel()

	attached := NewAttached(10, NewIDSet(3, 1))
	assert.Equal(t, ChangeAttached, attached.Kind)
	assert.Equal(t, []int64{1, 3}, attached.ComponentIDs)
	assert.NotEqual(t, attached.ID, NewDetached(10, NewIDSet(1)).ID)

	registered := NewRegistered(4)
	assert.Equal(t, ChangeRegistered, registered.Kind)
	assert.Empty(t, registered.ComponentIDs)

	kind, err := ParseChangeKind("detached")
	require.NoError(t, err)
	assert.Equal(t, ChangeDetached, kind)

	_, err = ParseChangeKind("add")
	require.ErrorIs(t, err, ErrUnknownChangeKind)
}
