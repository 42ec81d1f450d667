package identitymap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/carverauto/devicesync/pkg/models"
)

func TestParameterize(t *testing.T) {
	t.Parallel()

	tests := []struct {
		in   string
		want string
	}{
		{in: "Acme", want: "acme"},
		{in: "  Hewlett-Packard  ", want: "hewlett_packard"},
		{in: "LUSGA 0D0242201212C7614", want: "lusga_0d0242201212c7614"},
		{in: "Café Société", want: "cafe_societe"},
		{in: "ÅÄÖ--ñ", want: "aao_n"},
		{in: "__x__", want: "x"},
		{in: "...", want: ""},
		{in: "", want: ""},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.in, func(t *testing.T) {
			t.Parallel()
			assert.Equal(t, tt.want, Parameterize(tt.in))
		})
	}
}

func TestBuildHID(t *testing.T) {
	t.Parallel()

	hid, ok := BuildHID("Laptop", "Acer", "AOD270", "LUSGA 0D0242201212C7614")
	require.True(t, ok)
	assert.Equal(t, "laptop-acer-aod270-lusga_0d0242201212c7614", hid)

	hid, ok = BuildHID("Desktop", "Acme", "X1", "S1")
	require.True(t, ok)
	assert.Equal(t, "desktop-acme-x1-s1", hid)

	hid, ok = BuildHID("GraphicCard", "NVIDIA Corp.", "GT 710", "0x1F")
	require.True(t, ok)
	assert.Equal(t, "graphiccard-nvidia_corp-gt_710-0x1f", hid)
}

func TestBuildHIDRequiresEveryPart(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name                      string
		kind, mn, model, serialNo string
	}{
		{name: "no serial", kind: "Desktop", mn: "Acme", model: "X1"},
		{name: "punctuation serial", kind: "Desktop", mn: "Acme", model: "X1", serialNo: "---"},
		{name: "no manufacturer", kind: "Desktop", model: "X1", serialNo: "S1"},
		{name: "no kind", mn: "Acme", model: "X1", serialNo: "S1"},
	}

	for _, tt := range tests {
		tt := tt

		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			hid, ok := BuildHID(tt.kind, tt.mn, tt.model, tt.serialNo)
			assert.False(t, ok)
			assert.Empty(t, hid)
		})
	}
}

func TestBuildHIDIsDeterministic(t *testing.T) {
	t.Parallel()

	inputs := [][4]string{
		{"Server", "Dell Inc.", "PowerEdge R640", "7XK2ZQ2"},
		{"RamModule", "Samsung", "M378B5173QH0-CK0", "1a2b3c"},
		{"Netbook", "ASUSTeK", "1001PX", "A1B2 C3"},
	}

	for _, in := range inputs {
		first, ok1 := BuildHID(in[0], in[1], in[2], in[3])
		second, ok2 := BuildHID(in[0], in[1], in[2], in[3])

		assert.Equal(t, ok1, ok2)
		assert.Equal(t, first, second)
	}
}

func TestHIDForDevice(t *testing.T) {
	t.Parallel()

	mn, model, sn := "Acme", "X1", "S1"
	d := &models.Device{
		Kind: models.KindDesktop,
		PhysicalProperties: models.PhysicalProperties{
			Manufacturer: &mn,
			Model:        &model,
			SerialNumber: &sn,
		},
	}

	hid := HIDForDevice(d)
	require.NotNil(t, hid)
	assert.Equal(t, "desktop-acme-x1-s1", *hid)

	d.SerialNumber = nil
	assert.Nil(t, HIDForDevice(d))
	assert.Nil(t, HIDForDevice(nil))
}
