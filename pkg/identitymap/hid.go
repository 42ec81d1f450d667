// Package identitymap derives the hardware id (hid) used to recognise a
// device across inventory reports.
package identitymap

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/carverauto/devicesync/pkg/models"
)

const (
	hidSeparator  = "-"
	wordSeparator = '_'
)

// BuildHID derives the hid for a device from its kind, manufacturer, model and
// serial number. It returns false when any normalized part is empty.
func BuildHID(kind, manufacturer, model, serialNumber string) (string, bool) {
	parts := [4]string{
		Parameterize(kind),
		Parameterize(manufacturer),
		Parameterize(model),
		Parameterize(serialNumber),
	}

	for _, part := range parts {
		if part == "" {
			return "", false
		}
	}

	return strings.Join(parts[:], hidSeparator), true
}

// HIDForDevice recomputes the hid from the device's own fields.
func HIDForDevice(d *models.Device) *string {
	if d == nil {
		return nil
	}

	hid, ok := BuildHID(string(d.Kind), deref(d.Manufacturer), deref(d.Model), deref(d.SerialNumber))
	if !ok {
		return nil
	}

	return &hid
}

// Parameterize lower-cases word, folds accented letters to ASCII and collapses
// every run of other characters into a single underscore. The result never
// starts or ends with an underscore.
func Parameterize(word string) string {
	// transform chains keep internal buffers, so one per call
	fold := transform.Chain(norm.NFKD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

	folded, _, err := transform.String(fold, word)
	if err != nil {
		folded = word
	}

	var b strings.Builder

	b.Grow(len(folded))

	pending := false

	for _, r := range strings.ToLower(folded) {
		if (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') {
			if pending && b.Len() > 0 {
				b.WriteByte(wordSeparator)
			}

			pending = false

			b.WriteRune(r)

			continue
		}

		pending = true
	}

	return b.String()
}

func deref(s *string) string {
	if s == nil {
		return ""
	}

	return *s
}
