package service

import (
	"github.com/MKhiriev/go-zakat-keeper/internal/codec"
	"github.com/MKhiriev/go-zakat-keeper/models"
)

// UndecryptablePlaceholder replaces a legacy field no keyring key opens.
const UndecryptablePlaceholder = "unable to decrypt"

// countFields tallies the sensitive fields of payments by storage format.
// Empty plaintext fields are not counted.
func countFields(payments []models.Payment) models.FieldCounts {
	var counts models.FieldCounts
	for _, p := range payments {
		for _, f := range p.Sensitive() {
			switch f.Format() {
			case codec.FormatLegacy:
				counts.Legacy++
			case codec.FormatZeroKnowledge:
				counts.ZeroKnowledge++
			default:
				if !f.IsEmpty() {
					counts.Plaintext++
				}
			}
		}
	}
	return counts
}
