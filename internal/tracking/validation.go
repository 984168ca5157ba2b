package tracking

import "fmt"

const (
	maxEventNameLength  = 64
	maxAttributeKeyLen  = 64
	maxAttributeValLen  = 256
	maxAttributeCount   = 16
)

// ValidateEventPayload validates tracking event payload fields.
func ValidateEventPayload(payload EventPayload) error {
	if payload.Name == "" {
		return fmt.Errorf("name is required")
	}
	if len(payload.Name) > maxEventNameLength {
		return fmt.Errorf("name too long")
	}
	if payload.OccurredAt <= 0 {
		return fmt.Errorf("occurred_at must be set")
	}
	if len(payload.Attributes) > maxAttributeCount {
		return fmt.Errorf("too many attributes")
	}
	for key, value := range payload.Attributes {
		if key == "" {
			return fmt.Errorf("attribute key must not be empty")
		}
		if len(key) > maxAttributeKeyLen {
			return fmt.Errorf("attribute key too long")
		}
		if len(value) > maxAttributeValLen {
			return fmt.Errorf("attribute value too long")
		}
	}
	return nil
}
