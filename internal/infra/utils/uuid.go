package utils

import (
	"github.com/google/uuid"
)

func GenerateUUID() string {
	return uuid.NewString()
}

// IsUUID reports whether the value parses as a canonical UUID. Scan-code
// fallback lookup uses it to tell external identifiers from internal ids.
func IsUUID(value string) bool {
	_, err := uuid.Parse(value)
	return err == nil
}
