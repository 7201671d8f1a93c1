package strutils

import (
	"encoding/hex"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const STRIPPED_UUID_LENGTH = 32

var ErrInvalidUUID = errors.New("invalid UUID")

func isHexDigit(r rune) bool {
	return ('0' <= r && r <= '9') || ('a' <= r && r <= 'f') || ('A' <= r && r <= 'F')
}

// NormalizeUUID returns the undashed lowercase form used by the Mojang APIs
//
// Dashes may appear anywhere in the input.
func NormalizeUUID(raw string) (string, error) {
	stripped := strings.ReplaceAll(raw, "-", "")

	if strings.IndexFunc(stripped, func(r rune) bool { return !isHexDigit(r) }) != -1 {
		return "", fmt.Errorf("%w: invalid character in '%s'", ErrInvalidUUID, raw)
	}
	if len(stripped) != STRIPPED_UUID_LENGTH {
		return "", fmt.Errorf("%w: '%s' has %d hex digits, expected %d", ErrInvalidUUID, raw, len(stripped), STRIPPED_UUID_LENGTH)
	}

	parsed, err := uuid.Parse(stripped)
	if err != nil {
		return "", fmt.Errorf("%w: %w", ErrInvalidUUID, err)
	}

	return hex.EncodeToString(parsed[:]), nil
}

func UUIDIsNormalized(raw string) bool {
	normalized, err := NormalizeUUID(raw)
	return err == nil && normalized == raw
}
