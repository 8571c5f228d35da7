package edid

import (
	"encoding/hex"
	"fmt"
	"strings"
)

// ToHex encodes raw EDID bytes as lowercase hexadecimal.
func ToHex(data []byte) string {
	return hex.EncodeToString(data)
}

// ToHEX encodes raw EDID bytes as uppercase hexadecimal.
func ToHEX(data []byte) string {
	return strings.ToUpper(hex.EncodeToString(data))
}

// FromHex decodes hexadecimal EDID in either case. Surrounding white space is
// ignored.
func FromHex(s string) ([]byte, error) {
	data, err := hex.DecodeString(strings.TrimSpace(s))
	if err != nil {
		return nil, fmt.Errorf("edid: invalid hexadecimal EDID: %w", err)
	}
	return data, nil
}
