package svar

import (
	"encoding/hex"
	"fmt"
)

// HexBytes is a byte string that serializes as lowercase hex.
type HexBytes []byte

func (b HexBytes) MarshalText() ([]byte, error) {
	out := make([]byte, hex.EncodedLen(len(b)))
	hex.Encode(out, b)
	return out, nil
}

func (b *HexBytes) UnmarshalText(text []byte) error {
	out := make([]byte, hex.DecodedLen(len(text)))
	if _, err := hex.Decode(out, text); err != nil {
		return fmt.Errorf("invalid hex: %w", err)
	}
	*b = out
	return nil
}
