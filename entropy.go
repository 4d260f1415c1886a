package svar

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
)

const (
	// SaltSize is the length of the per-question salt.
	SaltSize = 32
	// EntropySize is the length of a derived entropy and of a reduced key.
	EntropySize = 32
)

// Salt raises the cost of guessing answers. It is stored in the clear.
type Salt [SaltSize]byte

// NewSalt reads a fresh salt from r.
func NewSalt(r io.Reader) (Salt, error) {
	var s Salt
	if _, err := io.ReadFull(r, s[:]); err != nil {
		return Salt{}, fmt.Errorf("failed to generate salt: %w", err)
	}
	return s, nil
}

func (s Salt) isZero() bool {
	return s == Salt{}
}

func (s Salt) MarshalText() ([]byte, error) {
	return HexBytes(s[:]).MarshalText()
}

func (s *Salt) UnmarshalText(text []byte) error {
	var b HexBytes
	if err := b.UnmarshalText(text); err != nil {
		return err
	}
	if len(b) != SaltSize {
		return fmt.Errorf("salt must be %d bytes, got %d", SaltSize, len(b))
	}
	copy(s[:], b)
	return nil
}

// Entropy is derived from one question, its canonical answer and its salt.
// It is never stored.
type Entropy [EntropySize]byte

const entropyLabel = "svar-entropy"

// DeriveEntropy derives the entropy of a canonical answer with HKDF-SHA256.
// The answer is the input key material, the salt is the HKDF salt and the
// question id and version make up the info, so the same answer to two
// questions yields unrelated entropies.
func DeriveEntropy(id uint16, version uint8, canonical []byte, salt Salt) Entropy {
	info := make([]byte, 0, len(entropyLabel)+3)
	info = append(info, entropyLabel...)
	info = binary.BigEndian.AppendUint16(info, id)
	info = append(info, version)

	var e Entropy
	r := hkdf.New(sha256.New, canonical, salt[:], info)
	if _, err := io.ReadFull(r, e[:]); err != nil {
		// 32 bytes is far below the HKDF-SHA256 output limit
		panic(err)
	}

	return e
}

func (e *Entropy) wipe() {
	Wipe(e[:])
}
