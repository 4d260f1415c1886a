package svar

import (
	"encoding/json"
	"fmt"
)

// FormatVersion is the sealed secret format written by this package.
const FormatVersion = 1

// Package is the secret encrypted under the key of one combination.
type Package struct {
	Nonce      HexBytes `json:"nonce"`
	Tag        HexBytes `json:"tag"`
	Ciphertext HexBytes `json:"ciphertext"`
}

// SealedQuestion is a question together with the salt used for its answer.
type SealedQuestion struct {
	Question
	Salt Salt `json:"salt"`
}

// SealedSecret holds everything needed to recover a secret from answers,
// and nothing that reveals the secret without them. Questions are in seal
// order and Packages in combination order, so package i is encrypted under
// the key of the i-th combination returned by Combinations.
type SealedSecret struct {
	FormatVersion int              `json:"format_version"`
	Scheme        string           `json:"scheme"`
	Threshold     int              `json:"threshold"`
	Questions     []SealedQuestion `json:"questions"`
	Packages      []Package        `json:"packages"`
}

// Validate checks the structural invariants of s.
func (s *SealedSecret) Validate() error {
	if s.FormatVersion != FormatVersion {
		return fmt.Errorf("%w: unsupported format version %d", ErrSerialization, s.FormatVersion)
	}
	if _, err := lookupScheme(s.Scheme); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	n := len(s.Questions)
	if err := checkThreshold(n, s.Threshold); err != nil {
		return fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	seen := make(map[questionKey]struct{}, n)
	for i, q := range s.Questions {
		if err := q.Validate(); err != nil {
			return fmt.Errorf("%w: question %d: %w", ErrSerialization, i, err)
		}
		if q.Salt.isZero() {
			return fmt.Errorf("%w: question %d has no salt", ErrSerialization, q.ID)
		}
		if _, ok := seen[q.key()]; ok {
			return fmt.Errorf("%w: duplicate question %d version %d", ErrSerialization, q.ID, q.Version)
		}
		seen[q.key()] = struct{}{}
	}

	if want := Binomial(n, s.Threshold); uint64(len(s.Packages)) != want {
		return fmt.Errorf("%w: expected %d packages, found %d", ErrSerialization, want, len(s.Packages))
	}
	for i, p := range s.Packages {
		if len(p.Nonce) != NonceSize {
			return fmt.Errorf("%w: package %d: nonce must be %d bytes, got %d", ErrSerialization, i, NonceSize, len(p.Nonce))
		}
		if len(p.Tag) != TagSize {
			return fmt.Errorf("%w: package %d: tag must be %d bytes, got %d", ErrSerialization, i, TagSize, len(p.Tag))
		}
	}

	return nil
}

// Marshal encodes s as indented JSON.
func (s *SealedSecret) Marshal() ([]byte, error) {
	if err := s.Validate(); err != nil {
		return nil, err
	}

	data, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}

	return data, nil
}

// Unmarshal decodes and validates a sealed secret.
func Unmarshal(data []byte) (*SealedSecret, error) {
	var s SealedSecret
	if err := json.Unmarshal(data, &s); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrSerialization, err)
	}
	if err := s.Validate(); err != nil {
		return nil, err
	}

	return &s, nil
}
