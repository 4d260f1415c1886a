package svar

import (
	"crypto/aes"
	"crypto/cipher"
	"fmt"
	"slices"

	"golang.org/x/crypto/chacha20poly1305"
)

const (
	// NonceSize is the nonce length of every scheme.
	NonceSize = 12
	// TagSize is the authentication tag length of every scheme.
	TagSize = 16
	// KeySize is the key length of every scheme.
	KeySize = EntropySize

	// DefaultScheme is used when a Sealer does not name one.
	DefaultScheme = "aes-256-gcm"
)

type scheme struct {
	description string
	aead        func(key []byte) (cipher.AEAD, error)
}

var schemes = map[string]scheme{
	"aes-256-gcm": {
		description: "AES 256-bit in Galois Counter Mode",
		aead: func(key []byte) (cipher.AEAD, error) {
			b, err := aes.NewCipher(key)
			if err != nil {
				return nil, err
			}

			return cipher.NewGCM(b)
		},
	},
	"chacha20-poly1305": {
		description: "ChaCha20 with Poly1305 MAC",
		aead:        func(key []byte) (cipher.AEAD, error) { return chacha20poly1305.New(key) },
	},
}

// Schemes returns the names of the supported encryption schemes.
func Schemes() []string {
	names := make([]string, 0, len(schemes))
	for name := range schemes {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// SchemeDescription returns a human readable description of a scheme.
func SchemeDescription(name string) (string, error) {
	s, ok := schemes[name]
	if !ok {
		return "", fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s.description, nil
}

func lookupScheme(name string) (scheme, error) {
	if name == "" {
		name = DefaultScheme
	}
	s, ok := schemes[name]
	if !ok {
		return scheme{}, fmt.Errorf("%w: %q", ErrUnknownScheme, name)
	}
	return s, nil
}

// seal encrypts plaintext under key and splits off the tag.
func (s scheme) seal(key *Key, nonce []byte, plaintext []byte) (Package, error) {
	aead, err := s.aead(key[:])
	if err != nil {
		return Package{}, err
	}
	if aead.NonceSize() != NonceSize || aead.Overhead() != TagSize {
		return Package{}, fmt.Errorf("unexpected AEAD parameters: nonce %d, tag %d", aead.NonceSize(), aead.Overhead())
	}

	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize

	return Package{
		Nonce:      HexBytes(append([]byte(nil), nonce...)),
		Tag:        HexBytes(sealed[split:]),
		Ciphertext: HexBytes(sealed[:split:split]),
	}, nil
}

// open authenticates and decrypts p under key. Any error means the key does
// not belong to p or p has been tampered with.
func (s scheme) open(key *Key, p Package) ([]byte, error) {
	aead, err := s.aead(key[:])
	if err != nil {
		return nil, err
	}

	sealed := make([]byte, 0, len(p.Ciphertext)+len(p.Tag))
	sealed = append(sealed, p.Ciphertext...)
	sealed = append(sealed, p.Tag...)

	return aead.Open(nil, p.Nonce, sealed, nil)
}
