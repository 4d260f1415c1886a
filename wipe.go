package svar

import "github.com/awnumar/memguard"

// Wipe overwrites b with zeros. Use it to clear a secret returned by Open.
func Wipe(b []byte) {
	memguard.WipeBytes(b)
}
