// Package uuidutil generates identifiers for lock holders and run
// sessions.
package uuidutil

import (
	"crypto/rand"
	"encoding/hex"
)

// NewV4 generates a random UUID v4 string. Panics if crypto/rand
// fails; there is no recovery from a broken entropy source.
func NewV4() string {
	var u [16]byte
	if _, err := rand.Read(u[:]); err != nil {
		panic("interrupt: crypto/rand failed (system error): " + err.Error())
	}
	u[6] = (u[6] & 0x0f) | 0x40 // version 4
	u[8] = (u[8] & 0x3f) | 0x80 // variant RFC 4122

	h := hex.EncodeToString(u[:])
	return h[0:8] + "-" + h[8:12] + "-" + h[12:16] + "-" + h[16:20] + "-" + h[20:32]
}
