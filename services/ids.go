package services

import (
	"crypto/rand"
	"fmt"
)

const idAlphabet = "abcdefghijklmnopqrstuvwxyzABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// SessionIDLength gives roughly 47 bits of entropy over the 62-symbol
// alphabet, enough that accidental collision is the only realistic failure
// mode. Uniqueness is probabilistic: no check against existing sessions is
// made on create.
const SessionIDLength = 8

func NewSessionID() (string, error) {
	buf := make([]byte, SessionIDLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to generate session id: %w", err)
	}

	id := make([]byte, SessionIDLength)
	for i, b := range buf {
		id[i] = idAlphabet[int(b)%len(idAlphabet)]
	}
	return string(id), nil
}
