// Package credentials keeps the PocketBase password out of the environment
// when the operator prefers the OS keychain.
package credentials

import (
	"errors"
	"strings"

	constants "beszeltrmnl/config"
)

var ErrSecretNotFound = errors.New("secret not found")

// Store reads and writes named secrets.
type Store interface {
	SetSecret(key string, secret string) error
	GetSecret(key string) (string, error)
	DeleteSecret(key string) error
}

// DefaultStore returns the store backed by the OS keychain.
func DefaultStore() Store {
	return NewKeyringStore(constants.KEYRING_SERVICE)
}

// NormalizeKey lowercases and trims a key so lookups are stable.
func NormalizeKey(key string) string {
	return strings.ToLower(strings.TrimSpace(key))
}
