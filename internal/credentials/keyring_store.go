package credentials

import (
	"errors"

	"github.com/zalando/go-keyring"

	constants "beszeltrmnl/config"
)

type KeyringStore struct {
	serviceName string
}

func NewKeyringStore(serviceName string) *KeyringStore {
	if serviceName == "" {
		serviceName = constants.KEYRING_SERVICE
	}
	return &KeyringStore{serviceName: serviceName}
}

func (k *KeyringStore) SetSecret(key string, secret string) error {
	return keyring.Set(k.serviceName, NormalizeKey(key), secret)
}

func (k *KeyringStore) GetSecret(key string) (string, error) {
	secret, err := keyring.Get(k.serviceName, NormalizeKey(key))
	if err == nil {
		return secret, nil
	}
	if errors.Is(err, keyring.ErrNotFound) {
		return "", ErrSecretNotFound
	}
	return "", err
}

func (k *KeyringStore) DeleteSecret(key string) error {
	err := keyring.Delete(k.serviceName, NormalizeKey(key))
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrSecretNotFound
	}
	return err
}
