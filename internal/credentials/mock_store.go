package credentials

// MockStore is an in-memory store for testing.
type MockStore struct {
	secrets map[string]string
}

func NewMockStore() *MockStore {
	return &MockStore{secrets: make(map[string]string)}
}

func (m *MockStore) SetSecret(key string, secret string) error {
	m.secrets[NormalizeKey(key)] = secret
	return nil
}

func (m *MockStore) GetSecret(key string) (string, error) {
	secret, ok := m.secrets[NormalizeKey(key)]
	if !ok {
		return "", ErrSecretNotFound
	}
	return secret, nil
}

func (m *MockStore) DeleteSecret(key string) error {
	key = NormalizeKey(key)
	if _, ok := m.secrets[key]; !ok {
		return ErrSecretNotFound
	}
	delete(m.secrets, key)
	return nil
}
