package credentials

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
	"os"
)

const serviceAccountType = "service_account"

// ErrNotFound is returned when a source has nothing to load.
var ErrNotFound = errors.New("credentials not found")

// ServiceAccount is the subset of a Google service account key the API checks before use.
type ServiceAccount struct {
	Type        string `json:"type"`
	ProjectID   string `json:"project_id"`
	ClientEmail string `json:"client_email"`
	PrivateKey  string `json:"private_key"`

	// JSON is the key file exactly as loaded.
	JSON []byte `json:"-"`
}

// Source is a type definition for a function that returns the raw key bytes and an error.
type Source func() ([]byte, error)

// ServiceAccount loads the key and validates it is a complete service account certificate.
func (s Source) ServiceAccount() (*ServiceAccount, error) {
	raw, err := s()
	if err != nil {
		return nil, err
	}

	sa := new(ServiceAccount)
	if err := json.Unmarshal(raw, sa); err != nil {
		return nil, fmt.Errorf("parse service account: %w", err)
	}

	if sa.Type != serviceAccountType {
		return nil, fmt.Errorf("invalid credential type %q, expected %q", sa.Type, serviceAccountType)
	}

	if sa.ProjectID == "" || sa.ClientEmail == "" || sa.PrivateKey == "" {
		return nil, errors.New("service account must contain project_id, client_email and private_key")
	}

	sa.JSON = raw
	return sa, nil
}

// FromFile reads the key from a file path, usually serviceAccountKey.json.
func FromFile(path string) Source {
	return func() ([]byte, error) {
		if path == "" {
			return nil, ErrNotFound
		}

		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read credentials file: %w", err)
		}

		return raw, nil
	}
}

// FromBase64 decodes a Base64 encoded key held in configuration.
func FromBase64(value string) Source {
	return func() ([]byte, error) {
		if value == "" {
			return nil, ErrNotFound
		}

		return base64.StdEncoding.DecodeString(value)
	}
}
