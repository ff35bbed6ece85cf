package secrets

import (
	"errors"
	"strings"

	"github.com/zalando/go-keyring"
)

const (
	KeyringService = "jobscout"
	APIKeyAccount  = "itjobs:api_key"
)

var ErrNotFound = errors.New("itjobs api key not found in keyring")

func GetAPIKey() (string, error) {
	key, err := keyring.Get(KeyringService, APIKeyAccount)
	if err != nil {
		if errors.Is(err, keyring.ErrNotFound) {
			return "", ErrNotFound
		}
		return "", err
	}
	if strings.TrimSpace(key) == "" {
		return "", ErrNotFound
	}
	return key, nil
}

func SetAPIKey(key string) error {
	if strings.TrimSpace(key) == "" {
		return errors.New("api key is empty")
	}
	return keyring.Set(KeyringService, APIKeyAccount, strings.TrimSpace(key))
}

func DeleteAPIKey() error {
	err := keyring.Delete(KeyringService, APIKeyAccount)
	if errors.Is(err, keyring.ErrNotFound) {
		return ErrNotFound
	}
	return err
}
