package keystore

import (
	"errors"
	"os"
)

// MasterKeyEnv overrides the machine-derived master key.
const MasterKeyEnv = "HFGO_MASTER_KEY"

// MasterKeySource supplies the secret the keystore encryption key is
// derived from.
type MasterKeySource interface {
	MasterKey() ([]byte, error)
}

// StaticMasterKey is a fixed master key.
type StaticMasterKey []byte

// MasterKey returns k.
func (k StaticMasterKey) MasterKey() ([]byte, error) {
	if len(k) == 0 {
		return nil, errors.New("master key is empty")
	}
	return k, nil
}

// EnvMasterKey reads the master key from an environment variable.
type EnvMasterKey string

// MasterKey returns the variable's value.
func (e EnvMasterKey) MasterKey() ([]byte, error) {
	v := os.Getenv(string(e))
	if v == "" {
		return nil, errors.New(string(e) + " is not set")
	}
	return []byte(v), nil
}

// machineMasterKey derives a master key from the host and user names. It
// only protects against casual disclosure of the keystore file.
type machineMasterKey struct{}

func (machineMasterKey) MasterKey() ([]byte, error) {
	hostname, err := os.Hostname()
	if err != nil {
		hostname = "unknown"
	}
	username := os.Getenv("USER")
	if username == "" {
		username = os.Getenv("USERNAME")
	}
	return []byte(hostname + ":" + username + ":hfgo-keystore"), nil
}

// DefaultMasterKeySource uses MasterKeyEnv when set and the machine-derived
// key otherwise.
func DefaultMasterKeySource() MasterKeySource {
	if os.Getenv(MasterKeyEnv) != "" {
		return EnvMasterKey(MasterKeyEnv)
	}
	return machineMasterKey{}
}
