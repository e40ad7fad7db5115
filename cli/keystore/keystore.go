// Package keystore stores access tokens and provider keys encrypted at rest.
package keystore

import (
	"path/filepath"

	"github.com/petal-labs/hfgo/cli/config"
)

// HFTokenName is the keystore entry holding the Hugging Face access token.
const HFTokenName = "hf"

// Keystore defines the interface for secure key storage.
type Keystore interface {
	// Set stores a key-value pair.
	Set(name, value string) error
	// Get retrieves a value by name. Returns *ErrKeyNotFound if missing.
	Get(name string) (string, error)
	// Delete removes a key by name.
	Delete(name string) error
	// List returns all stored key names.
	List() ([]string, error)
}

// ErrKeyNotFound is returned when a requested key does not exist.
type ErrKeyNotFound struct {
	Name string
}

func (e *ErrKeyNotFound) Error() string {
	return "key not found: " + e.Name
}

// DefaultKeystorePath returns the default keystore file path, next to the
// config file.
func DefaultKeystorePath() string {
	return filepath.Join(config.HomeDir(), "keys.enc")
}

// NewKeystore opens the default keystore with the default master key
// source.
func NewKeystore() (Keystore, error) {
	return NewFileKeystore(DefaultKeystorePath(), DefaultMasterKeySource())
}
