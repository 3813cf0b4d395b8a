package manifest

import (
	"bytes"
	"crypto/ed25519"
	"encoding/hex"
	"os"

	"github.com/wippyai/wasm-embedded/errors"
)

// LoadPublicKey reads an ed25519 public key from path. The file holds
// either the raw 32 bytes or their hex encoding.
func LoadPublicKey(path string) (ed25519.PublicKey, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrap(errors.PhaseManifest, errors.KindNotFound, err, "read public key")
	}
	return ParsePublicKey(data)
}

// ParsePublicKey decodes a raw or hex encoded ed25519 public key.
func ParsePublicKey(data []byte) (ed25519.PublicKey, error) {
	if len(data) == KeySize {
		return ed25519.PublicKey(bytes.Clone(data)), nil
	}
	text := bytes.TrimSpace(data)
	if len(text) == hex.EncodedLen(KeySize) {
		key := make([]byte, KeySize)
		if _, err := hex.Decode(key, text); err == nil {
			return ed25519.PublicKey(key), nil
		}
	}
	return nil, errors.New(errors.PhaseManifest, errors.KindInvalidInput).
		Detail("public key must be %d raw bytes or %d hex characters, got %d bytes", KeySize, hex.EncodedLen(KeySize), len(data)).
		Build()
}
