package manifest

import (
	"github.com/fxamacker/cbor/v2"

	"github.com/wippyai/wasm-embedded/errors"
	"github.com/wippyai/wasm-embedded/hal"
)

// Metadata describes an application. Its CBOR encoding is the metadata
// binary a manifest covers.
type Metadata struct {
	Name         string   `cbor:"name"`
	Version      string   `cbor:"version,omitempty"`
	Entry        string   `cbor:"entry,omitempty"`
	Capabilities []string `cbor:"capabilities,omitempty"`
}

// encMode uses Core Deterministic Encoding so equal metadata always
// produces identical bytes and therefore identical digests.
var encMode cbor.EncMode

var decMode cbor.DecMode

func init() {
	var err error
	encMode, err = cbor.CoreDetEncOptions().EncMode()
	if err != nil {
		panic("manifest: CBOR encoder initialization failed: " + err.Error())
	}
	decMode, err = cbor.DecOptions{}.DecMode()
	if err != nil {
		panic("manifest: CBOR decoder initialization failed: " + err.Error())
	}
}

// metadata has Metadata's fields without its methods. The CBOR encoder calls
// MarshalBinary on types that have it, so encoding Metadata itself would
// recurse.
type metadata Metadata

// MarshalBinary encodes m as deterministic CBOR.
func (m Metadata) MarshalBinary() ([]byte, error) {
	return encMode.Marshal(metadata(m))
}

// ParseMetadata decodes and validates a metadata binary.
func ParseMetadata(data []byte) (Metadata, error) {
	var raw metadata
	if err := decMode.Unmarshal(data, &raw); err != nil {
		return Metadata{}, errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "decode metadata")
	}
	m := Metadata(raw)
	if err := m.Validate(); err != nil {
		return Metadata{}, err
	}
	return m, nil
}

// Validate checks that a name is set and every capability is known.
func (m Metadata) Validate() error {
	if m.Name == "" {
		return errors.InvalidInput(errors.PhaseManifest, "metadata name is empty")
	}
	_, err := m.Caps()
	return err
}

// Caps returns the declared capabilities.
func (m Metadata) Caps() ([]hal.Capability, error) {
	caps := make([]hal.Capability, 0, len(m.Capabilities))
	for _, name := range m.Capabilities {
		c, err := hal.ParseCapability(name)
		if err != nil {
			return nil, errors.Wrap(errors.PhaseManifest, errors.KindInvalidInput, err, "metadata capabilities")
		}
		caps = append(caps, c)
	}
	return caps, nil
}
