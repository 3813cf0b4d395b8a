package manifest

import (
	"crypto/ed25519"
	"crypto/subtle"
	"encoding/binary"
	"fmt"

	"github.com/wippyai/wasm-embedded/errors"
)

// Version is the only layout version.
const Version uint16 = 1

// Field widths and offsets of the encoded record.
const (
	KeySize = ed25519.PublicKeySize
	SigSize = 32

	offVersion = 0
	offFlags   = 2
	offAppLen  = 4
	offAppSum  = 8
	offMetaLen = offAppSum + DigestSize
	offMetaSum = offMetaLen + 4
	offKey     = offMetaSum + DigestSize
	offSig     = offKey + KeySize
	Size       = offSig + SigSize
)

// ErrUnsigned reports a manifest whose sig field is zero.
var ErrUnsigned = errors.New(errors.PhaseManifest, errors.KindUnsigned).
	Detail("manifest is not signed").
	Build()

// ErrSignatureUnsupported reports a non-zero sig field. No signature scheme
// is defined for it, so it cannot be checked.
var ErrSignatureUnsupported = errors.Unsupported(errors.PhaseManifest, "no signature scheme is defined for the sig field")

// Manifest is the integrity record of one application.
type Manifest struct {
	AppSum  Digest
	MetaSum Digest
	Key     [KeySize]byte
	Sig     [SigSize]byte
	AppLen  uint32
	MetaLen uint32
	Version uint16
	Flags   uint16
}

// MarshalBinary encodes m in the fixed layout.
func (m Manifest) MarshalBinary() ([]byte, error) {
	return m.AppendBinary(make([]byte, 0, Size))
}

// AppendBinary appends the encoded record to b.
func (m Manifest) AppendBinary(b []byte) ([]byte, error) {
	b = binary.LittleEndian.AppendUint16(b, m.Version)
	b = binary.LittleEndian.AppendUint16(b, m.Flags)
	b = binary.LittleEndian.AppendUint32(b, m.AppLen)
	b = append(b, m.AppSum[:]...)
	b = binary.LittleEndian.AppendUint32(b, m.MetaLen)
	b = append(b, m.MetaSum[:]...)
	b = append(b, m.Key[:]...)
	b = append(b, m.Sig[:]...)
	return b, nil
}

// UnmarshalBinary decodes a record. It rejects any size other than Size and
// any version other than Version.
func (m *Manifest) UnmarshalBinary(data []byte) error {
	if len(data) != Size {
		return errors.InvalidData(errors.PhaseManifest, fmt.Sprintf("manifest is %d bytes, want %d", len(data), Size))
	}
	version := binary.LittleEndian.Uint16(data[offVersion:])
	if version != Version {
		return errors.New(errors.PhaseManifest, errors.KindUnsupported).
			Value(version).
			Detail("manifest version %d, want %d", version, Version).
			Build()
	}

	m.Version = version
	m.Flags = binary.LittleEndian.Uint16(data[offFlags:])
	m.AppLen = binary.LittleEndian.Uint32(data[offAppLen:])
	copy(m.AppSum[:], data[offAppSum:offMetaLen])
	m.MetaLen = binary.LittleEndian.Uint32(data[offMetaLen:])
	copy(m.MetaSum[:], data[offMetaSum:offKey])
	copy(m.Key[:], data[offKey:offSig])
	copy(m.Sig[:], data[offSig:Size])
	return nil
}

// Parse decodes a record.
func Parse(data []byte) (Manifest, error) {
	var m Manifest
	err := m.UnmarshalBinary(data)
	return m, err
}

// HasKey reports whether a public key is set.
func (m Manifest) HasKey() bool {
	return m.Key != [KeySize]byte{}
}

// PublicKey returns the key, or nil when none is set.
func (m Manifest) PublicKey() ed25519.PublicKey {
	if !m.HasKey() {
		return nil
	}
	return ed25519.PublicKey(append([]byte(nil), m.Key[:]...))
}

// Signed reports whether the sig field is set.
func (m Manifest) Signed() bool {
	return m.Sig != [SigSize]byte{}
}

// CheckSignature reports whether the signature can be trusted. Without a
// defined signature scheme it never succeeds.
func (m Manifest) CheckSignature() error {
	if !m.Signed() {
		return ErrUnsigned
	}
	return ErrSignatureUnsupported
}

// Verify checks app and meta against the record using SHA-512.
func (m Manifest) Verify(app, meta []byte) error {
	return m.VerifyWith(SHA512, app, meta)
}

// VerifyWith checks lengths and digests of app and meta using alg. A section
// the builder never hashed has zero length and an all-zero digest; it matches
// empty data.
func (m Manifest) VerifyWith(alg Algorithm, app, meta []byte) error {
	if err := check(alg, "app", m.AppLen, m.AppSum, app); err != nil {
		return err
	}
	return check(alg, "meta", m.MetaLen, m.MetaSum, meta)
}

func check(alg Algorithm, what string, wantLen uint32, want Digest, data []byte) error {
	if uint64(len(data)) != uint64(wantLen) {
		return errors.Checksum(what+" length", wantLen, len(data))
	}
	if wantLen == 0 && want.IsZero() {
		return nil
	}
	got, err := alg.Sum(data)
	if err != nil {
		return errors.Wrap(errors.PhaseManifest, errors.KindUnsupported, err, "digest "+what)
	}
	if subtle.ConstantTimeCompare(got[:], want[:]) != 1 {
		return errors.Checksum(what+" "+alg.String(), want, got)
	}
	return nil
}
