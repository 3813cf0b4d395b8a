package manifest

import (
	"crypto/ed25519"
	"math"
	"os"

	"github.com/wippyai/wasm-embedded/errors"
)

// Builder assembles a Manifest. Digests are computed as soon as a binary is
// supplied. The first failure is kept and returned by Build; later calls
// are ignored. Build consumes the builder.
type Builder struct {
	err   error
	m     Manifest
	alg   Algorithm
	built bool
}

// Option configures a Builder.
type Option func(*Builder)

// WithAlgorithm selects the digest algorithm. The default is SHA512.
func WithAlgorithm(a Algorithm) Option {
	return func(b *Builder) { b.alg = a }
}

// NewBuilder returns a builder for a version 1 record.
func NewBuilder(opts ...Option) *Builder {
	b := &Builder{m: Manifest{Version: Version}, alg: SHA512}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Builder) usable() bool {
	return b.err == nil && !b.built
}

func (b *Builder) fail(err error) *Builder {
	if b.err == nil {
		b.err = err
	}
	return b
}

func (b *Builder) sum(what string, data []byte) (uint32, Digest, bool) {
	if uint64(len(data)) > math.MaxUint32 {
		b.fail(errors.Overflow(errors.PhaseManifest, len(data), what+" length (u32)"))
		return 0, Digest{}, false
	}
	d, err := b.alg.Sum(data)
	if err != nil {
		b.fail(errors.Wrap(errors.PhaseManifest, errors.KindUnsupported, err, "digest "+what))
		return 0, Digest{}, false
	}
	return uint32(len(data)), d, true
}

func (b *Builder) sumFile(what, path string) (uint32, Digest, bool) {
	f, err := os.Open(path)
	if err != nil {
		b.fail(errors.Wrap(errors.PhaseManifest, errors.KindNotFound, err, "open "+what+" binary"))
		return 0, Digest{}, false
	}
	defer f.Close()

	d, n, err := b.alg.SumReader(f)
	if err != nil {
		b.fail(errors.Wrap(errors.PhaseManifest, errors.KindInvalidData, err, "read "+what+" binary"))
		return 0, Digest{}, false
	}
	if n > math.MaxUint32 {
		b.fail(errors.Overflow(errors.PhaseManifest, n, what+" length (u32)"))
		return 0, Digest{}, false
	}
	return uint32(n), d, true
}

// AppBin records the application binary.
func (b *Builder) AppBin(data []byte) *Builder {
	if !b.usable() {
		return b
	}
	if n, d, ok := b.sum("app", data); ok {
		b.m.AppLen, b.m.AppSum = n, d
	}
	return b
}

// AppFile records the application binary read from path.
func (b *Builder) AppFile(path string) *Builder {
	if !b.usable() {
		return b
	}
	if n, d, ok := b.sumFile("app", path); ok {
		b.m.AppLen, b.m.AppSum = n, d
	}
	return b
}

// MetaBin records the metadata binary.
func (b *Builder) MetaBin(data []byte) *Builder {
	if !b.usable() {
		return b
	}
	if n, d, ok := b.sum("meta", data); ok {
		b.m.MetaLen, b.m.MetaSum = n, d
	}
	return b
}

// MetaFile records the metadata binary read from path.
func (b *Builder) MetaFile(path string) *Builder {
	if !b.usable() {
		return b
	}
	if n, d, ok := b.sumFile("meta", path); ok {
		b.m.MetaLen, b.m.MetaSum = n, d
	}
	return b
}

// Flags sets the caller-defined flags.
func (b *Builder) Flags(flags uint16) *Builder {
	if b.usable() {
		b.m.Flags = flags
	}
	return b
}

// Key sets the public key.
func (b *Builder) Key(key ed25519.PublicKey) *Builder {
	if !b.usable() {
		return b
	}
	if len(key) != KeySize {
		return b.fail(errors.New(errors.PhaseManifest, errors.KindInvalidInput).
			Detail("public key is %d bytes, want %d", len(key), KeySize).
			Build())
	}
	copy(b.m.Key[:], key)
	return b
}

// Build returns the record. The sig field is left zero. Calling Build a
// second time fails.
func (b *Builder) Build() (Manifest, error) {
	if b.built {
		return Manifest{}, errors.New(errors.PhaseManifest, errors.KindClosed).
			Detail("builder already consumed").
			Build()
	}
	b.built = true
	if b.err != nil {
		return Manifest{}, b.err
	}
	return b.m, nil
}
