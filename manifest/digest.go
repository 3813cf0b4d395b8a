package manifest

import (
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"

	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
)

// DigestSize is the width of every checksum field.
const DigestSize = 64

// Digest is a 64-byte checksum.
type Digest [DigestSize]byte

func (d Digest) String() string {
	return hex.EncodeToString(d[:])
}

// IsZero reports whether every byte is zero.
func (d Digest) IsZero() bool {
	return d == Digest{}
}

// Algorithm selects the digest function.
type Algorithm uint8

const (
	SHA512 Algorithm = iota
	BLAKE2b512
	BLAKE3
)

// Algorithms lists every supported algorithm.
var Algorithms = []Algorithm{SHA512, BLAKE2b512, BLAKE3}

func (a Algorithm) String() string {
	switch a {
	case SHA512:
		return "sha512"
	case BLAKE2b512:
		return "blake2b-512"
	case BLAKE3:
		return "blake3"
	}
	return fmt.Sprintf("algorithm(%d)", uint8(a))
}

// ParseAlgorithm returns the algorithm with the given name.
func ParseAlgorithm(name string) (Algorithm, error) {
	for _, a := range Algorithms {
		if a.String() == name {
			return a, nil
		}
	}
	return 0, fmt.Errorf("unknown digest algorithm %q", name)
}

// digester accumulates input and produces a 64-byte digest.
type digester interface {
	io.Writer
	digest() Digest
}

type stdDigester struct {
	hash.Hash
}

func (d stdDigester) digest() Digest {
	var out Digest
	copy(out[:], d.Sum(nil))
	return out
}

type blake3Digester struct {
	*blake3.Hasher
}

// digest reads 64 bytes of extended output.
func (d blake3Digester) digest() Digest {
	var out Digest
	_, _ = d.Digest().Read(out[:])
	return out
}

func (a Algorithm) start() (digester, error) {
	switch a {
	case SHA512:
		return stdDigester{sha512.New()}, nil
	case BLAKE2b512:
		h, err := blake2b.New512(nil)
		if err != nil {
			return nil, err
		}
		return stdDigester{h}, nil
	case BLAKE3:
		return blake3Digester{blake3.New()}, nil
	}
	return nil, fmt.Errorf("unknown digest algorithm %d", uint8(a))
}

// Sum returns the digest of data.
func (a Algorithm) Sum(data []byte) (Digest, error) {
	d, err := a.start()
	if err != nil {
		return Digest{}, err
	}
	_, _ = d.Write(data)
	return d.digest(), nil
}

// SumReader returns the digest of everything read from r and its length.
func (a Algorithm) SumReader(r io.Reader) (Digest, int64, error) {
	d, err := a.start()
	if err != nil {
		return Digest{}, 0, err
	}
	n, err := io.Copy(d, r)
	if err != nil {
		return Digest{}, n, err
	}
	return d.digest(), n, nil
}
