// Package password wraps argon2id hashing behind a small Hasher type.
// Hashes are stored in PHC string format:
//
//	$argon2id$v=19$m=102400,t=2,p=8$<salt-b64>$<hash-b64>
package password

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"

	"golang.org/x/crypto/argon2"
)

const algorithmID = "argon2id"

// Policy constants. These are fixed cost parameters, not request inputs.
const (
	defaultTime        uint32 = 2
	defaultMemoryKiB   uint32 = 102400
	defaultParallelism uint8  = 8
	defaultSaltLength  uint32 = 16
	defaultKeyLength   uint32 = 32
)

// Hasher derives and verifies argon2id password hashes. It is stateless
// and safe for concurrent use.
type Hasher struct {
	time        uint32
	memory      uint32
	parallelism uint8
	saltLength  uint32
	keyLength   uint32
}

// NewHasher returns a Hasher with the service's fixed cost parameters.
func NewHasher() *Hasher {
	return &Hasher{
		time:        defaultTime,
		memory:      defaultMemoryKiB,
		parallelism: defaultParallelism,
		saltLength:  defaultSaltLength,
		keyLength:   defaultKeyLength,
	}
}

// Hash derives an opaque PHC-encoded hash from the plaintext password.
func (h *Hasher) Hash(plaintext string) (string, error) {
	salt := make([]byte, h.saltLength)
	if _, err := io.ReadFull(rand.Reader, salt); err != nil {
		return "", err
	}

	key := argon2.IDKey([]byte(plaintext), salt, h.time, h.memory, h.parallelism, h.keyLength)

	return fmt.Sprintf("$%s$v=%d$m=%d,t=%d,p=%d$%s$%s",
		algorithmID,
		argon2.Version,
		h.memory,
		h.time,
		h.parallelism,
		base64.RawStdEncoding.EncodeToString(salt),
		base64.RawStdEncoding.EncodeToString(key),
	), nil
}

// Verify reports whether plaintext matches the encoded hash. A malformed
// hash is treated as "does not match" rather than an error; the comparison
// itself is constant-time.
func (h *Hasher) Verify(plaintext, encoded string) bool {
	parsed, err := parsePHC(encoded)
	if err != nil {
		return false
	}

	computed := argon2.IDKey([]byte(plaintext), parsed.salt, parsed.time, parsed.memory, parsed.parallelism, uint32(len(parsed.hash)))
	return subtle.ConstantTimeCompare(computed, parsed.hash) == 1
}

type parsedPHC struct {
	memory      uint32
	time        uint32
	parallelism uint8
	salt        []byte
	hash        []byte
}

func parsePHC(encoded string) (*parsedPHC, error) {
	parts := strings.Split(encoded, "$")
	if len(parts) != 6 || parts[0] != "" {
		return nil, errors.New("invalid PHC format")
	}
	if parts[1] != algorithmID {
		return nil, errors.New("unsupported algorithm")
	}

	version, ok := strings.CutPrefix(parts[2], "v=")
	if !ok {
		return nil, errors.New("missing argon2 version")
	}
	v, err := strconv.Atoi(version)
	if err != nil || v != argon2.Version {
		return nil, errors.New("unsupported argon2 version")
	}

	p := &parsedPHC{}
	if err := parseParams(parts[3], p); err != nil {
		return nil, err
	}

	if p.salt, err = base64.RawStdEncoding.DecodeString(parts[4]); err != nil || len(p.salt) == 0 {
		return nil, errors.New("invalid salt encoding")
	}
	if p.hash, err = base64.RawStdEncoding.DecodeString(parts[5]); err != nil || len(p.hash) == 0 {
		return nil, errors.New("invalid hash encoding")
	}

	return p, nil
}

func parseParams(part string, dst *parsedPHC) error {
	pairs := strings.Split(part, ",")
	if len(pairs) != 3 {
		return errors.New("invalid parameter format")
	}

	for _, pair := range pairs {
		k, v, found := strings.Cut(pair, "=")
		if !found {
			return errors.New("invalid parameter entry")
		}
		switch k {
		case "m":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return errors.New("invalid memory parameter")
			}
			dst.memory = uint32(n)
		case "t":
			n, err := strconv.ParseUint(v, 10, 32)
			if err != nil || n == 0 {
				return errors.New("invalid time parameter")
			}
			dst.time = uint32(n)
		case "p":
			n, err := strconv.ParseUint(v, 10, 8)
			if err != nil || n == 0 {
				return errors.New("invalid parallelism parameter")
			}
			dst.parallelism = uint8(n)
		default:
			return errors.New("unsupported parameter")
		}
	}

	if dst.memory == 0 || dst.time == 0 || dst.parallelism == 0 {
		return errors.New("missing parameters")
	}
	return nil
}
