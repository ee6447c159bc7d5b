// Package hashing computes hex digests of streams under algorithms chosen
// by name at call time.
package hashing

import (
	"crypto/md5"  //nolint:gosec // G501: offered for checksums, not security
	"crypto/sha1" //nolint:gosec // G505: offered for checksums, not security
	"crypto/sha256"
	"crypto/sha512"
	"encoding/hex"
	"fmt"
	"hash"
	"io"
	"os"
	"reflect"
	"sort"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/zeebo/blake3"
	"golang.org/x/crypto/blake2b"
	"golang.org/x/crypto/sha3"

	"github.com/bamsammich/streams/internal/validate"
)

var (
	ErrInvalidArgument = validate.ErrInvalidArgument
	ErrNotFound        = validate.ErrNotFound
)

// algorithms maps normalized names to constructors. Keys are what normalize
// produces for the canonical spelling.
var algorithms = map[string]func() hash.Hash{
	"MD5":        md5.New,
	"SHA1":       sha1.New,
	"SHA256":     sha256.New,
	"SHA384":     sha512.New384,
	"SHA512":     sha512.New,
	"SHA3256":    func() hash.Hash { return sha3.New256() },
	"SHA3512":    func() hash.Hash { return sha3.New512() },
	"BLAKE2B256": newBlake2b256,
	"BLAKE3":     func() hash.Hash { return blake3.New() },
	"XXH64":      func() hash.Hash { return xxhash.New() },
}

// canonical holds the display names returned by Algorithms.
var canonical = map[string]string{
	"MD5":        "MD5",
	"SHA1":       "SHA1",
	"SHA256":     "SHA256",
	"SHA384":     "SHA384",
	"SHA512":     "SHA512",
	"SHA3256":    "SHA3-256",
	"SHA3512":    "SHA3-512",
	"BLAKE2B256": "BLAKE2b-256",
	"BLAKE3":     "BLAKE3",
	"XXH64":      "XXH64",
}

// aliases covers spellings that normalize differently from the canonical key.
var aliases = map[string]string{
	"SHA":      "SHA1",
	"BLAKE2B":  "BLAKE2B256",
	"XXHASH":   "XXH64",
	"XXHASH64": "XXH64",
}

// Prefixes and suffixes of fully-qualified algorithm identifiers, already
// normalized (uppercase, separators removed).
var (
	qualifiers = []string{"SYSTEMSECURITYCRYPTOGRAPHY", "CRYPTO"}
	impls      = []string{"CRYPTOSERVICEPROVIDER", "MANAGED", "CNG"}
)

func newBlake2b256() hash.Hash {
	// New256 only fails for keys longer than 64 bytes.
	h, _ := blake2b.New256(nil)
	return h
}

// normalize folds case and drops separators and namespace qualifiers, so
// "sha-256", "SHA256", "crypto/sha256" and "System.Security.Cryptography.SHA256"
// all become "SHA256".
func normalize(name string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(name) {
		switch r {
		case '-', '_', '/', '.', ' ', '\t':
			continue
		}
		b.WriteRune(r)
	}
	key := b.String()
	for _, q := range qualifiers {
		if rest, ok := strings.CutPrefix(key, q); ok && rest != "" {
			key = rest
			break
		}
	}
	for _, s := range impls {
		if rest, ok := strings.CutSuffix(key, s); ok && rest != "" {
			key = rest
			break
		}
	}
	if alias, ok := aliases[key]; ok {
		key = alias
	}
	return key
}

// Resolve returns a new hash for the named algorithm.
func Resolve(name string) (hash.Hash, error) {
	if err := validate.Name("algorithm", name); err != nil {
		return nil, err
	}
	newHash, ok := algorithms[normalize(name)]
	if !ok {
		return nil, fmt.Errorf("%w: unsupported hash algorithm %q", ErrInvalidArgument, name)
	}
	return newHash(), nil
}

// Algorithms lists the canonical names of the supported algorithms.
func Algorithms() []string {
	names := make([]string, 0, len(canonical))
	for _, n := range canonical {
		names = append(names, n)
	}
	sort.Strings(names)
	return names
}

// Compute reads r from its current position to the end and returns the digest
// under the named algorithm as uppercase hex. The reader is not rewound
// before or after.
func Compute(r io.Reader, algorithm string) (string, error) {
	if isNil(r) {
		return "", fmt.Errorf("%w: input stream is nil", ErrInvalidArgument)
	}
	h, err := Resolve(algorithm)
	if err != nil {
		return "", err
	}

	buf := make([]byte, 32*1024)
	if _, err := io.CopyBuffer(h, r, buf); err != nil {
		return "", fmt.Errorf("hash: %w", err)
	}
	return strings.ToUpper(hex.EncodeToString(h.Sum(nil))), nil
}

// isNil also catches a nil pointer stored in a non-nil interface.
func isNil(r io.Reader) bool {
	if r == nil {
		return true
	}
	v := reflect.ValueOf(r)
	switch v.Kind() {
	case reflect.Pointer, reflect.Map, reflect.Slice, reflect.Func, reflect.Chan, reflect.Interface:
		return v.IsNil()
	default:
		return false
	}
}

// HashFile computes the digest of the file at path.
func HashFile(path, algorithm string) (string, error) {
	if err := validate.Source(path); err != nil {
		return "", err
	}
	if _, err := Resolve(algorithm); err != nil {
		return "", err
	}

	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	digest, err := Compute(f, algorithm)
	if err != nil {
		return "", fmt.Errorf("hash %s: %w", path, err)
	}
	return digest, nil
}
