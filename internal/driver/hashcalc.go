package driver

import (
	"crypto/sha256"
	"encoding/binary"
	"fmt"

	"unparen/internal/parens"
)

// Digest is a SHA-256 value.
type Digest [32]byte

// combineDigest: H(content || part1 || part2 ...). Части уже в детерминированном порядке.
func combineDigest(content Digest, parts ...Digest) Digest {
	h := sha256.New()
	_, _ = h.Write(content[:])
	for _, d := range parts {
		_, _ = h.Write(d[:])
	}
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// OptionsDigest fingerprints everything in opts that can change a verdict.
func OptionsDigest(opts parens.Options) Digest {
	h := sha256.New()
	var schema [2]byte
	binary.BigEndian.PutUint16(schema[:], diskCacheSchemaVersion)
	_, _ = h.Write(schema[:])
	fmt.Fprintf(h, "arith=%s;other=%s;patterns=%s;ignore=%t;overflow=%t",
		opts.Arithmetic, opts.OtherBinary, opts.Patterns, opts.Ignore, opts.CheckOverflow)
	var out Digest
	copy(out[:], h.Sum(nil))
	return out
}

// CacheKey identifies the analysis result of one file content under opts.
func CacheKey(content Digest, opts parens.Options) Digest {
	return combineDigest(content, OptionsDigest(opts))
}
