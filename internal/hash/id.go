// Package hash computes the artifact checksums recorded in schematization manifests.
package hash

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
)

const checksumPrefix = "xxh64:"

// Sum computes the xxHash64 of data.
func Sum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// Checksum returns the manifest representation of the xxHash64 of data,
// e.g. "xxh64:ef46db3751d8e999".
func Checksum(data []byte) string {
	return Format(xxhash.Sum64(data))
}

// Format renders sum in the manifest representation.
func Format(sum uint64) string {
	return fmt.Sprintf("%s%016x", checksumPrefix, sum)
}

// Parse reverses Format.
func Parse(s string) (uint64, error) {
	hex, ok := strings.CutPrefix(s, checksumPrefix)
	if !ok {
		return 0, fmt.Errorf("checksum %q: missing %q prefix", s, checksumPrefix)
	}

	v, err := strconv.ParseUint(hex, 16, 64)
	if err != nil {
		return 0, fmt.Errorf("checksum %q: %w", s, err)
	}

	return v, nil
}
