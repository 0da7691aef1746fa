// Package hash computes the payload checksums stored in snapshot headers.
package hash

import "github.com/cespare/xxhash/v2"

// Checksum computes the xxHash64 of data.
func Checksum(data []byte) uint64 {
	return xxhash.Sum64(data)
}

// ChecksumColumns computes the xxHash64 of the concatenation of blocks without
// materializing it.
func ChecksumColumns(blocks ...[]byte) uint64 {
	d := xxhash.New()
	for _, b := range blocks {
		_, _ = d.Write(b)
	}

	return d.Sum64()
}
