package catalog

import (
	"fmt"
	"hash/fnv"
)

// Fingerprint derives the deterministic identifier of an allele or
// proteoform from its canonical variant serialization. The token is
// hashed with 32-bit FNV-1a read as a signed integer; the id encodes
// the sign as a leading '1' or '0' followed by the absolute value
// zero-padded to ten digits. An empty token yields the reserved
// <prefix>_REFERENCE id.
func Fingerprint(prefix, canonical string) string {
	if canonical == "" {
		return prefix + "_REFERENCE"
	}
	h := fnv.New32a()
	h.Write([]byte(canonical))
	v := int32(h.Sum32())
	sign := "0"
	abs := int64(v)
	if v < 0 {
		sign = "1"
		abs = -abs
	}
	return fmt.Sprintf("%s%s%010d", prefix, sign, abs)
}
