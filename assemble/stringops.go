package assemble

import (
	"github.com/dgryski/go-farm"

	"github.com/ovtok/tokenizers/tokenerr"
)

// EqualStr compares a and b elementwise, broadcasting a size-1 side
// against the other, emitting {0,1} rather than a Go bool for downstream
// numeric-tensor compatibility. Either side empty yields an empty result.
func EqualStr(a, b []string) ([]int32, error) {
	if len(a) == 0 || len(b) == 0 {
		return nil, nil
	}

	size := len(a)
	switch {
	case len(a) == len(b):
	case len(a) == 1:
		size = len(b)
	case len(b) == 1:
		size = len(a)
	default:
		return nil, &tokenerr.ShapeError{Op: "assemble.EqualStr", Input: "b", Message: "lengths are incompatible for broadcasting"}
	}

	out := make([]int32, size)
	for i := 0; i < size; i++ {
		av := a[i%len(a)]
		bv := b[i%len(b)]
		if av == bv {
			out[i] = 1
		}
	}
	return out, nil
}

// StringToHashBucket maps each value to farm.Hash64(value) % numBuckets.
func StringToHashBucket(values []string, numBuckets uint64) ([]int32, error) {
	if numBuckets == 0 {
		return nil, &tokenerr.ConfigError{Op: "assemble.StringToHashBucket", Attr: "num_buckets", Message: "must be positive"}
	}

	out := make([]int32, len(values))
	for i, v := range values {
		out[i] = int32(farm.Hash64([]byte(v)) % numBuckets)
	}
	return out, nil
}
