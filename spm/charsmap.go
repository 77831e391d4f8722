package spm

import (
	"bytes"
	"unsafe"

	"github.com/ovtok/tokenizers/tokenerr"
)

const xcdaArrayNodeSize = 4 // one packed uint32 per double-array node

// CharsMap is a decoded SentencePiece precompiled_charsmap: a double-array
// trie (Darts-clone layout) over UTF-8 prefixes, each leaf pointing at a
// NUL-terminated replacement string in a shared blob. It implements the
// per-prefix normalization CharsMapNormalization and the Unigram
// tokenizer's own input normalization both rely on.
type CharsMap struct {
	xcda               []uint32
	prefixReplacements []byte
}

// ParseCharsMap decodes the wire format written by SentencePiece's
// normalizer_spec.precompiled_charsmap: a 4-byte little-endian blob size,
// that many bytes of packed double-array trie nodes, then the
// NUL-delimited replacement-string blob.
func ParseCharsMap(data []byte) (*CharsMap, error) {
	if len(data) < 4 {
		return nil, &tokenerr.DataError{Op: "spm.ParseCharsMap", Message: "precompiled charsmap too short"}
	}

	words := unsafe.Slice((*uint32)(unsafe.Pointer(&data[0])), len(data)/xcdaArrayNodeSize)
	blobSize := int(words[0])
	offset := 4

	if blobSize+offset > len(data) {
		return nil, &tokenerr.DataError{Op: "spm.ParseCharsMap", Message: "xcda blob size exceeds buffer"}
	}

	return &CharsMap{
		xcda:               unsafe.Slice((*uint32)(unsafe.Pointer(&data[offset])), blobSize/xcdaArrayNodeSize),
		prefixReplacements: data[offset+blobSize:],
	}, nil
}

func (c *CharsMap) node(index uint32) (uint32, error) {
	if int(index) >= len(c.xcda) {
		return 0, &tokenerr.DataError{Op: "spm.CharsMap", Message: "xcda index out of bounds"}
	}
	return c.xcda[index], nil
}

func (c *CharsMap) base(index uint32) (uint32, error) {
	packed, err := c.node(index)
	if err != nil {
		return 0, err
	}
	shift := (packed & (1 << 9)) >> 6
	return (packed >> 10) << shift, nil
}

func (c *CharsMap) lcheck(index uint32) (uint32, error) {
	packed, err := c.node(index)
	if err != nil {
		return 0, err
	}
	return packed & ((1 << 31) | 0xff), nil
}

func (c *CharsMap) leaf(index uint32) (bool, error) {
	packed, err := c.node(index)
	if err != nil {
		return false, err
	}
	return ((packed >> 8) & 1) == 1, nil
}

func (c *CharsMap) value(index uint32) (uint32, error) {
	packed, err := c.node(index)
	if err != nil {
		return 0, err
	}
	return packed & ((1 << 31) - 1), nil
}

// replacement returns the NUL-terminated string stored at offset in the
// replacement blob.
func (c *CharsMap) replacement(offset uint32) (string, error) {
	if int(offset) >= len(c.prefixReplacements) {
		return "", &tokenerr.DataError{Op: "spm.CharsMap", Message: "replacement offset out of bounds"}
	}

	rest := c.prefixReplacements[offset:]
	end := bytes.IndexByte(rest, 0)
	if end < 0 {
		return "", &tokenerr.DataError{Op: "spm.CharsMap", Message: "replacement string missing NUL terminator"}
	}

	return string(rest[:end]), nil
}

// LongestPrefix walks the trie over input's bytes and returns the
// replacement registered for the longest matching prefix and the number of
// input bytes it consumed; if no prefix matched at all, it returns "" and 0.
func (c *CharsMap) LongestPrefix(input string) (replacement string, consumed int, err error) {
	if len(c.xcda) == 0 || input == "" {
		return "", 0, nil
	}

	nodeIndex, err := c.base(0)
	if err != nil {
		return "", 0, err
	}

	var longestLen int
	var longestOffset uint32

	for i := 0; i < len(input); i++ {
		b := uint32(input[i])
		if b == 0 {
			break
		}

		nodeIndex ^= b

		lc, err := c.lcheck(nodeIndex)
		if err != nil {
			return "", 0, err
		}
		if lc != b {
			break
		}

		isLeaf, err := c.leaf(nodeIndex)
		if err != nil {
			return "", 0, err
		}

		base, err := c.base(nodeIndex)
		if err != nil {
			return "", 0, err
		}
		nodeIndex ^= base

		if isLeaf {
			longestLen = i + 1
			longestOffset, err = c.value(nodeIndex)
			if err != nil {
				return "", 0, err
			}
		}
	}

	if longestLen == 0 {
		return "", 0, nil
	}

	replacement, err = c.replacement(longestOffset)
	if err != nil {
		return "", 0, err
	}
	return replacement, longestLen, nil
}
