package assemble

import (
	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/tokenerr"
)

// Side selects which end of a row Truncate crops from.
type Side int

const (
	Right Side = iota
	Left
)

// Mode selects how TruncatePair distributes a two-input length budget.
type Mode int

const (
	LongestFirst Mode = iota
	OnlyFirst
	OnlySecond
)

func cropTo(values []int32, target int, side Side) []int32 {
	if target < 0 {
		target = 0
	}
	if len(values) <= target {
		return values
	}
	if side == Left {
		return values[len(values)-target:]
	}
	return values[:target]
}

// Truncate crops each row of in to at most maxLength elements, dropping
// from side.
func Truncate(in ragged.Ints, maxLength int, side Side) (ragged.Ints, error) {
	if maxLength < 0 {
		return ragged.Ints{}, &tokenerr.ConfigError{Op: "assemble.Truncate", Attr: "max_length", Message: "must be non-negative"}
	}

	var b ragged.IntsBuilder
	for i := 0; i < in.Len(); i++ {
		b.Add(cropTo(in.Get(i), maxLength, side))
	}
	return b.Build(), nil
}

// TruncatePair jointly crops two row-aligned token-ID tensors so that
// first_len + second_len <= maxLength, per mode.
func TruncatePair(first, second ragged.Ints, maxLength int, side Side, mode Mode) (ragged.Ints, ragged.Ints, error) {
	if maxLength < 0 {
		return ragged.Ints{}, ragged.Ints{}, &tokenerr.ConfigError{Op: "assemble.TruncatePair", Attr: "max_length", Message: "must be non-negative"}
	}
	if first.Len() != second.Len() {
		return ragged.Ints{}, ragged.Ints{}, &tokenerr.ShapeError{Op: "assemble.TruncatePair", Input: "second", Message: "row count mismatch with first"}
	}

	var bf, bs ragged.IntsBuilder
	for i := 0; i < first.Len(); i++ {
		a, b := first.Get(i), second.Get(i)
		aTarget, bTarget := pairTargets(len(a), len(b), maxLength, mode)
		bf.Add(cropTo(a, aTarget, side))
		bs.Add(cropTo(b, bTarget, side))
	}
	return bf.Build(), bs.Build(), nil
}

// pairTargets computes the per-side element budgets for one row given
// its uncropped lengths firstLen/secondLen.
func pairTargets(firstLen, secondLen, maxLength int, mode Mode) (int, int) {
	total := firstLen + secondLen
	if total <= maxLength {
		return firstLen, secondLen
	}

	switch mode {
	case OnlyFirst:
		target := maxLength - secondLen
		if target < 0 {
			target = 0
		}
		if firstLen > target {
			return target, secondLen
		}
		return firstLen, secondLen

	case OnlySecond:
		target := maxLength - firstLen
		if target < 0 {
			target = 0
		}
		if secondLen > target {
			return firstLen, target
		}
		return firstLen, secondLen

	default: // LongestFirst
		half := maxLength / 2
		switch {
		case firstLen <= half:
			return firstLen, maxLength - firstLen
		case secondLen <= half:
			return maxLength - secondLen, secondLen
		default:
			firstTarget, secondTarget := half, maxLength-half
			if maxLength%2 != 0 && firstLen >= secondLen {
				// The odd leftover element goes to whichever side was
				// longer before truncation; ties favor the first side.
				firstTarget, secondTarget = secondTarget, firstTarget
			}
			return firstTarget, secondTarget
		}
	}
}
