// Package unigram implements SentencePiece's Unigram language model
// tokenizer: prefix normalization through a precompiled charsmap followed
// by a Viterbi search over the vocabulary's per-token log probabilities.
package unigram

import (
	"fmt"
	"math"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/ovtok/tokenizers/bytetrie"
	"github.com/ovtok/tokenizers/model"
	"github.com/ovtok/tokenizers/spm"
)

const (
	escapedSpace             = "\xE2\x96\x81"
	unknownTokenScorePenalty = 10.0
	ggmlPrefix               = "▁"
)

var pieceReplacer = strings.NewReplacer(escapedSpace, " ")

type bestTokenization struct {
	tokenID     int32
	inputOffset int
	scoreSum    float64
}

// Model is a Unigram tokenizer over a fixed vocabulary and an optional
// SentencePiece precompiled charsmap used for prefix normalization.
// charsMap may be nil, in which case normalizePrefix falls back to
// copying a single UTF-8 rune at a time.
type Model struct {
	vocab             *model.Vocabulary
	charsMap          *spm.CharsMap
	minScore          float32
	maxScore          float32
	unknownTokenScore float32
	tokenMatcher      *bytetrie.Trie
	userDefinedMatch  *bytetrie.Trie
	specialUnkID      int32
}

var _ model.TextProcessor = (*Model)(nil)

// New builds a Model from vocab. specialUnkID identifies the vocabulary
// entry emitted for unmatched input spans.
func New(vocab *model.Vocabulary, charsMap *spm.CharsMap, specialUnkID int32) *Model {
	m := &Model{
		vocab:            vocab,
		charsMap:         charsMap,
		minScore:         math.MaxFloat32,
		maxScore:         -math.MaxFloat32,
		tokenMatcher:     bytetrie.New(),
		userDefinedMatch: bytetrie.New(),
		specialUnkID:     specialUnkID,
	}
	m.buildTokenMatchers()
	m.unknownTokenScore = m.minScore - unknownTokenScorePenalty
	return m
}

func (m *Model) buildTokenMatchers() {
	for id, tokenType := range m.vocab.Types {
		if tokenType == model.TOKEN_TYPE_NORMAL {
			score := m.vocab.Scores[id]
			if score < m.minScore {
				m.minScore = score
			}
			if score > m.maxScore {
				m.maxScore = score
			}
		}

		if tokenType == model.TOKEN_TYPE_NORMAL || tokenType == model.TOKEN_TYPE_USER_DEFINED || tokenType == model.TOKEN_TYPE_UNUSED {
			m.tokenMatcher.Add([]byte(m.vocab.Values[id]), int32(id))
		}

		if tokenType == model.TOKEN_TYPE_USER_DEFINED {
			m.userDefinedMatch.Add([]byte(m.vocab.Values[id]), int32(id))
		}
	}
}

func (m *Model) normalizePrefix(input string) (string, int, error) {
	if input == "" {
		return "", 0, nil
	}

	idx := 0
	if id := m.userDefinedMatch.FindLongest([]byte(input), &idx); id >= 0 && idx > 0 {
		return input[:idx], idx, nil
	}

	if m.charsMap != nil {
		replacement, consumed, err := m.charsMap.LongestPrefix(input)
		if err != nil {
			return "", 0, err
		}
		if consumed > 0 {
			return replacement, consumed, nil
		}
	}

	if r, size := utf8.DecodeRuneInString(input); r != utf8.RuneError {
		return string(r), size, nil
	}
	return "\xEF\xBF\xBD", 1, nil
}

func (m *Model) normalize(input string) (string, error) {
	var out strings.Builder
	out.Grow(len(input) + 10)

	prependSpace := !m.vocab.TreatWhitespaceAsSuffix && m.vocab.AddSpacePrefix
	appendSpace := m.vocab.TreatWhitespaceAsSuffix && m.vocab.AddSpacePrefix
	mergeSpaces := m.vocab.RemoveExtraWhitespaces

	var spacePrepended, inWord bool

	for len(input) > 0 {
		piece, consumed, err := m.normalizePrefix(input)
		if err != nil {
			return "", err
		}

		for i := 0; i < len(piece); i++ {
			c := piece[i]
			if c != ' ' {
				if !inWord {
					inWord = true
					if (prependSpace && !spacePrepended) || mergeSpaces {
						out.WriteString(escapedSpace)
						spacePrepended = true
					}
				}
				out.WriteByte(c)
			} else {
				inWord = false
				if !mergeSpaces {
					out.WriteString(escapedSpace)
				}
			}
		}
		input = input[consumed:]
	}

	if appendSpace {
		out.WriteString(escapedSpace)
	}

	return out.String(), nil
}

func utf8Len(c byte) int {
	return []int{1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 1, 2, 2, 3, 4}[c>>4]
}

// Encode normalizes s and runs a Viterbi search over token spans, taking
// the maximum-log-probability path through the normalized string.
func (m *Model) Encode(s string, addSpecial bool) ([]int32, error) {
	var output []int32
	if addSpecial && m.vocab.AddBOS {
		output = append(output, m.vocab.BOS...)
	}

	normalized, err := m.normalize(s)
	if err != nil {
		return nil, err
	}
	if len(normalized) == 0 {
		if addSpecial && m.vocab.AddEOS {
			output = append(output, m.vocab.EOS...)
		}
		return output, nil
	}

	results := make([]bestTokenization, len(normalized)+1)
	for i := range results {
		results[i] = bestTokenization{tokenID: m.specialUnkID, scoreSum: -math.MaxFloat64}
	}
	results[0].scoreSum = 0

	for offset := 0; offset < len(normalized); {
		n := min(utf8Len(normalized[offset]), len(normalized)-offset)
		found := m.matchTokens(normalized, offset, n, results)
		if !found {
			m.markUnknown(offset, n, results)
		}
		offset += n
	}

	output = m.backtrack(normalized, results, output)

	if addSpecial && m.vocab.AddEOS {
		output = append(output, m.vocab.EOS...)
	}

	return output, nil
}

func (m *Model) matchTokens(normalized string, offset, singleRuneLen int, results []bestTokenization) bool {
	found := false
	current := results[offset]

	m.tokenMatcher.WalkPrefixes([]byte(normalized), offset, func(end int, tokenID int32) {
		if end-offset == singleRuneLen {
			found = true
		}

		score := current.scoreSum
		if m.vocab.Types[tokenID] != model.TOKEN_TYPE_USER_DEFINED {
			score += float64(m.vocab.Scores[tokenID])
		}

		if champ := &results[end]; score > champ.scoreSum {
			champ.tokenID = tokenID
			champ.inputOffset = offset
			champ.scoreSum = score
		}
	})

	return found
}

func (m *Model) markUnknown(offset, singleRuneLen int, results []bestTokenization) {
	score := results[offset].scoreSum + float64(m.unknownTokenScore)
	end := offset + singleRuneLen
	if champ := &results[end]; score > champ.scoreSum {
		champ.scoreSum = score
		champ.inputOffset = offset
		champ.tokenID = m.specialUnkID
	}
}

func (m *Model) backtrack(normalized string, results []bestTokenization, output []int32) []int32 {
	prevUnknown := false

	for t := results[len(normalized)]; ; t = results[t.inputOffset] {
		unknown := t.tokenID == m.specialUnkID
		if !(unknown && prevUnknown) {
			output = append(output, t.tokenID)
		}
		if t.inputOffset == 0 {
			break
		}
		prevUnknown = unknown
	}

	slices.Reverse(output)
	return output
}

// Decode joins piece text for ids, reversing the escaped-space encoding
// normalize introduced.
func (m *Model) Decode(ids []int32) (string, error) {
	var sb strings.Builder
	sb.Grow(len(ids) * 4)

	for i, id := range ids {
		if id < 0 || int(id) >= len(m.vocab.Values) {
			return "", fmt.Errorf("unigram: invalid token id: %d", id)
		}

		piece := m.vocab.Values[id]
		if i > 0 && m.needsSeparator(piece) {
			sb.WriteByte(' ')
		}
		sb.WriteString(pieceReplacer.Replace(strings.TrimPrefix(piece, ggmlPrefix)))
	}

	return sb.String(), nil
}

func (m *Model) needsSeparator(piece string) bool {
	return strings.HasPrefix(piece, ggmlPrefix) ||
		(strings.HasPrefix(piece, "[") && strings.HasSuffix(piece, "]"))
}

func (m *Model) Is(id int32, special model.Special) bool {
	return m.vocab.Is(id, special)
}

func (m *Model) Vocabulary() *model.Vocabulary {
	return m.vocab
}
