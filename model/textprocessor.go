package model

// TextProcessor is the common contract each tokenization algorithm
// (bpe.Model, wordpiece.Model, unigram.Model, trie.Model and
// model.SentencePiece) implements over a shared
// Vocabulary: encode a string to token IDs, decode IDs back to a string,
// classify an ID against a Special role, and expose the backing
// Vocabulary for callers that need direct piece lookups.
type TextProcessor interface {
	Encode(s string, addSpecial bool) ([]int32, error)
	Decode(ids []int32) (string, error)
	Is(id int32, special Special) bool
	Vocabulary() *Vocabulary
}
