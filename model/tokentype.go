package model

// TokenType mirrors the SentencePiece ModelProto.SentencePiece.Type enum
// ordering (sentencepiece_model.proto), which is also the ordering
// tokenizer.json's "added_tokens[].special" / HF token-type conventions
// map onto once loaded into a Vocabulary.
type TokenType = int32

const (
	_ TokenType = iota
	TOKEN_TYPE_NORMAL
	TOKEN_TYPE_UNKNOWN
	TOKEN_TYPE_CONTROL
	TOKEN_TYPE_USER_DEFINED
	TOKEN_TYPE_UNUSED
	TOKEN_TYPE_BYTE
)
