// Package spm decodes SentencePiece's serialized ModelProto -- the
// tokenizer.model wire format -- without depending on generated protobuf
// bindings for it. No sentencepiece_model.proto-derived Go package ships
// in this module's dependency set, so the handful of fields the
// tokenizer primitives actually need (piece table, scores, types, and
// the normalizer's precompiled charsmap) are pulled directly off the
// wire with google.golang.org/protobuf's low-level protowire decoder.
package spm

import (
	"math"

	"github.com/ovtok/tokenizers/tokenerr"
	"google.golang.org/protobuf/encoding/protowire"
)

// Piece.Type values, matching ModelProto.SentencePiece.Type's wire
// ordering (see model.TOKEN_TYPE_* for the vocabulary-wide equivalents).
const (
	PieceNormal      = 1
	PieceUnknown     = 2
	PieceControl     = 3
	PieceUserDefined = 4
	PieceUnused      = 5
	PieceByte        = 6
)

type Piece struct {
	Text  string
	Score float32
	Type  int32
}

// NormalizerSpec is ModelProto.NormalizerSpec, holding the precompiled
// double-array charsmap plus its accompanying normalization flags.
type NormalizerSpec struct {
	Name                   string
	PrecompiledCharsMap    []byte
	AddDummyPrefix         bool
	RemoveExtraWhitespaces bool
	EscapeWhitespaces      bool
}

// ModelProto is the decoded subset of SentencePiece's ModelProto this
// module's tokenizers consume: the piece table plus the normalizer spec.
type ModelProto struct {
	Pieces         []Piece
	NormalizerSpec NormalizerSpec
}

// field numbers from sentencepiece_model.proto
const (
	fieldPieces         = 1
	fieldNormalizerSpec = 3

	fieldPieceText  = 1
	fieldPieceScore = 2
	fieldPieceType  = 3

	fieldNormName                   = 1
	fieldNormPrecompiledCharsMap    = 2
	fieldNormAddDummyPrefix         = 3
	fieldNormRemoveExtraWhitespaces = 4
	fieldNormEscapeWhitespaces      = 5
)

// LoadModelProto decodes a serialized ModelProto. Unrecognized fields
// (TrainerSpec, SelfTestData, denormalizer_spec, and any fields within
// SentencePiece besides text/score/type) are skipped: they carry no
// information the tokenizers below consume.
func LoadModelProto(data []byte) (*ModelProto, error) {
	m := &ModelProto{
		// SentencePiece's own NormalizerSpec defaults: add_dummy_prefix,
		// remove_extra_whitespaces and escape_whitespaces are true unless
		// the proto explicitly says otherwise.
		NormalizerSpec: NormalizerSpec{AddDummyPrefix: true, RemoveExtraWhitespaces: true, EscapeWhitespaces: true},
	}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return nil, &tokenerr.DataError{Op: "spm.LoadModelProto", Message: "malformed tag"}
		}
		data = data[n:]

		switch num {
		case fieldPieces:
			buf, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]

			p, err := decodePiece(buf)
			if err != nil {
				return nil, err
			}
			m.Pieces = append(m.Pieces, p)

		case fieldNormalizerSpec:
			buf, n, err := consumeBytes(data, typ)
			if err != nil {
				return nil, err
			}
			data = data[n:]

			spec, err := decodeNormalizerSpec(buf)
			if err != nil {
				return nil, err
			}
			m.NormalizerSpec = spec

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return nil, &tokenerr.DataError{Op: "spm.LoadModelProto", Message: "malformed field value"}
			}
			data = data[n:]
		}
	}

	return m, nil
}

func consumeBytes(data []byte, typ protowire.Type) ([]byte, int, error) {
	if typ != protowire.BytesType {
		return nil, 0, &tokenerr.DataError{Op: "spm.LoadModelProto", Message: "expected length-delimited field"}
	}
	buf, n := protowire.ConsumeBytes(data)
	if n < 0 {
		return nil, 0, &tokenerr.DataError{Op: "spm.LoadModelProto", Message: "malformed length-delimited field"}
	}
	return buf, n, nil
}

func decodePiece(data []byte) (Piece, error) {
	p := Piece{Type: PieceNormal}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return Piece{}, &tokenerr.DataError{Op: "spm.decodePiece", Message: "malformed tag"}
		}
		data = data[n:]

		switch num {
		case fieldPieceText:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return Piece{}, &tokenerr.DataError{Op: "spm.decodePiece", Message: "malformed text field"}
			}
			p.Text = s
			data = data[n:]

		case fieldPieceScore:
			v, n := protowire.ConsumeFixed32(data)
			if n < 0 {
				return Piece{}, &tokenerr.DataError{Op: "spm.decodePiece", Message: "malformed score field"}
			}
			p.Score = math.Float32frombits(v)
			data = data[n:]

		case fieldPieceType:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return Piece{}, &tokenerr.DataError{Op: "spm.decodePiece", Message: "malformed type field"}
			}
			p.Type = int32(v)
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return Piece{}, &tokenerr.DataError{Op: "spm.decodePiece", Message: "malformed field value"}
			}
			data = data[n:]
		}
	}

	return p, nil
}

func decodeNormalizerSpec(data []byte) (NormalizerSpec, error) {
	spec := NormalizerSpec{AddDummyPrefix: true, RemoveExtraWhitespaces: true, EscapeWhitespaces: true}

	for len(data) > 0 {
		num, typ, n := protowire.ConsumeTag(data)
		if n < 0 {
			return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed tag"}
		}
		data = data[n:]

		switch num {
		case fieldNormName:
			s, n := protowire.ConsumeString(data)
			if n < 0 {
				return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed name field"}
			}
			spec.Name = s
			data = data[n:]

		case fieldNormPrecompiledCharsMap:
			buf, n, err := consumeBytes(data, typ)
			if err != nil {
				return NormalizerSpec{}, err
			}
			spec.PrecompiledCharsMap = buf
			data = data[n:]

		case fieldNormAddDummyPrefix:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed add_dummy_prefix field"}
			}
			spec.AddDummyPrefix = v != 0
			data = data[n:]

		case fieldNormRemoveExtraWhitespaces:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed remove_extra_whitespaces field"}
			}
			spec.RemoveExtraWhitespaces = v != 0
			data = data[n:]

		case fieldNormEscapeWhitespaces:
			v, n := protowire.ConsumeVarint(data)
			if n < 0 {
				return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed escape_whitespaces field"}
			}
			spec.EscapeWhitespaces = v != 0
			data = data[n:]

		default:
			n := protowire.ConsumeFieldValue(num, typ, data)
			if n < 0 {
				return NormalizerSpec{}, &tokenerr.DataError{Op: "spm.decodeNormalizerSpec", Message: "malformed field value"}
			}
			data = data[n:]
		}
	}

	return spec, nil
}
