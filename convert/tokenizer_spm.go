package convert

import (
	"cmp"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"slices"

	"github.com/ovtok/tokenizers/spm"
)

func parseSentencePiece(fsys fs.FS) (*Vocabulary, error) {
	f, err := fsys.Open("tokenizer.model")
	if err != nil {
		return nil, err
	}
	defer f.Close()

	bts, err := io.ReadAll(f)
	if err != nil {
		return nil, err
	}

	proto, err := spm.LoadModelProto(bts)
	if err != nil {
		return nil, err
	}

	v := Vocabulary{Model: "llama"}
	for _, piece := range proto.Pieces {
		v.Tokens = append(v.Tokens, piece.Text)
		v.Scores = append(v.Scores, piece.Score)

		switch t := piece.Type; t {
		case spm.PieceUnknown, spm.PieceControl, spm.PieceUnused, spm.PieceByte:
			v.Types = append(v.Types, t)
		default:
			v.Types = append(v.Types, spm.PieceNormal)
		}
	}

	af, err := fsys.Open("added_tokens.json")
	if errors.Is(err, os.ErrNotExist) {
		return &v, nil
	} else if err != nil {
		return nil, err
	}
	defer af.Close()

	var atm map[string]int
	if err := json.NewDecoder(af).Decode(&atm); err != nil {
		return nil, err
	}

	type t struct {
		id      int
		content string
	}

	var ts []t
	for content, id := range atm {
		ts = append(ts, t{id, content})
	}

	slices.SortFunc(ts, func(i, j t) int {
		return cmp.Compare(i.id, j.id)
	})

	n := len(v.Tokens)
	for i, t := range ts {
		if t.id != i+n {
			return nil, fmt.Errorf("invalid token id: %d", t.id)
		}

		v.Tokens = append(v.Tokens, t.content)
		v.Scores = append(v.Scores, -1000.0)
		v.Types = append(v.Types, tokenTypeUserDefined)
	}

	return &v, nil
}
