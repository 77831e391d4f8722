package normalize

import (
	"golang.org/x/text/unicode/norm"

	"github.com/ovtok/tokenizers/ragged"
	"github.com/ovtok/tokenizers/tokenerr"
)

var normForms = map[string]norm.Form{
	"NFC":  norm.NFC,
	"NFD":  norm.NFD,
	"NFKC": norm.NFKC,
	"NFKD": norm.NFKD,
}

// NormalizeUnicode applies one of the four standard Unicode normalization
// forms. Any other form name is a ConfigError, matching the operator's
// contract that unrecognized forms are rejected at construction rather
// than silently passed through.
func NormalizeUnicode(in ragged.Strings, form string) (ragged.Strings, error) {
	f, ok := normForms[form]
	if !ok {
		return ragged.Strings{}, &tokenerr.ConfigError{Op: "NormalizeUnicode", Attr: "form", Message: "unrecognized normalization form " + form}
	}

	var b ragged.Builder
	for j := 0; j < in.Len(); j++ {
		if in.Skip(j) {
			b.Add(in.Get(j), true)
			continue
		}
		b.Add(f.Bytes(in.Get(j)), false)
	}
	return b.Build(), nil
}
