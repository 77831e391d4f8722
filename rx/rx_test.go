package rx

import "testing"

func TestCompileEmptyPatternIsNoop(t *testing.T) {
	re := Compile("Test", "")
	if _, ok := re.Iterate([]rune("hello")).Next(); ok {
		t.Fatalf("expected no match from empty pattern")
	}
	if got := re.Substitute("hello", "world", true); got != "hello" {
		t.Fatalf("substitute on no-op regex changed input: %q", got)
	}
}

func TestCompileInvalidPatternDegradesToNoop(t *testing.T) {
	re := Compile("Test", "(unterminated")
	if re.Err() == nil {
		t.Fatalf("expected PatternError to be recorded")
	}
	if _, ok := re.Iterate([]rune("hello")).Next(); ok {
		t.Fatalf("expected no match from degraded regex")
	}
}

func TestIterateSequentialMatches(t *testing.T) {
	re := Compile("Test", `\s+`)
	it := re.Iterate([]rune("a  b   c"))

	var spans []Span
	for {
		sp, ok := it.Next()
		if !ok {
			break
		}
		spans = append(spans, sp)
	}

	want := []Span{{1, 3}, {4, 7}}
	if len(spans) != len(want) {
		t.Fatalf("got %v spans, want %v", spans, want)
	}
	for i := range want {
		if spans[i] != want[i] {
			t.Fatalf("span %d: got %v want %v", i, spans[i], want[i])
		}
	}
}

func TestMatchAndFindGroupIsolatesCaptureSpan(t *testing.T) {
	re := Compile("SpecialTokensSplit", `(\[CLS\]|\[SEP\])`)
	text := []rune("[CLS]foo[SEP]bar")

	it := re.Iterate(text)

	full, group, ok := it.NextWithGroup()
	if !ok {
		t.Fatalf("expected a match")
	}
	if full != (Span{0, 5}) || group != (Span{0, 5}) {
		t.Fatalf("got full=%v group=%v", full, group)
	}

	full, group, ok = it.NextWithGroup()
	if !ok {
		t.Fatalf("expected a second match")
	}
	if full != (Span{8, 13}) || group != (Span{8, 13}) {
		t.Fatalf("got full=%v group=%v", full, group)
	}
}

func TestSubstituteGlobalAndSingle(t *testing.T) {
	re := Compile("Test", `a`)

	if got := re.Substitute("banana", "o", true); got != "bonono" {
		t.Fatalf("global substitute: got %q", got)
	}
	if got := re.Substitute("banana", "o", false); got != "bonana" {
		t.Fatalf("single substitute: got %q", got)
	}
}

func TestMustParseByteToken(t *testing.T) {
	b, ok := rxByteTokenHelper("<0xEA>")
	if !ok || b != 0xEA {
		t.Fatalf("got b=%v ok=%v, want 0xEA true", b, ok)
	}
	if _, ok := rxByteTokenHelper("notabytetoken"); ok {
		t.Fatalf("expected non-byte-token literal to fail")
	}
}

func rxByteTokenHelper(s string) (byte, bool) { return MustParseByteToken(s) }
