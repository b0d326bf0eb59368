package screen

import (
	"bufio"
	"io"
	"strings"
	"testing"
)

// styleReader positions a reader as the compositor would after pulling the
// escape marker: at the byte immediately following it.
func styleReader(following string) *bufio.Reader {
	return bufio.NewReader(strings.NewReader(following))
}

func remaining(t *testing.T, br *bufio.Reader) string {
	t.Helper()
	rest, err := io.ReadAll(br)
	if err != nil {
		t.Fatalf("draining reader: %v", err)
	}
	return string(rest)
}

func TestApplyEscapeBoldAndColor(t *testing.T) {
	br := styleReader("[1;31mrest")
	st := Style{}

	if !applyEscape(br, &st) {
		t.Fatal("expected a well-formed sequence to apply")
	}
	if !st.Bold || st.Fg != 2 || !st.Set {
		t.Errorf("expected bold red, got %+v", st)
	}
	if rest := remaining(t, br); rest != "rest" {
		t.Errorf("expected sequence consumed through terminator, remaining %q", rest)
	}
}

func TestApplyEscapeReset(t *testing.T) {
	br := styleReader("[0m")
	st := Style{Bold: true, Fg: 5, Set: true}

	if !applyEscape(br, &st) {
		t.Fatal("expected reset to apply")
	}
	if st != (Style{}) {
		t.Errorf("expected default style after reset, got %+v", st)
	}
}

func TestApplyEscapeEmptyParameterIsReset(t *testing.T) {
	br := styleReader("[m")
	st := Style{Bold: true, Set: true}

	if !applyEscape(br, &st) {
		t.Fatal("expected bare terminator to apply")
	}
	if st != (Style{}) {
		t.Errorf("expected default style, got %+v", st)
	}
}

func TestApplyEscapeHonorsAtMostTwoParams(t *testing.T) {
	br := styleReader("[1;31;42mx")
	st := Style{}

	if !applyEscape(br, &st) {
		t.Fatal("expected sequence to apply")
	}
	if !st.Bold || st.Fg != 2 {
		t.Errorf("expected bold red from the first two params, got %+v", st)
	}
	if rest := remaining(t, br); rest != "x" {
		t.Errorf("expected whole sequence consumed, remaining %q", rest)
	}
}

func TestApplyEscapeIgnoresUnknownParams(t *testing.T) {
	br := styleReader("[42m")
	st := Style{Bold: true, Set: true}

	if !applyEscape(br, &st) {
		t.Fatal("expected sequence to apply")
	}
	if !st.Bold {
		t.Errorf("unknown parameter must not disturb the style, got %+v", st)
	}
}

func TestApplyEscapeAllForegroundColors(t *testing.T) {
	for param := 30; param <= 37; param++ {
		st := Style{}
		st.apply(param)
		if st.Fg != param-29 {
			t.Errorf("param %d: expected color slot %d, got %d", param, param-29, st.Fg)
		}
		if !st.Set {
			t.Errorf("param %d: expected style marked active", param)
		}
	}
}

func TestApplyEscapeNonBracketConsumesNothing(t *testing.T) {
	br := styleReader("Xabc")
	st := Style{}

	if applyEscape(br, &st) {
		t.Fatal("a marker not followed by the bracket is not a style sequence")
	}
	if rest := remaining(t, br); rest != "Xabc" {
		t.Errorf("expected nothing consumed, remaining %q", rest)
	}
}

func TestApplyEscapeMalformedConsumesNothing(t *testing.T) {
	br := styleReader("[3qz")
	st := Style{}

	if applyEscape(br, &st) {
		t.Fatal("a non-digit parameter byte must not apply")
	}
	if st != (Style{}) {
		t.Errorf("malformed sequence must leave the style untouched, got %+v", st)
	}
	if rest := remaining(t, br); rest != "[3qz" {
		t.Errorf("expected the partial sequence pushed back, remaining %q", rest)
	}
}

func TestApplyEscapeUnterminatedWithinBound(t *testing.T) {
	// Ten parameter bytes with no terminator exhausts the scan window.
	br := styleReader("[1234567890m")
	st := Style{}

	if applyEscape(br, &st) {
		t.Fatal("a sequence that does not close within the bound must not apply")
	}
	if rest := remaining(t, br); rest != "[1234567890m" {
		t.Errorf("expected nothing consumed, remaining %q", rest)
	}
}

func TestApplyEscapeLongestSequenceWithinBound(t *testing.T) {
	// Nine parameter bytes plus the terminator is the widest legal window.
	br := styleReader("[123456789m")
	st := Style{Bold: true, Set: true}

	if !applyEscape(br, &st) {
		t.Fatal("expected a sequence at the bound to apply")
	}
	if rest := remaining(t, br); rest != "" {
		t.Errorf("expected full consumption, remaining %q", rest)
	}
}

func TestApplyEscapeTruncatedStreamConsumesNothing(t *testing.T) {
	br := styleReader("[31")
	st := Style{}

	if applyEscape(br, &st) {
		t.Fatal("a sequence cut off by stream end must not apply")
	}
	if rest := remaining(t, br); rest != "[31" {
		t.Errorf("expected nothing consumed, remaining %q", rest)
	}
}

func TestApplyEscapeEmptyStream(t *testing.T) {
	br := styleReader("")
	st := Style{}

	if applyEscape(br, &st) {
		t.Fatal("marker at stream end must render literally")
	}
}

func TestApplyEscapeTrailingSeparatorResets(t *testing.T) {
	// "1;" parses as bold plus an empty second field, which is parameter 0.
	br := styleReader("[1;m")
	st := Style{}

	if !applyEscape(br, &st) {
		t.Fatal("expected sequence to apply")
	}
	if st != (Style{}) {
		t.Errorf("empty second parameter resets, got %+v", st)
	}
}

func TestSplitParams(t *testing.T) {
	cases := []struct {
		in            string
		first, second int
	}{
		{"", 0, -1},
		{"0", 0, -1},
		{"1", 1, -1},
		{"31", 31, -1},
		{"1;31", 1, 31},
		{"1;", 1, 0},
		{"31;1;42", 31, 1},
		{";31", 0, -1},
	}
	for _, tc := range cases {
		first, second := splitParams(tc.in)
		if first != tc.first || second != tc.second {
			t.Errorf("splitParams(%q) = (%d, %d), expected (%d, %d)",
				tc.in, first, second, tc.first, tc.second)
		}
	}
}
