package screen

import "bufio"

// escapeMarker introduces a style sequence in command output.
const escapeMarker = '\x1b'

// maxStyleBytes bounds the scan for the sequence terminator; sequences that
// do not close within it are treated as plain data.
const maxStyleBytes = 10

// applyEscape interprets a bracketed style sequence following the escape
// marker. On a well-formed sequence it consumes the bytes through the
// terminator, folds at most two parameters into st, and returns true.
// Otherwise it consumes nothing and returns false, and the caller renders
// the marker as ordinary data.
func applyEscape(br *bufio.Reader, st *Style) bool {
	intro, err := br.Peek(1)
	if err != nil || intro[0] != '[' {
		return false
	}
	for n := 2; n <= maxStyleBytes+1; n++ {
		window, _ := br.Peek(n)
		if len(window) < n {
			return false
		}
		switch b := window[n-1]; {
		case b == 'm':
			first, second := splitParams(string(window[1 : n-1]))
			br.Discard(n)
			st.apply(first)
			st.apply(second)
			return true
		case (b < '0' || b > '9') && b != ';':
			return false
		}
	}
	return false
}

// splitParams parses at most two semicolon-separated numeric parameters.
// The second is -1 (ignored) unless the first contained digits and a
// separator follows it; an empty second field parses as 0.
func splitParams(s string) (first, second int) {
	second = -1
	i := 0
	for i < len(s) && s[i] >= '0' && s[i] <= '9' {
		first = first*10 + int(s[i]-'0')
		i++
	}
	if i == 0 || i >= len(s) {
		return first, second
	}
	second = 0
	for j := i + 1; j < len(s) && s[j] >= '0' && s[j] <= '9'; j++ {
		second = second*10 + int(s[j]-'0')
	}
	return first, second
}
