// Package sortkey encodes insertion-style provision numbering ("3", "3ZA",
// "19DZA") into lexicographically sortable keys. The legislature inserts new
// provisions between existing ones without renumbering, so document order is
// recoverable only from the numbering grammar itself:
//
//	3 -> 3ZA -> ... -> 3ZZ -> 3A -> 3AA -> ... -> 3Z -> 4
//
// A key is three dot-joined 3-digit groups: the numeric base, then up to two
// letter segments. Z-prefixed pairs (ZA..ZZ) encode to 1..26 so they sort
// before plain letters, which encode to 10,20,..,260. The gaps 1..9 and
// 11..19 stay free for nested insertions.
package sortkey

import (
	"fmt"
	"strings"
)

// Encoded is the result of encoding one numbering suffix. Deep marks
// suffixes needing more than the two documented letter segments; such keys
// carry extra groups (still in order, since '.' sorts before '0') and should
// be flagged for review. Unparsed holds any trailing text the grammar could
// not consume.
type Encoded struct {
	Key      string
	Deep     bool
	Unparsed string
}

// Encode converts a bare alphanumeric numbering suffix into its sort key.
// The empty suffix encodes to "000.000.000" (root/title rows).
func Encode(numbering string) Encoded {
	suffix := strings.ToUpper(strings.TrimSpace(numbering))

	groups := []string{padGroup(takeDigits(&suffix))}

	segmentCount := 0
	for suffix != "" {
		first := suffix[0]
		switch {
		case first == 'Z' && len(suffix) >= 2 && isLetter(suffix[1]):
			// Z-prefixed pair: ZA=1 .. ZZ=26, reserved to sort before
			// plain letters.
			groups = append(groups, fmt.Sprintf("%03d", int(suffix[1]-'A')+1))
			suffix = suffix[2:]
			segmentCount++
		case isLetter(first):
			// Plain letter: A=10 .. Z=260, leaving numeric gaps for
			// future nested insertions.
			groups = append(groups, fmt.Sprintf("%03d", int(first-'A'+1)*10))
			suffix = suffix[1:]
			segmentCount++
		case isDigit(first):
			// Digits after letters: leading-letter numbering such as
			// "A1" (inserted before section 1).
			groups = append(groups, padGroup(takeDigits(&suffix)))
			segmentCount++
		default:
			// Unrecognized character ends the grammar; keep what was
			// parsed and report the remainder.
			return Encoded{Key: finishKey(groups), Deep: segmentCount > 2, Unparsed: suffix}
		}
	}

	return Encoded{Key: finishKey(groups), Deep: segmentCount > 2}
}

// AppendExtent appends a territorial qualifier to a key. Tilde sorts after
// digits and letters, so a provision's parallel variants cluster directly
// after the shared key, ordered alphabetically by extent code.
func AppendExtent(key, extentCode string) string {
	if extentCode == "" {
		return key
	}
	return key + "~" + extentCode
}

// finishKey pads the group list to the pinned three groups and joins.
func finishKey(groups []string) string {
	for len(groups) < 3 {
		groups = append(groups, "000")
	}
	return strings.Join(groups, ".")
}

// takeDigits consumes the leading digit run of *s and returns it.
func takeDigits(s *string) string {
	i := 0
	for i < len(*s) && isDigit((*s)[i]) {
		i++
	}
	digits := (*s)[:i]
	*s = (*s)[i:]
	return digits
}

// padGroup zero-pads a digit run to the 3-digit group width. Runs wider than
// three digits are kept as-is rather than truncated.
func padGroup(digits string) string {
	if digits == "" {
		return "000"
	}
	if len(digits) >= 3 {
		return digits
	}
	return strings.Repeat("0", 3-len(digits)) + digits
}

func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' }
func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
