// Package naming turns free-form team and software names into identifiers
// the remote platform accepts as application names.
//
// Normalization is purely textual: it does not check the result against the
// platform's naming rules. Callers validate with model.ValidateRepositoryName
// and re-prompt the operator when the composed name is rejected.
package naming

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"

	"github.com/shinji-kodama/railskit/internal/model"
)

// unknownRune replaces characters that have no ASCII transliteration.
// It is not a legal name character, so such names always fail validation
// and the operator is asked to edit them.
const unknownRune = '?'

// letterPrefix is prepended to names that would otherwise start with a digit.
const letterPrefix = "r"

// ligatures maps letters that do not decompose into a base letter plus
// combining marks.
var ligatures = map[rune]string{
	'ß': "ss", 'æ': "ae", 'Æ': "AE", 'œ': "oe", 'Œ': "OE",
	'ø': "o", 'Ø': "O", 'đ': "d", 'Đ': "D", 'ð': "d", 'Ð': "D",
	'ł': "l", 'Ł': "L", 'þ': "th", 'Þ': "Th", 'ı': "i",
}

// stripMarks decomposes accented letters and drops the combining marks,
// so "é" becomes "e".
var stripMarks = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// Transliterate maps text to ASCII. Whitespace is preserved as a plain
// space; anything without an ASCII equivalent becomes '?'.
func Transliterate(text string) string {
	stripped, _, err := transform.String(stripMarks, text)
	if err != nil {
		stripped = text
	}

	var b strings.Builder
	b.Grow(len(stripped))
	for _, r := range stripped {
		switch {
		case r <= unicode.MaxASCII:
			b.WriteRune(r)
		case unicode.IsSpace(r):
			b.WriteByte(' ')
		default:
			if repl, ok := ligatures[r]; ok {
				b.WriteString(repl)
			} else {
				b.WriteRune(unknownRune)
			}
		}
	}
	return b.String()
}

// Normalize converts arbitrary text into a lower-case, dash-separated
// candidate name: it transliterates to ASCII, lower-cases, trims, and
// replaces every internal whitespace run with a single dash.
func Normalize(text string) string {
	lowered := strings.ToLower(Transliterate(text))
	return strings.Join(strings.Fields(lowered), "-")
}

// EnsureLetterPrefix prefixes names that start with a digit with "r",
// since remote application names must begin with a letter.
func EnsureLetterPrefix(name string) string {
	if name != "" && name[0] >= '0' && name[0] <= '9' {
		return letterPrefix + name
	}
	return name
}

// ComposeRepositoryName builds the default application name for an
// environment from the team and software names:
//
//	normalize(normalize(team) + "-" + normalize(software) + "-" + environment)
//
// The team part is letter-prefixed first because it leads the name.
func ComposeRepositoryName(team, software string, env model.Environment) string {
	teamPart := EnsureLetterPrefix(Normalize(team))
	return Normalize(teamPart + "-" + Normalize(software) + "-" + env.String())
}
