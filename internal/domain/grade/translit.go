package grade

import "strings"

// Grade designations cross between Latin and Cyrillic spellings depending on
// the source (GOST catalogs vs western mirrors of the same data).  The
// mapping below follows the GOST romanization used by steel handbooks:
// multi-character digraphs are tried longest-first at every position, so
// "KH12MF" becomes "Х12МФ" and never "КХ12МФ".

// latinDigraphs maps multi-letter Latin sequences to single Cyrillic letters.
// Order matters: longest first, so SHCH wins over SH, and SH over S.
var latinDigraphs = []struct {
	latin    string
	cyrillic rune
}{
	{"SHCH", 'Щ'},
	{"ZH", 'Ж'},
	{"KH", 'Х'},
	{"TS", 'Ц'},
	{"CH", 'Ч'},
	{"SH", 'Ш'},
	{"YU", 'Ю'},
	{"YA", 'Я'},
	{"YO", 'Ё'},
	{"EH", 'Э'},
}

// latinSingles maps single Latin letters to Cyrillic letters.  C and X are
// mapped as visual lookalikes: imported tables frequently spell С and Х with
// their Latin twins.
var latinSingles = map[rune]rune{
	'A': 'А', 'B': 'Б', 'C': 'С', 'D': 'Д', 'E': 'Е', 'F': 'Ф',
	'G': 'Г', 'H': 'Х', 'I': 'И', 'J': 'Й', 'K': 'К', 'L': 'Л',
	'M': 'М', 'N': 'Н', 'O': 'О', 'P': 'П', 'R': 'Р', 'S': 'С',
	'T': 'Т', 'U': 'У', 'V': 'В', 'X': 'Х', 'Y': 'Ы', 'Z': 'З',
}

// cyrillicToLatin is the reverse mapping used to regenerate the Latin
// original from a Cyrillic designation.  Soft and hard signs have no Latin
// counterpart in grade names and are dropped.
var cyrillicToLatin = map[rune]string{
	'А': "A", 'Б': "B", 'В': "V", 'Г': "G", 'Д': "D", 'Е': "E",
	'Ё': "YO", 'Ж': "ZH", 'З': "Z", 'И': "I", 'Й': "J", 'К': "K",
	'Л': "L", 'М': "M", 'Н': "N", 'О': "O", 'П': "P", 'Р': "R",
	'С': "S", 'Т': "T", 'У': "U", 'Ф': "F", 'Х': "KH", 'Ц': "TS",
	'Ч': "CH", 'Ш': "SH", 'Щ': "SHCH", 'Ы': "Y", 'Э': "EH",
	'Ю': "YU", 'Я': "YA", 'Ь': "", 'Ъ': "",
}

// transliterateToCyrillic rewrites the Latin letters of s into Cyrillic,
// longest digraph first, case-insensitively.  Grade designations are
// conventionally uppercase, so the output is emitted uppercase.  Runes with
// no mapping (digits, dashes, Cyrillic letters already in place) pass
// through unchanged, which makes the function a no-op on names that are
// already in the target script.
func transliterateToCyrillic(s string) string {
	upper := []rune(strings.ToUpper(s))
	var sb strings.Builder
	sb.Grow(len(s))

	for i := 0; i < len(upper); {
		if ch, n := matchDigraph(upper[i:]); n > 0 {
			sb.WriteRune(ch)
			i += n
			continue
		}
		if ch, ok := latinSingles[upper[i]]; ok {
			sb.WriteRune(ch)
		} else {
			sb.WriteRune(upper[i])
		}
		i++
	}
	return sb.String()
}

// matchDigraph attempts the longest digraph match at the start of rs and
// returns the mapped rune plus the number of consumed source runes.
func matchDigraph(rs []rune) (rune, int) {
	for _, d := range latinDigraphs {
		dr := []rune(d.latin)
		if len(rs) < len(dr) {
			continue
		}
		if string(rs[:len(dr)]) == d.latin {
			return d.cyrillic, len(dr)
		}
	}
	return 0, 0
}

// transliterateToLatin rewrites Cyrillic letters into their Latin
// romanization; everything else passes through unchanged.
func transliterateToLatin(s string) string {
	upper := strings.ToUpper(s)
	var sb strings.Builder
	sb.Grow(len(upper))
	for _, r := range upper {
		if lat, ok := cyrillicToLatin[r]; ok {
			sb.WriteString(lat)
			continue
		}
		sb.WriteRune(r)
	}
	return sb.String()
}

// containsCyrillic reports whether s has at least one Cyrillic letter.
func containsCyrillic(s string) bool {
	for _, r := range s {
		if r >= 'А' && r <= 'я' || r == 'Ё' || r == 'ё' {
			return true
		}
	}
	return false
}
