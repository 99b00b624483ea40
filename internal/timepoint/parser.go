package timepoint

import (
	"strings"
	"time"

	"dtrange/internal/rangeerr"
)

// Parser turns text into a point in time according to a format specification.
type Parser interface {
	Parse(text, format string, loc *time.Location) (time.Time, error)
}

// LayoutParser is the default Parser. It understands strftime formats
// ("%Y-%m-%d"), token formats ("YYYY-MM-DD HH:mm:ss") and Go reference
// layouts ("2006-01-02"); see Layout.
type LayoutParser struct{}

var _ Parser = LayoutParser{}

// Parse implements Parser. Mismatches are reported as format errors.
func (LayoutParser) Parse(text, format string, loc *time.Location) (time.Time, error) {
	layout, err := parseLayout(format)
	if err != nil {
		return time.Time{}, err
	}
	if loc == nil {
		loc = time.UTC
	}
	t, err := time.ParseInLocation(layout, text, loc)
	if err != nil {
		return time.Time{}, rangeerr.Format("text "+quote(text)+" does not match format "+quote(format), err)
	}
	return t, nil
}

var strftimeDirectives = map[byte]string{
	'Y': "2006",
	'y': "06",
	'm': "01",
	'd': "02",
	'H': "15",
	'I': "03",
	'M': "04",
	'S': "05",
	'f': "000000",
	'p': "PM",
	'b': "Jan",
	'B': "January",
	'a': "Mon",
	'A': "Monday",
	'j': "002",
	'z': "-0700",
	'Z': "MST",
	'F': "2006-01-02",
	'T': "15:04:05",
	'%': "%",
}

// unpaddedDirectives replace their padded layouts when parsing, so that
// "2022-1-5" matches "%Y-%m-%d" as it does with strptime. Go accepts one or
// two digits for these; %H ("15") already does.
var unpaddedDirectives = map[byte]string{
	'm': "1",
	'd': "2",
	'I': "3",
	'M': "4",
	'S': "5",
}

// Longest tokens first so that "YYYY" wins over "YY".
var formatTokens = []struct {
	token  string
	layout string
}{
	{"YYYY", "2006"},
	{"SSSSSS", "000000"},
	{"SSS", "000"},
	{"YY", "06"},
	{"MM", "01"},
	{"DD", "02"},
	{"HH", "15"},
	{"hh", "03"},
	{"mm", "04"},
	{"ss", "05"},
	{"ZZ", "-0700"},
}

// Layout translates a format specification into a Go reference layout.
//
//   - formats containing '%' are strftime formats;
//   - formats containing YYYY, MM, DD or HH are token formats;
//   - anything else is taken to be a Go layout already.
func Layout(format string) (string, error) {
	switch {
	case format == "":
		return "", rangeerr.Configuration("format required for textual input")
	case strings.Contains(format, "%"):
		return strftimeLayout(format, false)
	case isTokenFormat(format):
		return tokenLayout(format), nil
	default:
		return format, nil
	}
}

// parseLayout is Layout for parsing: strftime numeric fields also accept
// values without a leading zero.
func parseLayout(format string) (string, error) {
	if strings.Contains(format, "%") {
		return strftimeLayout(format, true)
	}
	return Layout(format)
}

func isTokenFormat(format string) bool {
	for _, tok := range []string{"YYYY", "MM", "DD", "HH"} {
		if strings.Contains(format, tok) {
			return true
		}
	}
	return false
}

func strftimeLayout(format string, parse bool) (string, error) {
	var sb strings.Builder
	for i := 0; i < len(format); i++ {
		c := format[i]
		if c != '%' {
			sb.WriteByte(c)
			continue
		}
		if i+1 >= len(format) {
			return "", rangeerr.Format("dangling '%' in format "+quote(format), nil)
		}
		i++
		layout, ok := strftimeDirectives[format[i]]
		if !ok {
			return "", rangeerr.Format("unsupported directive %"+string(format[i])+" in format "+quote(format), nil)
		}
		if u, ok := unpaddedDirectives[format[i]]; ok && parse && separated(format, i, sb.String()) {
			layout = u
		}
		sb.WriteString(layout)
	}
	return sb.String(), nil
}

// separated reports whether the directive ending at format[i] stands apart
// from its neighbours. A single digit layout next to another directive, a
// literal digit or a '_' would read as a different Go layout element.
func separated(format string, i int, prev string) bool {
	if strings.HasSuffix(prev, "_") {
		return false
	}
	if i+1 == len(format) {
		return true
	}
	next := format[i+1]
	return next != '%' && (next < '0' || next > '9')
}

func tokenLayout(format string) string {
	var sb strings.Builder
next:
	for i := 0; i < len(format); {
		for _, ft := range formatTokens {
			if strings.HasPrefix(format[i:], ft.token) {
				sb.WriteString(ft.layout)
				i += len(ft.token)
				continue next
			}
		}
		sb.WriteByte(format[i])
		i++
	}
	return sb.String()
}

func quote(s string) string {
	return "\"" + s + "\""
}
