package format

import (
	"strings"

	"github.com/Xevion/go-mpx/types"
)

// Locale holds the per-language text an MPX file uses for time unit
// suffixes and boolean fields.
type Locale struct {
	Code string
	// TimeUnits lists the accepted suffixes for each unit. The first entry is
	// the one written back out.
	TimeUnits [types.TimeUnitCount][]string
	Yes       string
	No        string
}

var locales = map[string]*Locale{
	"en": {
		Code: "en",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"d"}, {"w"}, {"mo"}, {"y"}, {"%"},
			{"em"}, {"eh"}, {"ed"}, {"ew"}, {"emo"}, {"ey"}, {"e%"},
		},
		Yes: "Yes",
		No:  "No",
	},
	"de": {
		Code: "de",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"t"}, {"w"}, {"mon"}, {"y"}, {"%"},
			{"fm"}, {"fh"}, {"ft"}, {"fw"}, {"fmon"}, {"fy"}, {"f%"},
		},
		Yes: "Ja",
		No:  "Nein",
	},
	"es": {
		Code: "es",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"d"}, {"s"}, {"ms"}, {"a"}, {"%"},
			{"em"}, {"eh"}, {"ed"}, {"es"}, {"ems"}, {"ea"}, {"e%"},
		},
		Yes: "Sí",
		No:  "No",
	},
	"fr": {
		Code: "fr",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"j"}, {"s"}, {"ms"}, {"a"}, {"%"},
			{"me"}, {"he"}, {"je"}, {"se"}, {"mse"}, {"ae"}, {"e%"},
		},
		Yes: "Oui",
		No:  "Non",
	},
	"pt": {
		Code: "pt",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"d"}, {"s"}, {"mes"}, {"a"}, {"%"},
			{"em"}, {"eh"}, {"ed"}, {"es"}, {"emes"}, {"ea"}, {"e%"},
		},
		Yes: "Sim",
		No:  "Não",
	},
	"zh": {
		Code: "zh",
		TimeUnits: [types.TimeUnitCount][]string{
			{"m"}, {"h"}, {"d"}, {"w"}, {"mon"}, {"y"}, {"%"},
			{"em"}, {"eh"}, {"ed"}, {"ew"}, {"emon"}, {"ey"}, {"e%"},
		},
		Yes: "是",
		No:  "否",
	},
}

// LookupLocale finds a locale by code. Region suffixes such as "en-GB" or
// "pt_BR" fall back to the base language.
func LookupLocale(code string) (*Locale, bool) {
	code = strings.ToLower(strings.TrimSpace(code))
	if l, ok := locales[code]; ok {
		return l, true
	}
	base, _, _ := strings.Cut(strings.ReplaceAll(code, "_", "-"), "-")
	l, ok := locales[base]
	return l, ok
}

// Locales returns the codes of all known locales.
func Locales() []string {
	codes := make([]string, 0, len(locales))
	for code := range locales {
		codes = append(codes, code)
	}
	return codes
}

// UnitSuffix returns the suffix written after a duration amount.
func (l *Locale) UnitSuffix(u types.TimeUnit) string {
	if !u.Valid() {
		return ""
	}
	return l.TimeUnits[u][0]
}

// ParseUnit resolves a suffix to its unit. Matching ignores case and
// surrounding whitespace.
func (l *Locale) ParseUnit(suffix string) (types.TimeUnit, bool) {
	suffix = strings.ToLower(strings.TrimSpace(suffix))
	for i, names := range l.TimeUnits {
		for _, name := range names {
			if name == suffix {
				return types.TimeUnit(i), true
			}
		}
	}
	return 0, false
}
