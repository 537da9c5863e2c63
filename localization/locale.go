package localization

import (
	"errors"
	"strings"

	"golang.org/x/text/language"
)

const localeSeparator = "_"

// ErrMalformedLocale is returned by ParseLocale when a value is not of the
// form <language>_<region>.
var ErrMalformedLocale = errors.New("locale must be of the form <language>_<region>")

// Locale is a language and region pair such as zh_CN.
type Locale struct {
	Language string
	Region   string
}

// ParseLocale reads values such as "zh_CN". Trailing empty segments are
// dropped before counting, so "zh_" is rejected while "_CN" yields a locale
// with an empty language. Segments after the region are ignored.
func ParseLocale(value string) (Locale, error) {
	segments := strings.Split(strings.TrimSpace(value), localeSeparator)
	for len(segments) > 0 && segments[len(segments)-1] == "" {
		segments = segments[:len(segments)-1]
	}
	if len(segments) < 2 {
		return Locale{}, ErrMalformedLocale
	}

	return Locale{Language: segments[0], Region: segments[1]}, nil
}

// MustParseLocale is ParseLocale for values known at compile time.
func MustParseLocale(value string) Locale {
	l, err := ParseLocale(value)
	if err != nil {
		panic(err)
	}
	return l
}

func (l Locale) IsZero() bool {
	return l.Language == "" && l.Region == ""
}

// String renders the locale in header form, e.g. "zh_CN".
func (l Locale) String() string {
	if l.Region == "" {
		return l.Language
	}
	return l.Language + localeSeparator + l.Region
}

// Tag converts the locale into a BCP 47 tag used to select catalog entries.
// Unknown subtags degrade to language.Und.
func (l Locale) Tag() language.Tag {
	if l.Language == "" {
		return language.Und
	}

	value := l.Language
	if l.Region != "" {
		value += "-" + l.Region
	}

	tag, err := language.Parse(value)
	if err != nil {
		base, bErr := language.ParseBase(l.Language)
		if bErr != nil {
			return language.Und
		}
		tag, _ = language.Compose(base)
	}
	return tag
}
