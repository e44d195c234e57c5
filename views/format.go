package views

import (
	"time"

	"golang.org/x/text/language"
)

// DefaultLocale is used when neither the request nor the config names a
// supported locale.
var DefaultLocale = language.AmericanEnglish

// supportedLocales is ordered by preference; the matcher falls back to the first.
var supportedLocales = []language.Tag{
	language.AmericanEnglish,
	language.BritishEnglish,
	language.German,
	language.French,
	language.Spanish,
	language.Dutch,
	language.Japanese,
}

// Numeric short-date layouts, as browsers print toLocaleDateString().
var dateLayouts = map[string]string{
	"en-US": "1/2/2006",
	"en-GB": "02/01/2006",
	"de":    "2.1.2006",
	"fr":    "02/01/2006",
	"es":    "2/1/2006",
	"nl":    "2-1-2006",
	"ja":    "2006/1/2",
}

var localeMatcher = language.NewMatcher(supportedLocales)

// MatchLocale picks the supported locale that best fits an Accept-Language
// header, or fallback when nothing matches.
func MatchLocale(acceptLanguage string, fallback language.Tag) language.Tag {
	tags, _, err := language.ParseAcceptLanguage(acceptLanguage)
	if err != nil || len(tags) == 0 {
		return fallback
	}
	_, idx, conf := localeMatcher.Match(tags...)
	if conf == language.No {
		return fallback
	}
	return supportedLocales[idx]
}

// ParseLocale reads a configured BCP 47 locale, snapping it to a supported one.
func ParseLocale(s string) language.Tag {
	tag, err := language.Parse(s)
	if err != nil {
		return DefaultLocale
	}
	return normalizeLocale(tag)
}

func normalizeLocale(tag language.Tag) language.Tag {
	if _, ok := dateLayouts[tag.String()]; ok {
		return tag
	}
	_, idx, conf := localeMatcher.Match(tag)
	if conf == language.No {
		return DefaultLocale
	}
	return supportedLocales[idx]
}

// FormatDate prints the calendar date of t in the short numeric form of locale.
func FormatDate(t time.Time, locale language.Tag) string {
	return t.UTC().Format(dateLayouts[normalizeLocale(locale).String()])
}
