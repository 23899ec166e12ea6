package render

import (
	"strings"
	"time"

	"github.com/araddon/dateparse"
	"github.com/goodsign/monday"
)

// DefaultLocale is used when no locale or an unknown one is configured.
const DefaultLocale = "en_US"

// longDateLayouts holds the long date layout per supported locale.
var longDateLayouts = map[monday.Locale]string{
	monday.LocaleEnUS: "January 2, 2006",
	monday.LocaleEnGB: "2 January 2006",
	monday.LocaleDeDE: "2. January 2006",
	monday.LocaleFrFR: "2 January 2006",
	monday.LocaleEsES: "2 de January de 2006",
	monday.LocaleNlNL: "2 January 2006",
	monday.LocaleJaJP: "2006年1月2日",
}

// SupportedLocale reports whether locale has a long date layout.
func SupportedLocale(locale string) bool {
	_, ok := longDateLayouts[monday.Locale(locale)]
	return ok
}

// DateFormatter renders source-native date strings as long dates.
type DateFormatter struct {
	locale monday.Locale
	layout string
}

// NewDateFormatter returns a formatter for locale, falling back to DefaultLocale.
func NewDateFormatter(locale string) DateFormatter {
	loc := monday.Locale(locale)
	layout, ok := longDateLayouts[loc]
	if !ok {
		loc = monday.Locale(DefaultLocale)
		layout = longDateLayouts[loc]
	}
	return DateFormatter{locale: loc, layout: layout}
}

// Format parses raw in any common date format and renders it as a long
// date in the publication's own time zone. Unparseable input is returned
// unchanged.
func (f DateFormatter) Format(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	t, err := dateparse.ParseIn(raw, time.UTC)
	if err != nil {
		return raw
	}
	return monday.Format(t, f.layout, f.locale)
}
