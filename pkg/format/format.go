// Package format renders prices and dates for a display locale.
package format

import (
	"strings"
	"time"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

var supported = []language.Tag{
	language.English,
	language.Turkish,
}

var matcher = language.NewMatcher(supported)

var dateLayouts = map[language.Base]string{
	mustBase(language.English): "01/02/2006",
	mustBase(language.Turkish): "02.01.2006",
}

func mustBase(t language.Tag) language.Base {
	b, _ := t.Base()
	return b
}

// Formatter is bound to one of the supported locales.
type Formatter struct {
	tag     language.Tag
	printer *message.Printer
	layout  string
}

// New picks the best supported locale for an Accept-Language style value,
// falling back to fallback and then English.
func New(preference, fallback string) *Formatter {
	tags, _, _ := language.ParseAcceptLanguage(preference)
	if len(tags) == 0 && fallback != "" {
		tags, _, _ = language.ParseAcceptLanguage(fallback)
	}

	tag := language.English
	if len(tags) > 0 {
		_, idx, conf := matcher.Match(tags...)
		if conf != language.No {
			tag = supported[idx]
		}
	}

	layout, ok := dateLayouts[mustBase(tag)]
	if !ok {
		layout = dateLayouts[mustBase(language.English)]
	}

	return &Formatter{
		tag:     tag,
		printer: message.NewPrinter(tag),
		layout:  layout,
	}
}

func (f *Formatter) Locale() string {
	return f.tag.String()
}

// Money renders an amount with two decimals, locale grouping and the
// currency code after it, e.g. "1,250.75 TRY".
func (f *Formatter) Money(amount float64, currency string) string {
	s := f.printer.Sprintf("%.2f", amount)
	if currency = strings.TrimSpace(currency); currency != "" {
		s += " " + currency
	}
	return s
}

// Date renders the calendar day of t in UTC.
func (f *Formatter) Date(t time.Time) string {
	return t.UTC().Format(f.layout)
}
