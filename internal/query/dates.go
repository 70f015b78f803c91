package query

import (
	"strconv"

	"golang.org/x/text/language"
)

// locale is the written form of dates in one language.
type locale struct {
	tag    language.Tag
	months [12]string
	// numeric is the short all-digits layout
	numeric string
}

var supportedLocales = []locale{
	{
		tag: language.English,
		months: [12]string{
			"January", "February", "March", "April", "May", "June",
			"July", "August", "September", "October", "November", "December",
		},
		numeric: "01/02/2006",
	},
	{
		tag: language.Indonesian,
		months: [12]string{
			"Januari", "Februari", "Maret", "April", "Mei", "Juni",
			"Juli", "Agustus", "September", "Oktober", "November", "Desember",
		},
		numeric: "02/01/2006",
	},
}

var localeMatcher = func() language.Matcher {
	tags := make([]language.Tag, 0, len(supportedLocales))
	for _, l := range supportedLocales {
		tags = append(tags, l.tag)
	}
	return language.NewMatcher(tags)
}()

// resolveLocales maps requested tags onto the supported locales, dropping
// tags with no reasonable match and duplicates ("en-US" and "en").
func resolveLocales(tags []language.Tag) []locale {
	seen := make(map[int]bool)
	out := make([]locale, 0, len(tags))
	for _, tag := range tags {
		_, idx, conf := localeMatcher.Match(tag)
		if conf == language.No || seen[idx] {
			continue
		}
		seen[idx] = true
		out = append(out, supportedLocales[idx])
	}
	if len(out) == 0 {
		out = append(out, supportedLocales[0])
	}
	return out
}

// ParseLocales parses BCP 47 tags such as "id" or "en-GB". Invalid tags are
// returned as an error; an empty list yields the defaults.
func ParseLocales(names []string) ([]language.Tag, error) {
	if len(names) == 0 {
		return DefaultLocales(), nil
	}
	tags := make([]language.Tag, 0, len(names))
	for _, n := range names {
		tag, err := language.Parse(n)
		if err != nil {
			return nil, err
		}
		tags = append(tags, tag)
	}
	return tags, nil
}

// DateVariants returns the searchable written forms of a due date: for each
// locale "03 September 2025", "3 September 2025" and the short numeric form,
// then the ISO date. Duplicates are removed. An empty or unparsable date has
// no variants.
func (e *Engine) DateVariants(dueDate string) []string {
	d, ok := parseDate(dueDate)
	if !ok {
		return nil
	}

	year := strconv.Itoa(d.Year())
	day := d.Day()
	padded := strconv.Itoa(day)
	if day < 10 {
		padded = "0" + padded
	}

	seen := make(map[string]bool)
	out := make([]string, 0, 3*len(e.locales)+1)
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, l := range e.locales {
		month := l.months[d.Month()-1]
		add(padded + " " + month + " " + year)
		add(strconv.Itoa(day) + " " + month + " " + year)
		add(d.Format(l.numeric))
	}
	add(d.Format("2006-01-02"))
	return out
}
