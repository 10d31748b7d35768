package period

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"
	"time"
	"unicode"

	dps "github.com/markusmobius/go-dateparser"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

const (
	day   = 24 * time.Hour
	week  = 7 * day
	month = 30 * day // calendar-naive
)

// instantPadding is applied on both sides of an absolute instant.
const instantPadding = 30 * time.Minute

// keywords maps accent-folded, lower-cased phrases to their windows.
var keywords = map[string]func(ref time.Time) Range{
	"hoje":           today,
	"today":          today,
	"ontem":          yesterday,
	"yesterday":      yesterday,
	"ultima semana":  lastWeek,
	"semana passada": lastWeek,
	"last week":      lastWeek,
	"past week":      lastWeek,
	"ultimo mes":     lastMonth,
	"mes passado":    lastMonth,
	"last month":     lastMonth,
	"past month":     lastMonth,
}

func today(ref time.Time) Range {
	return Range{Gte: startOfDay(ref), Lte: ref}
}

func yesterday(ref time.Time) Range {
	return Range{Gte: startOfDay(ref.Add(-day)), Lte: startOfDay(ref)}
}

func lastWeek(ref time.Time) Range {
	return Range{Gte: ref.Add(-week), Lte: ref}
}

func lastMonth(ref time.Time) Range {
	return Range{Gte: ref.Add(-month), Lte: ref}
}

// Words that open ("há 2 horas", "last 3 days") or close ("2 hours ago",
// "3 dias atrás") a relative quantity.
var (
	leadWords = map[string]bool{"ha": true, "last": true, "past": true, "ultimos": true, "ultimas": true}
	agoWords  = map[string]bool{"ago": true, "atras": true}
)

// units is checked in order; the first substring hit wins.
var units = []struct {
	stems []string
	size  time.Duration
}{
	{[]string{"hora", "hour"}, time.Hour},
	{[]string{"dia", "day"}, day},
	{[]string{"semana", "week"}, week},
	{[]string{"mes", "month"}, month},
}

// Keyword matches named periods in Portuguese and English.
func Keyword(text string, ref time.Time) (Range, bool) {
	fn, ok := keywords[fold(text)]
	if !ok {
		return Range{}, false
	}
	return fn(ref), true
}

// Relative matches "<lead> <n> <unit>" and "<n> <unit> ago". Unknown units
// count as hours.
func Relative(text string, ref time.Time) (Range, bool) {
	span, ok := relativeSpan(strings.Fields(fold(text)))
	if !ok {
		return Range{}, false
	}
	return Range{Gte: ref.Add(-span), Lte: ref}, true
}

func relativeSpan(tokens []string) (time.Duration, bool) {
	if len(tokens) < 3 {
		return 0, false
	}

	var amount, unit string
	switch {
	case leadWords[tokens[0]]:
		amount, unit = tokens[1], tokens[2]
	case agoWords[tokens[len(tokens)-1]]:
		amount, unit = tokens[0], tokens[1]
	default:
		return 0, false
	}

	n, err := strconv.Atoi(amount)
	if err != nil || n < 0 {
		return 0, false
	}
	size := unitSize(unit)
	if int64(n) > math.MaxInt64/int64(size) {
		return 0, false
	}
	return time.Duration(n) * size, true
}

func unitSize(token string) time.Duration {
	for _, u := range units {
		for _, stem := range u.stems {
			if strings.Contains(token, stem) {
				return u.size
			}
		}
	}
	return time.Hour
}

// relativePhrase reports whether text is phrased relative to now. Such text
// is never handed to the instant parser.
func relativePhrase(text string) bool {
	folded := fold(text)
	if _, ok := keywords[folded]; ok {
		return true
	}
	tokens := strings.Fields(folded)
	if len(tokens) == 0 {
		return false
	}
	return leadWords[tokens[0]] || agoWords[tokens[len(tokens)-1]]
}

// hourPattern matches Portuguese clock times such as "14h" and "9h30".
var hourPattern = regexp.MustCompile(`\b(\d{1,2})h(\d{2})?\b`)

// normalizeHours rewrites "14h" as "14:00" and "9h30" as "09:30"; the
// instant parser reads a bare "14h" as a day of month.
func normalizeHours(text string) string {
	return hourPattern.ReplaceAllStringFunc(text, func(m string) string {
		sub := hourPattern.FindStringSubmatch(m)
		h, _ := strconv.Atoi(sub[1])
		minute := 0
		if sub[2] != "" {
			minute, _ = strconv.Atoi(sub[2])
		}
		if h > 23 || minute > 59 {
			return m
		}
		return fmt.Sprintf("%02d:%02d", h, minute)
	})
}

// bareQuantity reports text the instant parser would misread as a date: a
// lone small number ("2") or a count with a unit ("2 horas").
func bareQuantity(text string) bool {
	tokens := strings.Fields(fold(text))
	switch len(tokens) {
	case 1:
		// Ten digits and up is a unix timestamp.
		return isDigits(tokens[0]) && len(tokens[0]) < 10
	case 2:
		return isDigits(tokens[0]) && knownUnit(tokens[1])
	}
	return false
}

func isDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r < '0' || r > '9' {
			return false
		}
	}
	return true
}

func knownUnit(token string) bool {
	for _, u := range units {
		for _, stem := range u.stems {
			if strings.Contains(token, stem) {
				return true
			}
		}
	}
	return false
}

// NewDateParser returns a parser restricted to absolute dates, timestamps
// and known layouts.
func NewDateParser() *dps.Parser {
	return &dps.Parser{
		ParserTypes: []dps.ParserType{
			dps.Timestamp,
			dps.CustomFormat,
			dps.AbsoluteTime,
		},
	}
}

// Absolute interprets Portuguese or English text as a single instant and
// pads it by half an hour on each side.
func Absolute(p *dps.Parser) Strategy {
	return func(text string, ref time.Time) (rng Range, ok bool) {
		text = strings.TrimSpace(text)
		if text == "" || relativePhrase(text) || bareQuantity(text) {
			return Range{}, false
		}

		// The parser is third-party code fed with arbitrary user text.
		defer func() {
			if recover() != nil {
				rng, ok = Range{}, false
			}
		}()

		dt, err := p.Parse(&dps.Configuration{
			Languages:       []string{"pt", "en"},
			CurrentTime:     ref,
			DefaultTimezone: time.UTC,
		}, normalizeHours(text))
		if err != nil || dt.Time.IsZero() {
			return Range{}, false
		}
		t := dt.Time.UTC()
		return Range{Gte: t.Add(-instantPadding), Lte: t.Add(instantPadding)}, true
	}
}

// fold lower-cases, trims, strips diacritics and collapses whitespace.
func fold(text string) string {
	s := strings.ToLower(strings.TrimSpace(text))
	t := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)
	if folded, _, err := transform.String(t, s); err == nil {
		s = folded
	}
	return strings.Join(strings.Fields(s), " ")
}
