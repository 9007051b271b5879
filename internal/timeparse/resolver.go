// Package timeparse resolves Spanish temporal expressions ("ayer", "última
// semana", "15 de marzo") into concrete date ranges, and maps calendar
// months onto the Casanare agricultural seasons.
package timeparse

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

var (
	// Literal day words. Compound forms ("pasado mañana", "anteayer") are
	// matched before their shorter substrings.
	reDayAfterTomorrow  = regexp.MustCompile(`pasado\s+ma(?:ñ|n)ana`)
	reDayBeforeYesterday = regexp.MustCompile(`ante\s?ayer`)
	reToday             = regexp.MustCompile(`\bhoy\b`)
	reYesterday         = regexp.MustCompile(`\bayer\b`)
	reTomorrow          = regexp.MustCompile(`ma(?:ñ|n)ana`)

	// Relative named periods.
	reLastWeek  = regexp.MustCompile(`(?:última|ultima)\s+semana|semana\s+pasada`)
	reNextWeek  = regexp.MustCompile(`(?:próxima|proxima|siguiente)\s+semana`)
	reLastMonth = regexp.MustCompile(`(?:último|ultimo)\s+mes|mes\s+pasado`)
	reNextMonth = regexp.MustCompile(`(?:próximo|proximo|siguiente)\s+mes`)

	// "últimos/próximos N días" windows.
	reLastNDays = regexp.MustCompile(`(?:últimos?|ultimos?)\s+(\d+)\s+d(?:í|i)as?`)
	reNextNDays = regexp.MustCompile(`(?:próximos?|proximos?)\s+(\d+)\s+d(?:í|i)as?`)

	// Explicit dates: DD/MM/YYYY, DD-MM-YYYY, and "15 de marzo [de 2024]".
	reNumericDate = regexp.MustCompile(`\b(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	reTextualDate = regexp.MustCompile(`\b(\d{1,2})\s+(?:de\s+)?(enero|febrero|marzo|abril|mayo|junio|julio|agosto|septiembre|octubre|noviembre|diciembre)(?:\s+(?:de\s+)?(\d{4}))?`)
)

// monthNames maps Spanish month names to calendar months, in lookup order.
var monthNames = []struct {
	name  string
	month time.Month
}{
	{"enero", time.January}, {"febrero", time.February}, {"marzo", time.March},
	{"abril", time.April}, {"mayo", time.May}, {"junio", time.June},
	{"julio", time.July}, {"agosto", time.August}, {"septiembre", time.September},
	{"octubre", time.October}, {"noviembre", time.November}, {"diciembre", time.December},
}

// weekdayNames maps Spanish weekday names (accented and plain spellings) to
// Monday-based indexes, in lookup order.
var weekdayNames = []struct {
	name string
	idx  int // 0 = Monday .. 6 = Sunday
}{
	{"lunes", 0}, {"martes", 1}, {"miércoles", 2}, {"miercoles", 2},
	{"jueves", 3}, {"viernes", 4}, {"sábado", 5}, {"sabado", 5}, {"domingo", 6},
}

// Resolve converts a free-text Spanish temporal expression into a concrete
// date range. It never fails; the second return value is false when no
// supported expression is present. Resolution is first-match-wins in the
// order: literal day words, relative named periods, N-day windows, numeric
// dates, textual dates, weekday names.
func Resolve(text string) (domain.DateRange, bool) {
	text = strings.ToLower(strings.TrimSpace(text))
	today := domain.Today()

	if r, ok := resolveLiteralDay(text, today); ok {
		return r, true
	}
	if r, ok := resolveNamedPeriod(text, today); ok {
		return r, true
	}
	if r, ok := resolveDayWindow(text, today); ok {
		return r, true
	}
	if r, ok := resolveNumericDate(text); ok {
		return r, true
	}
	if r, ok := resolveTextualDate(text, today); ok {
		return r, true
	}
	if r, ok := resolveWeekday(text, today); ok {
		return r, true
	}
	return domain.DateRange{}, false
}

func resolveLiteralDay(text string, today time.Time) (domain.DateRange, bool) {
	switch {
	case reDayAfterTomorrow.MatchString(text):
		return domain.SingleDay(today.AddDate(0, 0, 2)), true
	case reDayBeforeYesterday.MatchString(text):
		return domain.SingleDay(today.AddDate(0, 0, -2)), true
	case reToday.MatchString(text):
		return domain.SingleDay(today), true
	case reYesterday.MatchString(text):
		return domain.SingleDay(today.AddDate(0, 0, -1)), true
	case reTomorrow.MatchString(text):
		return domain.SingleDay(today.AddDate(0, 0, 1)), true
	}
	return domain.DateRange{}, false
}

func resolveNamedPeriod(text string, today time.Time) (domain.DateRange, bool) {
	wd := mondayIndex(today.Weekday())

	switch {
	case reLastWeek.MatchString(text):
		// Monday through Sunday of the calendar week before the current one.
		end := today.AddDate(0, 0, -(wd + 1))
		return domain.DateRange{Start: end.AddDate(0, 0, -6), End: end}, true
	case reNextWeek.MatchString(text):
		start := today.AddDate(0, 0, 7-wd)
		return domain.DateRange{Start: start, End: start.AddDate(0, 0, 6)}, true
	case reLastMonth.MatchString(text):
		end := firstOfMonth(today).AddDate(0, 0, -1)
		return domain.DateRange{Start: firstOfMonth(end), End: end}, true
	case reNextMonth.MatchString(text):
		start := firstOfMonth(today).AddDate(0, 1, 0)
		return domain.DateRange{Start: start, End: start.AddDate(0, 1, -1)}, true
	}
	return domain.DateRange{}, false
}

func resolveDayWindow(text string, today time.Time) (domain.DateRange, bool) {
	if m := reLastNDays.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return domain.DateRange{}, false
		}
		return domain.DateRange{Start: today.AddDate(0, 0, -(n - 1)), End: today}, true
	}
	if m := reNextNDays.FindStringSubmatch(text); m != nil {
		n, err := strconv.Atoi(m[1])
		if err != nil || n < 1 {
			return domain.DateRange{}, false
		}
		return domain.DateRange{Start: today, End: today.AddDate(0, 0, n-1)}, true
	}
	return domain.DateRange{}, false
}

func resolveNumericDate(text string) (domain.DateRange, bool) {
	m := reNumericDate.FindStringSubmatch(text)
	if m == nil {
		return domain.DateRange{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, _ := strconv.Atoi(m[2])
	year, _ := strconv.Atoi(m[3])
	return calendarDay(year, time.Month(month), day)
}

func resolveTextualDate(text string, today time.Time) (domain.DateRange, bool) {
	m := reTextualDate.FindStringSubmatch(text)
	if m == nil {
		return domain.DateRange{}, false
	}
	day, _ := strconv.Atoi(m[1])
	month, ok := monthByName(m[2])
	if !ok {
		return domain.DateRange{}, false
	}
	year := today.Year()
	if m[3] != "" {
		year, _ = strconv.Atoi(m[3])
	}
	return calendarDay(year, month, day)
}

func resolveWeekday(text string, today time.Time) (domain.DateRange, bool) {
	for _, wd := range weekdayNames {
		if !strings.Contains(text, wd.name) {
			continue
		}
		// Next occurrence strictly after today; same weekday rolls a week.
		ahead := wd.idx - mondayIndex(today.Weekday())
		if ahead <= 0 {
			ahead += 7
		}
		return domain.SingleDay(today.AddDate(0, 0, ahead)), true
	}
	return domain.DateRange{}, false
}

// calendarDay validates a day/month/year combination; impossible calendar
// dates (e.g. 31/04) are a no-match, not an error.
func calendarDay(year int, month time.Month, day int) (domain.DateRange, bool) {
	if month < time.January || month > time.December || day < 1 {
		return domain.DateRange{}, false
	}
	d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
	if d.Year() != year || d.Month() != month || d.Day() != day {
		return domain.DateRange{}, false
	}
	return domain.SingleDay(d), true
}

func monthByName(name string) (time.Month, bool) {
	for _, m := range monthNames {
		if m.name == name {
			return m.month, true
		}
	}
	return 0, false
}

// mondayIndex converts Go's Sunday-based weekday to a Monday-based index.
func mondayIndex(wd time.Weekday) int {
	return (int(wd) + 6) % 7
}

func firstOfMonth(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

// FormatRange renders a date range as a Spanish phrase: "el 15 de marzo de
// 2025" for a single day, otherwise "del 15 de marzo al 20 de abril de 2025".
func FormatRange(start, end time.Time) string {
	if start.Year() == end.Year() && start.YearDay() == end.YearDay() {
		return fmt.Sprintf("el %s", spanishDate(start, true))
	}
	return fmt.Sprintf("del %s al %s", spanishDate(start, false), spanishDate(end, true))
}

func spanishDate(t time.Time, withYear bool) string {
	name := monthNames[int(t.Month())-1].name
	if withYear {
		return fmt.Sprintf("%d de %s de %d", t.Day(), name, t.Year())
	}
	return fmt.Sprintf("%d de %s", t.Day(), name)
}
