package domain

import (
	"errors"
	"fmt"
	"strconv"
)

// Decade is a decade filter selector.
type Decade string

// AllDecades disables filtering.
const AllDecades Decade = "All"

// Decades lists the selectable filter values.
var Decades = []Decade{AllDecades, "1980s", "1990s", "2000s", "2010s", "2020s"}

// ErrUnknownDecade is returned for selectors outside Decades.
var ErrUnknownDecade = errors.New("unknown decade")

// ParseDecade validates a selector. The empty string means AllDecades.
func ParseDecade(s string) (Decade, error) {
	if s == "" {
		return AllDecades, nil
	}
	for _, d := range Decades {
		if string(d) == s {
			return d, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownDecade, s)
}

// DecadeOf buckets a year as floor(year/10)*10 suffixed with "s".
func DecadeOf(year int) Decade {
	start := year / 10
	if year < 0 && year%10 != 0 {
		start--
	}
	return Decade(strconv.Itoa(start*10) + "s")
}

// FilterByDecade returns the rows whose decade cell equals d. AllDecades and
// tables without a decade column return t itself.
func FilterByDecade(t *Table, d Decade) *Table {
	if d == AllDecades || !t.Has("decade") {
		return t
	}
	return t.Where(func(i int) bool {
		v, ok := t.String(i, "decade")
		return ok && v == string(d)
	})
}
