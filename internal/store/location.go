package store

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/liwaisi-tech/agriculture-agent-liwaisi/internal/domain"
)

var (
	reCoords   = regexp.MustCompile(`(-?\d+\.\d+)\s*,\s*(-?\d+\.\d+)`)
	rePlace    = regexp.MustCompile(`(?i)(?:en|de)\s+([^.,;!?]+)`)
	reTrailing = regexp.MustCompile(`[.,;!?]+$`)
)

// ParseLocationFilter extracts a location constraint from free query
// text: a decimal "lat, lon" pair wins over a place name following
// "en"/"de". Queries without either yield the zero filter.
func ParseLocationFilter(query string) domain.LocationFilter {
	if m := reCoords.FindStringSubmatch(query); m != nil {
		lat, errLat := strconv.ParseFloat(m[1], 64)
		lon, errLon := strconv.ParseFloat(m[2], 64)
		if errLat == nil && errLon == nil {
			return domain.LocationFilter{Latitude: lat, Longitude: lon, HasCoords: true}
		}
	}
	if m := rePlace.FindStringSubmatch(query); m != nil {
		place := strings.TrimSpace(m[1])
		place = reTrailing.ReplaceAllString(place, "")
		if place != "" {
			return domain.LocationFilter{Location: place}
		}
	}
	return domain.LocationFilter{}
}
