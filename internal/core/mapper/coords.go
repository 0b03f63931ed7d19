package mapper

import (
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/99minutos/delivery-map/internal/core/domain"
)

// leadingNumber matches the decimal prefix of a component, so that trailing
// annotations ("51.5 ///index.home.raft") do not reject the coordinate.
var leadingNumber = regexp.MustCompile(`^[+-]?(?:\d+\.?\d*|\.\d+)(?:[eE][+-]?\d+)?`)

// ParseLatLng parses "lat,lng" text. Components past the second are ignored.
func ParseLatLng(s string) (lat, lng float64, err error) {
	parts := strings.Split(s, ",")
	if len(parts) < 2 {
		return 0, 0, fmt.Errorf("%w: %q is not a lat,lng pair", domain.ErrMalformedField, s)
	}

	if lat, err = parseCoordinate(parts[0]); err != nil {
		return 0, 0, err
	}
	if lng, err = parseCoordinate(parts[1]); err != nil {
		return 0, 0, err
	}
	return lat, lng, nil
}

func parseCoordinate(s string) (float64, error) {
	num := leadingNumber.FindString(strings.TrimSpace(s))
	if num == "" {
		return 0, fmt.Errorf("%w: %q is not a number", domain.ErrMalformedField, s)
	}
	f, err := strconv.ParseFloat(num, 64)
	if err != nil || math.IsInf(f, 0) || math.IsNaN(f) {
		return 0, fmt.Errorf("%w: %q is not a finite number", domain.ErrMalformedField, s)
	}
	return f, nil
}

// ParseRoute parses one "lat,lng" pair per line into GeoJSON positions.
// Lines that do not hold a valid pair are dropped.
func ParseRoute(s string) []domain.Position {
	if strings.TrimSpace(s) == "" {
		return nil
	}

	var path []domain.Position
	for _, line := range strings.Split(s, "\n") {
		lat, lng, err := ParseLatLng(strings.TrimSuffix(line, "\r"))
		if err != nil {
			continue
		}
		path = append(path, domain.Position{lng, lat})
	}
	return path
}
