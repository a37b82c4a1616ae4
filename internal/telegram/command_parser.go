package telegram

import (
	"errors"
	"strconv"
	"strings"
)

var errNearUsage = errors.New("usage: /near <lat> <long> [radius]")

// ParseVenueArgs splits "/venue" arguments into a name and an optional
// trailing two-letter state code: "Fox Theatre GA" -> ("Fox Theatre", "GA").
// A single word is always the name.
func ParseVenueArgs(args string) (name, stateCode string) {
	fields := strings.Fields(args)
	if len(fields) < 2 {
		return strings.Join(fields, " "), ""
	}

	last := fields[len(fields)-1]
	if isStateCode(last) {
		return strings.Join(fields[:len(fields)-1], " "), strings.ToUpper(last)
	}
	return strings.Join(fields, " "), ""
}

// ParseNearArgs accepts "33.7 -84.4", "33.7,-84.4" and an optional integer
// radius after the coordinates. A missing radius is 0.
func ParseNearArgs(args string) (latitude, longitude float64, radius int, err error) {
	fields := strings.Fields(strings.ReplaceAll(args, ",", " "))
	if len(fields) < 2 || len(fields) > 3 {
		return 0, 0, 0, errNearUsage
	}

	if latitude, err = strconv.ParseFloat(fields[0], 64); err != nil {
		return 0, 0, 0, errNearUsage
	}
	if longitude, err = strconv.ParseFloat(fields[1], 64); err != nil {
		return 0, 0, 0, errNearUsage
	}
	if len(fields) == 3 {
		if radius, err = strconv.Atoi(fields[2]); err != nil {
			return 0, 0, 0, errNearUsage
		}
	}
	return latitude, longitude, radius, nil
}

// ParseEventIDs splits on spaces and commas and drops duplicates, keeping
// the first occurrence.
func ParseEventIDs(args string) []string {
	fields := strings.FieldsFunc(args, func(r rune) bool {
		return r == ',' || r == ' ' || r == '\n' || r == '\t'
	})

	seen := make(map[string]bool, len(fields))
	ids := make([]string, 0, len(fields))
	for _, f := range fields {
		if seen[f] {
			continue
		}
		seen[f] = true
		ids = append(ids, f)
	}
	return ids
}

func isStateCode(s string) bool {
	if len(s) != 2 {
		return false
	}
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return true
}

func normalizeSpaces(s string) string {
	fields := strings.Fields(s)
	return strings.Join(fields, " ")
}
