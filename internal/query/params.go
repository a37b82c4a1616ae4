package query

import "reflect"

// Params maps parameter names to values. A nil value, including a typed nil
// pointer, slice or map, means "unset" and is never sent to the API.
type Params map[string]any

type rename struct {
	semantic string
	wire     string
}

// renames is applied in order. Two semantic keys that share a wire key
// (entity_id and event_id both become id) collide; the later entry wins.
var renames = []rename{
	{"entity_id", "id"},
	{"event_id", "id"},
	{"start_date_time", "startDateTime"},
	{"end_date_time", "endDateTime"},
	{"onsale_start_date_time", "onsaleStartDateTime"},
	{"onsale_end_date_time", "onsaleEndDateTime"},
	{"country_code", "countryCode"},
	{"state_code", "stateCode"},
	{"venue_id", "venueId"},
	{"attraction_id", "attractionId"},
	{"segment_id", "segmentId"},
	{"segment_name", "segmentName"},
	{"classification_name", "classificationName"},
	{"classification_id", "classificationId"},
	{"market_id", "marketId"},
	{"promoter_id", "promoterId"},
	{"dma_id", "dmaId"},
	{"include_tba", "includeTBA"},
	{"include_tbd", "includeTBD"},
	{"include_test", "includeTest"},
	{"client_visibility", "clientVisibility"},
	{"keyword", "keyword"},
	{"id", "id"},
	{"sort", "sort"},
	{"page", "page"},
	{"size", "size"},
	{"locale", "locale"},
	{"latlong", "latlong"},
	{"radius", "radius"},
	{"unit", "unit"},
	{"source", "source"},
}

// wireName returns the API name for a semantic parameter name, or the name
// itself when it has no entry.
func wireName(semantic string) string {
	for _, r := range renames {
		if r.semantic == semantic {
			return r.wire
		}
	}
	return semantic
}

// Normalize returns a copy of p with semantic names replaced by wire names
// and unset values dropped. Falsy values such as "" or 0 are kept. Names
// without a rename entry pass through so callers can send filters that
// have no typed field.
func Normalize(p Params) Params {
	out := make(Params, len(p))
	for k, v := range p {
		out[k] = v
	}

	for _, r := range renames {
		if r.semantic == r.wire {
			continue
		}
		if v, ok := out[r.semantic]; ok {
			out[r.wire] = v
			delete(out, r.semantic)
		}
	}

	for k, v := range out {
		if isUnset(v) {
			delete(out, k)
		}
	}
	return out
}

func isUnset(v any) bool {
	if v == nil {
		return true
	}
	switch rv := reflect.ValueOf(v); rv.Kind() {
	case reflect.Pointer, reflect.Slice, reflect.Map, reflect.Interface, reflect.Func, reflect.Chan:
		return rv.IsNil()
	}
	return false
}
