package domain

import (
	"errors"
	"math"
	"strings"
	"testing"
)

func TestSearchRequest_Validate(t *testing.T) {
	tests := []struct {
		name    string
		req     SearchRequest
		wantErr error
	}{
		{"events ok", SearchRequest{Kind: SearchEvents, Text: "jazz"}, nil},
		{"events empty", SearchRequest{Kind: SearchEvents, Text: ""}, ErrEmptyQuery},
		{"events whitespace", SearchRequest{Kind: SearchEvents, Text: "   "}, ErrEmptyQuery},
		{"max len", SearchRequest{Kind: SearchAttractions, Text: strings.Repeat("a", MaxQueryLength)}, nil},
		{"too long", SearchRequest{Kind: SearchAttractions, Text: strings.Repeat("a", MaxQueryLength+1)}, ErrQueryTooLong},
		{"venue with state", SearchRequest{Kind: SearchVenues, Text: "Fox Theatre", StateCode: "GA"}, nil},
		{"venue bad state", SearchRequest{Kind: SearchVenues, Text: "Fox Theatre", StateCode: "Georgia"}, ErrInvalidStateCode},
		{"nearby ok", SearchRequest{Kind: SearchNearby, Latitude: 33.7, Longitude: -84.4, Radius: 5}, nil},
		{"nearby zero radius", SearchRequest{Kind: SearchNearby, Latitude: 0, Longitude: 0}, nil},
		{"nearby bad lat", SearchRequest{Kind: SearchNearby, Latitude: 91, Longitude: 0}, ErrInvalidCoordinates},
		{"nearby bad long", SearchRequest{Kind: SearchNearby, Latitude: 0, Longitude: -181}, ErrInvalidCoordinates},
		{"nearby nan lat", SearchRequest{Kind: SearchNearby, Latitude: math.NaN(), Longitude: 0}, ErrInvalidCoordinates},
		{"nearby nan long", SearchRequest{Kind: SearchNearby, Latitude: 33.7, Longitude: math.NaN()}, ErrInvalidCoordinates},
		{"nearby negative radius", SearchRequest{Kind: SearchNearby, Radius: -1}, ErrInvalidRadius},
		{"nearby huge radius", SearchRequest{Kind: SearchNearby, Radius: MaxRadius + 1}, ErrInvalidRadius},
		{"lookup ok", SearchRequest{Kind: SearchLookup, IDs: []string{"a", "b"}}, nil},
		{"lookup none", SearchRequest{Kind: SearchLookup}, ErrEmptyQuery},
		{"lookup too many", SearchRequest{Kind: SearchLookup, IDs: []string{"1", "2", "3", "4", "5", "6"}}, ErrTooManyIDs},
		{"unknown kind", SearchRequest{Kind: "weather", Text: "x"}, ErrUnknownSearchKind},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.req.Validate()
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("SearchRequest.Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestSearchRequest_Sanitize(t *testing.T) {
	req := SearchRequest{
		Kind:      SearchVenues,
		Text:      "  Fox   Theatre \n",
		StateCode: " ga ",
		IDs:       []string{" a ", "", "  ", "b"},
	}
	req.Sanitize()

	if req.Text != "Fox Theatre" {
		t.Errorf("Text = %q, want %q", req.Text, "Fox Theatre")
	}
	if req.StateCode != "GA" {
		t.Errorf("StateCode = %q, want GA", req.StateCode)
	}
	if len(req.IDs) != 2 || req.IDs[0] != "a" || req.IDs[1] != "b" {
		t.Errorf("IDs = %q, want [a b]", req.IDs)
	}
}
