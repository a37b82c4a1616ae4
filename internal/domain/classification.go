package domain

import (
	"encoding/json"
	"fmt"
)

type Subgenre struct {
	ID   string
	Name string
}

type Genre struct {
	ID        string
	Name      string
	Subgenres []Subgenre
}

type Segment struct {
	ID     string
	Name   string
	Genres []Genre
}

// Classification is the top-level entity of the classifications resource.
// Its segment carries the full genre/subgenre tree.
type Classification struct {
	Primary bool
	Segment Segment
}

// EventClassification is the flattened form attached to events and
// attractions: one segment, genre and subgenre each.
type EventClassification struct {
	Primary  bool
	Segment  Segment
	Genre    Genre
	Subgenre Subgenre
}

type subgenreJSON struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type genreJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Embedded struct {
		Subgenres []subgenreJSON `json:"subgenres"`
	} `json:"_embedded"`
}

type segmentJSON struct {
	ID       string `json:"id"`
	Name     string `json:"name"`
	Embedded struct {
		Genres []genreJSON `json:"genres"`
	} `json:"_embedded"`
}

type classificationJSON struct {
	Primary  bool         `json:"primary"`
	Segment  segmentJSON  `json:"segment"`
	Genre    genreJSON    `json:"genre"`
	SubGenre subgenreJSON `json:"subGenre"`
}

func (s subgenreJSON) model() Subgenre {
	return Subgenre{ID: s.ID, Name: s.Name}
}

func (g genreJSON) model() Genre {
	genre := Genre{ID: g.ID, Name: g.Name}
	for _, sg := range g.Embedded.Subgenres {
		genre.Subgenres = append(genre.Subgenres, sg.model())
	}
	return genre
}

func (s segmentJSON) model() Segment {
	seg := Segment{ID: s.ID, Name: s.Name}
	for _, g := range s.Embedded.Genres {
		seg.Genres = append(seg.Genres, g.model())
	}
	return seg
}

func (c classificationJSON) eventModel() EventClassification {
	return EventClassification{
		Primary:  c.Primary,
		Segment:  c.Segment.model(),
		Genre:    c.Genre.model(),
		Subgenre: c.SubGenre.model(),
	}
}

func ClassificationFromJSON(raw json.RawMessage) (Classification, error) {
	var c classificationJSON
	if err := json.Unmarshal(raw, &c); err != nil {
		return Classification{}, fmt.Errorf("decode classification: %w", err)
	}
	return Classification{Primary: c.Primary, Segment: c.Segment.model()}, nil
}

func SegmentFromJSON(raw json.RawMessage) (Segment, error) {
	var s segmentJSON
	if err := json.Unmarshal(raw, &s); err != nil {
		return Segment{}, fmt.Errorf("decode segment: %w", err)
	}
	return s.model(), nil
}

func GenreFromJSON(raw json.RawMessage) (Genre, error) {
	var g genreJSON
	if err := json.Unmarshal(raw, &g); err != nil {
		return Genre{}, fmt.Errorf("decode genre: %w", err)
	}
	return g.model(), nil
}

func SubgenreFromJSON(raw json.RawMessage) (Subgenre, error) {
	var s subgenreJSON
	if err := json.Unmarshal(raw, &s); err != nil {
		return Subgenre{}, fmt.Errorf("decode subgenre: %w", err)
	}
	return s.model(), nil
}

func eventClassifications(in []classificationJSON) []EventClassification {
	var out []EventClassification
	for _, c := range in {
		out = append(out, c.eventModel())
	}
	return out
}
