package main

import (
	"filmdash/internal/film"
)

// recordRow is the CLI rendering of one collection record.
type recordRow struct {
	Date   string `json:"date,omitempty"`
	Name   string `json:"name"`
	Year   string `json:"year,omitempty"`
	Rating string `json:"rating,omitempty"`
	URI    string `json:"uri,omitempty"`
	Live   bool   `json:"live,omitempty"`
	Poster string `json:"poster,omitempty"`
}

func newRecordRow(rec film.Record) recordRow {
	return recordRow{
		Date:   rec.EffectiveDate(),
		Name:   rec.Name(),
		Year:   rec.Year(),
		Rating: rec.Get(film.FieldRating),
		URI:    rec.URI(),
		Live:   rec.Live(),
	}
}

func recordRows(records []film.Record) []recordRow {
	rows := make([]recordRow, 0, len(records))
	for _, rec := range records {
		rows = append(rows, newRecordRow(rec))
	}
	return rows
}

func recordTable(rows []recordRow, colorize bool) string {
	data := make([][]string, 0, len(rows))
	for _, r := range rows {
		name := r.Name
		if r.Live {
			name += " •"
		}
		data = append(data, []string{r.Date, name, r.Year, film.Stars(r.Rating)})
	}
	return renderTable(
		[]string{"Date", "Film", "Year", "Rating"},
		data,
		[]columnAlignment{alignLeft, alignLeft, alignRight, alignLeft},
		colorize,
	)
}
