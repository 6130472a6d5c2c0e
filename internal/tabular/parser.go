package tabular

import (
	"strings"

	"filmdash/internal/film"
)

// Parse converts CSV text with a single header row into records. Blank lines
// are ignored and rows with mismatched arity are dropped.
func Parse(text string) []film.Record {
	lines := nonBlankLines(text)
	if len(lines) < 2 {
		return []film.Record{}
	}
	headers := SplitLine(lines[0])
	return buildRecords(headers, lines[1:])
}

// SplitLine splits one CSV line on commas outside double quotes. Fields are
// trimmed and quote characters removed.
func SplitLine(line string) []string {
	line = strings.TrimRight(line, "\r")
	fields := make([]string, 0, 8)
	var current strings.Builder
	inQuotes := false
	for _, r := range line {
		switch {
		case r == '"':
			inQuotes = !inQuotes
		case r == ',' && !inQuotes:
			fields = append(fields, strings.TrimSpace(current.String()))
			current.Reset()
		default:
			current.WriteRune(r)
		}
	}
	return append(fields, strings.TrimSpace(current.String()))
}

func buildRecords(headers []string, rows []string) []film.Record {
	records := make([]film.Record, 0, len(rows))
	for _, line := range rows {
		if strings.TrimSpace(line) == "" {
			continue
		}
		values := SplitLine(line)
		if len(values) != len(headers) {
			continue
		}
		rec := make(film.Record, len(headers))
		for i, header := range headers {
			rec[header] = values[i]
		}
		records = append(records, rec)
	}
	return records
}

func nonBlankLines(text string) []string {
	raw := strings.Split(strings.TrimSpace(text), "\n")
	lines := make([]string, 0, len(raw))
	for _, line := range raw {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
