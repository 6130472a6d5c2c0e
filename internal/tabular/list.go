package tabular

import (
	"strings"

	"filmdash/internal/film"
)

// minListLines is the smallest well-formed list export: banner, metadata
// header, metadata values, blank separator, item header, one item.
const minListLines = 6

// List is a parsed list export.
type List struct {
	Metadata film.Record
	Items    []film.Record
}

// ParseList parses the fixed list layout. Line 2 holds the metadata header,
// line 3 its values, line 5 the item header and lines 6+ the items. It returns
// nil when fewer than six lines are present.
func ParseList(text string) *List {
	lines := strings.Split(strings.TrimSpace(text), "\n")
	if len(lines) < minListLines {
		return nil
	}

	metaHeaders := SplitLine(lines[1])
	metaValues := SplitLine(lines[2])
	metadata := make(film.Record, len(metaHeaders))
	for i, header := range metaHeaders {
		if i < len(metaValues) {
			metadata[header] = metaValues[i]
		} else {
			metadata[header] = ""
		}
	}

	itemHeaders := SplitLine(lines[4])
	return &List{
		Metadata: metadata,
		Items:    buildRecords(itemHeaders, lines[5:]),
	}
}
