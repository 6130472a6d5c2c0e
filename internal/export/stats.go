package export

import (
	"math"
	"sort"
	"strings"

	"filmdash/internal/film"
)

// Stats is the dashboard summary of a bundle.
type Stats struct {
	Watched       int     `json:"watched"`
	Diary         int     `json:"diary"`
	Ratings       int     `json:"ratings"`
	Reviews       int     `json:"reviews"`
	Watchlist     int     `json:"watchlist"`
	Lists         int     `json:"lists"`
	AverageRating float64 `json:"average_rating"`
}

// MonthCount is the number of diary entries logged in one month.
type MonthCount struct {
	Month string `json:"month"`
	Count int    `json:"count"`
}

// RatingBucket counts ratings equal to Rating.
type RatingBucket struct {
	Rating float64 `json:"rating"`
	Count  int     `json:"count"`
}

// Stats computes collection counts and the average numeric rating, rounded
// to one decimal. The average is zero when nothing is rated.
func (b *Bundle) Stats() Stats {
	stats := Stats{
		Watched:   len(b.Watched),
		Diary:     len(b.Diary),
		Ratings:   len(b.Ratings),
		Reviews:   len(b.Reviews),
		Watchlist: len(b.Watchlist),
		Lists:     len(b.Lists),
	}
	var sum float64
	var n int
	for _, rec := range b.Ratings {
		if rating, ok := rec.Rating(); ok {
			sum += rating
			n++
		}
	}
	if n > 0 {
		stats.AverageRating = math.Round(sum/float64(n)*10) / 10
	}
	return stats
}

// MonthlyCounts groups diary entries by YYYY-MM of the logged date and
// returns the latest months present, oldest first.
func (b *Bundle) MonthlyCounts(months int) []MonthCount {
	counts := make(map[string]int)
	for _, rec := range b.Diary {
		ts, ok := film.ParseDate(rec.Date())
		if !ok {
			continue
		}
		counts[ts.Format("2006-01")]++
	}
	keys := make([]string, 0, len(counts))
	for key := range counts {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	if months > 0 && len(keys) > months {
		keys = keys[len(keys)-months:]
	}
	out := make([]MonthCount, 0, len(keys))
	for _, key := range keys {
		out = append(out, MonthCount{Month: key, Count: counts[key]})
	}
	return out
}

// RatingDistribution counts ratings in each half-star bucket from 0.5 to 5.
func (b *Bundle) RatingDistribution() []RatingBucket {
	buckets := make([]RatingBucket, 10)
	for i := range buckets {
		buckets[i].Rating = float64(i+1) / 2
	}
	for _, rec := range b.Ratings {
		rating, ok := rec.Rating()
		if !ok || rating < 0.5 {
			continue
		}
		buckets[int(rating*2)-1].Count++
	}
	return buckets
}

// RecentActivity returns up to limit diary entries, newest logged first.
func (b *Bundle) RecentActivity(limit int) []film.Record {
	out := make([]film.Record, len(b.Diary))
	copy(out, b.Diary)
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Date() > out[j].Date()
	})
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}

// AllFilms returns one record per watched film, with the diary rating and
// dates filled in where the watched row lacks them. Rows are matched on exact
// Name and Year; the first diary match wins.
func (b *Bundle) AllFilms() []film.Record {
	firstDiary := make(map[string]film.Record, len(b.Diary))
	for _, rec := range b.Diary {
		key := rec.Name() + "\x00" + rec.Year()
		if _, ok := firstDiary[key]; !ok {
			firstDiary[key] = rec
		}
	}

	out := make([]film.Record, 0, len(b.Watched))
	for _, rec := range b.Watched {
		merged := rec.Clone()
		if diary, ok := firstDiary[rec.Name()+"\x00"+rec.Year()]; ok {
			for _, field := range []string{film.FieldRating, film.FieldWatchedDate, film.FieldDate, film.FieldRewatch, film.FieldTags} {
				if strings.TrimSpace(merged[field]) == "" && diary[field] != "" {
					merged[field] = diary[field]
				}
			}
		}
		out = append(out, merged)
	}
	return out
}

// ReviewsWithText drops review rows whose body is blank.
func (b *Bundle) ReviewsWithText() []film.Record {
	out := make([]film.Record, 0, len(b.Reviews))
	for _, rec := range b.Reviews {
		if rec.Get(film.FieldReview) != "" {
			out = append(out, rec)
		}
	}
	return out
}
