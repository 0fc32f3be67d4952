// Package aggregate holds the derived views computed from raw rows on every read.
// Nothing here is persisted.
package aggregate

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const (
	MinRating = 1
	MaxRating = 5

	// averagePrecision is the number of decimals kept in AverageRating
	averagePrecision = 2
)

// RatingSummary is the per-book review aggregate
type RatingSummary struct {
	BookID        uuid.UUID   `json:"book_id"`
	AverageRating float64     `json:"average_rating"`
	TotalReviews  int         `json:"total_reviews"`
	StarBuckets   map[int]int `json:"star_buckets"` // {5: 10, 4: 3, 3: 0, 2: 0, 1: 1}
}

// NewRatingSummary builds the summary from per-star counts, as returned by
// SELECT rating, COUNT(*) ... GROUP BY rating. Out-of-range stars are ignored.
func NewRatingSummary(bookID uuid.UUID, counts map[int]int) RatingSummary {
	summary := RatingSummary{
		BookID:      bookID,
		StarBuckets: emptyBuckets(),
	}

	sum := int64(0)
	for star, n := range counts {
		if star < MinRating || star > MaxRating || n <= 0 {
			continue
		}
		summary.StarBuckets[star] = n
		summary.TotalReviews += n
		sum += int64(star) * int64(n)
	}

	// No reviews: average stays 0, never NaN
	if summary.TotalReviews > 0 {
		avg := decimal.NewFromInt(sum).
			DivRound(decimal.NewFromInt(int64(summary.TotalReviews)), averagePrecision)
		summary.AverageRating = avg.InexactFloat64()
	}

	return summary
}

// SummarizeRatings builds the summary from raw review ratings
func SummarizeRatings(bookID uuid.UUID, ratings []int) RatingSummary {
	counts := make(map[int]int, MaxRating)
	for _, r := range ratings {
		counts[r]++
	}
	return NewRatingSummary(bookID, counts)
}

// EmptyRatingSummary is the summary of a book nobody reviewed yet
func EmptyRatingSummary(bookID uuid.UUID) RatingSummary {
	return NewRatingSummary(bookID, nil)
}

func emptyBuckets() map[int]int {
	buckets := make(map[int]int, MaxRating)
	for i := MinRating; i <= MaxRating; i++ {
		buckets[i] = 0
	}
	return buckets
}
