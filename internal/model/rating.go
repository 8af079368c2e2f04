package model

type RatingAggregate struct {
	AverageRating float64 `json:"averageRating"`
	ReviewCount   int     `json:"reviewCount"`
}

// RatingMap is keyed by product ID. A missing entry reads as {0, 0}.
type RatingMap map[string]RatingAggregate

func (m RatingMap) Get(productID string) RatingAggregate {
	return m[productID]
}

func (m RatingMap) Average(productID string) float64 {
	return m[productID].AverageRating
}

func (m RatingMap) Clone() RatingMap {
	out := make(RatingMap, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}
