package domain

import "github.com/google/uuid"

type CreateReportRequest struct {
	Lat         float64 `json:"lat" validate:"lat"`
	Lng         float64 `json:"lng" validate:"lng"`
	Description string  `json:"description" validate:"max=1000"`
}

type ListReportsResponse struct {
	Reports []*Report `json:"reports"`
	Page    int       `json:"page"`
	Limit   int       `json:"limit"`
	Total   int64     `json:"total"`
}

// CachedReport is the feed entry kept in Redis for open sightings.
type CachedReport struct {
	ID          uuid.UUID `json:"id"`
	Lat         float64   `json:"lat"`
	Lng         float64   `json:"lng"`
	Description string    `json:"description,omitempty"`
	ReportedAt  int64     `json:"reported_at"`
}

func ToCachedReports(src []*Report) []CachedReport {
	out := make([]CachedReport, 0, len(src))
	for _, r := range src {
		out = append(out, CachedReport{
			ID:          r.ID,
			Lat:         r.Location.Lat,
			Lng:         r.Location.Lng,
			Description: r.Description,
			ReportedAt:  r.ReportedAt.Unix(),
		})
	}
	return out
}
