// internal/domain/ledger/dto.go
package ledger

import "time"

// ListFilters narrows transaction listings and revenue aggregation.
type ListFilters struct {
	PosterID   int64     `form:"poster_id"`
	BuyerID    int64     `form:"buyer_id"`
	SystemType string    `form:"system_type"`
	From       time.Time `form:"from" time_format:"2006-01-02"`
	To         time.Time `form:"to" time_format:"2006-01-02"`

	Page     int `form:"page"`
	PageSize int `form:"page_size"`
}

func (f *ListFilters) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.PageSize < 1 || f.PageSize > 100 {
		f.PageSize = 20
	}
}
