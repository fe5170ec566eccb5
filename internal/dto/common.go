package dto

// ListMeta carries the pagination block every list endpoint returns.
type ListMeta struct {
	Total        int64 `json:"total"`
	TotalPages   int   `json:"totalPages"`
	CurrentPage  int   `json:"currentPage"`
	ItemsPerPage int   `json:"itemsPerPage"`
}

// ListResponse is the standard envelope {data, meta} for paginated listings.
type ListResponse[T any] struct {
	Data []T      `json:"data"`
	Meta ListMeta `json:"meta"`
}

// NewListMeta computes totalPages from the item count and page size.
func NewListMeta(total int64, page, limit int) ListMeta {
	pages := int(total) / limit
	if int(total)%limit != 0 {
		pages++
	}
	if pages == 0 {
		pages = 1
	}
	return ListMeta{Total: total, TotalPages: pages, CurrentPage: page, ItemsPerPage: limit}
}

// PageFilter is embedded by every list filter bound from the query string.
type PageFilter struct {
	Page  int `form:"page,default=1"   validate:"min=1"`
	Limit int `form:"limit,default=20" validate:"min=1,max=200"`
}

func (p PageFilter) Offset() int { return (p.Page - 1) * p.Limit }
