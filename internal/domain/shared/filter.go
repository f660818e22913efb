package shared

// Page size bounds applied by Filter.Normalize
const (
	DefaultPageSize = 20
	MaxPageSize     = 100
)

// Filter carries list query options from the HTTP layer to repositories.
// Filters holds column equality conditions; repositories whitelist the keys.
type Filter struct {
	Page     int
	PageSize int
	OrderBy  string
	OrderDir string
	Search   string
	Filters  map[string]any
}

func DefaultFilter() Filter {
	return Filter{
		Page:     1,
		PageSize: DefaultPageSize,
		OrderBy:  "created_at",
		OrderDir: "desc",
		Filters:  make(map[string]any),
	}
}

// Normalize clamps paging into range and defaults the sort direction to desc
func (f *Filter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	switch {
	case f.PageSize < 1:
		f.PageSize = DefaultPageSize
	case f.PageSize > MaxPageSize:
		f.PageSize = MaxPageSize
	}
	if f.OrderDir != "asc" {
		f.OrderDir = "desc"
	}
	if f.Filters == nil {
		f.Filters = make(map[string]any)
	}
}

func (f Filter) Offset() int {
	return (f.Page - 1) * f.PageSize
}
