package conversation

// PageSize is the number of products shown per listing page.
const PageSize = 10

// Window is one page of a listing.
type Window struct {
	Page    int
	Pages   int
	Start   int
	End     int
	HasPrev bool
	HasNext bool
}

// Paginate splits total items into pages of size and returns the window of
// page, clamped to the valid range.
func Paginate(total, page, size int) Window {
	if size <= 0 {
		size = PageSize
	}
	pages := (total + size - 1) / size
	if pages == 0 {
		pages = 1
	}
	if page < 0 {
		page = 0
	}
	if page >= pages {
		page = pages - 1
	}

	start := page * size
	end := start + size
	if end > total {
		end = total
	}
	return Window{
		Page:    page,
		Pages:   pages,
		Start:   start,
		End:     end,
		HasPrev: page > 0,
		HasNext: end < total,
	}
}
