package listing

// Metadata describes the page a listing result belongs to.
type Metadata struct {
	Count       int64  `json:"count"`
	CurrentPage int    `json:"currentPage"`
	NumPages    int    `json:"numPages"`
	Limit       int    `json:"limit"`
	Sort        string `json:"sort,omitempty"`
	StartIndex  int    `json:"startIndex"`
	EndIndex    int    `json:"endIndex"`
}

// NewMetadata computes the page metadata of count matching rows shown
// limit at a time.
//
//   - count 0: a single page with start and end index 1, limit as given
//   - limit 0 (no limit): a single page holding all rows, limit 0
//   - otherwise: ceil(count/limit) pages; page values below 1 mean 1;
//     start and end are the 1-based positions of the current page's rows
func NewMetadata(count int64, page, limit int, sort string) Metadata {
	m := Metadata{
		Count:       count,
		CurrentPage: page,
		Sort:        sort,
	}

	switch {
	case count <= 0:
		m.Limit = limit
		m.NumPages = 1
		m.StartIndex = 1
		m.EndIndex = 1
	case limit <= 0:
		m.NumPages = 1
		m.StartIndex = 1
		m.EndIndex = int(count)
	default:
		m.Limit = limit
		l := int64(limit)
		m.NumPages = int((count + l - 1) / l)
		if m.CurrentPage < 1 {
			m.CurrentPage = 1
		}
		m.StartIndex = limit*(m.CurrentPage-1) + 1
		m.EndIndex = int(min(l*int64(m.CurrentPage), count))
	}
	return m
}

// Paginate computes the metadata of count matching rows for the page, limit
// and sort selected by p.
func Paginate(count int64, p *Parameters) Metadata {
	if p == nil {
		p = NewParameters()
	}
	return NewMetadata(count, p.Page(), p.Limit(), p.Sort())
}
