package model

// PageData is what the holi form template renders.
type PageData struct {
	Year         int
	HoliDate     string
	Label        string
	SelectedYear string
	Error        string
	MinYear      int
	MaxYear      int
}

func (p PageData) HasResult() bool {
	return p.HoliDate != ""
}
