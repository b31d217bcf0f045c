package attendee

import "time"

const demoEmail = "alex.smith@example.com"

var (
	monthStart = time.Date(2025, 5, 24, 18, 0, 0, 0, time.UTC)
	monthEnd   = time.Date(2025, 6, 21, 18, 0, 0, 0, time.UTC)
)

// demoAttendees mirrors the documented example: four popups, only the first
// with a product.
func demoAttendees() []*Attendee {
	return []*Attendee{
		{ID: 11, Name: "Alex Smith", Email: demoEmail, Category: "main", PopupID: 1, PopupCity: "Edge Esmeralda 2025"},
		{ID: 12, Name: "Alex Smith", Email: demoEmail, Category: "main", PopupID: 2, PopupCity: "Edge Bhutan 2025"},
		{ID: 13, Name: "Alex Smith", Email: demoEmail, Category: "main", PopupID: 3, PopupCity: "Edge Expedition South Africa"},
		{ID: 14, Name: "Alex Smith", Email: demoEmail, Category: "main", PopupID: 4, PopupCity: "Edge Patagonia"},
	}
}

func demoProducts() map[int64][]*Product {
	return map[int64][]*Product{
		11: {
			{Name: "Month", Category: "month", StartDate: NewLocalTime(monthStart), EndDate: NewLocalTime(monthEnd)},
		},
	}
}
