package repo

import "context"

// ProductStock is one row of the top-products-by-stock report.
type ProductStock struct {
	Name          string `json:"name"`
	Barcode       string `json:"barcode"`
	StockQuantity int    `json:"stock_quantity"`
}

// AvailabilitySummary counts products per availability tier.
type AvailabilitySummary struct {
	OutOfStock int `json:"out_of_stock"`
	Low        int `json:"low"`
	Medium     int `json:"medium"`
	High       int `json:"high"`
}

// Dashboard aggregates the numbers shown on the reports home page.
type Dashboard struct {
	TotalProducts      int    `json:"total_products"`
	TotalRegistrations int    `json:"total_registrations"`
	UncertainStates    int    `json:"uncertain_states"`
	MostSighted        string `json:"most_sighted_product"`
}

type AnalyticsRepository interface {
	TopProductsByStock(ctx context.Context, limit int) ([]ProductStock, error)
	GetAvailabilitySummary(ctx context.Context) (AvailabilitySummary, error)
	GetDashboard(ctx context.Context) (Dashboard, error)
}
