package entity

// Aggregation rows served by the dashboard and analytics endpoints.

type LeadFunnelRow struct {
	Status string `json:"status"`
	Count  int64  `json:"count"`
}

type RepPerformance struct {
	Name          string  `json:"name"`
	TotalWonValue float64 `json:"total_won_value"`
}

type ProductSales struct {
	Name              string `json:"name"`
	TotalQuantitySold int64  `json:"total_quantity_sold"`
}

// ChartData is the {labels, data} shape the SPA charts consume directly.
type ChartData struct {
	Labels []string  `json:"labels"`
	Data   []float64 `json:"data"`
}

type DashboardStats struct {
	NewLeads            int64   `json:"newLeads"`
	OpenDealsValue      float64 `json:"openDealsValue"`
	TasksDueToday       int64   `json:"tasksDueToday"`
	OpenProductRequests int64   `json:"openProductRequests"`
}
