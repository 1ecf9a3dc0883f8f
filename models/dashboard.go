package models

import "time"

// MetricsFilter restringe o conjunto usado nas métricas do dashboard.
// CreatedFrom é inclusivo e CreatedBefore exclusivo.
type MetricsFilter struct {
	Type          string
	CreatedFrom   *time.Time
	CreatedBefore *time.Time
}

// RecentProperty é um item de recent_properties.
type RecentProperty struct {
	ID        string `json:"_id"`
	Title     string `json:"title"`
	Location  string `json:"location"`
	Type      string `json:"type"`
	CreatedAt string `json:"created_at"` // YYYY-MM-DD
}

// DashboardMetrics é a resposta de /api/admin/dashboard/metrics.
type DashboardMetrics struct {
	TotalProperties      int64            `json:"total_properties"`
	AveragePurchasePrice float64          `json:"average_purchase_price"`
	RecentProperties     []RecentProperty `json:"recent_properties"`
}

// TypeCount é a contagem de imóveis de um tipo.
type TypeCount struct {
	Type  string `json:"type" db:"type"`
	Count int64  `json:"count" db:"count"`
}

// TypeDistribution é a resposta de /api/admin/dashboard/distribution/type.
type TypeDistribution struct {
	DistributionByType []TypeCount `json:"distribution_by_type"`
}
