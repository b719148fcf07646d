package report

// StatusCount is one bucket of a group-by-status aggregation.
type StatusCount struct {
	Status string `bson:"_id" json:"status"`
	Count  int64  `bson:"count" json:"count"`
}

// QuotationTotals aggregates the tenant's quoting activity.
type QuotationTotals struct {
	Count          int64   `bson:"count" json:"count"`
	TotalUF        float64 `bson:"total_uf" json:"total_uf"`
	AvgDiscountPct float64 `bson:"avg_discount_pct" json:"avg_discount_pct"`
}

// SalesFunnel is the dashboard summary.
type SalesFunnel struct {
	ProjectsByStatus   []StatusCount              `json:"projects_by_status"`
	UnitsByStatus      []StatusCount              `json:"units_by_status"`
	QuotationsByStatus []StatusCount              `json:"quotations_by_status"`
	QuotationTotals    map[string]QuotationTotals `json:"quotation_totals"` // by status
}
