package domain

// ReportLine aggregates the sales of one product over a date window.
type ReportLine struct {
	ProductID    int64   `json:"product_id" csv:"product_id"`
	ProductName  string  `json:"product_name" csv:"product_name"`
	QuantitySold int     `json:"quantity_sold" csv:"quantity_sold"`
	TotalRevenue float64 `json:"total_revenue" csv:"total_revenue"`
	TotalProfit  float64 `json:"total_profit" csv:"total_profit"`
}

// SalesReport is the report engine output: one line per product plus a
// totals row summing all lines.
type SalesReport struct {
	Lines  []ReportLine `json:"lines"`
	Totals ReportLine   `json:"totals"`
}
