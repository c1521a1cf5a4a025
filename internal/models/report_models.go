package models

import "github.com/shopspring/decimal"

// Report periods
const (
	PeriodDay   = "day"
	PeriodWeek  = "week"
	PeriodMonth = "month"
	PeriodYear  = "year"
)

// RevenueReport is the sum of court prices booked within an inclusive date window.
type RevenueReport struct {
	Period string          `json:"period"`
	From   string          `json:"from"` // YYYY-MM-DD
	To     string          `json:"to"`   // YYYY-MM-DD
	Total  decimal.Decimal `json:"total"`
}

// ReportRequestParams holds the query parameters of reservation listings and revenue reports.
type ReportRequestParams struct {
	Date string `form:"date" binding:"omitempty,isodate"` // YYYY-MM-DD, defaults to today
	Year *int   `form:"year" binding:"omitempty,min=1"`
}
