package analytics

import (
	"sort"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"invoice-analytics-backend/internal/models"
)

const uncategorized = "Uncategorized"

// Service computes the dashboard projections. Every query is a read-only
// reduction over the current store, re-executed per request.
type Service struct {
	db  *gorm.DB
	now func() time.Time
}

func NewService(db *gorm.DB) *Service {
	return &Service{db: db, now: time.Now}
}

type StatChanges struct {
	TotalSpend     float64 `json:"totalSpend"`
	TotalInvoices  float64 `json:"totalInvoices"`
	Documents      float64 `json:"documents"`
	AverageInvoice float64 `json:"averageInvoice"`
}

type DashboardStats struct {
	TotalSpend                 float64     `json:"totalSpend"`
	TotalInvoices              int64       `json:"totalInvoices"`
	DocumentsUploaded          int64       `json:"documentsUploaded"`
	DocumentsUploadedThisMonth int64       `json:"documentsUploadedThisMonth"`
	AverageInvoiceValue        float64     `json:"averageInvoiceValue"`
	Changes                    StatChanges `json:"changes"`
}

// CalculateChange returns the percentage change between two period values.
// A zero previous value maps to 100 when anything was gained and 0 otherwise.
func CalculateChange(current, previous float64) float64 {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	return (current - previous) / previous * 100
}

type periodTotals struct {
	Sum   float64
	Count int64
	Avg   float64
}

func (s *Service) invoiceTotals(start, end time.Time) (periodTotals, error) {
	var totals periodTotals
	err := s.db.Model(&models.Invoice{}).
		Select("COALESCE(SUM(total),0) as sum, COUNT(*) as count, COALESCE(AVG(total),0) as avg").
		Where("issue_date >= ? AND issue_date <= ?", start, end).
		Scan(&totals).Error
	return totals, err
}

func (s *Service) createdCount(start, end time.Time) (int64, error) {
	var count int64
	err := s.db.Model(&models.Invoice{}).
		Where("created_at >= ? AND created_at <= ?", start, end).
		Count(&count).Error
	return count, err
}

// Stats aggregates year-to-date totals plus current-vs-prior-month deltas.
func (s *Service) Stats() (DashboardStats, error) {
	now := s.now()
	loc := now.Location()

	yearStart := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, loc)
	yearEnd := time.Date(now.Year(), 12, 31, 23, 59, 59, 0, loc)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, loc)
	monthEnd := monthStart.AddDate(0, 1, 0).Add(-time.Second)
	lastMonthStart := monthStart.AddDate(0, -1, 0)
	lastMonthEnd := monthStart.Add(-time.Second)

	var stats DashboardStats

	ytd, err := s.invoiceTotals(yearStart, yearEnd)
	if err != nil {
		return stats, err
	}
	thisMonth, err := s.invoiceTotals(monthStart, monthEnd)
	if err != nil {
		return stats, err
	}
	lastMonth, err := s.invoiceTotals(lastMonthStart, lastMonthEnd)
	if err != nil {
		return stats, err
	}

	var documentsUploaded int64
	if err := s.db.Model(&models.Invoice{}).Count(&documentsUploaded).Error; err != nil {
		return stats, err
	}
	uploadedThisMonth, err := s.createdCount(monthStart, monthEnd)
	if err != nil {
		return stats, err
	}
	uploadedLastMonth, err := s.createdCount(lastMonthStart, lastMonthEnd)
	if err != nil {
		return stats, err
	}

	stats.TotalSpend = ytd.Sum
	stats.TotalInvoices = ytd.Count
	stats.DocumentsUploaded = documentsUploaded
	stats.DocumentsUploadedThisMonth = uploadedThisMonth
	stats.AverageInvoiceValue = ytd.Avg
	stats.Changes = StatChanges{
		TotalSpend:     CalculateChange(thisMonth.Sum, lastMonth.Sum),
		TotalInvoices:  CalculateChange(float64(thisMonth.Count), float64(lastMonth.Count)),
		Documents:      float64(uploadedLastMonth - uploadedThisMonth),
		AverageInvoice: CalculateChange(thisMonth.Avg, lastMonth.Avg),
	}
	return stats, nil
}

type TrendPoint struct {
	Month        string  `json:"month"`
	InvoiceCount int     `json:"invoiceCount"`
	TotalValue   float64 `json:"totalValue"`
}

// InvoiceTrends buckets all invoices by calendar month and returns the
// trailing twelve months ending at the current one, zero-filled.
func (s *Service) InvoiceTrends() ([]TrendPoint, error) {
	var rows []struct {
		IssueDate time.Time
		Total     float64
	}
	if err := s.db.Model(&models.Invoice{}).
		Select("issue_date, total").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	byMonth := make(map[string]*TrendPoint)
	for _, row := range rows {
		key := row.IssueDate.Format("2006-01")
		point, ok := byMonth[key]
		if !ok {
			point = &TrendPoint{Month: key}
			byMonth[key] = point
		}
		point.InvoiceCount++
		point.TotalValue += row.Total
	}

	now := s.now()
	current := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	trends := make([]TrendPoint, 0, 12)
	for i := 11; i >= 0; i-- {
		key := current.AddDate(0, -i, 0).Format("2006-01")
		if point, ok := byMonth[key]; ok {
			trends = append(trends, *point)
		} else {
			trends = append(trends, TrendPoint{Month: key})
		}
	}
	return trends, nil
}

type VendorSpend struct {
	ID         uuid.UUID `json:"id"`
	Name       string    `json:"name"`
	TotalSpend float64   `json:"totalSpend"`
}

// TopVendors sums invoice totals per vendor, descending, top ten.
func (s *Service) TopVendors() ([]VendorSpend, error) {
	var spend []VendorSpend
	err := s.db.Model(&models.Vendor{}).
		Select("vendors.id, vendors.name, COALESCE(SUM(invoices.total),0) as total_spend").
		Joins("LEFT JOIN invoices ON invoices.vendor_id = vendors.id").
		Group("vendors.id, vendors.name").
		Order("total_spend DESC").
		Limit(10).
		Scan(&spend).Error
	return spend, err
}

type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

// CategorySpendByCategory sums line-item amounts per category; items without
// one are grouped under Uncategorized.
func (s *Service) CategorySpendByCategory() ([]CategorySpend, error) {
	var rows []struct {
		Category *string
		Amount   float64
	}
	if err := s.db.Model(&models.LineItem{}).
		Select("category, amount").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	totals := make(map[string]float64)
	for _, row := range rows {
		name := uncategorized
		if row.Category != nil && *row.Category != "" {
			name = *row.Category
		}
		totals[name] += row.Amount
	}

	result := make([]CategorySpend, 0, len(totals))
	for category, spend := range totals {
		result = append(result, CategorySpend{Category: category, Spend: spend})
	}
	sort.Slice(result, func(i, j int) bool {
		if result[i].Spend != result[j].Spend {
			return result[i].Spend > result[j].Spend
		}
		return result[i].Category < result[j].Category
	})
	return result, nil
}

type OutflowBucket struct {
	Date   string  `json:"date"`
	Amount float64 `json:"amount"`
}

// CashOutflow forecasts near-term payment obligations by days until due,
// measured from today at day granularity. Invoices without a due date are
// estimated at issue date + 30 days; already-due invoices are excluded.
func (s *Service) CashOutflow() ([]OutflowBucket, error) {
	var rows []struct {
		DueDate   *time.Time
		IssueDate time.Time
		Total     float64
	}
	if err := s.db.Model(&models.Invoice{}).
		Select("due_date, issue_date, total").
		Scan(&rows).Error; err != nil {
		return nil, err
	}

	today := dayOf(s.now())
	buckets := map[string]float64{}
	for _, row := range rows {
		due := row.IssueDate.AddDate(0, 0, 30)
		if row.DueDate != nil {
			due = *row.DueDate
		}
		days := int(dayOf(due).Sub(today).Hours() / 24)

		switch {
		case days < 0:
			// already due, nothing left to forecast
		case days <= 7:
			buckets["0-7"] += row.Total
		case days <= 30:
			buckets["8-30"] += row.Total
		case days <= 60:
			buckets["31-60"] += row.Total
		default:
			buckets["60+"] += row.Total
		}
	}

	return []OutflowBucket{
		{Date: "0-7 days", Amount: buckets["0-7"]},
		{Date: "8-30 days", Amount: buckets["8-30"]},
		{Date: "31-60 days", Amount: buckets["31-60"]},
		{Date: "60+ days", Amount: buckets["60+"]},
	}, nil
}

// dayOf truncates to the calendar date in UTC so bucket math counts whole
// days regardless of the stored zone.
func dayOf(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
