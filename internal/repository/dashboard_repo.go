package repository

import (
	"context"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/model"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// OverviewStats carries the raw aggregates behind the dashboard headline
// block. Pure read model, computed in SQL.
type OverviewStats struct {
	TotalRevenue        decimal.Decimal
	PendingAmount       decimal.Decimal
	InvoiceCount        int64
	QuoteCount          int64
	ClientCount         int64
	ProductCount        int64
	OverdueInvoiceCount int64
}

type MonthlyRevenueRow struct {
	Month   int
	Revenue decimal.Decimal
}

type TopClientRow struct {
	ClientID uuid.UUID
	Name     string
	Revenue  decimal.Decimal
	Invoices int64
}

type DashboardRepository interface {
	Overview(ctx context.Context, ownerID uuid.UUID, today time.Time) (*OverviewStats, error)
	RevenueByMonth(ctx context.Context, ownerID uuid.UUID, year int) ([]MonthlyRevenueRow, error)
	TopClients(ctx context.Context, ownerID uuid.UUID, limit int) ([]TopClientRow, error)
	RecentInvoices(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Invoice, error)
	RecentQuotes(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Quote, error)
}

type dashboardRepo struct{ db *gorm.DB }

func NewDashboardRepository(db *gorm.DB) DashboardRepository { return &dashboardRepo{db: db} }

func (r *dashboardRepo) Overview(ctx context.Context, ownerID uuid.UUID, today time.Time) (*OverviewStats, error) {
	stats := &OverviewStats{}
	db := r.db.WithContext(ctx)

	// Revenue = money actually received; pending = outstanding balances on
	// open invoices. Overdue is computed at read time from due_date.
	var sums struct {
		TotalRevenue  decimal.Decimal
		PendingAmount decimal.Decimal
	}
	err := db.Model(&model.Invoice{}).
		Select(`COALESCE(SUM(amount_paid), 0) AS total_revenue,
			COALESCE(SUM(CASE WHEN status IN ('sent', 'partially_paid', 'overdue') THEN total - amount_paid ELSE 0 END), 0) AS pending_amount`).
		Where("owner_id = ? AND status <> 'cancelled'", ownerID).
		Scan(&sums).Error
	if err != nil {
		return nil, err
	}
	stats.TotalRevenue = sums.TotalRevenue
	stats.PendingAmount = sums.PendingAmount

	if err := db.Model(&model.Invoice{}).Where("owner_id = ?", ownerID).Count(&stats.InvoiceCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Quote{}).Where("owner_id = ?", ownerID).Count(&stats.QuoteCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Client{}).Where("owner_id = ?", ownerID).Count(&stats.ClientCount).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&model.Product{}).Where("owner_id = ? AND is_active = true", ownerID).Count(&stats.ProductCount).Error; err != nil {
		return nil, err
	}
	err = db.Model(&model.Invoice{}).
		Where("owner_id = ? AND status IN ('sent', 'partially_paid') AND due_date < ?", ownerID, today.Format("2006-01-02")).
		Count(&stats.OverdueInvoiceCount).Error
	if err != nil {
		return nil, err
	}
	return stats, nil
}

func (r *dashboardRepo) RevenueByMonth(ctx context.Context, ownerID uuid.UUID, year int) ([]MonthlyRevenueRow, error) {
	var rows []MonthlyRevenueRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT EXTRACT(MONTH FROM p.payment_date)::int AS month,
		       COALESCE(SUM(p.amount), 0) AS revenue
		FROM payments p
		JOIN invoices i ON i.id = p.invoice_id
		WHERE i.owner_id = ? AND EXTRACT(YEAR FROM p.payment_date) = ?
		GROUP BY 1
		ORDER BY 1`,
		ownerID, year,
	).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) TopClients(ctx context.Context, ownerID uuid.UUID, limit int) ([]TopClientRow, error) {
	var rows []TopClientRow
	err := r.db.WithContext(ctx).Raw(`
		SELECT c.id AS client_id,
		       c.name,
		       COALESCE(SUM(i.amount_paid), 0) AS revenue,
		       COUNT(i.id) AS invoices
		FROM clients c
		JOIN invoices i ON i.client_id = c.id AND i.status <> 'cancelled'
		WHERE c.owner_id = ?
		GROUP BY c.id, c.name
		ORDER BY revenue DESC
		LIMIT ?`,
		ownerID, limit,
	).Scan(&rows).Error
	return rows, err
}

func (r *dashboardRepo) RecentInvoices(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Invoice, error) {
	var invoices []model.Invoice
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&invoices).Error
	return invoices, err
}

func (r *dashboardRepo) RecentQuotes(ctx context.Context, ownerID uuid.UUID, limit int) ([]model.Quote, error) {
	var quotes []model.Quote
	err := r.db.WithContext(ctx).
		Preload("Client").
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Limit(limit).
		Find(&quotes).Error
	return quotes, err
}
