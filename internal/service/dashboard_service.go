package service

import (
	"context"
	"sort"
	"time"

	"github.com/naimlawani01/facturerapide-api/internal/dto"
	"github.com/naimlawani01/facturerapide-api/internal/repository"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type DashboardService interface {
	Overview(ctx context.Context, ownerID uuid.UUID) (*dto.OverviewResponse, error)
	RevenueByMonth(ctx context.Context, ownerID uuid.UUID, year int) (*dto.RevenueByMonthResponse, error)
	TopClients(ctx context.Context, ownerID uuid.UUID, limit int) (*dto.TopClientsResponse, error)
	RecentDocuments(ctx context.Context, ownerID uuid.UUID, limit int) (*dto.RecentDocumentsResponse, error)
}

type dashboardService struct {
	repo repository.DashboardRepository
}

func NewDashboardService(repo repository.DashboardRepository) DashboardService {
	return &dashboardService{repo: repo}
}

func (s *dashboardService) Overview(ctx context.Context, ownerID uuid.UUID) (*dto.OverviewResponse, error) {
	stats, err := s.repo.Overview(ctx, ownerID, time.Now())
	if err != nil {
		return nil, err
	}
	return &dto.OverviewResponse{
		TotalRevenue:        stats.TotalRevenue,
		PendingAmount:       stats.PendingAmount,
		InvoiceCount:        stats.InvoiceCount,
		QuoteCount:          stats.QuoteCount,
		ClientCount:         stats.ClientCount,
		ProductCount:        stats.ProductCount,
		OverdueInvoiceCount: stats.OverdueInvoiceCount,
	}, nil
}

// RevenueByMonth always returns twelve entries; months without payments show
// a zero revenue.
func (s *dashboardService) RevenueByMonth(ctx context.Context, ownerID uuid.UUID, year int) (*dto.RevenueByMonthResponse, error) {
	if year == 0 {
		year = time.Now().Year()
	}
	rows, err := s.repo.RevenueByMonth(ctx, ownerID, year)
	if err != nil {
		return nil, err
	}
	byMonth := make(map[int]decimal.Decimal, len(rows))
	for _, r := range rows {
		byMonth[r.Month] = r.Revenue
	}
	months := make([]dto.MonthlyRevenue, 0, 12)
	for m := 1; m <= 12; m++ {
		revenue, ok := byMonth[m]
		if !ok {
			revenue = decimal.Zero
		}
		months = append(months, dto.MonthlyRevenue{Month: m, Revenue: revenue})
	}
	return &dto.RevenueByMonthResponse{Year: year, Months: months}, nil
}

func (s *dashboardService) TopClients(ctx context.Context, ownerID uuid.UUID, limit int) (*dto.TopClientsResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 5
	}
	rows, err := s.repo.TopClients(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	clients := make([]dto.TopClient, 0, len(rows))
	for _, r := range rows {
		clients = append(clients, dto.TopClient{
			ClientID:   r.ClientID.String(),
			ClientName: r.Name,
			Revenue:    r.Revenue,
			Invoices:   r.Invoices,
		})
	}
	return &dto.TopClientsResponse{Clients: clients}, nil
}

// RecentDocuments merges the latest invoices and quotes into one activity
// feed ordered by creation time.
func (s *dashboardService) RecentDocuments(ctx context.Context, ownerID uuid.UUID, limit int) (*dto.RecentDocumentsResponse, error) {
	if limit < 1 || limit > 50 {
		limit = 10
	}
	invoices, err := s.repo.RecentInvoices(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}
	quotes, err := s.repo.RecentQuotes(ctx, ownerID, limit)
	if err != nil {
		return nil, err
	}

	type docWithTime struct {
		doc       dto.RecentDocument
		createdAt time.Time
	}
	merged := make([]docWithTime, 0, len(invoices)+len(quotes))
	for i := range invoices {
		inv := &invoices[i]
		clientName := ""
		if inv.Client != nil {
			clientName = inv.Client.Name
		}
		merged = append(merged, docWithTime{
			doc: dto.RecentDocument{
				ID:        inv.ID.String(),
				Kind:      "invoice",
				Number:    inv.InvoiceNumber,
				Client:    clientName,
				Status:    inv.Status,
				Total:     inv.Total,
				IssueDate: inv.IssueDate.Format("2006-01-02"),
			},
			createdAt: inv.CreatedAt,
		})
	}
	for i := range quotes {
		q := &quotes[i]
		clientName := ""
		if q.Client != nil {
			clientName = q.Client.Name
		}
		merged = append(merged, docWithTime{
			doc: dto.RecentDocument{
				ID:        q.ID.String(),
				Kind:      "quote",
				Number:    q.QuoteNumber,
				Client:    clientName,
				Status:    q.Status,
				Total:     q.Total,
				IssueDate: q.IssueDate.Format("2006-01-02"),
			},
			createdAt: q.CreatedAt,
		})
	}

	sort.Slice(merged, func(i, j int) bool { return merged[i].createdAt.After(merged[j].createdAt) })
	if len(merged) > limit {
		merged = merged[:limit]
	}
	documents := make([]dto.RecentDocument, 0, len(merged))
	for _, m := range merged {
		documents = append(documents, m.doc)
	}
	return &dto.RecentDocumentsResponse{Documents: documents}, nil
}
