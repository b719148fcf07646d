package report

import (
	"context"
)

type ReportService interface {
	Funnel(ctx context.Context) (*SalesFunnel, error)
}

type ReportServiceImpl struct {
	ReportRepo ReportRepository
}

func NewReportService(reportRepo ReportRepository) ReportService {
	return &ReportServiceImpl{
		ReportRepo: reportRepo,
	}
}

func (s *ReportServiceImpl) Funnel(ctx context.Context) (*SalesFunnel, error) {
	projects, err := s.ReportRepo.CountByStatus(ctx, "projects")
	if err != nil {
		return nil, err
	}
	units, err := s.ReportRepo.CountByStatus(ctx, "units")
	if err != nil {
		return nil, err
	}
	quotations, err := s.ReportRepo.CountByStatus(ctx, "quotations")
	if err != nil {
		return nil, err
	}
	totals, err := s.ReportRepo.QuotationTotalsByStatus(ctx)
	if err != nil {
		return nil, err
	}

	return &SalesFunnel{
		ProjectsByStatus:   projects,
		UnitsByStatus:      units,
		QuotationsByStatus: quotations,
		QuotationTotals:    totals,
	}, nil
}
