package services

import (
	"context"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

// MonthlyCloseService turns a period's unpaid records into debts
type MonthlyCloseService struct {
	repos    *repository.Repositories
	calendar *holidays.Calendar
	debts    *DebtService
	audit    *AuditService
	now      func() time.Time
}

func NewMonthlyCloseService(repos *repository.Repositories, calendar *holidays.Calendar, debts *DebtService, audit *AuditService, now func() time.Time) *MonthlyCloseService {
	return &MonthlyCloseService{repos: repos, calendar: calendar, debts: debts, audit: audit, now: now}
}

// ClosePreviewItem is the debt a record would become
type ClosePreviewItem struct {
	RecordID          uint                `json:"record_id"`
	ContractID        uint                `json:"contract_id"`
	Property          string              `json:"property"`
	Tenant            string              `json:"tenant"`
	Status            models.RecordStatus `json:"status"`
	AmountPaid        float64             `json:"amount_paid"`
	UnpaidRent        float64             `json:"unpaid_rent"`
	UnpaidPunitory    float64             `json:"unpaid_punitory"`
	PunitoryDays      int                 `json:"punitory_days"`
	PunitoryStartDate time.Time           `json:"punitory_start_date"`
	Total             float64             `json:"total"`
}

// ClosePreview lists what closing the period would create
type ClosePreview struct {
	Month         int                `json:"month"`
	Year          int                `json:"year"`
	Items         []ClosePreviewItem `json:"items"`
	Count         int                `json:"count"`
	Skipped       int                `json:"skipped"`
	TotalRent     float64            `json:"total_rent"`
	TotalPunitory float64            `json:"total_punitory"`
	Total         float64            `json:"total"`
}

// CloseError is one record the close could not turn into a debt
type CloseError struct {
	RecordID   uint   `json:"record_id"`
	ContractID uint   `json:"contract_id"`
	Error      string `json:"error"`
}

// CloseResult reports a close run
type CloseResult struct {
	Month   int           `json:"month"`
	Year    int           `json:"year"`
	Created int           `json:"created"`
	Skipped int           `json:"skipped"`
	Failed  int           `json:"failed"`
	Debts   []DebtSummary `json:"debts"`
	Errors  []CloseError  `json:"errors"`
}

// Preview runs the debt math on every pending or partial record of the
// period without writing anything
func (s *MonthlyCloseService) Preview(ctx context.Context, groupID uint, month, year int) (*ClosePreview, error) {
	records, hs, err := s.candidates(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	now := s.now()
	preview := &ClosePreview{Month: month, Year: year, Items: make([]ClosePreviewItem, 0, len(records))}
	for i := range records {
		r := &records[i]
		a := assessRecord(r, &r.Contract, r.Transactions, hs, now, true)
		if a.Outstanding.Rent <= 0 && a.UnpaidPunitory <= 0 {
			preview.Skipped++
			continue
		}
		item := ClosePreviewItem{
			RecordID:          r.ID,
			ContractID:        r.ContractID,
			Property:          r.Contract.Property.Label(),
			Tenant:            r.Contract.TenantName(),
			Status:            r.Status,
			AmountPaid:        a.Paid,
			UnpaidRent:        a.Outstanding.Rent,
			UnpaidPunitory:    a.UnpaidPunitory,
			PunitoryDays:      a.Accrual.Days,
			PunitoryStartDate: a.ClockStart,
			Total:             billing.Round2(a.Outstanding.Rent + a.UnpaidPunitory),
		}
		preview.Items = append(preview.Items, item)
		preview.TotalRent += item.UnpaidRent
		preview.TotalPunitory += item.UnpaidPunitory
		preview.Total += item.Total
	}
	preview.Count = len(preview.Items)
	preview.TotalRent = billing.RoundPeso(preview.TotalRent)
	preview.TotalPunitory = billing.RoundPeso(preview.TotalPunitory)
	preview.Total = billing.RoundPeso(preview.Total)
	return preview, nil
}

// Close creates a debt for each pending or partial record of the period. Each
// record runs in its own transaction; a failure is reported and the rest go on.
func (s *MonthlyCloseService) Close(ctx context.Context, groupID uint, month, year int) (*CloseResult, error) {
	records, hs, err := s.candidates(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &CloseResult{Month: month, Year: year, Debts: []DebtSummary{}, Errors: []CloseError{}}
	for i := range records {
		r := &records[i]
		debt, created, err := s.debts.CreateFromRecord(ctx, r.ID, hs)
		if err != nil {
			logger.Warn("month close: debt creation failed", "record_id", r.ID, "contract_id", r.ContractID, "error", err)
			result.Failed++
			result.Errors = append(result.Errors, CloseError{RecordID: r.ID, ContractID: r.ContractID, Error: err.Error()})
			continue
		}
		if !created {
			result.Skipped++
			continue
		}
		result.Created++
		result.Debts = append(result.Debts, summarizeDebt(debt, assessDebt(debt, &r.Contract, hs, now)))
	}

	logger.Info("month closed", "group_id", groupID, "month", month, "year", year,
		"created", result.Created, "skipped", result.Skipped, "failed", result.Failed)
	s.audit.Record(ctx, groupID, models.AuditActionMonthClosed, "Period", uint(year*100+month), map[string]any{
		"month":   month,
		"year":    year,
		"created": result.Created,
		"failed":  result.Failed,
	})
	return result, nil
}

func (s *MonthlyCloseService) candidates(ctx context.Context, groupID uint, month, year int) ([]models.MonthlyRecord, billing.HolidaySet, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, nil, err
	}
	records, err := s.repos.Record.FindUnpaidWithoutDebt(ctx, groupID, month, year)
	if err != nil {
		return nil, nil, err
	}
	hs, err := s.calendar.ForPeriod(ctx, month, year, s.now())
	if err != nil {
		return nil, nil, err
	}
	return records, hs, nil
}
