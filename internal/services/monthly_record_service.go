package services

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/statemachine"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
	"gorm.io/gorm"
)

// MonthlyRecordService generates, recalculates and lists monthly records
type MonthlyRecordService struct {
	repos    *repository.Repositories
	calendar *holidays.Calendar
	now      func() time.Time
}

func NewMonthlyRecordService(repos *repository.Repositories, calendar *holidays.Calendar, now func() time.Time) *MonthlyRecordService {
	return &MonthlyRecordService{repos: repos, calendar: calendar, now: now}
}

// RecordFilter narrows a period listing
type RecordFilter struct {
	Status     models.RecordStatus
	Search     string
	ContractID uint
}

// RecordView is a monthly record enriched with live amounts for display
type RecordView struct {
	ID               uint                        `json:"id"`
	ContractID       uint                        `json:"contract_id"`
	PeriodMonth      int                         `json:"period_month"`
	PeriodYear       int                         `json:"period_year"`
	MonthNumber      int                         `json:"month_number"`
	Property         string                      `json:"property"`
	Tenant           string                      `json:"tenant"`
	RentAmount       float64                     `json:"rent_amount"`
	ServicesTotal    float64                     `json:"services_total"`
	IVA              float64                     `json:"iva"`
	PreviousBalance  float64                     `json:"previous_balance"`
	PunitoryAmount   float64                     `json:"punitory_amount"`
	PunitoryDays     int                         `json:"punitory_days"`
	PunitoryForgiven bool                        `json:"punitory_forgiven"`
	LivePunitory     float64                     `json:"live_punitory"`
	LivePunitoryDays int                         `json:"live_punitory_days"`
	TotalDue         float64                     `json:"total_due"`
	AmountPaid       float64                     `json:"amount_paid"`
	Balance          float64                     `json:"balance"`
	LiveTotalDue     float64                     `json:"live_total_due"`
	LiveBalance      float64                     `json:"live_balance"`
	AFavorNextMonth  float64                     `json:"a_favor_next_month"`
	DebeNextMonth    float64                     `json:"debe_next_month"`
	Status           models.RecordStatus         `json:"status"`
	FullPaymentDate  *time.Time                  `json:"full_payment_date"`
	Debt             *DebtSummary                `json:"debt,omitempty"`
	Services         []models.MonthlyService     `json:"services"`
	Transactions     []models.PaymentTransaction `json:"transactions"`
}

// RecordSummary aggregates a listing. Money totals are rounded to pesos.
type RecordSummary struct {
	Count         int     `json:"count"`
	Pending       int     `json:"pending"`
	Partial       int     `json:"partial"`
	Complete      int     `json:"complete"`
	WithDebt      int     `json:"with_debt"`
	TotalDue      float64 `json:"total_due"`
	TotalPaid     float64 `json:"total_paid"`
	TotalPunitory float64 `json:"total_punitory"`
	TotalOwed     float64 `json:"total_owed"`
}

// RecordList is the result of a period listing
type RecordList struct {
	Month   int           `json:"month"`
	Year    int           `json:"year"`
	Records []RecordView  `json:"records"`
	Summary RecordSummary `json:"summary"`
}

// GenerateOrFetch ensures every active contract of the group has a record
// for the period and returns them enriched.
func (s *MonthlyRecordService) GenerateOrFetch(ctx context.Context, groupID uint, month, year int, filter RecordFilter) (*RecordList, error) {
	if err := validatePeriod(month, year); err != nil {
		return nil, err
	}

	contracts, err := s.repos.Contract.FindActiveByGroup(ctx, groupID)
	if err != nil {
		return nil, err
	}
	for i := range contracts {
		c := &contracts[i]
		n := c.MonthNumber(month, year)
		if !c.ActiveFor(n) {
			continue
		}
		if err := s.ensureRecord(ctx, c, n, month, year); err != nil {
			return nil, fmt.Errorf("contract %d: %w", c.ID, err)
		}
	}

	records, err := s.repos.Record.FindByPeriod(ctx, groupID, month, year)
	if err != nil {
		return nil, err
	}

	now := s.now()
	hs, err := s.calendar.ForPeriod(ctx, month, year, now)
	if err != nil {
		return nil, err
	}

	list := &RecordList{Month: month, Year: year, Records: make([]RecordView, 0, len(records))}
	for i := range records {
		view := s.enrich(&records[i], hs, now)
		if !filter.matches(&view) {
			continue
		}
		list.Records = append(list.Records, view)
		list.Summary.add(&view)
	}
	list.Summary.round()
	return list, nil
}

// ensureRecord creates the record for month n or refreshes its carried
// balance. A concurrent request creating the same row is not an error.
func (s *MonthlyRecordService) ensureRecord(ctx context.Context, c *models.Contract, n, month, year int) error {
	existing, err := s.repos.Record.FindByContractMonth(ctx, c.ID, n)
	if err != nil {
		return err
	}
	prevBalance, err := s.carriedBalance(ctx, s.repos, c.ID, n)
	if err != nil {
		return err
	}

	if existing == nil {
		record := &models.MonthlyRecord{
			GroupID:         c.GroupID,
			ContractID:      c.ID,
			PeriodMonth:     month,
			PeriodYear:      year,
			MonthNumber:     n,
			RentAmount:      c.RentFor(n),
			PreviousBalance: prevBalance,
			IncludeIVA:      c.IncludeIVA,
			Status:          models.RecordStatusPending,
		}
		applyTotals(record)
		err := s.repos.Record.Create(ctx, record)
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			logger.Debug("monthly record created concurrently", "contract_id", c.ID, "month_number", n)
			return nil
		}
		return err
	}

	if existing.Status == models.RecordStatusComplete || existing.PreviousBalance == prevBalance {
		return nil
	}
	return s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		_, err := s.recalculate(ctx, tx, existing.ID, func(r *models.MonthlyRecord) {
			r.PreviousBalance = prevBalance
		})
		return err
	})
}

// carriedBalance is the prior contract month's credit, never negative
func (s *MonthlyRecordService) carriedBalance(ctx context.Context, repos *repository.Repositories, contractID uint, n int) (float64, error) {
	prev, err := repos.Record.FindByContractMonth(ctx, contractID, n-1)
	if err != nil || prev == nil {
		return 0, err
	}
	return positive(prev.Balance), nil
}

// Recalculate recomputes a record in its own transaction
func (s *MonthlyRecordService) Recalculate(ctx context.Context, groupID, recordID uint) (*models.MonthlyRecord, error) {
	if _, err := s.repos.Record.FindByID(ctx, groupID, recordID); err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}
	var record *models.MonthlyRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		record, err = s.recalculate(ctx, tx, recordID, nil)
		return err
	})
	return record, err
}

// recalculate locks the record, rebuilds its totals from services and
// transactions and moves its status. mutate runs before the totals.
func (s *MonthlyRecordService) recalculate(ctx context.Context, tx *repository.Repositories, recordID uint, mutate func(*models.MonthlyRecord)) (*models.MonthlyRecord, error) {
	record, err := tx.Record.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}
	txns, err := tx.Payment.FindByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}
	if mutate != nil {
		mutate(record)
	}

	applyPayments(record, txns)
	applyTotals(record)
	if err := statemachine.NewRecordFSM(record, billing.DateOnly(s.now())).Transition(ctx, recordStatus(record)); err != nil {
		return nil, err
	}
	if err := tx.Record.Save(ctx, record); err != nil {
		return nil, err
	}
	record.Transactions = txns
	return record, nil
}

// Get returns one enriched record
func (s *MonthlyRecordService) Get(ctx context.Context, groupID, recordID uint) (*RecordView, error) {
	record, err := s.repos.Record.FindByID(ctx, groupID, recordID)
	if err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}
	now := s.now()
	hs, err := s.calendar.ForPeriod(ctx, record.PeriodMonth, record.PeriodYear, now)
	if err != nil {
		return nil, err
	}
	view := s.enrich(record, hs, now)
	return &view, nil
}

// enrich computes the live figures. Without a debt, live punitory adds what
// accrued on the unpaid rent since the last payment. With a debt, totals use
// the debt's punitory on top of what the record's own payments covered.
func (s *MonthlyRecordService) enrich(r *models.MonthlyRecord, hs billing.HolidaySet, now time.Time) RecordView {
	view := RecordView{
		ID:               r.ID,
		ContractID:       r.ContractID,
		PeriodMonth:      r.PeriodMonth,
		PeriodYear:       r.PeriodYear,
		MonthNumber:      r.MonthNumber,
		Property:         r.Contract.Property.Label(),
		Tenant:           r.Contract.TenantName(),
		RentAmount:       r.RentAmount,
		ServicesTotal:    r.ServicesTotal,
		IVA:              r.IVA(),
		PreviousBalance:  r.PreviousBalance,
		PunitoryAmount:   r.PunitoryAmount,
		PunitoryDays:     r.PunitoryDays,
		PunitoryForgiven: r.PunitoryForgiven,
		LivePunitory:     r.PunitoryAmount,
		LivePunitoryDays: r.PunitoryDays,
		TotalDue:         r.TotalDue,
		AmountPaid:       r.AmountPaid,
		Balance:          r.Balance,
		LiveTotalDue:     r.TotalDue,
		LiveBalance:      r.Balance,
		Status:           r.Status,
		FullPaymentDate:  r.FullPaymentDate,
		Services:         r.Services,
		Transactions:     r.Transactions,
	}

	switch {
	case r.Debt != nil:
		d := assessDebt(r.Debt, &r.Contract, hs, now)
		summary := summarizeDebt(r.Debt, d)
		view.Debt = &summary
		view.LivePunitory = d.Total
		view.LivePunitoryDays = d.Accrual.Days
		due := positive(billing.Round2(r.RentAmount + r.ServicesTotal + r.IVA() + debtPunitory(r, d.Total) - r.PreviousBalance))
		view.LiveTotalDue = due
		view.LiveBalance = billing.Round2(r.AmountPaid - due)
	case r.Status != models.RecordStatusComplete:
		a := assessRecord(r, &r.Contract, r.Transactions, hs, now, false)
		view.LivePunitory = a.Cumulative
		view.LivePunitoryDays = a.Accrual.Days
		view.LiveTotalDue = positive(billing.Round2(r.TotalDue + a.Accrual.Amount))
		view.LiveBalance = billing.Round2(r.AmountPaid - view.LiveTotalDue)
	}

	view.AFavorNextMonth = billing.RoundPeso(positive(view.LiveBalance))
	view.DebeNextMonth = billing.RoundPeso(positive(-view.LiveBalance))
	return view
}

func (f RecordFilter) matches(v *RecordView) bool {
	if f.Status != "" && v.Status != f.Status {
		return false
	}
	if f.ContractID > 0 && v.ContractID != f.ContractID {
		return false
	}
	if q := strings.TrimSpace(strings.ToLower(f.Search)); q != "" {
		if !strings.Contains(strings.ToLower(v.Tenant), q) && !strings.Contains(strings.ToLower(v.Property), q) {
			return false
		}
	}
	return true
}

func (s *RecordSummary) add(v *RecordView) {
	s.Count++
	switch v.Status {
	case models.RecordStatusPending:
		s.Pending++
	case models.RecordStatusPartial:
		s.Partial++
	case models.RecordStatusComplete:
		s.Complete++
	}
	if v.Debt != nil {
		s.WithDebt++
	}
	s.TotalDue += v.LiveTotalDue
	s.TotalPaid += v.AmountPaid
	s.TotalPunitory += v.LivePunitory
	s.TotalOwed += v.DebeNextMonth
}

func (s *RecordSummary) round() {
	s.TotalDue = billing.RoundPeso(s.TotalDue)
	s.TotalPaid = billing.RoundPeso(s.TotalPaid)
	s.TotalPunitory = billing.RoundPeso(s.TotalPunitory)
	s.TotalOwed = billing.RoundPeso(s.TotalOwed)
}

func validatePeriod(month, year int) error {
	if month < 1 || month > 12 {
		return validation("month", "debe estar entre 1 y 12")
	}
	if year < 2000 || year > 2100 {
		return validation("year", "fuera de rango")
	}
	return nil
}
