package services

import (
	"context"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/statemachine"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

// DebtService turns unpaid records into debts and books payments on them
type DebtService struct {
	repos    *repository.Repositories
	calendar *holidays.Calendar
	records  *MonthlyRecordService
	audit    *AuditService
	now      func() time.Time
}

func NewDebtService(repos *repository.Repositories, calendar *holidays.Calendar, records *MonthlyRecordService, audit *AuditService, now func() time.Time) *DebtService {
	return &DebtService{repos: repos, calendar: calendar, records: records, audit: audit, now: now}
}

// DebtSummary is a debt with its live totals
type DebtSummary struct {
	DebtID           uint              `json:"debt_id"`
	ContractID       uint              `json:"contract_id"`
	MonthlyRecordID  uint              `json:"monthly_record_id"`
	PeriodMonth      int               `json:"period_month"`
	PeriodYear       int               `json:"period_year"`
	Status           models.DebtStatus `json:"status"`
	UnpaidRentAmount float64           `json:"unpaid_rent_amount"`
	RemainingRent    float64           `json:"remaining_rent"`
	AmountPaid       float64           `json:"amount_paid"`
	Punitory         float64           `json:"punitory"`
	PunitoryDays     int               `json:"punitory_days"`
	UnpaidPunitory   float64           `json:"unpaid_punitory"`
	CurrentTotal     float64           `json:"current_total"`
}

func summarizeDebt(d *models.Debt, a debtAssessment) DebtSummary {
	return DebtSummary{
		DebtID:           d.ID,
		ContractID:       d.ContractID,
		MonthlyRecordID:  d.MonthlyRecordID,
		PeriodMonth:      d.PeriodMonth,
		PeriodYear:       d.PeriodYear,
		Status:           d.Status,
		UnpaidRentAmount: d.UnpaidRentAmount,
		RemainingRent:    a.RemainingRent,
		AmountPaid:       d.AmountPaid,
		Punitory:         a.Total,
		PunitoryDays:     a.Accrual.Days,
		UnpaidPunitory:   a.Unpaid,
		CurrentTotal:     a.CurrentTotal,
	}
}

// DebtView is a debt with its payments and live totals
type DebtView struct {
	DebtSummary
	Property          string               `json:"property"`
	Tenant            string               `json:"tenant"`
	OriginalAmount    float64              `json:"original_amount"`
	PunitoryStartDate time.Time            `json:"punitory_start_date"`
	LastPaymentDate   *time.Time           `json:"last_payment_date"`
	ClosedAt          *time.Time           `json:"closed_at"`
	Payments          []models.DebtPayment `json:"payments"`
}

func viewDebt(d *models.Debt, c *models.Contract, a debtAssessment) DebtView {
	return DebtView{
		DebtSummary:       summarizeDebt(d, a),
		Property:          c.Property.Label(),
		Tenant:            c.TenantName(),
		OriginalAmount:    d.OriginalAmount,
		PunitoryStartDate: d.PunitoryStartDate,
		LastPaymentDate:   d.LastPaymentDate,
		ClosedAt:          d.ClosedAt,
		Payments:          d.Payments,
	}
}

// DebtFilter narrows a debt listing
type DebtFilter struct {
	Status     models.DebtStatus
	ContractID uint
}

// List returns the group's debts with live punitory. Contracts and holidays
// are loaded once for the whole batch.
func (s *DebtService) List(ctx context.Context, groupID uint, filter DebtFilter) ([]DebtView, error) {
	query := &repository.DebtQuery{GroupID: groupID, ContractID: filter.ContractID}
	if filter.Status != "" {
		if !filter.Status.Valid() {
			return nil, validation("status", "estado de deuda desconocido")
		}
		query.Statuses = []models.DebtStatus{filter.Status}
	}
	debts, err := s.repos.Debt.List(ctx, query)
	if err != nil {
		return nil, err
	}

	contracts, hs, err := s.batchContext(ctx, debts)
	if err != nil {
		return nil, err
	}

	now := s.now()
	views := make([]DebtView, 0, len(debts))
	for i := range debts {
		d := &debts[i]
		c, ok := contracts[d.ContractID]
		if !ok {
			logger.Warn("debt without contract", "debt_id", d.ID, "contract_id", d.ContractID)
			continue
		}
		views = append(views, viewDebt(d, c, assessDebt(d, c, hs, now)))
	}
	return views, nil
}

// Get returns one debt with live totals
func (s *DebtService) Get(ctx context.Context, groupID, debtID uint) (*DebtView, error) {
	d, err := s.repos.Debt.FindByID(ctx, groupID, debtID)
	if err != nil {
		return nil, notFound(err, "deuda", debtID)
	}
	contract, err := s.repos.Contract.FindByID(ctx, groupID, d.ContractID)
	if err != nil {
		return nil, notFound(err, "contrato", d.ContractID)
	}
	now := s.now()
	hs, err := s.calendar.ForYears(ctx, holidays.YearsBetween(d.PeriodYear, now.Year())...)
	if err != nil {
		return nil, err
	}
	view := viewDebt(d, contract, assessDebt(d, contract, hs, now))
	return &view, nil
}

func (s *DebtService) batchContext(ctx context.Context, debts []models.Debt) (map[uint]*models.Contract, billing.HolidaySet, error) {
	now := s.now()
	ids := make([]uint, 0, len(debts))
	seen := make(map[uint]bool, len(debts))
	minYear := now.Year()
	for _, d := range debts {
		if !seen[d.ContractID] {
			seen[d.ContractID] = true
			ids = append(ids, d.ContractID)
		}
		if d.PeriodYear < minYear {
			minYear = d.PeriodYear
		}
	}

	list, err := s.repos.Contract.FindByIDs(ctx, ids)
	if err != nil {
		return nil, nil, err
	}
	byID := make(map[uint]*models.Contract, len(list))
	for i := range list {
		byID[list[i].ID] = &list[i]
	}

	hs, err := s.calendar.ForYears(ctx, holidays.YearsBetween(minYear, now.Year())...)
	if err != nil {
		return nil, nil, err
	}
	return byID, hs, nil
}

// PaymentEligibility tells whether a contract may book new-period payments
type PaymentEligibility struct {
	CanPay    bool          `json:"can_pay"`
	Debts     []DebtSummary `json:"debts"`
	TotalOwed float64       `json:"total_owed"`
	Message   string        `json:"message,omitempty"`
}

// CanPayCurrentMonth is true only when the contract has no open or partial debt
func (s *DebtService) CanPayCurrentMonth(ctx context.Context, groupID, contractID uint) (*PaymentEligibility, error) {
	contract, err := s.repos.Contract.FindByID(ctx, groupID, contractID)
	if err != nil {
		return nil, notFound(err, "contrato", contractID)
	}
	debts, err := s.repos.Debt.FindOutstandingByContract(ctx, groupID, contractID)
	if err != nil {
		return nil, err
	}
	if len(debts) == 0 {
		return &PaymentEligibility{CanPay: true, Debts: []DebtSummary{}}, nil
	}

	now := s.now()
	hs, err := s.calendar.ForYears(ctx, holidays.YearsBetween(debts[0].PeriodYear, now.Year())...)
	if err != nil {
		return nil, err
	}

	result := &PaymentEligibility{Debts: make([]DebtSummary, 0, len(debts))}
	for i := range debts {
		summary := summarizeDebt(&debts[i], assessDebt(&debts[i], contract, hs, now))
		result.Debts = append(result.Debts, summary)
		result.TotalOwed += summary.CurrentTotal
	}
	result.TotalOwed = billing.RoundPeso(result.TotalOwed)
	result.Message = fmt.Sprintf(
		"El contrato tiene %d deuda(s) pendiente(s) por $%.0f. Debe saldarlas antes de registrar pagos del mes.",
		len(debts), result.TotalOwed)
	return result, nil
}

// CreateFromRecord turns what remains unpaid on a record into a debt. An
// existing debt is returned untouched with created=false; a record with
// nothing owed yields no debt.
func (s *DebtService) CreateFromRecord(ctx context.Context, recordID uint, hs billing.HolidaySet) (debt *models.Debt, created bool, err error) {
	now := s.now()
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		record, err := tx.Record.FindByIDForUpdate(ctx, recordID)
		if err != nil {
			return notFound(err, "registro mensual", recordID)
		}
		if record.Debt != nil {
			debt = record.Debt
			return nil
		}
		txns, err := tx.Payment.FindByRecord(ctx, recordID)
		if err != nil {
			return err
		}

		a := assessRecord(record, &record.Contract, txns, hs, now, true)
		if a.Outstanding.Rent <= 0 && a.UnpaidPunitory <= 0 {
			return nil
		}

		debt = &models.Debt{
			GroupID:               record.GroupID,
			ContractID:            record.ContractID,
			MonthlyRecordID:       record.ID,
			PeriodMonth:           record.PeriodMonth,
			PeriodYear:            record.PeriodYear,
			OriginalAmount:        billing.Round2(a.Outstanding.Rent + a.UnpaidPunitory),
			UnpaidRentAmount:      a.Outstanding.Rent,
			PreviousRecordPayment: a.Paid,
			CarriedPunitory:       a.UnpaidFrozen,
			AccumulatedPunitory:   a.UnpaidPunitory,
			PunitoryStartDate:     a.ClockStart,
			Status:                models.DebtStatusOpen,
			OpenedOn:              billing.DateOnly(now),
		}
		for _, t := range txns {
			debt.LastRecordTxnID = max(debt.LastRecordTxnID, t.ID)
		}
		if err := tx.Debt.Create(ctx, debt); err != nil {
			return err
		}
		created = true
		_, err = s.records.recalculate(ctx, tx, recordID, nil)
		return err
	})
	if err != nil {
		return nil, false, err
	}
	if created {
		logger.Info("debt created", "debt_id", debt.ID, "record_id", recordID, "unpaid_rent", debt.UnpaidRentAmount, "punitory", debt.AccumulatedPunitory)
		s.audit.Record(ctx, debt.GroupID, models.AuditActionDebtCreated, "Debt", debt.ID, map[string]any{
			"monthly_record_id": recordID,
			"original_amount":   debt.OriginalAmount,
		})
	}
	return debt, created, nil
}

// DebtPaymentInput is a payment offered against a debt
type DebtPaymentInput struct {
	Amount       float64              `json:"amount"`
	PaymentDate  time.Time            `json:"payment_date"`
	Method       models.PaymentMethod `json:"method"`
	Observations string               `json:"observations"`
}

func (in *DebtPaymentInput) validate() error {
	if in.Amount <= 0 {
		return validation("amount", "debe ser mayor a cero")
	}
	if in.PaymentDate.IsZero() {
		return validation("payment_date", "es obligatoria")
	}
	if in.Method == "" {
		in.Method = models.PaymentMethodCash
	}
	if !in.Method.Valid() {
		return validation("method", "medio de pago desconocido")
	}
	return nil
}

// DebtPaymentResult is what PayDebt booked
type DebtPaymentResult struct {
	Debt        *DebtView                  `json:"debt"`
	Payment     *models.DebtPayment        `json:"payment"`
	Transaction *models.PaymentTransaction `json:"transaction"`
}

// PayDebt books a payment on a debt. Punitory is recomputed at the payment
// date, the amount goes to rent first and a mirrored transaction is written
// on the record so its history stays complete.
func (s *DebtService) PayDebt(ctx context.Context, groupID, debtID uint, in DebtPaymentInput) (*DebtPaymentResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	payDate := billing.DateOnly(in.PaymentDate)

	existing, err := s.repos.Debt.FindByID(ctx, groupID, debtID)
	if err != nil {
		return nil, notFound(err, "deuda", debtID)
	}
	contract, err := s.repos.Contract.FindByID(ctx, groupID, existing.ContractID)
	if err != nil {
		return nil, notFound(err, "contrato", existing.ContractID)
	}
	hs, err := s.calendar.ForYears(ctx, holidays.YearsBetween(existing.PeriodYear, max(payDate.Year(), s.now().Year()))...)
	if err != nil {
		return nil, err
	}

	result := &DebtPaymentResult{}
	var debt *models.Debt
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		d, err := tx.Debt.FindByIDForUpdate(ctx, debtID)
		if err != nil {
			return notFound(err, "deuda", debtID)
		}
		if d.Status == models.DebtStatusPaid {
			return conflict("la deuda %d ya está saldada", d.ID)
		}
		if d.LastPaymentDate != nil && payDate.Before(billing.DateOnly(*d.LastPaymentDate)) {
			return validation("payment_date", "no puede ser anterior al último pago de la deuda")
		}

		a := assessDebt(d, contract, hs, payDate)
		if in.Amount > a.CurrentTotal+billing.PaidTolerance {
			return validation("amount", fmt.Sprintf("excede el total adeudado ($%.2f)", a.CurrentTotal))
		}

		split := billing.SplitDebtPayment(in.Amount, a.RemainingRent)
		receipt := newReceiptNumber("D", payDate)
		payment := &models.DebtPayment{
			DebtID:            d.ID,
			PaymentDate:       payDate,
			Amount:            in.Amount,
			RentPortion:       split.Rent,
			PunitoryPortion:   split.Punitory,
			PunitoryAtPayment: a.Total,
			Method:            in.Method,
			Observations:      optional(in.Observations),
			ReceiptNumber:     receipt,
		}
		if err := tx.Debt.CreatePayment(ctx, payment); err != nil {
			return err
		}

		mirror := &models.PaymentTransaction{
			GroupID:         d.GroupID,
			MonthlyRecordID: d.MonthlyRecordID,
			ContractID:      d.ContractID,
			DebtPaymentID:   &payment.ID,
			PaymentDate:     payDate,
			Amount:          in.Amount,
			Method:          in.Method,
			PunitoryAmount:  a.Total,
			PunitoryDays:    a.Accrual.Days,
			ReceiptNumber:   receipt,
			Observations:    optional(in.Observations),
			Concepts:        toConcepts(split.Concepts()),
		}
		if err := tx.Payment.Create(ctx, mirror); err != nil {
			return err
		}

		d.AmountPaid = billing.Round2(d.AmountPaid + in.Amount)
		d.AccumulatedPunitory = a.Total
		d.LastPaymentDate = &payDate
		d.Payments = append(d.Payments, *payment)

		target := models.DebtStatusPartial
		if settled(positive(billing.Round2(d.UnpaidRentAmount + d.AccumulatedPunitory - d.AmountPaid))) {
			target = models.DebtStatusPaid
		}
		if err := statemachine.NewDebtFSM(d, s.now()).Transition(ctx, target); err != nil {
			return err
		}
		if err := tx.Debt.Save(ctx, d); err != nil {
			return err
		}
		if _, err := s.records.recalculate(ctx, tx, d.MonthlyRecordID, nil); err != nil {
			return err
		}

		debt = d
		result.Payment = payment
		result.Transaction = mirror
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("debt payment booked", "debt_id", debt.ID, "amount", in.Amount, "status", debt.Status)
	s.audit.Record(ctx, groupID, models.AuditActionDebtPayment, "Debt", debt.ID, map[string]any{
		"payment_id": result.Payment.ID,
		"amount":     in.Amount,
		"status":     debt.Status,
	})

	view := viewDebt(debt, contract, assessDebt(debt, contract, hs, s.now()))
	result.Debt = &view
	return result, nil
}

// CancelPayment reverses the most recent payment of a debt. Any other
// payment is rejected with a ConflictError and nothing changes.
func (s *DebtService) CancelPayment(ctx context.Context, groupID, debtID, paymentID uint) (*DebtView, error) {
	existing, err := s.repos.Debt.FindByID(ctx, groupID, debtID)
	if err != nil {
		return nil, notFound(err, "deuda", debtID)
	}
	contract, err := s.repos.Contract.FindByID(ctx, groupID, existing.ContractID)
	if err != nil {
		return nil, notFound(err, "contrato", existing.ContractID)
	}
	now := s.now()
	hs, err := s.calendar.ForYears(ctx, holidays.YearsBetween(existing.PeriodYear, now.Year())...)
	if err != nil {
		return nil, err
	}

	var debt *models.Debt
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		var err error
		debt, err = s.cancelPayment(ctx, tx, debtID, paymentID, contract, hs)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("debt payment cancelled", "debt_id", debt.ID, "payment_id", paymentID, "status", debt.Status)
	s.audit.Record(ctx, groupID, models.AuditActionDebtCancellation, "Debt", debt.ID, map[string]any{
		"payment_id": paymentID,
		"status":     debt.Status,
	})
	view := viewDebt(debt, contract, assessDebt(debt, contract, hs, now))
	return &view, nil
}

func (s *DebtService) cancelPayment(ctx context.Context, tx *repository.Repositories, debtID, paymentID uint, contract *models.Contract, hs billing.HolidaySet) (*models.Debt, error) {
	d, err := tx.Debt.FindByIDForUpdate(ctx, debtID)
	if err != nil {
		return nil, notFound(err, "deuda", debtID)
	}

	idx := -1
	for i := range d.Payments {
		if d.Payments[i].ID == paymentID {
			idx = i
		}
	}
	if idx < 0 {
		return nil, &NotFoundError{Entity: "pago de deuda", ID: paymentID}
	}
	last := d.Payments[len(d.Payments)-1]
	if idx != len(d.Payments)-1 {
		return nil, conflict("solo puede anularse el último pago de la deuda (pago %d)", last.ID)
	}

	mirror, err := s.findMirror(ctx, tx, d, &last)
	if err != nil {
		return nil, err
	}
	if mirror != nil {
		if err := tx.Payment.Delete(ctx, mirror.ID); err != nil {
			return nil, err
		}
	}
	if err := tx.Debt.DeletePayment(ctx, last.ID); err != nil {
		return nil, err
	}

	d.Payments = d.Payments[:idx]
	d.AmountPaid = 0
	for _, p := range d.Payments {
		d.AmountPaid = billing.Round2(d.AmountPaid + p.Amount)
	}
	d.AccumulatedPunitory = 0
	d.LastPaymentDate = nil
	if n := len(d.Payments); n > 0 {
		prev := d.Payments[n-1]
		d.AccumulatedPunitory = prev.PunitoryAtPayment
		date := prev.PaymentDate
		d.LastPaymentDate = &date
	}

	now := s.now()
	if err := statemachine.NewDebtFSM(d, now).Transition(ctx, debtStatus(d, contract, hs, now)); err != nil {
		return nil, err
	}
	if err := tx.Debt.Save(ctx, d); err != nil {
		return nil, err
	}
	if _, err := s.records.recalculate(ctx, tx, d.MonthlyRecordID, nil); err != nil {
		return nil, err
	}
	return d, nil
}

// findMirror returns the record transaction booked for a debt payment. Rows
// written before the link existed are matched by date and amount.
func (s *DebtService) findMirror(ctx context.Context, tx *repository.Repositories, d *models.Debt, p *models.DebtPayment) (*models.PaymentTransaction, error) {
	mirror, err := tx.Payment.FindByDebtPayment(ctx, p.ID)
	if err != nil || mirror != nil {
		return mirror, err
	}
	txns, err := tx.Payment.FindByRecord(ctx, d.MonthlyRecordID)
	if err != nil {
		return nil, err
	}
	for i := len(txns) - 1; i >= 0; i-- {
		t := &txns[i]
		if t.FromDebt() || t.ID <= d.LastRecordTxnID {
			continue
		}
		if billing.DateOnly(t.PaymentDate).Equal(billing.DateOnly(p.PaymentDate)) && math.Abs(t.Amount-p.Amount) <= 0.01 {
			return t, nil
		}
	}
	return nil, nil
}

// refreshFromRecord re-derives a debt's principal after a payment booked on
// its record before the close was reversed.
func (s *DebtService) refreshFromRecord(ctx context.Context, tx *repository.Repositories, recordID uint, contract *models.Contract, hs billing.HolidaySet) (*models.Debt, error) {
	existing, err := tx.Debt.FindByRecord(ctx, recordID)
	if err != nil || existing == nil {
		return nil, err
	}
	d, err := tx.Debt.FindByIDForUpdate(ctx, existing.ID)
	if err != nil {
		return nil, err
	}
	record, err := tx.Record.FindByIDForUpdate(ctx, recordID)
	if err != nil {
		return nil, err
	}
	txns, err := tx.Payment.FindByRecord(ctx, recordID)
	if err != nil {
		return nil, err
	}

	a := assessRecord(record, contract, txns, hs, d.OpenedOn, true)
	d.UnpaidRentAmount = a.Outstanding.Rent
	d.PreviousRecordPayment = a.Paid
	d.OriginalAmount = billing.Round2(a.Outstanding.Rent + a.UnpaidPunitory)
	if len(d.Payments) == 0 {
		d.PunitoryStartDate = a.ClockStart
		d.CarriedPunitory = a.UnpaidFrozen
		d.AccumulatedPunitory = a.UnpaidPunitory
	}

	now := s.now()
	if err := statemachine.NewDebtFSM(d, now).Transition(ctx, debtStatus(d, contract, hs, now)); err != nil {
		return nil, err
	}
	if err := tx.Debt.Save(ctx, d); err != nil {
		return nil, err
	}
	return d, nil
}

// debtStatus derives the status from payments. Once rent is covered the debt
// is PAID when the unpaid punitory is within tolerance.
func debtStatus(d *models.Debt, contract *models.Contract, hs billing.HolidaySet, asOf time.Time) models.DebtStatus {
	if d.RemainingRent() <= 0 && settled(assessDebt(d, contract, hs, asOf).Unpaid) {
		return models.DebtStatusPaid
	}
	if d.AmountPaid > 0 {
		return models.DebtStatusPartial
	}
	return models.DebtStatusOpen
}

func toConcepts(concepts []billing.Concept) []models.TransactionConcept {
	out := make([]models.TransactionConcept, 0, len(concepts))
	for i, c := range concepts {
		out = append(out, models.TransactionConcept{
			Position:         i + 1,
			Kind:             c.Kind,
			Label:            c.Label,
			Amount:           c.Amount,
			MonthlyServiceID: c.ServiceID,
			Informational:    c.Informational,
		})
	}
	return out
}

func optional(s string) *string {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil
	}
	return &s
}
