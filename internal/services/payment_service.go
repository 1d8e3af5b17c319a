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
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
	"github.com/google/uuid"
)

type PaymentService struct {
	repos    *repository.Repositories
	calendar *holidays.Calendar
	records  *MonthlyRecordService
	debts    *DebtService
	audit    *AuditService
	now      func() time.Time
}

func NewPaymentService(
	repos *repository.Repositories,
	calendar *holidays.Calendar,
	records *MonthlyRecordService,
	debts *DebtService,
	audit *AuditService,
	now func() time.Time,
) *PaymentService {
	return &PaymentService{
		repos:    repos,
		calendar: calendar,
		records:  records,
		debts:    debts,
		audit:    audit,
		now:      now,
	}
}

// PaymentInput is a payment offered against a monthly record
type PaymentInput struct {
	PaymentDate     time.Time            `json:"payment_date"`
	Amount          float64              `json:"amount"`
	Method          models.PaymentMethod `json:"method"`
	ForgivePunitory bool                 `json:"forgive_punitory"`
	Observations    string               `json:"observations"`
}

func (in *PaymentInput) validate() error {
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

// PaymentResult is the booked transaction and the record after it
type PaymentResult struct {
	Transaction *models.PaymentTransaction `json:"transaction"`
	Record      *models.MonthlyRecord      `json:"monthly_record"`
}

// RegisterPayment books a payment on a monthly record. The contract must
// have no unsettled debt; otherwise a BlockedError lists what is owed.
func (s *PaymentService) RegisterPayment(ctx context.Context, groupID, recordID uint, in PaymentInput) (*PaymentResult, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	payDate := billing.DateOnly(in.PaymentDate)

	record, err := s.repos.Record.FindByID(ctx, groupID, recordID)
	if err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}

	eligibility, err := s.debts.CanPayCurrentMonth(ctx, groupID, record.ContractID)
	if err != nil {
		return nil, err
	}
	if !eligibility.CanPay {
		return nil, &BlockedError{Message: eligibility.Message, Debts: eligibility.Debts}
	}
	if record.Debt != nil {
		return nil, conflict("el registro %d ya tiene una deuda asociada, registre el pago sobre la deuda", record.ID)
	}

	hs, err := s.calendar.ForPeriod(ctx, record.PeriodMonth, record.PeriodYear, payDate)
	if err != nil {
		return nil, err
	}

	result := &PaymentResult{}
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		r, err := tx.Record.FindByIDForUpdate(ctx, recordID)
		if err != nil {
			return notFound(err, "registro mensual", recordID)
		}
		if r.Debt != nil {
			return conflict("el registro %d ya tiene una deuda asociada, registre el pago sobre la deuda", r.ID)
		}
		txns, err := tx.Payment.FindByRecord(ctx, recordID)
		if err != nil {
			return err
		}
		if last := lastRecordPaymentDate(txns); last != nil && payDate.Before(*last) {
			return validation("payment_date", "no puede ser anterior al último pago registrado")
		}

		a := assessRecord(r, &r.Contract, txns, hs, payDate, false)
		cumulative, owed := a.Cumulative, a.UnpaidPunitory
		if in.ForgivePunitory {
			cumulative = math.Min(r.PunitoryAmount, a.Outstanding.Surplus)
			owed = 0
		}

		ledger := r.Ledger()
		ledger.AmountPaid = a.Paid
		imputation := billing.Allocate(ledger, in.Amount, owed)

		txn := &models.PaymentTransaction{
			GroupID:          r.GroupID,
			MonthlyRecordID:  r.ID,
			ContractID:       r.ContractID,
			PaymentDate:      payDate,
			Amount:           in.Amount,
			Method:           in.Method,
			PunitoryAmount:   cumulative,
			PunitoryDays:     a.Accrual.Days,
			PunitoryForgiven: in.ForgivePunitory,
			ReceiptNumber:    newReceiptNumber("P", payDate),
			Observations:     optional(in.Observations),
			Concepts:         toConcepts(imputation.Concepts),
		}
		if err := tx.Payment.Create(ctx, txn); err != nil {
			return err
		}

		updated, err := s.records.recalculate(ctx, tx, recordID, nil)
		if err != nil {
			return err
		}
		result.Transaction = txn
		result.Record = updated
		return nil
	})
	if err != nil {
		return nil, err
	}

	logger.Info("payment registered",
		"record_id", recordID,
		"transaction_id", result.Transaction.ID,
		"amount", in.Amount,
		"punitory", result.Transaction.PunitoryAmount,
		"status", result.Record.Status,
	)
	s.audit.Record(ctx, groupID, models.AuditActionPayment, "MonthlyRecord", recordID, map[string]any{
		"transaction_id": result.Transaction.ID,
		"amount":         in.Amount,
		"receipt":        result.Transaction.ReceiptNumber,
		"forgiven":       in.ForgivePunitory,
	})
	return result, nil
}

// PunitoryPreview is what paying a record on a date would cost
type PunitoryPreview struct {
	RecordID        uint             `json:"record_id"`
	Date            time.Time        `json:"date"`
	Punitory        billing.Punitory `json:"punitory"`
	FrozenPunitory  float64          `json:"frozen_punitory"`
	PendingPunitory float64          `json:"pending_punitory"`
	UnpaidRent      float64          `json:"unpaid_rent"`
	UnpaidServices  float64          `json:"unpaid_services"`
	UnpaidIVA       float64          `json:"unpaid_iva"`
	TotalToPay      float64          `json:"total_to_pay"`
	DebtID          *uint            `json:"debt_id,omitempty"`
}

// PreviewPunitory computes the punitory owed on a record at date without
// booking anything. Records already closed into a debt report the debt.
func (s *PaymentService) PreviewPunitory(ctx context.Context, groupID, recordID uint, date time.Time) (*PunitoryPreview, error) {
	if date.IsZero() {
		date = s.now()
	}
	date = billing.DateOnly(date)

	record, err := s.repos.Record.FindByID(ctx, groupID, recordID)
	if err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}
	hs, err := s.calendar.ForPeriod(ctx, record.PeriodMonth, record.PeriodYear, date)
	if err != nil {
		return nil, err
	}

	preview := &PunitoryPreview{RecordID: record.ID, Date: date, FrozenPunitory: record.PunitoryAmount}
	if record.Debt != nil {
		d := assessDebt(record.Debt, &record.Contract, hs, date)
		preview.DebtID = &record.Debt.ID
		preview.Punitory = d.Accrual
		preview.PendingPunitory = d.Unpaid
		preview.UnpaidRent = d.RemainingRent
		preview.TotalToPay = d.CurrentTotal
		return preview, nil
	}

	a := assessRecord(record, &record.Contract, record.Transactions, hs, date, false)
	preview.Punitory = a.Accrual
	preview.PendingPunitory = a.UnpaidPunitory
	preview.UnpaidRent = a.Outstanding.Rent
	preview.UnpaidServices = a.Outstanding.Services
	preview.UnpaidIVA = a.Outstanding.IVA
	preview.TotalToPay = billing.Round2(a.Outstanding.Total() + a.UnpaidPunitory)
	return preview, nil
}

// DeleteTransaction reverses a payment. Transactions that mirror a debt
// payment cancel that debt payment instead, so debt and record stay in step.
func (s *PaymentService) DeleteTransaction(ctx context.Context, groupID, transactionID uint) (*models.MonthlyRecord, error) {
	txn, err := s.repos.Payment.FindByID(ctx, groupID, transactionID)
	if err != nil {
		return nil, notFound(err, "transacción", transactionID)
	}
	record, err := s.repos.Record.FindByID(ctx, groupID, txn.MonthlyRecordID)
	if err != nil {
		return nil, notFound(err, "registro mensual", txn.MonthlyRecordID)
	}

	if record.Debt != nil {
		paymentID, err := s.matchDebtPayment(ctx, groupID, record.Debt.ID, txn)
		if err != nil {
			return nil, err
		}
		if paymentID != 0 {
			if _, err := s.debts.CancelPayment(ctx, groupID, record.Debt.ID, paymentID); err != nil {
				return nil, err
			}
			return s.repos.Record.FindByID(ctx, groupID, record.ID)
		}
	}

	hs, err := s.calendar.ForPeriod(ctx, record.PeriodMonth, record.PeriodYear, s.now())
	if err != nil {
		return nil, err
	}

	var updated *models.MonthlyRecord
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if _, err := tx.Record.FindByIDForUpdate(ctx, record.ID); err != nil {
			return notFound(err, "registro mensual", record.ID)
		}
		if err := tx.Payment.Delete(ctx, txn.ID); err != nil {
			return err
		}
		var err error
		if updated, err = s.records.recalculate(ctx, tx, record.ID, nil); err != nil {
			return err
		}
		if record.Debt == nil {
			return nil
		}
		if _, err := s.debts.refreshFromRecord(ctx, tx, record.ID, &record.Contract, hs); err != nil {
			return err
		}
		updated, err = s.records.recalculate(ctx, tx, record.ID, nil)
		return err
	})
	if err != nil {
		return nil, err
	}

	logger.Info("transaction reversed", "transaction_id", txn.ID, "record_id", record.ID, "amount", txn.Amount)
	s.audit.Record(ctx, groupID, models.AuditActionReversal, "MonthlyRecord", record.ID, map[string]any{
		"transaction_id": txn.ID,
		"amount":         txn.Amount,
		"receipt":        txn.ReceiptNumber,
	})
	return updated, nil
}

// matchDebtPayment finds the debt payment a transaction mirrors, by link or
// by date and amount for transactions booked after the debt was opened.
// Zero means the transaction is an ordinary record payment.
func (s *PaymentService) matchDebtPayment(ctx context.Context, groupID, debtID uint, txn *models.PaymentTransaction) (uint, error) {
	if txn.DebtPaymentID != nil {
		return *txn.DebtPaymentID, nil
	}
	debt, err := s.repos.Debt.FindByID(ctx, groupID, debtID)
	if err != nil {
		return 0, notFound(err, "deuda", debtID)
	}
	if txn.ID <= debt.LastRecordTxnID {
		return 0, nil
	}
	for _, p := range debt.Payments {
		if billing.DateOnly(p.PaymentDate).Equal(billing.DateOnly(txn.PaymentDate)) && math.Abs(p.Amount-txn.Amount) <= 0.01 {
			return p.ID, nil
		}
	}
	return 0, nil
}

// newReceiptNumber builds a unique receipt like P-2025-3F9A1C07B2
func newReceiptNumber(prefix string, date time.Time) string {
	id := strings.ToUpper(strings.ReplaceAll(uuid.NewString(), "-", ""))
	return fmt.Sprintf("%s-%d-%s", prefix, date.Year(), id[:10])
}
