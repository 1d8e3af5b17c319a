package services

import (
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/jobs"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
)

// Services holds all service instances
type Services struct {
	Records     *MonthlyRecordService
	Charges     *ChargeService
	Payments    *PaymentService
	Debts       *DebtService
	Close       *MonthlyCloseService
	Adjustments *AdjustmentService
	Contracts   *ContractService
	Audit       *AuditService
	Job         *JobService
	Calendar    *holidays.Calendar
	Now         func() time.Time
}

// NewServices creates all service instances. now is the clock every
// computation reads "today" from.
func NewServices(repos *repository.Repositories, calendar *holidays.Calendar, worker *jobs.Worker, now func() time.Time) *Services {
	if now == nil {
		now = time.Now
	}
	auditSvc := NewAuditService(repos.Audit, worker)
	recordSvc := NewMonthlyRecordService(repos, calendar, now)
	debtSvc := NewDebtService(repos, calendar, recordSvc, auditSvc, now)

	return &Services{
		Records:     recordSvc,
		Charges:     NewChargeService(repos, recordSvc),
		Payments:    NewPaymentService(repos, calendar, recordSvc, debtSvc, auditSvc, now),
		Debts:       debtSvc,
		Close:       NewMonthlyCloseService(repos, calendar, debtSvc, auditSvc, now),
		Adjustments: NewAdjustmentService(repos, auditSvc, now),
		Contracts:   NewContractService(repos, auditSvc, now),
		Audit:       auditSvc,
		Job:         NewJobService(worker),
		Calendar:    calendar,
		Now:         now,
	}
}
