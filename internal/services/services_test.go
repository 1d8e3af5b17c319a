package services

import (
	"context"
	"testing"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/holidays"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/testutil"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

const group = testutil.GroupID

// clock is a settable time source shared by every service in a test
type clock struct {
	t time.Time
}

func (c *clock) Now() time.Time { return c.t }

func (c *clock) Set(year int, month time.Month, day int) {
	c.t = testutil.Date(year, month, day)
}

type fixture struct {
	db    *gorm.DB
	repos *repository.Repositories
	svcs  *Services
	clock *clock
}

func newFixture(t *testing.T, year int, month time.Month, day int) *fixture {
	t.Helper()
	db := testutil.NewDB(t)
	repos := repository.NewRepositories(db)
	calendar := holidays.NewCalendar(repos.Holiday, holidays.NewMemoryCache(), time.Hour)
	c := &clock{t: testutil.Date(year, month, day)}
	return &fixture{
		db:    db,
		repos: repos,
		svcs:  NewServices(repos, calendar, nil, c.Now),
		clock: c,
	}
}

// record generates the period and returns the contract's record
func (f *fixture) record(t *testing.T, contract *models.Contract, month, year int) RecordView {
	t.Helper()
	list, err := f.svcs.Records.GenerateOrFetch(context.Background(), group, month, year, RecordFilter{ContractID: contract.ID})
	require.NoError(t, err)
	require.Len(t, list.Records, 1)
	return list.Records[0]
}

func (f *fixture) pay(t *testing.T, recordID uint, amount float64, date time.Time) *PaymentResult {
	t.Helper()
	res, err := f.svcs.Payments.RegisterPayment(context.Background(), group, recordID, PaymentInput{
		PaymentDate: date,
		Amount:      amount,
		Method:      models.PaymentMethodTransfer,
	})
	require.NoError(t, err)
	return res
}

func conceptKinds(concepts []models.TransactionConcept) []models.ConceptKind {
	kinds := make([]models.ConceptKind, 0, len(concepts))
	for _, c := range concepts {
		kinds = append(kinds, c.Kind)
	}
	return kinds
}

func conceptSum(concepts []models.TransactionConcept) float64 {
	total := 0.0
	for _, c := range concepts {
		if c.Informational {
			continue
		}
		total += c.Amount
	}
	return total
}
