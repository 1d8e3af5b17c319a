package services

import (
	"context"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

// AdjustmentService applies index-based rent increases ahead of the month
// they take effect
type AdjustmentService struct {
	repos *repository.Repositories
	audit *AuditService
	now   func() time.Time
}

func NewAdjustmentService(repos *repository.Repositories, audit *AuditService, now func() time.Time) *AdjustmentService {
	return &AdjustmentService{repos: repos, audit: audit, now: now}
}

// AppliedAdjustment is one contract whose rent changed
type AppliedAdjustment struct {
	ContractID          uint    `json:"contract_id"`
	PreviousRent        float64 `json:"previous_rent"`
	NewRent             float64 `json:"new_rent"`
	EffectiveFromMonth  int     `json:"effective_from_month"`
	NextAdjustmentMonth *int    `json:"next_adjustment_month"`
}

// AdjustmentError is one contract the batch could not adjust
type AdjustmentError struct {
	IndexID    uint   `json:"index_id"`
	ContractID uint   `json:"contract_id"`
	Error      string `json:"error"`
}

// AdjustmentResult reports one index application
type AdjustmentResult struct {
	IndexID    uint                `json:"index_id"`
	IndexName  string              `json:"index_name"`
	Percentage float64             `json:"percentage"`
	Applied    []AppliedAdjustment `json:"applied"`
	Skipped    int                 `json:"skipped"`
	Errors     []AdjustmentError   `json:"errors"`
}

// ApplyAdjustment raises the rent of every active contract on the index whose
// next adjustment is due next month. Contracts are adjusted one transaction
// each; failures are collected and the batch continues.
func (s *AdjustmentService) ApplyAdjustment(ctx context.Context, groupID, indexID uint, percentage float64) (*AdjustmentResult, error) {
	if percentage <= -100 {
		return nil, validation("percentage", "debe ser mayor a -100")
	}
	if percentage == 0 {
		return nil, validation("percentage", "no puede ser cero")
	}

	index, err := s.repos.Index.FindByID(ctx, groupID, indexID)
	if err != nil {
		return nil, notFound(err, "índice de ajuste", indexID)
	}
	contracts, err := s.repos.Contract.FindActiveByIndex(ctx, groupID, indexID)
	if err != nil {
		return nil, err
	}

	now := s.now()
	result := &AdjustmentResult{
		IndexID:    index.ID,
		IndexName:  index.Name,
		Percentage: percentage,
		Applied:    []AppliedAdjustment{},
		Errors:     []AdjustmentError{},
	}
	for i := range contracts {
		c := &contracts[i]
		current := c.MonthNumber(int(now.Month()), now.Year())
		if next, ok := nextAdjustment(c, current); !ok || next != current+1 {
			result.Skipped++
			continue
		}

		applied, err := s.adjustContract(ctx, c.ID, current, percentage)
		if err != nil {
			logger.Warn("adjustment failed", "contract_id", c.ID, "index_id", indexID, "error", err)
			result.Errors = append(result.Errors, AdjustmentError{IndexID: indexID, ContractID: c.ID, Error: err.Error()})
			continue
		}
		result.Applied = append(result.Applied, *applied)
	}

	index.CurrentValue = percentage
	index.LastUpdated = &now
	if err := s.repos.Index.Save(ctx, index); err != nil {
		return nil, err
	}

	logger.Info("adjustment applied", "index_id", indexID, "percentage", percentage,
		"applied", len(result.Applied), "skipped", result.Skipped, "failed", len(result.Errors))
	s.audit.Record(ctx, groupID, models.AuditActionAdjustment, "AdjustmentIndex", indexID, map[string]any{
		"percentage": percentage,
		"applied":    len(result.Applied),
		"failed":     len(result.Errors),
	})
	return result, nil
}

// ApplyAll applies every index with a non-zero current value
func (s *AdjustmentService) ApplyAll(ctx context.Context, groupID uint) ([]AdjustmentResult, error) {
	indices, err := s.repos.Index.FindWithValue(ctx, groupID)
	if err != nil {
		return nil, err
	}
	results := make([]AdjustmentResult, 0, len(indices))
	for _, idx := range indices {
		res, err := s.ApplyAdjustment(ctx, groupID, idx.ID, idx.CurrentValue)
		if err != nil {
			logger.Warn("adjustment index failed", "index_id", idx.ID, "error", err)
			results = append(results, AdjustmentResult{
				IndexID:    idx.ID,
				IndexName:  idx.Name,
				Percentage: idx.CurrentValue,
				Applied:    []AppliedAdjustment{},
				Errors:     []AdjustmentError{{IndexID: idx.ID, Error: err.Error()}},
			})
			continue
		}
		results = append(results, *res)
	}
	return results, nil
}

func (s *AdjustmentService) adjustContract(ctx context.Context, contractID uint, current int, percentage float64) (*AppliedAdjustment, error) {
	var applied *AppliedAdjustment
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		c, err := tx.Contract.FindByIDForUpdate(ctx, contractID)
		if err != nil {
			return notFound(err, "contrato", contractID)
		}
		if next, ok := nextAdjustment(c, current); !ok || next != current+1 {
			return conflict("el contrato %d ya fue ajustado para el mes %d", c.ID, current+1)
		}

		effective := current + 1
		previous := c.BaseRent
		c.BaseRent = billing.ApplyPercent(c.BaseRent, percentage)
		c.CurrentMonth = current
		c.NextAdjustmentMonth = nil
		if n, ok := billing.NextAdjustmentMonth(c.StartMonth, effective, c.FrequencyMonths(), c.DurationMonths); ok {
			c.NextAdjustmentMonth = &n
		}
		if err := tx.Contract.Update(ctx, c); err != nil {
			return err
		}
		err = tx.Contract.AppendRentHistory(ctx, &models.RentHistory{
			ContractID:         c.ID,
			EffectiveFromMonth: effective,
			RentAmount:         c.BaseRent,
			AdjustmentPercent:  percentage,
			Reason:             models.RentReasonAdjustment,
		})
		if err != nil {
			return err
		}

		applied = &AppliedAdjustment{
			ContractID:          c.ID,
			PreviousRent:        previous,
			NewRent:             c.BaseRent,
			EffectiveFromMonth:  effective,
			NextAdjustmentMonth: c.NextAdjustmentMonth,
		}
		return nil
	})
	return applied, err
}

// nextAdjustment prefers the stored month and computes it for contracts
// that never had one saved
func nextAdjustment(c *models.Contract, current int) (int, bool) {
	if c.NextAdjustmentMonth != nil {
		return *c.NextAdjustmentMonth, true
	}
	return billing.NextAdjustmentMonth(c.StartMonth, current, c.FrequencyMonths(), c.DurationMonths)
}
