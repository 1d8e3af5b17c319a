package services

import (
	"context"
	"errors"
	"time"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/billing"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
	"gorm.io/gorm"
)

type ContractService struct {
	repos *repository.Repositories
	audit *AuditService
	now   func() time.Time
}

func NewContractService(repos *repository.Repositories, audit *AuditService, now func() time.Time) *ContractService {
	return &ContractService{repos: repos, audit: audit, now: now}
}

// ContractInput is a lease to register
type ContractInput struct {
	PropertyID        uint      `json:"property_id"`
	StartDate         time.Time `json:"start_date"`
	StartMonth        int       `json:"start_month"`
	DurationMonths    int       `json:"duration_months"`
	BaseRent          float64   `json:"base_rent"`
	AdjustmentIndexID *uint     `json:"adjustment_index_id"`
	PunitoryStartDay  int       `json:"punitory_start_day"`
	PunitoryGraceDay  int       `json:"punitory_grace_day"`
	PunitoryPercent   float64   `json:"punitory_percent"`
	IncludeIVA        bool      `json:"include_iva"`
	TenantIDs         []uint    `json:"tenant_ids"`
	PrimaryTenantID   uint      `json:"primary_tenant_id"`
	Observations      string    `json:"observations"`
}

func (in *ContractInput) validate() error {
	if in.PropertyID == 0 {
		return validation("property_id", "es obligatorio")
	}
	if in.StartDate.IsZero() {
		return validation("start_date", "es obligatoria")
	}
	if in.DurationMonths <= 0 {
		return validation("duration_months", "debe ser mayor a cero")
	}
	if in.BaseRent <= 0 {
		return validation("base_rent", "debe ser mayor a cero")
	}
	if in.StartMonth == 0 {
		in.StartMonth = 1
	}
	if in.StartMonth < 1 || in.StartMonth > in.DurationMonths {
		return validation("start_month", "debe estar dentro de la duración del contrato")
	}
	if in.PunitoryStartDay == 0 {
		in.PunitoryStartDay = 1
	}
	if in.PunitoryGraceDay == 0 {
		in.PunitoryGraceDay = 10
	}
	if in.PunitoryStartDay < 1 || in.PunitoryStartDay > 31 {
		return validation("punitory_start_day", "debe estar entre 1 y 31")
	}
	if in.PunitoryGraceDay < 1 || in.PunitoryGraceDay > 31 {
		return validation("punitory_grace_day", "debe estar entre 1 y 31")
	}
	if in.PunitoryPercent < 0 || in.PunitoryPercent >= 1 {
		return validation("punitory_percent", "debe ser una fracción diaria entre 0 y 1")
	}
	return nil
}

// Register creates a contract with its initial rent history row and tenants.
// A property holds at most one active contract.
func (s *ContractService) Register(ctx context.Context, groupID uint, in ContractInput) (*models.Contract, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	property, err := s.repos.Contract.FindProperty(ctx, groupID, in.PropertyID)
	if err != nil {
		return nil, notFound(err, "propiedad", in.PropertyID)
	}

	var index *models.AdjustmentIndex
	if in.AdjustmentIndexID != nil {
		index, err = s.repos.Index.FindByID(ctx, groupID, *in.AdjustmentIndexID)
		if err != nil {
			return nil, notFound(err, "índice de ajuste", *in.AdjustmentIndexID)
		}
	}

	tenants, err := s.repos.Contract.FindTenants(ctx, groupID, in.TenantIDs)
	if err != nil {
		return nil, err
	}
	if len(tenants) != len(uniqueIDs(in.TenantIDs)) {
		return nil, validation("tenant_ids", "contiene inquilinos inexistentes")
	}

	startDate := billing.DateOnly(in.StartDate)
	contract := &models.Contract{
		GroupID:           groupID,
		PropertyID:        property.ID,
		StartDate:         startDate,
		StartMonth:        in.StartMonth,
		DurationMonths:    in.DurationMonths,
		BaseRent:          billing.Round2(in.BaseRent),
		AdjustmentIndexID: in.AdjustmentIndexID,
		AdjustmentIndex:   index,
		PunitoryStartDay:  in.PunitoryStartDay,
		PunitoryGraceDay:  in.PunitoryGraceDay,
		PunitoryPercent:   in.PunitoryPercent,
		IncludeIVA:        in.IncludeIVA,
		Active:            true,
		Observations:      optional(in.Observations),
	}

	now := s.now()
	current := contract.MonthNumber(int(now.Month()), now.Year())
	current = min(max(current, in.StartMonth), in.DurationMonths)
	contract.CurrentMonth = current
	if next, ok := billing.NextAdjustmentMonth(in.StartMonth, current, contract.FrequencyMonths(), in.DurationMonths); ok {
		contract.NextAdjustmentMonth = &next
	}

	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		taken, err := tx.Contract.HasActiveForProperty(ctx, property.ID)
		if err != nil {
			return err
		}
		if taken {
			return conflict("la propiedad %s ya tiene un contrato activo", property.Label())
		}
		if err := tx.Contract.Create(ctx, contract); err != nil {
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return conflict("la propiedad %s ya tiene un contrato activo", property.Label())
			}
			return err
		}
		err = tx.Contract.AppendRentHistory(ctx, &models.RentHistory{
			ContractID:         contract.ID,
			EffectiveFromMonth: in.StartMonth,
			RentAmount:         contract.BaseRent,
			Reason:             models.RentReasonInitial,
		})
		if err != nil {
			return err
		}
		return tx.Contract.AddTenants(ctx, contractTenants(contract.ID, in.TenantIDs, in.PrimaryTenantID))
	})
	if err != nil {
		return nil, err
	}

	logger.Info("contract registered", "contract_id", contract.ID, "property_id", property.ID, "base_rent", contract.BaseRent)
	s.audit.Record(ctx, groupID, models.AuditActionContractCreated, "Contract", contract.ID, map[string]any{
		"property_id":     property.ID,
		"base_rent":       contract.BaseRent,
		"duration_months": contract.DurationMonths,
	})
	return s.repos.Contract.FindByID(ctx, groupID, contract.ID)
}

// Get returns a contract with tenants and rent history
func (s *ContractService) Get(ctx context.Context, groupID, id uint) (*models.Contract, error) {
	contract, err := s.repos.Contract.FindByID(ctx, groupID, id)
	if err != nil {
		return nil, notFound(err, "contrato", id)
	}
	return contract, nil
}

// End deactivates a contract so it stops generating records
func (s *ContractService) End(ctx context.Context, groupID, id uint) (*models.Contract, error) {
	contract, err := s.repos.Contract.FindByID(ctx, groupID, id)
	if err != nil {
		return nil, notFound(err, "contrato", id)
	}
	if !contract.Active {
		return nil, conflict("el contrato %d ya está finalizado", id)
	}
	contract.Active = false
	if err := s.repos.Contract.Update(ctx, contract); err != nil {
		return nil, err
	}
	logger.Info("contract ended", "contract_id", id)
	return contract, nil
}

// contractTenants orders tenants as given. The primary is the one named or
// the first.
func contractTenants(contractID uint, ids []uint, primaryID uint) []models.ContractTenant {
	ids = uniqueIDs(ids)
	if primaryID == 0 && len(ids) > 0 {
		primaryID = ids[0]
	}
	out := make([]models.ContractTenant, 0, len(ids))
	for i, id := range ids {
		out = append(out, models.ContractTenant{
			ContractID: contractID,
			TenantID:   id,
			IsPrimary:  id == primaryID,
			Position:   i,
		})
	}
	return out
}

func uniqueIDs(ids []uint) []uint {
	seen := make(map[uint]bool, len(ids))
	out := make([]uint, 0, len(ids))
	for _, id := range ids {
		if id == 0 || seen[id] {
			continue
		}
		seen[id] = true
		out = append(out, id)
	}
	return out
}
