package services

import (
	"context"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
)

// ChargeService manages the extra charges and discounts of a record
type ChargeService struct {
	repos   *repository.Repositories
	records *MonthlyRecordService
}

func NewChargeService(repos *repository.Repositories, records *MonthlyRecordService) *ChargeService {
	return &ChargeService{repos: repos, records: records}
}

// ChargeInput describes a service line
type ChargeInput struct {
	ConceptTypeID uint    `json:"concept_type_id" binding:"required"`
	Amount        float64 `json:"amount" binding:"required"`
	Description   string  `json:"description"`
}

func (in ChargeInput) validate() error {
	if in.ConceptTypeID == 0 {
		return validation("concept_type_id", "es obligatorio")
	}
	if in.Amount <= 0 {
		return validation("amount", "debe ser mayor a cero")
	}
	return nil
}

// Add attaches a service line to a record and recalculates it
func (s *ChargeService) Add(ctx context.Context, groupID, recordID uint, in ChargeInput) (*models.MonthlyRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	if _, err := s.repos.Record.FindByID(ctx, groupID, recordID); err != nil {
		return nil, notFound(err, "registro mensual", recordID)
	}
	if _, err := s.repos.Service.FindConceptType(ctx, groupID, in.ConceptTypeID); err != nil {
		return nil, notFound(err, "tipo de concepto", in.ConceptTypeID)
	}

	var record *models.MonthlyRecord
	err := s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		service := &models.MonthlyService{
			MonthlyRecordID: recordID,
			ConceptTypeID:   in.ConceptTypeID,
			Amount:          in.Amount,
			Description:     optional(in.Description),
		}
		if err := tx.Service.Create(ctx, service); err != nil {
			return err
		}
		var err error
		record, err = s.records.recalculate(ctx, tx, recordID, nil)
		return err
	})
	return record, err
}

// Update changes a service line and recalculates its record
func (s *ChargeService) Update(ctx context.Context, groupID, serviceID uint, in ChargeInput) (*models.MonthlyRecord, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}
	service, err := s.ownedService(ctx, groupID, serviceID)
	if err != nil {
		return nil, err
	}
	if _, err := s.repos.Service.FindConceptType(ctx, groupID, in.ConceptTypeID); err != nil {
		return nil, notFound(err, "tipo de concepto", in.ConceptTypeID)
	}

	var record *models.MonthlyRecord
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		service.ConceptTypeID = in.ConceptTypeID
		service.Amount = in.Amount
		service.Description = optional(in.Description)
		if err := tx.Service.Save(ctx, service); err != nil {
			return err
		}
		var err error
		record, err = s.records.recalculate(ctx, tx, service.MonthlyRecordID, nil)
		return err
	})
	return record, err
}

// Remove deletes a service line and recalculates its record
func (s *ChargeService) Remove(ctx context.Context, groupID, serviceID uint) (*models.MonthlyRecord, error) {
	service, err := s.ownedService(ctx, groupID, serviceID)
	if err != nil {
		return nil, err
	}

	var record *models.MonthlyRecord
	err = s.repos.Transaction(ctx, func(tx *repository.Repositories) error {
		if err := tx.Service.Delete(ctx, service.ID); err != nil {
			return err
		}
		var err error
		record, err = s.records.recalculate(ctx, tx, service.MonthlyRecordID, nil)
		return err
	})
	return record, err
}

// ownedService loads a service line and checks its record belongs to the group
func (s *ChargeService) ownedService(ctx context.Context, groupID, serviceID uint) (*models.MonthlyService, error) {
	service, err := s.repos.Service.FindByID(ctx, serviceID)
	if err != nil {
		return nil, notFound(err, "servicio", serviceID)
	}
	if _, err := s.repos.Record.FindByID(ctx, groupID, service.MonthlyRecordID); err != nil {
		return nil, notFound(err, "servicio", serviceID)
	}
	return service, nil
}
