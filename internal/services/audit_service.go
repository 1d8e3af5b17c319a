package services

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/jobs"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/models"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/repository"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/pkg/logger"
)

type AuditService struct {
	repo   repository.AuditRepository
	worker *jobs.Worker
}

func NewAuditService(repo repository.AuditRepository, worker *jobs.Worker) *AuditService {
	return &AuditService{repo: repo, worker: worker}
}

// Log records an audit entry. details is stored as JSON when it is not a string.
func (s *AuditService) Log(ctx context.Context, groupID uint, action, entity string, entityID uint, details any) error {
	entry := &models.AuditLog{
		GroupID:  groupID,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Details:  encodeDetails(details),
	}
	if userID, ok := UserIDFrom(ctx); ok {
		entry.UserID = &userID
	}
	return s.repo.Create(ctx, entry)
}

// Record logs in the background once the business transaction committed.
// Without a worker the entry is written inline.
func (s *AuditService) Record(ctx context.Context, groupID uint, action, entity string, entityID uint, details any) {
	userID, hasUser := UserIDFrom(ctx)
	write := func(jobCtx context.Context) error {
		if hasUser {
			jobCtx = WithUserID(jobCtx, userID)
		}
		if err := s.Log(jobCtx, groupID, action, entity, entityID, details); err != nil {
			return fmt.Errorf("audit %s %s %d: %w", action, entity, entityID, err)
		}
		return nil
	}
	if s.worker == nil {
		if err := write(ctx); err != nil {
			logger.Error("audit write failed", "error", err)
		}
		return
	}
	s.worker.EnqueueAsync(write)
}

// List retrieves audit logs newest first
func (s *AuditService) List(ctx context.Context, groupID uint, limit, offset int) ([]models.AuditLog, int64, error) {
	return s.repo.List(ctx, groupID, limit, offset)
}

func encodeDetails(details any) string {
	switch v := details.(type) {
	case nil:
		return ""
	case string:
		return v
	}
	raw, err := json.Marshal(details)
	if err != nil {
		return fmt.Sprintf("%v", details)
	}
	return string(raw)
}

type userIDKey struct{}

// WithUserID tags ctx with the acting user for audit entries
func WithUserID(ctx context.Context, userID uint) context.Context {
	return context.WithValue(ctx, userIDKey{}, userID)
}

// UserIDFrom returns the acting user set by WithUserID
func UserIDFrom(ctx context.Context) (uint, bool) {
	id, ok := ctx.Value(userIDKey{}).(uint)
	return id, ok
}
