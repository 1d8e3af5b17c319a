package handlers

import (
	"net/http"
	"strconv"

	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/middleware"
	"github.com/FranciscoCardo09/inmobiliaria-app-sub000/internal/services"
	"github.com/gin-gonic/gin"
)

type JobHandler struct {
	jobService *services.JobService
}

func NewJobHandler(jobSvc *services.JobService) *JobHandler {
	return &JobHandler{
		jobService: jobSvc,
	}
}

// Status returns the background worker statistics
func (h *JobHandler) Status(c *gin.Context) {
	c.JSON(http.StatusOK, h.jobService.GetStatus())
}

type AuditHandler struct {
	auditService *services.AuditService
}

func NewAuditHandler(auditService *services.AuditService) *AuditHandler {
	return &AuditHandler{auditService: auditService}
}

// Index lists the group's audit trail, newest first
func (h *AuditHandler) Index(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	perPage, _ := strconv.Atoi(c.DefaultQuery("per_page", "50"))
	page = max(page, 1)
	perPage = min(max(perPage, 1), 200)
	offset := (page - 1) * perPage

	logs, total, err := h.auditService.List(c.Request.Context(), middleware.GetGroupID(c), perPage, offset)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"audits": logs, "pagination": gin.H{"total": total, "page": page, "per_page": perPage}})
}
