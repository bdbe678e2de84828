package handlers

import (
	"context"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/BruksfildServices01/slot-scheduler/internal/audit"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/models"
)

// ======================================================
// HANDLER
// ======================================================

type AuditLogLister interface {
	List(ctx context.Context, f audit.Filter) ([]models.AuditLog, int64, error)
}

type AuditLogsHandler struct {
	logs AuditLogLister
}

func NewAuditLogsHandler(logs AuditLogLister) *AuditLogsHandler {
	return &AuditLogsHandler{logs: logs}
}

func (h *AuditLogsHandler) List(c *gin.Context) {
	page, _ := strconv.Atoi(c.DefaultQuery("page", "1"))
	if page <= 0 {
		page = 1
	}

	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	if limit <= 0 || limit > 200 {
		limit = 50
	}

	f := audit.Filter{
		ProviderID: c.Query("provider_id"),
		Action:     c.Query("action"),
		Entity:     c.Query("entity"),
		Page:       page,
		Limit:      limit,
	}

	// --------------------------------------------------
	// Optional date window, "to" is inclusive
	// --------------------------------------------------

	if s := c.Query("from"); s != "" {
		from, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "from must be YYYY-MM-DD")
			return
		}
		f.From = &from
	}

	if s := c.Query("to"); s != "" {
		to, err := time.Parse("2006-01-02", s)
		if err != nil {
			httperr.BadRequest(c, httperr.CodeInvalidRequest, "to must be YYYY-MM-DD")
			return
		}
		end := to.Add(24 * time.Hour)
		f.To = &end
	}

	logs, total, err := h.logs.List(c.Request.Context(), f)
	if err != nil {
		httperr.Internal(c, httperr.CodePersistenceFailure, "failed to list audit logs")
		return
	}

	c.JSON(200, gin.H{
		"page":  page,
		"limit": limit,
		"total": total,
		"logs":  logs,
	})
}
