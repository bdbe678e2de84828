package handlers

import (
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"

	"github.com/BruksfildServices01/slot-scheduler/internal/dto"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/httpresp"
	ucprovider "github.com/BruksfildServices01/slot-scheduler/internal/usecase/provider"
)

// ======================================================
// HANDLER
// ======================================================

type ProviderHandler struct {
	create       *ucprovider.CreateProvider
	availability *ucprovider.SetAvailability
	fee          *ucprovider.UpdateFee
	get          *ucprovider.GetProvider
	slots        *ucprovider.ListBookedSlots
}

func NewProviderHandler(
	create *ucprovider.CreateProvider,
	availability *ucprovider.SetAvailability,
	fee *ucprovider.UpdateFee,
	get *ucprovider.GetProvider,
	slots *ucprovider.ListBookedSlots,
) *ProviderHandler {
	return &ProviderHandler{
		create:       create,
		availability: availability,
		fee:          fee,
		get:          get,
		slots:        slots,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type CreateProviderRequest struct {
	ID         string           `json:"id" binding:"required"`
	Name       string           `json:"name" binding:"required"`
	Speciality string           `json:"speciality"`
	Available  *bool            `json:"available"`
	Fee        *decimal.Decimal `json:"fee" binding:"required"`
}

type SetAvailabilityRequest struct {
	Available *bool `json:"available" binding:"required"`
}

type UpdateFeeRequest struct {
	Fee *decimal.Decimal `json:"fee" binding:"required"`
}

// ======================================================
// ADMIN
// ======================================================

func (h *ProviderHandler) Create(c *gin.Context) {
	var req CreateProviderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "id, name and fee are required")
		return
	}

	available := true
	if req.Available != nil {
		available = *req.Available
	}

	p, err := h.create.Execute(c.Request.Context(), ucprovider.CreateProviderInput{
		ID:         req.ID,
		Name:       req.Name,
		Speciality: req.Speciality,
		Available:  available,
		Fee:        *req.Fee,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, dto.FromProvider(p))
}

func (h *ProviderHandler) SetAvailability(c *gin.Context) {
	var req SetAvailabilityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "available is required")
		return
	}

	if err := h.availability.Execute(c.Request.Context(), c.Param("id"), *req.Available); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"ok": true})
}

func (h *ProviderHandler) UpdateFee(c *gin.Context) {
	var req UpdateFeeRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "fee is required")
		return
	}

	if err := h.fee.Execute(c.Request.Context(), c.Param("id"), *req.Fee); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"ok": true})
}

// ======================================================
// QUERIES
// ======================================================

func (h *ProviderHandler) Get(c *gin.Context) {
	p, err := h.get.Execute(c.Request.Context(), c.Param("id"))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, p)
}

func (h *ProviderHandler) Slots(c *gin.Context) {
	date := c.Query("date")

	labels, err := h.slots.Execute(c.Request.Context(), c.Param("id"), date)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{
		"provider_id": c.Param("id"),
		"date":        date,
		"booked":      labels,
	})
}
