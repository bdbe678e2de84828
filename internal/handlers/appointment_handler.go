package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	domain "github.com/BruksfildServices01/slot-scheduler/internal/domain/appointment"
	"github.com/BruksfildServices01/slot-scheduler/internal/httperr"
	"github.com/BruksfildServices01/slot-scheduler/internal/httpresp"
	"github.com/BruksfildServices01/slot-scheduler/internal/middleware"
	ucappointment "github.com/BruksfildServices01/slot-scheduler/internal/usecase/appointment"
)

// ======================================================
// HANDLER
// ======================================================

type AppointmentHandler struct {
	book   *ucappointment.BookAppointment
	cancel *ucappointment.CancelAppointment
	list   *ucappointment.ListAppointments
	get    *ucappointment.GetAppointment
}

func NewAppointmentHandler(
	book *ucappointment.BookAppointment,
	cancel *ucappointment.CancelAppointment,
	list *ucappointment.ListAppointments,
	get *ucappointment.GetAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		book:   book,
		cancel: cancel,
		list:   list,
		get:    get,
	}
}

// ======================================================
// REQUESTS
// ======================================================

type BookAppointmentRequest struct {
	ProviderID string `json:"provider_id" binding:"required"`
	Date       string `json:"date" binding:"required,datekey"`
	Time       string `json:"time" binding:"required,timelabel"`
}

// ======================================================
// BOOK
// ======================================================

func (h *AppointmentHandler) Book(c *gin.Context) {
	var req BookAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, httperr.CodeInvalidRequest, "provider_id, date (YYYY-MM-DD) and time (HH:MM) are required")
		return
	}

	slot, err := domain.NewSlot(req.Date, req.Time)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	ap, err := h.book.Execute(c.Request.Context(), ucappointment.BookAppointmentInput{
		RequesterID: middleware.RequesterID(c),
		ProviderID:  req.ProviderID,
		Slot:        slot,
	})
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.Created(c, gin.H{"appointment_id": ap.ID})
}

// ======================================================
// CANCEL
// ======================================================

func (h *AppointmentHandler) Cancel(c *gin.Context) {
	if _, err := h.cancel.Execute(
		c.Request.Context(),
		middleware.RequesterID(c),
		c.Param("id"),
	); err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.OK(c, gin.H{"ok": true})
}

// ======================================================
// LIST / GET
// ======================================================

func (h *AppointmentHandler) List(c *gin.Context) {
	apps, err := h.list.Execute(c.Request.Context(), middleware.RequesterID(c))
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	httpresp.List(c, apps)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	ap, err := h.get.Execute(
		c.Request.Context(),
		middleware.RequesterID(c),
		c.Param("id"),
	)
	if err != nil {
		httperr.FromError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}
