package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vdh-servicedesk/backend/internal/db"
	"github.com/vdh-servicedesk/backend/internal/publicroute"
)

// PublicForms describes the form a page token selects, or 404s for
// anything else. The admin surface is not reachable from here.
func (h *Handler) PublicForms(c *gin.Context) {
	form, ok := publicroute.Resolve(c.Query("page"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Unknown form", nil)
		return
	}
	c.JSON(http.StatusOK, gin.H{"form": form})
}

// PublicSubmit dispatches a submission to the form its page token names.
func (h *Handler) PublicSubmit(c *gin.Context) {
	form, ok := publicroute.Resolve(c.Query("page"))
	if !ok {
		writeError(c, http.StatusNotFound, "NOT_FOUND", "Unknown form", nil)
		return
	}
	switch form {
	case publicroute.FormTicket:
		h.submitTicket(c)
	case publicroute.FormVehicleRequest:
		h.submitVehicleRequest(c)
	case publicroute.FormProcurement:
		h.submitProcurement(c)
	}
}

type TicketSubmission struct {
	Name             string `json:"name" validate:"required"`
	Email            string `json:"email" validate:"required,email"`
	Phone            string `json:"phone"`
	Location         string `json:"location"`
	Priority         string `json:"priority" validate:"required,oneof=Low Medium High Critical"`
	ShortDescription string `json:"short_description" validate:"required"`
	Description      string `json:"description"`
}

func (h *Handler) submitTicket(c *gin.Context) {
	var req TicketSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	id, err := h.Store.InsertTicket(c.Request.Context(), db.NewTicket{
		Name:             req.Name,
		Email:            req.Email,
		Phone:            req.Phone,
		Location:         req.Location,
		Priority:         req.Priority,
		ShortDescription: req.ShortDescription,
		Description:      req.Description,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "Ticket", id, fmt.Sprintf("New support ticket from %s", req.Name), req.Name)
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": "New"})
}

type VehicleRequestSubmission struct {
	RequesterFirst  string `json:"requester_first" validate:"required"`
	RequesterLast   string `json:"requester_last" validate:"required"`
	RequesterEmail  string `json:"requester_email" validate:"required,email"`
	RequesterPhone  string `json:"requester_phone"`
	Destination     string `json:"destination" validate:"required"`
	DepartureDate   string `json:"departure_date" validate:"required,datetime=2006-01-02"`
	ReturnDate      string `json:"return_date" validate:"required,datetime=2006-01-02"`
	StartingMileage int64  `json:"starting_mileage" validate:"gte=0"`
	Notes           string `json:"notes"`
}

func (h *Handler) submitVehicleRequest(c *gin.Context) {
	var req VehicleRequestSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	departure, _ := time.Parse("2006-01-02", req.DepartureDate)
	ret, _ := time.Parse("2006-01-02", req.ReturnDate)
	if ret.Before(departure) {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Return date is before departure date", nil)
		return
	}

	id, err := h.Store.InsertVehicleTrip(c.Request.Context(), db.NewVehicleTrip{
		RequesterFirst:  req.RequesterFirst,
		RequesterLast:   req.RequesterLast,
		RequesterEmail:  req.RequesterEmail,
		RequesterPhone:  req.RequesterPhone,
		Destination:     req.Destination,
		DepartureTime:   departure,
		ReturnTime:      ret,
		StartingMileage: req.StartingMileage,
		Notes:           req.Notes,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	requester := req.RequesterFirst + " " + req.RequesterLast
	h.notify(c, "VehicleRequest", id, fmt.Sprintf("New vehicle request from %s to %s", requester, req.Destination), requester)
	c.JSON(http.StatusCreated, gin.H{"id": id, "status": "Requested"})
}

type ProcurementSubmission struct {
	RequesterName   string  `json:"requester_name" validate:"required"`
	RequesterEmail  string  `json:"requester_email" validate:"required,email"`
	Location        string  `json:"location" validate:"required"`
	Department      string  `json:"department" validate:"required"`
	ItemDescription string  `json:"item_description" validate:"required"`
	Quantity        int     `json:"quantity" validate:"required,gte=1"`
	UnitPrice       float64 `json:"unit_price" validate:"gte=0"`
	Justification   string  `json:"justification" validate:"required"`
}

func (h *Handler) submitProcurement(c *gin.Context) {
	var req ProcurementSubmission
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}

	id, number, err := h.Store.InsertProcurementRequest(c.Request.Context(), db.NewProcurementRequest{
		RequesterName:   req.RequesterName,
		RequesterEmail:  req.RequesterEmail,
		Location:        req.Location,
		Department:      req.Department,
		ItemDescription: req.ItemDescription,
		Quantity:        req.Quantity,
		UnitPrice:       req.UnitPrice,
		Justification:   req.Justification,
	})
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "ProcurementRequest", id, fmt.Sprintf("New procurement request %s from %s", number, req.RequesterName), req.RequesterName)
	c.JSON(http.StatusCreated, gin.H{"id": id, "request_number": number, "status": "Requested"})
}

// notify files a notification row; failures are logged, not surfaced,
// since the submission itself already committed.
func (h *Handler) notify(c *gin.Context, notifType string, referenceID int64, message, createdBy string) {
	if err := h.Store.InsertNotification(c.Request.Context(), notifType, referenceID, message, createdBy); err != nil {
		h.Logger.Warn().Err(err).Str("type", notifType).Int64("reference_id", referenceID).Msg("notification insert failed")
	}
}
