package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/vdh-servicedesk/backend/internal/db"
)

func pathID(c *gin.Context) (int64, bool) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Invalid id", nil)
		return 0, false
	}
	return id, true
}

func adminName(c *gin.Context) string {
	if name := c.GetHeader("X-Admin-Name"); name != "" {
		return name
	}
	return "admin"
}

// --- tickets ---

func (h *Handler) TicketsList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))
	items, err := h.Store.ListTickets(c.Request.Context(), c.Query("status"), c.Query("q"), limit, offset)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items, "limit": limit, "offset": offset})
}

// TicketDetails returns one ticket and records the first admin view, which
// clears the ticket's "new" highlighting for every later reader.
func (h *Handler) TicketDetails(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	ticket, err := h.Store.GetTicket(c.Request.Context(), id)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if err := h.Engine.MarkFirstViewed(c.Request.Context(), id); err != nil {
		h.Logger.Warn().Err(err).Int64("ticket_id", id).Msg("first-view stamp failed")
	} else if ticket.FirstResponseAt == nil {
		now := time.Now().UTC()
		ticket.FirstResponseAt = &now
	}
	c.JSON(http.StatusOK, ticket)
}

func (h *Handler) TicketResolve(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Engine.ResolveTicket(c.Request.Context(), id); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Resolved"})
}

func (h *Handler) TicketClose(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Engine.CloseTicket(c.Request.Context(), id); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Closed"})
}

// --- vehicle trips ---

func (h *Handler) TripsList(c *gin.Context) {
	items, err := h.Store.ListTrips(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type TripApproval struct {
	VehicleID int64 `json:"vehicle_id" validate:"required,gt=0"`
}

func (h *Handler) TripApprove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req TripApproval
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if err := h.Engine.ApproveTrip(c.Request.Context(), id, req.VehicleID, adminName(c)); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "VehicleRequest", id, fmt.Sprintf("Vehicle request #%d approved", id), adminName(c))
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Approved"})
}

type Denial struct {
	Reason string `json:"reason" validate:"required"`
}

func (h *Handler) TripDeny(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req Denial
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if err := h.Engine.DenyTrip(c.Request.Context(), id, adminName(c), req.Reason); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "VehicleRequest", id, fmt.Sprintf("Vehicle request #%d denied", id), adminName(c))
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Denied"})
}

type TripCompletion struct {
	ReturningMileage int64  `json:"returning_mileage" validate:"required,gte=0"`
	ReturnTime       string `json:"return_time" validate:"omitempty,datetime=2006-01-02T15:04:05Z07:00"`
}

func (h *Handler) TripComplete(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req TripCompletion
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	returnTime := time.Now().UTC()
	if req.ReturnTime != "" {
		returnTime, _ = time.Parse(time.RFC3339, req.ReturnTime)
	}
	if err := h.Engine.CompleteTrip(c.Request.Context(), id, req.ReturningMileage, returnTime); err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Returned"})
}

// --- procurement ---

func (h *Handler) ProcurementList(c *gin.Context) {
	items, err := h.Store.ListProcurementRequests(c.Request.Context(), c.Query("status"))
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) ProcurementApprove(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	if err := h.Engine.ApproveProcurement(c.Request.Context(), id, adminName(c)); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "ProcurementRequest", id, fmt.Sprintf("Procurement request #%d approved", id), adminName(c))
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Approved"})
}

func (h *Handler) ProcurementDeny(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req Denial
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	if err := h.Engine.DenyProcurement(c.Request.Context(), id, adminName(c), req.Reason); err != nil {
		h.writeDomainError(c, err)
		return
	}
	h.notify(c, "ProcurementRequest", id, fmt.Sprintf("Procurement request #%d denied", id), adminName(c))
	c.JSON(http.StatusOK, gin.H{"id": id, "status": "Denied"})
}

// --- vehicles ---

func (h *Handler) VehiclesList(c *gin.Context) {
	items, err := h.Store.ListVehicles(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

type VehicleCreate struct {
	Year           int    `json:"year" validate:"required,gte=1990"`
	MakeModel      string `json:"make_model" validate:"required"`
	LicensePlate   string `json:"license_plate"`
	InitialMileage int64  `json:"initial_mileage" validate:"gte=0"`
}

func (h *Handler) VehicleCreate(c *gin.Context) {
	var req VehicleCreate
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	id, err := h.Store.InsertVehicle(c.Request.Context(), db.NewVehicle{
		Year:           req.Year,
		MakeModel:      req.MakeModel,
		LicensePlate:   req.LicensePlate,
		InitialMileage: req.InitialMileage,
	}, h.Engine.ServiceInterval)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusCreated, gin.H{"id": id})
}

type ServiceReset struct {
	ServiceDate   string  `json:"service_date" validate:"required,datetime=2006-01-02"`
	Cost          float64 `json:"cost" validate:"gte=0"`
	WorkPerformed string  `json:"work_performed"`
}

func (h *Handler) VehicleServiceReset(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}
	var req ServiceReset
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	serviceDate, _ := time.Parse("2006-01-02", req.ServiceDate)
	logID, err := h.Engine.ResetService(c.Request.Context(), id, serviceDate, req.Cost, req.WorkPerformed)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"vehicle_id": id, "service_log_id": logID})
}

// --- notifications and users ---

func (h *Handler) NotificationsList(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "50"))
	items, err := h.Store.ListNotifications(c.Request.Context(), limit)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

func (h *Handler) UsersList(c *gin.Context) {
	items, err := h.Store.ListUsers(c.Request.Context())
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"items": items})
}

// --- reporting ---

type ReportQuery struct {
	Query string `json:"query" validate:"required"`
}

func (h *Handler) ReportsQuery(c *gin.Context) {
	var req ReportQuery
	if err := c.ShouldBindJSON(&req); err != nil {
		writeError(c, http.StatusBadRequest, "INVALID_REQUEST", "Invalid payload", err.Error())
		return
	}
	if err := h.Validator.Struct(req); err != nil {
		writeError(c, http.StatusBadRequest, "VALIDATION_ERROR", "Validation failed", err.Error())
		return
	}
	result, err := h.Reports.Run(c.Request.Context(), req.Query)
	if err != nil {
		h.writeDomainError(c, err)
		return
	}
	if c.Query("format") == "csv" {
		c.Header("Content-Type", "text/csv")
		c.Header("Content-Disposition", `attachment; filename="report.csv"`)
		c.Status(http.StatusOK)
		if err := h.Reports.WriteCSV(c.Writer, result); err != nil {
			h.Logger.Error().Err(err).Msg("csv export failed")
		}
		return
	}
	c.JSON(http.StatusOK, result)
}
