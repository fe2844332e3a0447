package appointment

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/middleware"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	"github.com/doktor-na-dohled/booking-api/internal/service/booking"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/httputil"
)

const (
	msgBadPayload       = "Neplatný formát požadavku"
	msgUnknownUser      = "Nepodařilo se identifikovat uživatele"
	msgAppointmentIDReq = "ID termínu je povinné"
	msgCancelled        = "Termín byl úspěšně zrušen"
	defaultCancelReason = "Zrušeno uživatelem"
)

type Handler struct {
	service *booking.Service
}

func NewHandler(service *booking.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/appointments", h.ListAppointments)
	r.POST("/appointments", h.CreateAppointment)
	r.PUT("/appointments", h.UpdateAppointment)
	r.DELETE("/appointments", h.CancelAppointment)
}

func (h *Handler) CreateAppointment(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	var req model.CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
		return
	}

	result, err := h.service.CreateBooking(c.Request.Context(), userID, &req, requestMeta(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithCreated(c, result)
}

func (h *Handler) ListAppointments(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	filters := &model.AppointmentFilters{PatientID: userID}
	if raw := c.Query("userId"); raw != "" {
		requested, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
			return
		}
		filters.PatientID = requested
	}
	if raw := c.Query("doctorId"); raw != "" {
		doctorID, err := uuid.Parse(raw)
		if err != nil {
			httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
			return
		}
		filters.DoctorID = doctorID
	}
	if status := c.Query("status"); status != "" {
		filters.Status = model.AppointmentStatus(status)
	}
	filters.Limit, _ = strconv.Atoi(c.Query("limit"))
	filters.Offset, _ = strconv.Atoi(c.Query("offset"))

	includeDetails := c.Query("includeDetails") == "true"
	data, total, err := h.service.ListAppointments(c.Request.Context(), filters, includeDetails)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, data, total, filters.Offset, filters.Limit)
}

func (h *Handler) UpdateAppointment(c *gin.Context) {
	if _, ok := middleware.UserID(c); !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	var req model.UpdateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
		return
	}

	apt, err := h.service.UpdateAppointment(c.Request.Context(), &req, requestMeta(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, apt)
}

func (h *Handler) CancelAppointment(c *gin.Context) {
	if _, ok := middleware.UserID(c); !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	raw := c.Query("appointmentId")
	if raw == "" {
		httputil.RespondWithError(c, apperrors.BadRequest(msgAppointmentIDReq, nil))
		return
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgAppointmentIDReq, err))
		return
	}

	reason := c.Query("reason")
	if reason == "" {
		reason = defaultCancelReason
	}

	if err := h.service.CancelAppointment(c.Request.Context(), id, reason, requestMeta(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, msgCancelled)
}

func requestMeta(c *gin.Context) booking.RequestMeta {
	return booking.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
