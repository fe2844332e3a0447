package gdpr

import (
	"fmt"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/doktor-na-dohled/booking-api/internal/middleware"
	"github.com/doktor-na-dohled/booking-api/internal/model"
	gdprsvc "github.com/doktor-na-dohled/booking-api/internal/service/gdpr"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/httputil"
)

const (
	msgBadPayload      = "Neplatný formát požadavku"
	msgUnknownUser     = "Nepodařilo se identifikovat uživatele"
	msgConsentRecorded = "Souhlas byl úspěšně zaznamenán"
	msgConsentRevoked  = "Souhlas byl úspěšně odvolán"
	msgDataErased      = "Data byla úspěšně smazána"
)

type Handler struct {
	service *gdprsvc.Service
}

func NewHandler(service *gdprsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/gdpr/consents", h.ConsentHistory)
	r.GET("/gdpr/consents/status", h.ConsentStatus)
	r.POST("/gdpr/consents", h.RecordConsent)
	r.GET("/gdpr/export", h.ExportData)
	r.POST("/gdpr/erasure", h.EraseData)
}

func (h *Handler) RecordConsent(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	var req model.RecordConsentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
		return
	}

	record, err := h.service.RecordConsent(c.Request.Context(), userID, &req, requestMeta(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	if record.Given {
		httputil.RespondWithMessage(c, msgConsentRecorded)
		return
	}
	httputil.RespondWithMessage(c, msgConsentRevoked)
}

func (h *Handler) ConsentHistory(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	limit, _ := strconv.Atoi(c.Query("limit"))
	offset, _ := strconv.Atoi(c.Query("offset"))

	records, total, err := h.service.ConsentHistory(c.Request.Context(), userID, c.Query("consentType"), limit, offset)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithList(c, records, total, offset, limit)
}

func (h *Handler) ConsentStatus(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	status, err := h.service.ConsentStatus(c.Request.Context(), userID)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, status)
}

func (h *Handler) ExportData(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	export, err := h.service.Export(c.Request.Context(), userID, requestMeta(c))
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="user-data-%s.json"`, userID))
	c.Header("Cache-Control", "no-cache")
	httputil.RespondWithSuccess(c, export)
}

func (h *Handler) EraseData(c *gin.Context) {
	userID, ok := middleware.UserID(c)
	if !ok {
		httputil.RespondWithError(c, apperrors.Unauthorized(msgUnknownUser, nil))
		return
	}

	var req model.EraseDataRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgBadPayload, err))
		return
	}

	if _, err := h.service.Erase(c.Request.Context(), userID, &req, requestMeta(c)); err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithMessage(c, msgDataErased)
}

func requestMeta(c *gin.Context) gdprsvc.RequestMeta {
	return gdprsvc.RequestMeta{
		IPAddress: c.ClientIP(),
		UserAgent: c.Request.UserAgent(),
	}
}
