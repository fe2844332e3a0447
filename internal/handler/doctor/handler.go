package doctor

import (
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/doktor-na-dohled/booking-api/internal/model"
	doctorsvc "github.com/doktor-na-dohled/booking-api/internal/service/doctor"
	apperrors "github.com/doktor-na-dohled/booking-api/pkg/errors"
	"github.com/doktor-na-dohled/booking-api/pkg/httputil"
)

const msgInvalidDoctorID = "Neplatné ID lékaře"

type Handler struct {
	service *doctorsvc.Service
}

func NewHandler(service *doctorsvc.Service) *Handler {
	return &Handler{service: service}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/doctors", h.SearchDoctors)
	r.GET("/doctors/:id", h.GetDoctor)
}

func (h *Handler) SearchDoctors(c *gin.Context) {
	filters := &model.DoctorSearchFilters{
		Query:          c.Query("q"),
		Specialization: c.Query("specialization"),
		Region:         c.Query("region"),
		City:           c.Query("city"),
		Insurance:      c.Query("insurance"),
	}
	filters.AcceptsNewPatients = c.Query("acceptsNewPatients") == "true"
	filters.Page, _ = strconv.Atoi(c.DefaultQuery("page", "1"))
	filters.Limit, _ = strconv.Atoi(c.DefaultQuery("limit", "10"))

	result, err := h.service.Search(c.Request.Context(), filters)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, result)
}

func (h *Handler) GetDoctor(c *gin.Context) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		httputil.RespondWithError(c, apperrors.BadRequest(msgInvalidDoctorID, err))
		return
	}

	doctor, err := h.service.Get(c.Request.Context(), id)
	if err != nil {
		httputil.RespondWithError(c, err)
		return
	}

	httputil.RespondWithSuccess(c, doctor)
}
