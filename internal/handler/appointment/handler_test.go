package appointment

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/doktor-na-dohled/booking-api/internal/middleware"
)

// testRouter wires the handler with an optional authenticated user. A nil
// service is fine for paths rejected before the service is reached.
func testRouter(authenticated bool) *gin.Engine {
	gin.SetMode(gin.TestMode)
	gin.EnableJsonDecoderDisallowUnknownFields()
	r := gin.New()
	group := r.Group("/api")
	if authenticated {
		group.Use(func(c *gin.Context) {
			c.Set(middleware.ContextUserID, uuid.NewString())
			c.Next()
		})
	}
	NewHandler(nil).RegisterRoutes(group)
	return r
}

func TestCreateAppointmentWithoutUser(t *testing.T) {
	r := testRouter(false)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{}`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
	assert.Contains(t, w.Body.String(), "Nepodařilo se identifikovat uživatele")
}

func TestCreateAppointmentRejectsMalformedBody(t *testing.T) {
	r := testRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(`{not json`))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Neplatný formát požadavku")
}

func TestCreateAppointmentRejectsMissingFields(t *testing.T) {
	r := testRouter(true)

	// doctorId present but consultationType outside the allowed set.
	body := `{"doctorId":"` + uuid.NewString() + `","appointmentDate":"2026-09-07T10:00:00+02:00","consultationType":"house-call","reason":"Bolest zad po úrazu"}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCreateAppointmentRejectsUnknownFields(t *testing.T) {
	r := testRouter(true)

	body := `{"doctorId":"` + uuid.NewString() + `","appointmentDate":"2026-09-07T10:00:00+02:00","consultationType":"in-person","reason":"Bolest zad po úrazu","adminOverride":true}`
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/appointments", strings.NewReader(body))
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Neplatný formát požadavku")
}

func TestCancelAppointmentRequiresID(t *testing.T) {
	r := testRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/appointments", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "ID termínu je povinné")
}

func TestCancelAppointmentRejectsBadID(t *testing.T) {
	r := testRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodDelete, "/api/appointments?appointmentId=abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestListAppointmentsRejectsBadDoctorFilter(t *testing.T) {
	r := testRouter(true)

	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/api/appointments?doctorId=abc", nil)
	r.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}
