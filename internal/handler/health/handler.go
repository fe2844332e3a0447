package health

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jmoiron/sqlx"

	"github.com/doktor-na-dohled/booking-api/internal/config"
)

type checkResult struct {
	Status  string `json:"status"`
	Latency string `json:"latency,omitempty"`
	Error   string `json:"error,omitempty"`
}

type healthResponse struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Checks    map[string]checkResult `json:"checks"`
}

// Handler probes the database and the AI provider the triage features
// depend on. A dead database is fatal; an unreachable AI provider only
// degrades the report.
type Handler struct {
	db     *sqlx.DB
	client *http.Client
	cfg    config.HealthConfig
}

func NewHandler(db *sqlx.DB, cfg config.HealthConfig) *Handler {
	return &Handler{
		db:     db,
		client: &http.Client{Timeout: cfg.ProbeTimeout},
		cfg:    cfg,
	}
}

func (h *Handler) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("/health", h.Check)
}

func (h *Handler) Check(c *gin.Context) {
	ctx, cancel := context.WithTimeout(c.Request.Context(), h.cfg.ProbeTimeout)
	defer cancel()

	checks := map[string]checkResult{
		"database":    h.checkDatabase(ctx),
		"ai_provider": h.checkAIProvider(ctx),
	}

	status := "healthy"
	code := http.StatusOK
	if checks["ai_provider"].Status != "ok" {
		status = "degraded"
	}
	if checks["database"].Status != "ok" {
		status = "unhealthy"
		code = http.StatusServiceUnavailable
	}

	c.JSON(code, healthResponse{
		Status:    status,
		Timestamp: time.Now(),
		Checks:    checks,
	})
}

func (h *Handler) checkDatabase(ctx context.Context) checkResult {
	start := time.Now()
	if err := h.db.PingContext(ctx); err != nil {
		return checkResult{Status: "error", Error: err.Error()}
	}
	return checkResult{Status: "ok", Latency: time.Since(start).String()}
}

func (h *Handler) checkAIProvider(ctx context.Context) checkResult {
	start := time.Now()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.cfg.AIProviderURL, nil)
	if err != nil {
		return checkResult{Status: "error", Error: err.Error()}
	}
	resp, err := h.client.Do(req)
	if err != nil {
		return checkResult{Status: "error", Error: err.Error()}
	}
	defer resp.Body.Close()

	// 401 means reachable but unauthenticated, which is fine for a probe.
	if resp.StatusCode >= 500 {
		return checkResult{Status: "error", Error: resp.Status}
	}
	return checkResult{Status: "ok", Latency: time.Since(start).String()}
}
