package httputil

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/doktor-na-dohled/booking-api/pkg/errors"
)

// Response wraps all API responses
type Response struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Message string      `json:"message,omitempty"`
	Error   *Error      `json:"error,omitempty"`
}

// Error represents API error
type Error struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// ListMetadata carries offset pagination metadata
type ListMetadata struct {
	Total  int `json:"total"`
	Offset int `json:"offset"`
	Limit  int `json:"limit"`
}

// ListResponse wraps paginated list data
type ListResponse struct {
	Success  bool         `json:"success"`
	Data     interface{}  `json:"data"`
	Metadata ListMetadata `json:"metadata"`
}

// RespondWithSuccess sends a success response
func RespondWithSuccess(c *gin.Context, data interface{}) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithCreated sends a 201 success response
func RespondWithCreated(c *gin.Context, data interface{}) {
	c.JSON(http.StatusCreated, Response{
		Success: true,
		Data:    data,
	})
}

// RespondWithMessage sends a success response with a user message only
func RespondWithMessage(c *gin.Context, message string) {
	c.JSON(http.StatusOK, Response{
		Success: true,
		Message: message,
	})
}

// RespondWithError sends an error response. Non-AppError errors are masked
// so internal detail never reaches the client.
func RespondWithError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	message := "Interní chyba serveru"

	if appErr, ok := errors.AsAppError(err); ok {
		status = appErr.Status
		message = appErr.Message
	}

	_ = c.Error(err)
	c.JSON(status, Response{
		Success: false,
		Error: &Error{
			Code:    status,
			Message: message,
		},
	})
}

// RespondWithList sends a paginated list response
func RespondWithList(c *gin.Context, data interface{}, total, offset, limit int) {
	c.JSON(http.StatusOK, ListResponse{
		Success: true,
		Data:    data,
		Metadata: ListMetadata{
			Total:  total,
			Offset: offset,
			Limit:  limit,
		},
	})
}
