package httperr

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	domain "github.com/BruuAmorim/eva-agendmento-sub000/internal/domain/appointment"
)

type HTTPError struct {
	Code    string   `json:"error_code"`
	Message string   `json:"message"`
	Details []string `json:"details,omitempty"`
}

func Write(c *gin.Context, status int, code, message string) {
	c.JSON(status, HTTPError{
		Code:    code,
		Message: message,
	})
}

func BadRequest(c *gin.Context, code, message string) {
	Write(c, http.StatusBadRequest, code, message)
}

func NotFound(c *gin.Context, code, message string) {
	Write(c, http.StatusNotFound, code, message)
}

func Conflict(c *gin.Context, code, message string) {
	Write(c, http.StatusConflict, code, message)
}

func Internal(c *gin.Context, code, message string) {
	Write(c, http.StatusInternalServerError, code, message)
}

func Unauthorized(c *gin.Context, code, message string) {
	Write(c, http.StatusUnauthorized, code, message)
}

// ======================================================
// DOMAIN → HTTP
// ======================================================

// FromDomain writes the response for an error returned by a use case.
// Faults get a generic body; the detail only goes to the log.
func FromDomain(c *gin.Context, log *logrus.Entry, err error) {
	var verr *domain.ValidationError

	switch {
	case errors.As(err, &verr):
		c.JSON(http.StatusBadRequest, HTTPError{
			Code:    "validation_failed",
			Message: "The request did not pass validation.",
			Details: verr.Errors,
		})
	case errors.Is(err, domain.ErrMalformedTime):
		BadRequest(c, "malformed_time", "Time must use the HH:MM format.")
	case errors.Is(err, domain.ErrNotFound):
		NotFound(c, "appointment_not_found", "Appointment not found.")
	case errors.Is(err, domain.ErrSlotUnavailable):
		Conflict(c, "slot_unavailable", "The requested time slot is already booked.")
	case errors.Is(err, domain.ErrAlreadyCancelled):
		Conflict(c, "already_cancelled", "The appointment is already cancelled.")
	case errors.Is(err, domain.ErrTerminalState):
		Conflict(c, "terminal_state", "The appointment can no longer be changed.")
	case errors.Is(err, domain.ErrInvalidTransition):
		Conflict(c, "invalid_transition", err.Error())
	default:
		log.WithError(err).WithFields(logrus.Fields{
			"method": c.Request.Method,
			"path":   c.FullPath(),
		}).Error("unexpected error")
		Internal(c, "internal_error", "Internal server error.")
	}
}
