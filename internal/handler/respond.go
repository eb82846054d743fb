package handler

import (
	"errors"
	"net/http"

	"taskboard/internal/apperr"
	"taskboard/internal/middleware"
	"taskboard/internal/model"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	"github.com/google/uuid"
)

// caller pulls the authenticated user set by the auth middleware; a
// missing caller responds 401 and aborts the handler.
func caller(c *gin.Context) (*model.User, bool) {
	u, ok := middleware.Caller(c)
	if !ok {
		respondError(c, apperr.Authentication("Not authenticated"))
		return nil, false
	}
	return u, true
}

// parseUUIDParam parses a path parameter as a UUID, responding 400 when it
// is malformed.
func parseUUIDParam(c *gin.Context, name string) (uuid.UUID, bool) {
	raw, ok := parseIDParam(c, name)
	if !ok {
		return uuid.Nil, false
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		respondError(c, apperr.BadRequest("Invalid "+name+" format"))
		return uuid.Nil, false
	}
	return id, true
}

// respondError translates a service error into its HTTP shape. The
// taxonomy code is always included so clients can branch without parsing
// messages.
func respondError(c *gin.Context, err error) {
	ae, ok := apperr.As(err)
	if !ok {
		c.JSON(http.StatusInternalServerError, gin.H{
			"error": "Internal server error",
			"code":  apperr.CodeInternal,
		})
		return
	}

	status := http.StatusInternalServerError
	switch ae.Code {
	case apperr.CodeUnauthenticated:
		status = http.StatusUnauthorized
	case apperr.CodeForbidden:
		status = http.StatusForbidden
	case apperr.CodeValidation, apperr.CodeBadRequest:
		status = http.StatusBadRequest
	case apperr.CodeNotFound:
		status = http.StatusNotFound
	}

	body := gin.H{"error": ae.Message, "code": ae.Code}
	if len(ae.Fields) > 0 {
		body["fields"] = ae.Fields
	}
	c.JSON(status, body)
}

// bindingDetails converts gin binding failures into per-field messages.
func bindingDetails(err error) map[string]string {
	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return nil
	}
	out := make(map[string]string, len(verrs))
	for _, fe := range verrs {
		switch fe.Tag() {
		case "required":
			out[fe.Field()] = "is required"
		case "email":
			out[fe.Field()] = "must be a valid email"
		case "min":
			out[fe.Field()] = "must be at least " + fe.Param() + " characters"
		case "uuid":
			out[fe.Field()] = "must be a valid UUID"
		case "oneof":
			out[fe.Field()] = "must be one of " + fe.Param()
		default:
			out[fe.Field()] = "is invalid"
		}
	}
	return out
}

func respondBindError(c *gin.Context, err error) {
	respondError(c, apperr.Validation("Invalid request", bindingDetails(err)))
}

func parseIDParam(c *gin.Context, name string) (string, bool) {
	id := c.Param(name)
	if id == "" {
		respondError(c, apperr.BadRequest("Missing "+name+" parameter"))
		return "", false
	}
	return id, true
}
