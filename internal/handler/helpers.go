package handler

import (
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/quocanhngo/focushub/internal/middleware"
	"github.com/quocanhngo/focushub/internal/model"
	"github.com/quocanhngo/focushub/pkg/auth"
)

const dateLayout = "2006-01-02"

// respondError writes err as an ErrorResponse. AppErrors keep their status,
// anything else is a 500 and is attached to the context for the request log.
func respondError(c *gin.Context, err error) {
	var appErr *model.AppError
	if !errors.As(err, &appErr) {
		appErr = model.NewInternalError(err)
	}

	status := appErr.HTTPStatus()
	if status >= http.StatusInternalServerError {
		_ = c.Error(err)
		c.JSON(status, model.ErrorResponse{Error: "Internal server error", Code: appErr.Code})
		return
	}
	c.JSON(status, model.ErrorResponse{Error: appErr.Message, Code: appErr.Code})
}

// bindJSON decodes the body into req and answers 400 when it does not validate
func bindJSON(c *gin.Context, req interface{}) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error:   "Invalid request",
			Code:    model.ErrCodeValidation,
			Message: err.Error(),
		})
		return false
	}
	return true
}

func currentUserID(c *gin.Context) uuid.UUID {
	return c.MustGet(middleware.ContextUserID).(uuid.UUID)
}

func currentName(c *gin.Context) string {
	return c.GetString(middleware.ContextName)
}

// currentToken returns the bearer token and its claims as set by AuthMiddleware
func currentToken(c *gin.Context) (string, *auth.Claims) {
	claims, _ := c.Get(middleware.ContextClaims)
	parsed, _ := claims.(*auth.Claims)
	return c.GetString(middleware.ContextToken), parsed
}

// paramUUID parses a path parameter, answering 400 when it is not a uuid
func paramUUID(c *gin.Context, name string) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param(name))
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{
			Error: "Invalid " + name,
			Code:  model.ErrCodeValidation,
		})
		return uuid.Nil, false
	}
	return id, true
}

// queryUUID parses an optional query parameter
func queryUUID(c *gin.Context, name string) (*uuid.UUID, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	id, err := uuid.Parse(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid " + name, Code: model.ErrCodeValidation})
		return nil, false
	}
	return &id, true
}

// queryBool parses an optional boolean query parameter
func queryBool(c *gin.Context, name string) (*bool, bool) {
	raw := c.Query(name)
	if raw == "" {
		return nil, true
	}
	v, err := strconv.ParseBool(raw)
	if err != nil {
		c.JSON(http.StatusBadRequest, model.ErrorResponse{Error: "Invalid " + name, Code: model.ErrCodeValidation})
		return nil, false
	}
	return &v, true
}

// queryDate parses an optional YYYY-MM-DD or RFC 3339 query parameter as UTC
func queryDate(c *gin.Context, name string) (time.Time, bool) {
	raw := c.Query(name)
	if raw == "" {
		return time.Time{}, true
	}
	for _, layout := range []string{dateLayout, time.RFC3339} {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), true
		}
	}
	c.JSON(http.StatusBadRequest, model.ErrorResponse{
		Error:   "Invalid " + name,
		Code:    model.ErrCodeValidation,
		Message: "use YYYY-MM-DD or RFC 3339",
	})
	return time.Time{}, false
}

func queryInt(c *gin.Context, name string) int {
	n, _ := strconv.Atoi(c.Query(name))
	return n
}
