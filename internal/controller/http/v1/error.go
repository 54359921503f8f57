package v1

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/pkg/errors"

	"media_relay/entity"
)

type response struct {
	Error   string `json:"error"             example:"message"`
	Message string `json:"message,omitempty" example:"upstream error text"`
	Details string `json:"details,omitempty"`
}

func errorResponse(c *gin.Context, code int, msg string) {
	c.AbortWithStatusJSON(code, response{Error: msg})
}

// relayError maps a usecase error onto the client response.
func (r *relayRoutes) relayError(c *gin.Context, err error, op string) {
	var (
		inErr   *entity.InputError
		upErr   *entity.UpstreamError
		connErr *entity.ConnectError
	)

	switch {
	case errors.As(err, &inErr):
		errorResponse(c, http.StatusBadRequest, inErr.Message)
	case errors.As(err, &upErr):
		c.AbortWithStatusJSON(upErr.StatusCode, response{
			Error:   upErr.Summary,
			Message: upErr.Message,
			Details: upErr.Details,
		})
	case errors.As(err, &connErr):
		r.l.Error(err, op)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{
			Error:   connErr.Summary,
			Message: connErr.Err.Error(),
		})
	default:
		r.l.Error(err, op)
		c.AbortWithStatusJSON(http.StatusInternalServerError, response{
			Error:   "Internal server error",
			Message: err.Error(),
		})
	}
}

// bodyTooLarge reports whether err comes from the request body limit.
func bodyTooLarge(err error) bool {
	var mbe *http.MaxBytesError
	return errors.As(err, &mbe)
}
