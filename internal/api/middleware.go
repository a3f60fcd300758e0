package api

import (
	"errors"
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
)

// ErrorHandler is the single translator from typed handler failures to
// JSON error envelopes. Handlers attach an error via c.Error and abort;
// this middleware writes the response after the chain unwinds.
//
// Typed *Error values keep their status and message. Anything else
// becomes a 500; the underlying message is only exposed in development
// mode, production clients get a generic string.
func ErrorHandler(development bool) gin.HandlerFunc {
	return func(c *gin.Context) {
		c.Next()

		if len(c.Errors) == 0 || c.Writer.Written() {
			return
		}

		err := c.Errors.Last().Err

		var apiErr *Error
		if errors.As(err, &apiErr) {
			c.JSON(apiErr.Status, ErrorResponse{
				Success:     false,
				Error:       apiErr.Message,
				IsFormError: apiErr.Form,
			})
			return
		}

		log.Printf("Unhandled error (%s %s): %v", c.Request.Method, c.Request.URL.Path, err)

		message := "Internal server error"
		if development {
			message = err.Error()
		}
		c.JSON(http.StatusInternalServerError, ErrorResponse{
			Success: false,
			Error:   message,
		})
	}
}

// Abort attaches err to the context and stops the handler chain. The
// response itself is written by ErrorHandler.
func Abort(c *gin.Context, err error) {
	_ = c.Error(err)
	c.Abort()
}
