package gin

import (
	"errors"
	"io"
	"net/http"

	"github.com/fwojciec/docchat"
	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
)

type chatRequest struct {
	Question string `json:"question" binding:"required"`
}

type chatResponse struct {
	Response string `json:"response"`
}

type healthResponse struct {
	Status string `json:"status"`
	Chunks int    `json:"chunks"`
}

type errorResponse struct {
	Detail string `json:"detail"`
}

func (s *Server) handleChat(c *gin.Context) {
	var req chatRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		s.writeError(c, bindError(err))
		return
	}

	answer, err := s.Asker.Ask(c.Request.Context(), req.Question)
	if err != nil {
		s.writeError(c, err)
		return
	}

	c.JSON(http.StatusOK, chatResponse{Response: answer})
}

func (s *Server) handleHealth(c *gin.Context) {
	var n int
	if s.Index != nil {
		var err error
		if n, err = s.Index.Count(c.Request.Context()); err != nil {
			s.writeError(c, err)
			return
		}
	}
	c.JSON(http.StatusOK, healthResponse{Status: "ok", Chunks: n})
}

// bindError turns a request decoding failure into an EINVALID error.
func bindError(err error) error {
	var verrs validator.ValidationErrors
	switch {
	case errors.Is(err, io.EOF):
		return docchat.Errorf(docchat.EINVALID, "request body required")
	case errors.As(err, &verrs):
		return docchat.Errorf(docchat.EINVALID, "question required")
	default:
		return docchat.Errorf(docchat.EINVALID, "invalid request body: %v", err)
	}
}

// writeError maps EINVALID to 400, ENOTFOUND to 404 and everything else to 500.
// Application errors expose their message; other errors expose their text.
func (s *Server) writeError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	switch docchat.ErrorCode(err) {
	case docchat.EINVALID:
		status = http.StatusBadRequest
	case docchat.ENOTFOUND:
		status = http.StatusNotFound
	}

	msg := err.Error()
	var appErr *docchat.Error
	if errors.As(err, &appErr) {
		msg = appErr.Message
	}

	if status == http.StatusInternalServerError {
		s.logger().Error("request failed",
			"path", c.Request.URL.Path,
			"request_id", c.GetString(requestIDKey),
			"err", err,
		)
	}
	c.AbortWithStatusJSON(status, errorResponse{Detail: "Error Occurred: " + msg})
}
