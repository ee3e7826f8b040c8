package api

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"validateai/backend/internal/scoring"
)

const maxBodyBytes = 1 << 20

var errBodyTooLarge = errors.New("Request body too large")

// decodeBody reads the request body as untyped JSON. Invalid JSON decodes to
// nil, which the validator treats as an empty object. Only a body over
// maxBodyBytes is an error.
func decodeBody(c *gin.Context) (any, error) {
	raw, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, errBodyTooLarge
		}
		return nil, nil
	}
	var body any
	if err := json.Unmarshal(raw, &body); err != nil {
		return nil, nil
	}
	return body, nil
}

func (s *Server) handleScore(c *gin.Context) {
	start := time.Now()
	fields := logrus.Fields{
		"provider": s.generator.Provider(),
		"model":    s.generator.Model(),
	}

	raw, err := decodeBody(c)
	if err != nil {
		logrus.WithFields(fields).Info("score request body too large")
		s.renderError(c, http.StatusRequestEntityTooLarge, err)
		return
	}
	req, err := scoring.ParseRequest(raw)
	if err != nil {
		logrus.WithFields(fields).WithField("kind", scoring.KindOf(err)).Info("score request rejected")
		s.renderError(c, scoring.StatusOf(err), err)
		return
	}
	fields["idea_length"] = len(req.Idea)
	fields["has_previous"] = req.PreviousScore != nil

	result, err := s.scorer.ScoreRequest(c.Request.Context(), req)
	fields["duration"] = time.Since(start)
	if err != nil {
		logrus.WithFields(fields).WithField("kind", scoring.KindOf(err)).WithError(err).Warn("score request failed")
		s.renderError(c, scoring.StatusOf(err), err)
		return
	}

	fields["score"] = result.ScoreOutOf10
	logrus.WithFields(fields).Info("idea scored")
	c.JSON(http.StatusOK, ScoreResponse{Result: result})
}
