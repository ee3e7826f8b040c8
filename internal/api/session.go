package api

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"validateai/backend/internal/auth"
)

var errAuthProviderDisabled = errors.New("Magic link sign-in is not configured")

func (s *Server) handleMagicLink(c *gin.Context) {
	if s.authProvider == nil {
		s.renderError(c, http.StatusServiceUnavailable, errAuthProviderDisabled)
		return
	}
	var req MagicLinkRequest
	_ = c.ShouldBindJSON(&req)
	email := strings.TrimSpace(req.Email)
	if email == "" {
		s.renderError(c, http.StatusBadRequest, errors.New("Missing email"))
		return
	}
	if err := s.authProvider.SendMagicLink(c.Request.Context(), email, req.RedirectTo); err != nil {
		logrus.WithError(err).Warn("send magic link")
		s.renderError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "sent"})
}

func (s *Server) handleLogout(c *gin.Context) {
	if s.authProvider == nil {
		s.renderError(c, http.StatusServiceUnavailable, errAuthProviderDisabled)
		return
	}
	if err := s.authProvider.SignOut(c.Request.Context(), auth.BearerToken(c)); err != nil {
		logrus.WithError(err).Warn("sign out")
		s.renderError(c, http.StatusBadGateway, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "signed_out"})
}
