package api

import (
	"errors"
	"io"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"

	"validateai/backend/internal/auth"
	"validateai/backend/internal/billing"
)

const maxWebhookBytes = 512 << 10

var errBillingDisabled = errors.New("Billing is not configured")

func (s *Server) handleCheckout(c *gin.Context) {
	if s.billing == nil {
		s.renderError(c, http.StatusServiceUnavailable, errBillingDisabled)
		return
	}
	var req CheckoutRequest
	if c.Request.ContentLength != 0 {
		if err := c.ShouldBindJSON(&req); err != nil {
			s.renderError(c, http.StatusBadRequest, errors.New("invalid request body"))
			return
		}
	}
	userID := strings.TrimSpace(req.UserID)
	if user, ok := auth.UserFromContext(c); ok {
		userID = user.ID
	}
	plan := billing.ParsePlan(req.Plan)

	url, err := s.billing.Checkout(c.Request.Context(), userID, plan)
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrMissingUser) {
			status = http.StatusBadRequest
		}
		logrus.WithError(err).WithField("plan", plan).Warn("checkout failed")
		s.renderError(c, status, err)
		return
	}
	logrus.WithField("plan", plan).Info("checkout session created")
	c.JSON(http.StatusOK, gin.H{"url": url})
}

func (s *Server) handleBillingWebhook(c *gin.Context) {
	if s.billing == nil {
		s.renderError(c, http.StatusServiceUnavailable, errBillingDisabled)
		return
	}
	payload, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBytes))
	if err != nil {
		s.renderError(c, http.StatusRequestEntityTooLarge, err)
		return
	}

	state, ok, err := s.billing.ParseWebhook(payload, c.GetHeader("Stripe-Signature"))
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, billing.ErrInvalidSignature) {
			status = http.StatusBadRequest
		}
		logrus.WithError(err).Warn("reject billing webhook")
		s.renderError(c, status, err)
		return
	}
	if ok {
		if err := s.db.ApplySubscription(c.Request.Context(), state); err != nil {
			s.renderError(c, http.StatusInternalServerError, err)
			return
		}
		logrus.WithFields(logrus.Fields{
			"status":       state.Status,
			"plan":         state.Plan,
			"subscription": state.SubscriptionID,
		}).Info("subscription synced")
	}
	c.JSON(http.StatusOK, gin.H{"received": true})
}
