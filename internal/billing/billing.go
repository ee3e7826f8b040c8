package billing

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/stripe/stripe-go/v76"
	"github.com/stripe/stripe-go/v76/checkout/session"
	"github.com/stripe/stripe-go/v76/webhook"

	"validateai/backend/internal/store"
)

// Config holds Stripe credentials and checkout settings.
type Config struct {
	SecretKey     string `yaml:"secret_key"`
	PriceMonthly  string `yaml:"price_monthly"`
	PriceYearly   string `yaml:"price_yearly"`
	WebhookSecret string `yaml:"webhook_secret"`
	AppURL        string `yaml:"app_url"`
	AppName       string `yaml:"app_name"`
	TrialDays     int    `yaml:"trial_days"`
}

// Plan is a subscription billing interval.
type Plan string

const (
	PlanMonthly Plan = "monthly"
	PlanYearly  Plan = "yearly"
)

// ParsePlan accepts "yearly"; everything else is monthly.
func ParsePlan(value string) Plan {
	if strings.TrimSpace(value) == string(PlanYearly) {
		return PlanYearly
	}
	return PlanMonthly
}

var (
	ErrDisabled         = errors.New("billing disabled")
	ErrMissingUser      = errors.New("Missing user_id")
	ErrInvalidSignature = errors.New("invalid webhook signature")
)

// ConfigError reports a setting that must be present for the operation.
type ConfigError struct {
	Name string
}

func (e *ConfigError) Error() string { return "Missing " + e.Name }

type sessionCreator interface {
	New(params *stripe.CheckoutSessionParams) (*stripe.CheckoutSession, error)
}

// Service creates Checkout Sessions and interprets subscription webhooks.
type Service struct {
	cfg      Config
	sessions sessionCreator
}

func NewService(cfg Config) (*Service, error) {
	key := strings.TrimSpace(cfg.SecretKey)
	if key == "" {
		return nil, ErrDisabled
	}
	return newService(cfg, &session.Client{B: stripe.GetBackend(stripe.APIBackend), Key: key}), nil
}

func newService(cfg Config, sessions sessionCreator) *Service {
	if strings.TrimSpace(cfg.AppName) == "" {
		cfg.AppName = "validate-ai"
	}
	if cfg.TrialDays <= 0 {
		cfg.TrialDays = 30
	}
	cfg.AppURL = strings.TrimRight(strings.TrimSpace(cfg.AppURL), "/")
	return &Service{cfg: cfg, sessions: sessions}
}

// Checkout opens a subscription Checkout Session and returns its hosted URL.
// Monthly plans start with a free trial.
func (s *Service) Checkout(ctx context.Context, userID string, plan Plan) (string, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return "", ErrMissingUser
	}
	price, priceEnv := s.cfg.PriceMonthly, "STRIPE_PRICE_ID_MONTHLY"
	if plan == PlanYearly {
		price, priceEnv = s.cfg.PriceYearly, "STRIPE_PRICE_ID_YEARLY"
	}
	if strings.TrimSpace(price) == "" {
		return "", &ConfigError{Name: priceEnv}
	}
	if s.cfg.AppURL == "" {
		return "", &ConfigError{Name: "APP_URL"}
	}

	metadata := map[string]string{
		"user_id": userID,
		"app":     s.cfg.AppName,
		"plan":    string(plan),
	}
	subscription := &stripe.CheckoutSessionSubscriptionDataParams{Metadata: metadata}
	if plan == PlanMonthly {
		subscription.TrialPeriodDays = stripe.Int64(int64(s.cfg.TrialDays))
	}
	params := &stripe.CheckoutSessionParams{
		Mode: stripe.String(string(stripe.CheckoutSessionModeSubscription)),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{Price: stripe.String(price), Quantity: stripe.Int64(1)},
		},
		SuccessURL:        stripe.String(s.cfg.AppURL + "/success?session_id={CHECKOUT_SESSION_ID}"),
		CancelURL:         stripe.String(s.cfg.AppURL + "/pricing"),
		ClientReferenceID: stripe.String(userID),
		SubscriptionData:  subscription,
	}
	for key, value := range metadata {
		params.AddMetadata(key, value)
	}
	params.Context = ctx

	sess, err := s.sessions.New(params)
	if err != nil {
		return "", fmt.Errorf("create checkout session: %w", err)
	}
	return sess.URL, nil
}

var subscriptionEvents = map[string]bool{
	"customer.subscription.created": true,
	"customer.subscription.updated": true,
	"customer.subscription.deleted": true,
}

// ParseWebhook verifies a webhook delivery and extracts the subscription state
// it carries. ok is false for events that do not touch a profile.
func (s *Service) ParseWebhook(payload []byte, signature string) (state store.SubscriptionState, ok bool, err error) {
	secret := strings.TrimSpace(s.cfg.WebhookSecret)
	if secret == "" {
		return state, false, &ConfigError{Name: "STRIPE_WEBHOOK_SECRET"}
	}
	event, err := webhook.ConstructEventWithOptions(payload, signature, secret, webhook.ConstructEventOptions{
		IgnoreAPIVersionMismatch: true,
	})
	if err != nil {
		return state, false, fmt.Errorf("%w: %v", ErrInvalidSignature, err)
	}
	if !subscriptionEvents[string(event.Type)] || event.Data == nil {
		return state, false, nil
	}

	var sub stripe.Subscription
	if err := json.Unmarshal(event.Data.Raw, &sub); err != nil {
		return state, false, fmt.Errorf("decode subscription: %w", err)
	}
	userID := strings.TrimSpace(sub.Metadata["user_id"])
	if userID == "" {
		return state, false, nil
	}

	state = store.SubscriptionState{
		UserID:         userID,
		Plan:           string(ParsePlan(sub.Metadata["plan"])),
		Status:         string(sub.Status),
		SubscriptionID: sub.ID,
	}
	if sub.Customer != nil {
		state.CustomerID = sub.Customer.ID
	}
	if sub.TrialEnd > 0 {
		trialEnd := time.Unix(sub.TrialEnd, 0).UTC()
		state.TrialEnd = &trialEnd
	}
	return state, true, nil
}
