package api

import (
	"math"
	"time"

	"validateai/backend/internal/scoring"
	"validateai/backend/internal/store"
)

// ScoreResponse wraps a scoring result.
type ScoreResponse struct {
	Result scoring.Result `json:"result"`
}

// SaveHistoryRequest is the body of POST /api/history.
type SaveHistoryRequest struct {
	Idea   string `json:"idea"`
	Result any    `json:"result"`
}

// HistoryItemDTO is the API representation of a stored score.
type HistoryItemDTO struct {
	ID           string        `json:"id"`
	Idea         string        `json:"idea"`
	Result       any           `json:"result"`
	ScoreOutOf10 int           `json:"score_out_of_10"`
	Verdict      string        `json:"verdict"`
	VerdictLabel scoring.Label `json:"verdict_label"`
	CreatedAt    time.Time     `json:"created_at"`
}

// HistoryResponse holds a page of history items and the total count.
type HistoryResponse struct {
	Items []HistoryItemDTO `json:"items"`
	Total int64            `json:"total"`
}

// LatestScoreResponse carries the previous_score candidate; null when none.
type LatestScoreResponse struct {
	ScoreOutOf10 *int `json:"score_out_of_10"`
}

// ProfileDTO reports plan and trial state.
type ProfileDTO struct {
	UserID             string     `json:"user_id"`
	Plan               string     `json:"plan"`
	SubscriptionStatus string     `json:"subscription_status"`
	TrialEnd           *time.Time `json:"trial_end"`
	TrialDaysLeft      *int       `json:"trial_days_left"`
}

// CheckoutRequest is the body of POST /api/checkout.
type CheckoutRequest struct {
	UserID string `json:"user_id"`
	Plan   string `json:"plan"`
}

// MagicLinkRequest is the body of POST /api/auth/magic-link.
type MagicLinkRequest struct {
	Email      string `json:"email"`
	RedirectTo string `json:"redirect_to"`
}

// HistoryItemFromModel converts the storage model to the API DTO.
func HistoryItemFromModel(row store.IdeaScore) HistoryItemDTO {
	return HistoryItemDTO{
		ID:           row.ID,
		Idea:         row.Idea,
		Result:       row.Result(),
		ScoreOutOf10: row.ScoreOutOf10,
		Verdict:      row.Verdict,
		VerdictLabel: scoring.VerdictLabel(row.Verdict),
		CreatedAt:    row.CreatedAt,
	}
}

// ProfileFromModel converts the profile row, computing days left at now.
func ProfileFromModel(profile store.Profile, now time.Time) ProfileDTO {
	return ProfileDTO{
		UserID:             profile.UserID,
		Plan:               profile.Plan,
		SubscriptionStatus: profile.SubscriptionStatus,
		TrialEnd:           profile.TrialEnd,
		TrialDaysLeft:      trialDaysLeft(profile.TrialEnd, now),
	}
}

// trialDaysLeft rounds partial days up and never goes below zero.
func trialDaysLeft(trialEnd *time.Time, now time.Time) *int {
	if trialEnd == nil {
		return nil
	}
	days := 0
	if remaining := trialEnd.Sub(now); remaining > 0 {
		days = int(math.Ceil(remaining.Hours() / 24))
	}
	return &days
}
