package store

import (
	"encoding/json"
	"strings"
	"time"
)

// IdeaScore is one scored idea in a user's history.
type IdeaScore struct {
	ID           string `gorm:"primaryKey;size:36"`
	UserID       string `gorm:"size:64;index;not null"`
	Idea         string `gorm:"type:text"`
	ResultJSON   string `gorm:"column:result_json;type:text"`
	ScoreOutOf10 int    `gorm:"column:score_out_of_10"`
	Verdict      string `gorm:"type:text"`
	CreatedAt    time.Time
}

// SetResult stores the result payload as JSON.
func (s *IdeaScore) SetResult(result any) error {
	payload, err := json.Marshal(result)
	if err != nil {
		return err
	}
	s.ResultJSON = string(payload)
	return nil
}

// Result decodes the stored payload into an untyped value.
func (s *IdeaScore) Result() any {
	if strings.TrimSpace(s.ResultJSON) == "" {
		return nil
	}
	var out any
	if err := json.Unmarshal([]byte(s.ResultJSON), &out); err != nil {
		return nil
	}
	return out
}

// Profile holds per-user plan and trial state.
type Profile struct {
	UserID               string `gorm:"primaryKey;size:64"`
	Plan                 string `gorm:"size:32"`
	SubscriptionStatus   string `gorm:"size:32"`
	StripeCustomerID     string `gorm:"size:64"`
	StripeSubscriptionID string `gorm:"size:64;index"`
	TrialEnd             *time.Time
	CreatedAt            time.Time
	UpdatedAt            time.Time
}

// SubscriptionState is the subset of a payment subscription mirrored on a profile.
type SubscriptionState struct {
	UserID         string
	Plan           string
	Status         string
	CustomerID     string
	SubscriptionID string
	TrialEnd       *time.Time
}
