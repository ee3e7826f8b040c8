package store

import (
	"context"
	"errors"
	"strings"
	"time"

	"gorm.io/gorm/clause"
)

// EnsureProfile creates the user's profile row if missing and returns it.
func (d *Database) EnsureProfile(ctx context.Context, userID string) (*Profile, error) {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return nil, errors.New("user id is empty")
	}
	unlock := d.lockWrites()
	err := d.gorm.WithContext(ctx).
		Clauses(clause.OnConflict{Columns: []clause.Column{{Name: "user_id"}}, DoNothing: true}).
		Create(&Profile{UserID: userID}).Error
	unlock()
	if err != nil {
		return nil, err
	}
	return d.GetProfile(ctx, userID)
}

// GetProfile fetches a profile; gorm.ErrRecordNotFound when absent.
func (d *Database) GetProfile(ctx context.Context, userID string) (*Profile, error) {
	var profile Profile
	if err := d.gorm.WithContext(ctx).Where("user_id = ?", userID).Take(&profile).Error; err != nil {
		return nil, err
	}
	return &profile, nil
}

// ApplySubscription upserts the billing fields of the user's profile.
func (d *Database) ApplySubscription(ctx context.Context, state SubscriptionState) error {
	state.UserID = strings.TrimSpace(state.UserID)
	if state.UserID == "" {
		return errors.New("subscription has no user")
	}
	profile := &Profile{
		UserID:               state.UserID,
		Plan:                 state.Plan,
		SubscriptionStatus:   state.Status,
		StripeCustomerID:     state.CustomerID,
		StripeSubscriptionID: state.SubscriptionID,
		TrialEnd:             state.TrialEnd,
		UpdatedAt:            time.Now(),
	}
	unlock := d.lockWrites()
	defer unlock()
	return d.gorm.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoUpdates: clause.AssignmentColumns([]string{"plan", "subscription_status", "stripe_customer_id", "stripe_subscription_id", "trial_end", "updated_at"}),
	}).Create(profile).Error
}
