package models

import (
	"errors"
	"time"

	"gorm.io/gorm"
)

// SubscriptionKind distinguishes what a subscription points at.
type SubscriptionKind string

const (
	SubscribeAuthor SubscriptionKind = "author"
	SubscribeHub    SubscriptionKind = "hub"
)

// SubscriptionTarget names exactly one author or one hub.
type SubscriptionTarget struct {
	Kind SubscriptionKind
	ID   uint
}

// AuthorTarget targets a user.
func AuthorTarget(userID uint) SubscriptionTarget {
	return SubscriptionTarget{Kind: SubscribeAuthor, ID: userID}
}

// HubTarget targets a tech hub.
func HubTarget(hubID uint) SubscriptionTarget {
	return SubscriptionTarget{Kind: SubscribeHub, ID: hubID}
}

// Column is the subscriptions column holding this target's id.
func (t SubscriptionTarget) Column() string {
	if t.Kind == SubscribeHub {
		return "tech_hub_id"
	}
	return "channel_id"
}

var (
	ErrSubscriptionTarget = errors.New("subscription must target exactly one author or hub")
	ErrSelfSubscription   = errors.New("cannot subscribe to self")
)

// Subscription links a subscriber to an author (ChannelID) or a hub
// (TechHubID). Exactly one of the two is set.
type Subscription struct {
	ID           uint      `gorm:"primaryKey" json:"id"`
	SubscriberID uint      `gorm:"not null;uniqueIndex:idx_subscriptions_subscriber_channel;uniqueIndex:idx_subscriptions_subscriber_hub" json:"subscriberId"`
	ChannelID    *uint     `gorm:"uniqueIndex:idx_subscriptions_subscriber_channel;index" json:"channelId,omitempty"`
	Channel      *User     `gorm:"foreignKey:ChannelID" json:"channel,omitempty"`
	TechHubID    *uint     `gorm:"uniqueIndex:idx_subscriptions_subscriber_hub;index" json:"techHubId,omitempty"`
	TechHub      *TechHub  `gorm:"foreignKey:TechHubID" json:"techHub,omitempty"`
	CreatedAt    time.Time `json:"createdAt"`
}

// NewSubscription builds the row for subscriberID following target.
func NewSubscription(subscriberID uint, target SubscriptionTarget) *Subscription {
	id := target.ID
	sub := &Subscription{SubscriberID: subscriberID}
	if target.Kind == SubscribeHub {
		sub.TechHubID = &id
	} else {
		sub.ChannelID = &id
	}
	return sub
}

// Target recovers the tagged form of the row.
func (s *Subscription) Target() (SubscriptionTarget, error) {
	switch {
	case s.ChannelID != nil && s.TechHubID == nil:
		return AuthorTarget(*s.ChannelID), nil
	case s.TechHubID != nil && s.ChannelID == nil:
		return HubTarget(*s.TechHubID), nil
	}
	return SubscriptionTarget{}, ErrSubscriptionTarget
}

// BeforeSave rejects rows that are not a valid tagged union.
func (s *Subscription) BeforeSave(_ *gorm.DB) error {
	target, err := s.Target()
	if err != nil {
		return err
	}
	if target.Kind == SubscribeAuthor && target.ID == s.SubscriberID {
		return ErrSelfSubscription
	}
	return nil
}
