package domain

import (
	"fmt"
	"time"
)

// Channel is an out-of-band delivery channel for one-time codes
type Channel string

const (
	ChannelEmail  Channel = "email"
	ChannelMobile Channel = "mobile"
)

// Channels lists every channel that must be verified before online payment
var Channels = []Channel{ChannelEmail, ChannelMobile}

func (c Channel) Valid() bool {
	return c == ChannelEmail || c == ChannelMobile
}

// ParseChannel converts a raw string to Channel
func ParseChannel(s string) (Channel, error) {
	ch := Channel(s)
	if !ch.Valid() {
		return "", fmt.Errorf("unknown otp channel %q", s)
	}
	return ch, nil
}

// OTPChallenge is the single active code for a (channel, target) pair
type OTPChallenge struct {
	Channel   Channel   `json:"channel"`
	Target    string    `json:"target"`
	Code      string    `json:"code"`
	Attempts  int       `json:"attempts"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// IsExpired reports whether the challenge is past its TTL at the given moment
func (c *OTPChallenge) IsExpired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}
