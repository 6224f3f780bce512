package domain

import "time"

// BrewRequest is the body of POST /brews on both services.
type BrewRequest struct {
	Type string `json:"type"`
}

func NewBrewRequest(t CoffeeType) BrewRequest {
	return BrewRequest{Type: t.Wire()}
}

type BrewStartedEvent struct {
	BrewID    string     `json:"brew_id"`
	Type      CoffeeType `json:"type"`
	Timestamp time.Time  `json:"timestamp"`
}
