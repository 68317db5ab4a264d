package service

import (
	"context"

	"itinero/internal/errors"
)

// ErrMalformedNarrative is returned when the narrative backend answers
// with a payload that cannot be parsed against the instruction contract.
var ErrMalformedNarrative = errors.New("narrative backend returned malformed payload")

// PlaceSketch is one suggested place inside a narrative, exactly as the
// backend reported it, before any geocoding.
type PlaceSketch struct {
	Name    string `json:"name"`
	Address string `json:"address"`
	Context string `json:"context"`
	Paid    string `json:"paid"`
}

// NarrativeSketch is the backend's raw analysis of a single address.
type NarrativeSketch struct {
	Address       string        `json:"address"`
	Introduction  string        `json:"introduction"`
	CreationDate  string        `json:"creationDate"`
	PlacesToVisit []PlaceSketch `json:"placesToVisit"`
}

// Narrator produces one NarrativeSketch per input address, in input order,
// by calling a language-model backend with a fixed instruction contract.
type Narrator interface {
	Describe(ctx context.Context, addresses []string) ([]NarrativeSketch, error)
}
