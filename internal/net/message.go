package net

import "canvastream/internal/state"

// Message is the envelope written to a collector, one per batch.
type Message struct {
	Type    string         `json:"type"`
	Origin  string         `json:"origin,omitempty"`
	Samples []state.Sample `json:"samples,omitempty"`
}

const typeSamples = "samples"
