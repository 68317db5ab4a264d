package entity

import "strings"

// PaidStatus captures whether visiting a place costs money. Besides the
// three canonical values it may hold a literal price string as reported by
// the narrative backend (e.g. "12 EUR").
type PaidStatus string

const (
	PaidStatusFree    PaidStatus = "free"
	PaidStatusPaid    PaidStatus = "paid"
	PaidStatusUnknown PaidStatus = "unknown"
)

// NormalizePaidStatus maps the backend's free-form paid field onto a
// PaidStatus. Unrecognized non-empty values are kept verbatim, since they
// usually carry a concrete price.
func NormalizePaidStatus(raw string) PaidStatus {
	switch strings.ToLower(strings.TrimSpace(raw)) {
	case "":
		return PaidStatusUnknown
	case "no", "free":
		return PaidStatusFree
	case "yes", "paid":
		return PaidStatusPaid
	default:
		return PaidStatus(strings.TrimSpace(raw))
	}
}

// PlaceOfInterest is a suggested place attached to a waypoint narrative.
// Position stays nil when forward geocoding failed or the address was
// empty; that is a valid, displayable terminal state, not an error.
type PlaceOfInterest struct {
	Name     string      `json:"name"`
	Address  string      `json:"address"`
	Context  string      `json:"context"`
	Paid     PaidStatus  `json:"paid"`
	Position *Coordinate `json:"latlng,omitempty"`
}

// LocationNarrative is the narrative produced for a single waypoint.
// WaypointID references the waypoint the narrative was generated for at
// enrichment time; if that waypoint is later removed the narrative is kept
// as an orphaned, still-displayable entry.
type LocationNarrative struct {
	WaypointID       string            `json:"waypointId"`
	OriginAddress    string            `json:"originAddress"`
	Introduction     string            `json:"introduction"`
	EstablishedDate  string            `json:"establishedDate,omitempty"`
	PlacesOfInterest []PlaceOfInterest `json:"placesOfInterest"`
}

// EnrichmentResult is the outcome of one enrichment call over the full
// waypoint list. It is replaced wholesale by the next call and cleared
// together with the waypoints.
type EnrichmentResult struct {
	Narratives []LocationNarrative `json:"narratives"`
}
