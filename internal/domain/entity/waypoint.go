package entity

// Waypoint is a user-placed point on the map. The ID is unique within the
// owning session and stable for the waypoint's whole lifetime; only the
// address may change after creation, when a late reverse-geocode resolves.
type Waypoint struct {
	ID       string     `json:"id"`
	Position Coordinate `json:"latlng"`
	Address  string     `json:"address"`
}
