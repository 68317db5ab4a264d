// Package model contains the GORM persistence models.
package model

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// RouteModel is the persistence model for a saved route. Waypoints and
// enrichment are stored as JSONB documents so coordinate values round-trip
// without loss.
type RouteModel struct {
	ID         uuid.UUID      `gorm:"column:id;type:uuid;primaryKey;default:uuid_generate_v4()"`
	OwnerID    uuid.UUID      `gorm:"column:owner_id;type:uuid;not null;index"`
	Name       string         `gorm:"column:name;type:varchar(255);not null"`
	Waypoints  datatypes.JSON `gorm:"column:waypoints;type:jsonb;not null"`
	Enrichment datatypes.JSON `gorm:"column:enrichment;type:jsonb"`
	CreatedAt  time.Time      `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt  time.Time      `gorm:"column:updated_at;autoUpdateTime"`
}

// TableName specifies the table name for the RouteModel.
func (RouteModel) TableName() string {
	return "routes"
}
