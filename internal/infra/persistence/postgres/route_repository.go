package postgres

import (
	"context"
	"encoding/json"

	"itinero/internal/domain/entity"
	"itinero/internal/domain/repository"
	domainErrors "itinero/internal/domain/errors"
	"itinero/internal/infra/persistence/model"

	"github.com/google/uuid"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

type routeRepository struct {
	db *gorm.DB
}

// NewRouteRepository creates the GORM-backed RouteRepository.
func NewRouteRepository(db *gorm.DB) repository.RouteRepository {
	return &routeRepository{db: db}
}

func (r *routeRepository) CreateRoute(ctx context.Context, route *entity.SavedRoute) error {
	record, err := toModel(route)
	if err != nil {
		return err
	}

	if err := r.db.WithContext(ctx).Create(record).Error; err != nil {
		return domainErrors.NewDatabaseExecuteError(err, "")
	}

	route.ID = record.ID
	route.CreatedAt = record.CreatedAt

	return nil
}

func (r *routeRepository) FindRoutesByOwner(ctx context.Context, ownerID uuid.UUID) ([]*entity.SavedRoute, error) {
	var records []model.RouteModel
	err := r.db.WithContext(ctx).
		Where("owner_id = ?", ownerID).
		Order("created_at DESC").
		Find(&records).Error
	if err != nil {
		return nil, domainErrors.NewDatabaseExecuteError(err, "")
	}

	routes := make([]*entity.SavedRoute, 0, len(records))
	for i := range records {
		route, err := toEntity(&records[i])
		if err != nil {
			return nil, err
		}
		routes = append(routes, route)
	}

	return routes, nil
}

func (r *routeRepository) FindRouteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (*entity.SavedRoute, error) {
	var record model.RouteModel
	err := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		First(&record).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, repository.ErrRouteNotFound
		}

		return nil, domainErrors.NewDatabaseExecuteError(err, "")
	}

	return toEntity(&record)
}

func (r *routeRepository) DeleteRouteByIDAndOwner(ctx context.Context, id, ownerID uuid.UUID) (bool, error) {
	result := r.db.WithContext(ctx).
		Where("id = ? AND owner_id = ?", id, ownerID).
		Delete(&model.RouteModel{})
	if result.Error != nil {
		return false, domainErrors.NewDatabaseExecuteError(result.Error, "")
	}

	return result.RowsAffected > 0, nil
}

func toModel(route *entity.SavedRoute) (*model.RouteModel, error) {
	waypoints, err := json.Marshal(route.Waypoints)
	if err != nil {
		return nil, errors.Wrap(err, "marshal waypoints")
	}

	record := &model.RouteModel{
		ID:        route.ID,
		OwnerID:   route.OwnerID,
		Name:      route.Name,
		Waypoints: waypoints,
	}

	if route.Enrichment != nil {
		enrichment, err := json.Marshal(route.Enrichment)
		if err != nil {
			return nil, errors.Wrap(err, "marshal enrichment")
		}
		record.Enrichment = enrichment
	}

	return record, nil
}

func toEntity(record *model.RouteModel) (*entity.SavedRoute, error) {
	route := &entity.SavedRoute{
		ID:        record.ID,
		OwnerID:   record.OwnerID,
		Name:      record.Name,
		CreatedAt: record.CreatedAt,
	}

	if len(record.Waypoints) > 0 {
		if err := json.Unmarshal(record.Waypoints, &route.Waypoints); err != nil {
			return nil, errors.Wrap(err, "unmarshal waypoints")
		}
	}

	if len(record.Enrichment) > 0 {
		var enrichment entity.EnrichmentResult
		if err := json.Unmarshal(record.Enrichment, &enrichment); err != nil {
			return nil, errors.Wrap(err, "unmarshal enrichment")
		}
		route.Enrichment = &enrichment
	}

	return route, nil
}
