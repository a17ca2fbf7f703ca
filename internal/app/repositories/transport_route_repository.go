package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/tmusoke/shulepoint/internal/app/models"
	"github.com/tmusoke/shulepoint/internal/pkg/apperrors"
)

// TransportRouteRepository handles database operations for transport routes
type TransportRouteRepository struct {
	db *pgxpool.Pool
}

// NewTransportRouteRepository creates a new transport route repository
func NewTransportRouteRepository(db *pgxpool.Pool) *TransportRouteRepository {
	return &TransportRouteRepository{db: db}
}

// Create creates a new transport route. The legacy cost_per_term column is
// left null; only pre-migration rows carry it.
func (r *TransportRouteRepository) Create(ctx context.Context, route *models.TransportRoute) error {
	query := `
		INSERT INTO transport_routes (school_id, route_name, one_way_cost_per_term, two_way_cost_per_term)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		route.SchoolID,
		route.RouteName,
		route.OneWayCostPerTerm,
		route.TwoWayCostPerTerm,
	).Scan(&route.ID)
	if err != nil {
		return fmt.Errorf("error creating transport route: %w", err)
	}

	return nil
}

// GetByID retrieves a transport route scoped to a school
func (r *TransportRouteRepository) GetByID(ctx context.Context, schoolID, id int64) (*models.TransportRoute, error) {
	query := `
		SELECT id, school_id, route_name, one_way_cost_per_term, two_way_cost_per_term, cost_per_term
		FROM transport_routes
		WHERE id = $1 AND school_id = $2
	`

	var route models.TransportRoute
	err := r.db.QueryRow(ctx, query, id, schoolID).Scan(
		&route.ID,
		&route.SchoolID,
		&route.RouteName,
		&route.OneWayCostPerTerm,
		&route.TwoWayCostPerTerm,
		&route.CostPerTerm,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrTransportRouteNotFound
		}
		return nil, fmt.Errorf("error retrieving transport route: %w", err)
	}

	return &route, nil
}

// GetBySchool lists the transport routes of a school
func (r *TransportRouteRepository) GetBySchool(ctx context.Context, schoolID int64) ([]*models.TransportRoute, error) {
	query := `
		SELECT id, school_id, route_name, one_way_cost_per_term, two_way_cost_per_term, cost_per_term
		FROM transport_routes
		WHERE school_id = $1
		ORDER BY route_name ASC, id ASC
	`

	rows, err := r.db.Query(ctx, query, schoolID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var routes []*models.TransportRoute
	for rows.Next() {
		var route models.TransportRoute
		if err := rows.Scan(
			&route.ID,
			&route.SchoolID,
			&route.RouteName,
			&route.OneWayCostPerTerm,
			&route.TwoWayCostPerTerm,
			&route.CostPerTerm,
		); err != nil {
			return nil, err
		}
		routes = append(routes, &route)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return routes, nil
}
