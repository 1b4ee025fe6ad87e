package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rentora/maintenance-back/internal/domain"
)

// PostgresStore implements Store on the platform's hosted relational
// database. No transaction spans the two commit writes; the conditional
// update carries the concurrency guard instead.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("create pg pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping pg: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) GetRequest(ctx context.Context, requestID string) (*domain.MaintenanceRequest, error) {
	var (
		request domain.MaintenanceRequest
		status  string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, org_id, lease_id, submitted_by, description, priority, status, location, owner_phone, created_at, updated_at
		FROM maintenance_requests
		WHERE id = $1
	`, requestID).Scan(
		&request.ID,
		&request.OrgID,
		&request.LeaseID,
		&request.SubmittedBy,
		&request.Description,
		&request.Priority,
		&status,
		&request.Location,
		&request.OwnerPhone,
		&request.CreatedAt,
		&request.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query maintenance request: %w", err)
	}

	parsed, err := domain.ParseRequestStatus(status)
	if err != nil {
		return nil, fmt.Errorf("maintenance request %s: %w", requestID, err)
	}
	request.Status = parsed
	return &request, nil
}

func (s *PostgresStore) MarkRequestInProgress(ctx context.Context, requestID string) error {
	command, err := s.pool.Exec(ctx, `
		UPDATE maintenance_requests
		SET status = $2, updated_at = $3
		WHERE id = $1 AND status = $4
	`, requestID, string(domain.RequestStatusInProgress), time.Now().UTC(), string(domain.RequestStatusOpen))
	if err != nil {
		return fmt.Errorf("mark request in progress: %w", err)
	}
	if command.RowsAffected() == 0 {
		return ErrRequestNotOpen
	}
	return nil
}

func (s *PostgresStore) ListContractorsByOrg(ctx context.Context, orgID string, availableOnly bool) ([]domain.Contractor, error) {
	query := `
		SELECT id, org_id, full_name, skills, location, availability_status, hourly_rate, rating, phone
		FROM contractors
		WHERE org_id = $1
	`
	args := []any{orgID}
	if availableOnly {
		query += " AND availability_status = $2"
		args = append(args, string(domain.AvailabilityAvailable))
	}

	rows, err := s.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list contractors: %w", err)
	}
	defer rows.Close()

	contractors := make([]domain.Contractor, 0)
	for rows.Next() {
		var (
			contractor   domain.Contractor
			availability string
			rating       *float64
		)
		if err := rows.Scan(
			&contractor.ID,
			&contractor.OrgID,
			&contractor.FullName,
			&contractor.Skills,
			&contractor.Location,
			&availability,
			&contractor.HourlyRate,
			&rating,
			&contractor.Phone,
		); err != nil {
			return nil, fmt.Errorf("scan contractor: %w", err)
		}
		contractor.Availability = domain.ParseAvailability(availability)
		if rating != nil {
			contractor.Rating = *rating
		}
		contractors = append(contractors, contractor)
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate contractors: %w", rows.Err())
	}
	return contractors, nil
}

func (s *PostgresStore) CreateWorkOrder(ctx context.Context, order *domain.WorkOrder) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO work_orders (
			id,
			maintenance_request_id,
			contractor_id,
			status,
			estimated_completion,
			notes,
			created_at,
			updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
	`,
		order.ID,
		order.MaintenanceRequestID,
		order.ContractorID,
		string(order.Status),
		order.EstimatedCompletion,
		order.Notes,
		order.CreatedAt,
		order.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert work order: %w", err)
	}
	return nil
}

func (s *PostgresStore) GetWorkOrder(ctx context.Context, orderID string) (*domain.WorkOrder, error) {
	var (
		order  domain.WorkOrder
		status string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT id, maintenance_request_id, contractor_id, status, estimated_completion, notes, created_at, updated_at
		FROM work_orders
		WHERE id = $1
	`, orderID).Scan(
		&order.ID,
		&order.MaintenanceRequestID,
		&order.ContractorID,
		&status,
		&order.EstimatedCompletion,
		&order.Notes,
		&order.CreatedAt,
		&order.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("query work order: %w", err)
	}

	parsed, err := domain.ParseWorkOrderStatus(status)
	if err != nil {
		return nil, fmt.Errorf("work order %s: %w", orderID, err)
	}
	order.Status = parsed
	return &order, nil
}

func (s *PostgresStore) CountActiveWorkOrders(ctx context.Context, contractorIDs []string) (map[string]int, error) {
	counts := make(map[string]int, len(contractorIDs))
	if len(contractorIDs) == 0 {
		return counts, nil
	}

	rows, err := s.pool.Query(ctx, `
		SELECT contractor_id, COUNT(*)
		FROM work_orders
		WHERE contractor_id = ANY($1) AND status = ANY($2)
		GROUP BY contractor_id
	`, contractorIDs, []string{
		string(domain.WorkOrderStatusAssigned),
		string(domain.WorkOrderStatusInProgress),
	})
	if err != nil {
		return nil, fmt.Errorf("count active work orders: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			contractorID string
			count        int
		)
		if err := rows.Scan(&contractorID, &count); err != nil {
			return nil, fmt.Errorf("scan work order count: %w", err)
		}
		counts[contractorID] = count
	}
	if rows.Err() != nil {
		return nil, fmt.Errorf("iterate work order counts: %w", rows.Err())
	}
	return counts, nil
}
