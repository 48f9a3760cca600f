package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (r *Repository) GetRosterState(tenantID int64) (*domain.RosterState, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT rotation_length, rotation_start_date, time_zone, created_at, version
		FROM roster_states
		WHERE tenant_id = $1
	`

	state := &domain.RosterState{
		TenantID: tenantID,
	}

	dst := []any{&state.RotationLength, &state.RotationStartDate, &state.TimeZone, &state.CreatedAt, &state.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, tenantID).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("租户 %d 的排班配置: %w", tenantID, domain.ErrNotFound)
		}
		return nil, err
	}

	return state, nil
}

func (r *Repository) CreateRosterState(state *domain.RosterState) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO roster_states (tenant_id, rotation_length, rotation_start_date, time_zone)
		VALUES ($1, $2, $3, $4)
		RETURNING created_at, version
	`

	args := []any{state.TenantID, state.RotationLength, state.RotationStartDate, state.TimeZone}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&state.CreatedAt, &state.Version); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateRosterState(state *domain.RosterState) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE roster_states
		SET
			rotation_length = $1,
			rotation_start_date = $2,
			time_zone = $3,
			version = version + 1
		WHERE tenant_id = $4 AND version = $5
		RETURNING version
	`

	args := []any{state.RotationLength, state.RotationStartDate, state.TimeZone, state.TenantID, state.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&state.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("更新租户 %d 的排班配置: %w", state.TenantID, domain.ErrConflict)
		}
		return err
	}

	return nil
}
