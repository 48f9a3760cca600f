package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (r *Repository) scanVehicleRows(rows *sql.Rows) ([]*domain.Vehicle, error) {
	vehiclesMap := make(map[int64]*domain.Vehicle)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			TenantID  int64
			Name      string
			CreatedAt time.Time
			Version   int32

			SkillID sql.NullInt64
		}

		dst := []any{&row.ID, &row.TenantID, &row.Name, &row.CreatedAt, &row.Version, &row.SkillID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		vehicle, exists := vehiclesMap[row.ID]
		if !exists {
			vehicle = &domain.Vehicle{
				ID:                  row.ID,
				TenantID:            row.TenantID,
				Name:                row.Name,
				SkillProficiencySet: domain.NewSkillSet(),
				CreatedAt:           row.CreatedAt,
				Version:             row.Version,
			}
			vehiclesMap[row.ID] = vehicle
			order = append(order, row.ID)
		}

		if !row.SkillID.Valid {
			continue
		}

		vehicle.SkillProficiencySet.Add(row.SkillID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	vehicles := make([]*domain.Vehicle, 0, len(order))
	for _, id := range order {
		vehicles = append(vehicles, vehiclesMap[id])
	}

	return vehicles, nil
}

func (r *Repository) GetAllVehicles(tenantID int64) ([]*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT v.id, v.tenant_id, v.name, v.created_at, v.version, vps.skill_id
		FROM vehicles v
		LEFT JOIN vehicle_proficient_skills vps ON v.id = vps.vehicle_id
		WHERE v.tenant_id = $1
		ORDER BY v.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanVehicleRows(rows)
}

func (r *Repository) GetVehicle(id int64) (*domain.Vehicle, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT v.id, v.tenant_id, v.name, v.created_at, v.version, vps.skill_id
		FROM vehicles v
		LEFT JOIN vehicle_proficient_skills vps ON v.id = vps.vehicle_id
		WHERE v.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	vehicles, err := r.scanVehicleRows(rows)
	if err != nil {
		return nil, err
	}
	if len(vehicles) == 0 {
		return nil, fmt.Errorf("车辆 %d: %w", id, domain.ErrNotFound)
	}

	return vehicles[0], nil
}

func (r *Repository) CreateVehicle(vehicle *domain.Vehicle) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.TransactionTimeout)*time.Second)
	defer cancel()

	tx, err := r.dbpool.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer func() {
		_ = tx.Rollback()
	}()

	query := `
		INSERT INTO vehicles (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, vehicle.TenantID, vehicle.Name).Scan(&vehicle.ID, &vehicle.CreatedAt, &vehicle.Version); err != nil {
		return err
	}

	for _, skillID := range vehicle.SkillProficiencySet.IDs() {
		query = `
			INSERT INTO vehicle_proficient_skills (vehicle_id, skill_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, vehicle.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteVehicle(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM vehicles WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
