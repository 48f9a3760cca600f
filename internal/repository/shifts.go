package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// 班次实例行里只存引用的 id，读出后再按租户加载岗位、员工、车辆并组装

type shiftInstanceRow struct {
	ID                 int64
	TenantID           int64
	SpotID             int64
	StartDateTime      time.Time
	EndDateTime        time.Time
	Type               string
	RotationEmployeeID sql.NullInt64
	OriginalEmployeeID sql.NullInt64
	CurrentEmployeeID  sql.NullInt64
	EmployeePinned     bool
	RotationVehicleID  sql.NullInt64
	OriginalVehicleID  sql.NullInt64
	CurrentVehicleID   sql.NullInt64
	VehiclePinned      bool
	Version            int32

	skillIDs domain.SkillSet
}

const shiftInstanceSelectColumns = `
	si.id,
	si.tenant_id,
	si.spot_id,
	si.start_date_time,
	si.end_date_time,
	si.type,
	si.rotation_employee_id,
	si.original_employee_id,
	si.current_employee_id,
	si.employee_pinned,
	si.rotation_vehicle_id,
	si.original_vehicle_id,
	si.current_vehicle_id,
	si.vehicle_pinned,
	si.version,
	sis.skill_id
`

func (r *Repository) scanShiftInstanceRows(rows *sql.Rows) ([]*shiftInstanceRow, error) {
	rowsMap := make(map[int64]*shiftInstanceRow)
	order := make([]int64, 0)

	for rows.Next() {
		var row shiftInstanceRow
		var skillID sql.NullInt64

		dst := []any{
			&row.ID,
			&row.TenantID,
			&row.SpotID,
			&row.StartDateTime,
			&row.EndDateTime,
			&row.Type,
			&row.RotationEmployeeID,
			&row.OriginalEmployeeID,
			&row.CurrentEmployeeID,
			&row.EmployeePinned,
			&row.RotationVehicleID,
			&row.OriginalVehicleID,
			&row.CurrentVehicleID,
			&row.VehiclePinned,
			&row.Version,
			&skillID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		existing, exists := rowsMap[row.ID]
		if !exists {
			row.skillIDs = domain.NewSkillSet()
			rowsMap[row.ID] = &row
			order = append(order, row.ID)
			existing = &row
		}

		if skillID.Valid {
			existing.skillIDs.Add(skillID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	result := make([]*shiftInstanceRow, 0, len(order))
	for _, id := range order {
		result = append(result, rowsMap[id])
	}

	return result, nil
}

// assembleShiftInstances 按租户加载引用的实体，把存储行组装成领域对象。
// 一次调用里的行都属于同一个租户。
func (r *Repository) assembleShiftInstances(rows []*shiftInstanceRow) ([]*domain.ShiftInstance, error) {
	if len(rows) == 0 {
		return []*domain.ShiftInstance{}, nil
	}

	tenantID := rows[0].TenantID

	spots, err := r.GetAllSpots(tenantID)
	if err != nil {
		return nil, err
	}
	spotsMap := make(map[int64]*domain.Spot, len(spots))
	for _, spot := range spots {
		spotsMap[spot.ID] = spot
	}

	employees, err := r.GetAllEmployees(tenantID)
	if err != nil {
		return nil, err
	}
	employeesMap := make(map[int64]*domain.Employee, len(employees))
	for _, employee := range employees {
		employeesMap[employee.ID] = employee
	}

	vehicles, err := r.GetAllVehicles(tenantID)
	if err != nil {
		return nil, err
	}
	vehiclesMap := make(map[int64]*domain.Vehicle, len(vehicles))
	for _, vehicle := range vehicles {
		vehiclesMap[vehicle.ID] = vehicle
	}

	instances := make([]*domain.ShiftInstance, 0, len(rows))
	for _, row := range rows {
		spot, ok := spotsMap[row.SpotID]
		if !ok {
			return nil, fmt.Errorf("班次 %d 引用的岗位 %d: %w", row.ID, row.SpotID, domain.ErrNotFound)
		}

		si := domain.NewShiftInstance(row.TenantID, spot, row.StartDateTime, row.EndDateTime)
		si.ID = row.ID
		si.Type = domain.ShiftType(row.Type)
		si.RequiredSkillSet = row.skillIDs
		si.Version = row.Version

		if row.RotationEmployeeID.Valid {
			si.Employee.Rotation = employeesMap[row.RotationEmployeeID.Int64]
		}
		if row.OriginalEmployeeID.Valid {
			si.Employee.Original = employeesMap[row.OriginalEmployeeID.Int64]
		}
		if row.CurrentEmployeeID.Valid {
			si.Employee.Current = employeesMap[row.CurrentEmployeeID.Int64]
		}
		si.Employee.Pinned = row.EmployeePinned

		if row.RotationVehicleID.Valid {
			si.Vehicle.Rotation = vehiclesMap[row.RotationVehicleID.Int64]
		}
		if row.OriginalVehicleID.Valid {
			si.Vehicle.Original = vehiclesMap[row.OriginalVehicleID.Int64]
		}
		if row.CurrentVehicleID.Valid {
			si.Vehicle.Current = vehiclesMap[row.CurrentVehicleID.Int64]
		}
		si.Vehicle.Pinned = row.VehiclePinned

		instances = append(instances, si)
	}

	return instances, nil
}

func (r *Repository) GetShiftInstancesInRange(tenantID int64, from, to time.Time) ([]*domain.ShiftInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftInstanceSelectColumns + `
		FROM shift_instances si
		LEFT JOIN shift_instance_skills sis ON si.id = sis.shift_id
		WHERE si.tenant_id = $1 AND si.start_date_time >= $2 AND si.start_date_time < $3
		ORDER BY si.start_date_time, si.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, from, to)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instanceRows, err := r.scanShiftInstanceRows(rows)
	if err != nil {
		return nil, err
	}

	return r.assembleShiftInstances(instanceRows)
}

func (r *Repository) GetShiftInstance(id int64) (*domain.ShiftInstance, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + shiftInstanceSelectColumns + `
		FROM shift_instances si
		LEFT JOIN shift_instance_skills sis ON si.id = sis.shift_id
		WHERE si.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	instanceRows, err := r.scanShiftInstanceRows(rows)
	if err != nil {
		return nil, err
	}
	if len(instanceRows) == 0 {
		return nil, fmt.Errorf("班次 %d: %w", id, domain.ErrNotFound)
	}

	instances, err := r.assembleShiftInstances(instanceRows)
	if err != nil {
		return nil, err
	}

	return instances[0], nil
}

func nullableID[T any](v *T, id func(*T) int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: id(v), Valid: true}
}

// ReplaceShiftInstancesInRange 在一个事务里删掉窗口内的旧班次并写入新展开的班次
func (r *Repository) ReplaceShiftInstancesInRange(tenantID int64, from, to time.Time, instances []*domain.ShiftInstance) error {
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
		DELETE FROM shift_instances
		WHERE tenant_id = $1 AND start_date_time >= $2 AND start_date_time < $3
	`
	if _, err := tx.ExecContext(ctx, query, tenantID, from, to); err != nil {
		return err
	}

	employeeID := func(e *domain.Employee) int64 { return e.ID }
	vehicleID := func(v *domain.Vehicle) int64 { return v.ID }

	for _, si := range instances {
		query = `
			INSERT INTO shift_instances
				(tenant_id, spot_id, start_date_time, end_date_time, type,
				 rotation_employee_id, original_employee_id, current_employee_id, employee_pinned,
				 rotation_vehicle_id, original_vehicle_id, current_vehicle_id, vehicle_pinned)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
			RETURNING id, version
		`
		args := []any{
			si.TenantID,
			si.Spot.ID,
			si.StartDateTime(),
			si.EndDateTime(),
			string(si.Type),
			nullableID(si.Employee.Rotation, employeeID),
			nullableID(si.Employee.Original, employeeID),
			nullableID(si.Employee.Current, employeeID),
			si.Employee.Pinned,
			nullableID(si.Vehicle.Rotation, vehicleID),
			nullableID(si.Vehicle.Original, vehicleID),
			nullableID(si.Vehicle.Current, vehicleID),
			si.Vehicle.Pinned,
		}
		if err := tx.QueryRowContext(ctx, query, args...).Scan(&si.ID, &si.Version); err != nil {
			return err
		}

		for _, skillID := range si.RequiredSkillSet.IDs() {
			query = `
				INSERT INTO shift_instance_skills (shift_id, skill_id)
				VALUES ($1, $2)
			`
			if _, err := tx.ExecContext(ctx, query, si.ID, skillID); err != nil {
				return err
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

// UpdateShiftAssignment 只更新两个槽的当前指派和锁定标记，带乐观锁
func (r *Repository) UpdateShiftAssignment(si *domain.ShiftInstance) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shift_instances
		SET
			current_employee_id = $1,
			employee_pinned = $2,
			current_vehicle_id = $3,
			vehicle_pinned = $4,
			version = version + 1
		WHERE id = $5 AND version = $6
		RETURNING version
	`

	args := []any{
		nullableID(si.Employee.Current, func(e *domain.Employee) int64 { return e.ID }),
		si.Employee.Pinned,
		nullableID(si.Vehicle.Current, func(v *domain.Vehicle) int64 { return v.ID }),
		si.Vehicle.Pinned,
		si.ID,
		si.Version,
	}
	if err := r.dbpool.QueryRowContext(ctx, query, args...).Scan(&si.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("更新班次 %d 的指派: %w", si.ID, domain.ErrConflict)
		}
		return err
	}

	return nil
}

// PublishShiftInstances 把窗口内所有班次的快照指派重置为当前指派
func (r *Repository) PublishShiftInstances(tenantID int64, from, to time.Time) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		UPDATE shift_instances
		SET
			original_employee_id = current_employee_id,
			original_vehicle_id = current_vehicle_id,
			version = version + 1
		WHERE tenant_id = $1 AND start_date_time >= $2 AND start_date_time < $3
	`

	if _, err := r.dbpool.ExecContext(ctx, query, tenantID, from, to); err != nil {
		return err
	}

	return nil
}
