package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (r *Repository) scanEmployeeRows(rows *sql.Rows) ([]*domain.Employee, error) {
	employeesMap := make(map[int64]*domain.Employee)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID        int64
			TenantID  int64
			Name      string
			Email     string
			CreatedAt time.Time
			Version   int32

			SkillID sql.NullInt64
		}

		dst := []any{&row.ID, &row.TenantID, &row.Name, &row.Email, &row.CreatedAt, &row.Version, &row.SkillID}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		employee, exists := employeesMap[row.ID]
		if !exists {
			employee = &domain.Employee{
				ID:                  row.ID,
				TenantID:            row.TenantID,
				Name:                row.Name,
				Email:               row.Email,
				SkillProficiencySet: domain.NewSkillSet(),
				CreatedAt:           row.CreatedAt,
				Version:             row.Version,
			}
			employeesMap[row.ID] = employee
			order = append(order, row.ID)
		}

		// 如果 skillID 为空，则表示这个员工没有任何技能
		if !row.SkillID.Valid {
			continue
		}

		employee.SkillProficiencySet.Add(row.SkillID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	employees := make([]*domain.Employee, 0, len(order))
	for _, id := range order {
		employees = append(employees, employeesMap[id])
	}

	return employees, nil
}

func (r *Repository) GetAllEmployees(tenantID int64) ([]*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT e.id, e.tenant_id, e.name, e.email, e.created_at, e.version, eps.skill_id
		FROM employees e
		LEFT JOIN employee_proficient_skills eps ON e.id = eps.employee_id
		WHERE e.tenant_id = $1
		ORDER BY e.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanEmployeeRows(rows)
}

func (r *Repository) GetEmployee(id int64) (*domain.Employee, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT e.id, e.tenant_id, e.name, e.email, e.created_at, e.version, eps.skill_id
		FROM employees e
		LEFT JOIN employee_proficient_skills eps ON e.id = eps.employee_id
		WHERE e.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	employees, err := r.scanEmployeeRows(rows)
	if err != nil {
		return nil, err
	}
	if len(employees) == 0 {
		return nil, fmt.Errorf("员工 %d: %w", id, domain.ErrNotFound)
	}

	return employees[0], nil
}

func (r *Repository) CreateEmployee(employee *domain.Employee) error {
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
		INSERT INTO employees (tenant_id, name, email)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, version
	`
	if err := tx.QueryRowContext(ctx, query, employee.TenantID, employee.Name, employee.Email).Scan(&employee.ID, &employee.CreatedAt, &employee.Version); err != nil {
		return err
	}

	for _, skillID := range employee.SkillProficiencySet.IDs() {
		query = `
			INSERT INTO employee_proficient_skills (employee_id, skill_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateEmployee(employee *domain.Employee) error {
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
		UPDATE employees
		SET
			name = $1,
			email = $2,
			version = version + 1
		WHERE id = $3 AND version = $4
		RETURNING version
	`

	args := []any{employee.Name, employee.Email, employee.ID, employee.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&employee.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("更新员工 %d: %w", employee.ID, domain.ErrConflict)
		}
		return err
	}

	query = `DELETE FROM employee_proficient_skills WHERE employee_id = $1`
	if _, err := tx.ExecContext(ctx, query, employee.ID); err != nil {
		return err
	}

	for _, skillID := range employee.SkillProficiencySet.IDs() {
		query = `
			INSERT INTO employee_proficient_skills (employee_id, skill_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, employee.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteEmployee(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM employees WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
