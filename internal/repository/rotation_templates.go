package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// rotation_template_skills 的 skill_set 列区分两个技能集：1 为员工侧，2 为车辆侧

func (r *Repository) scanRotationTemplateRows(rows *sql.Rows) ([]*domain.RotationTemplate, error) {
	templatesMap := make(map[int64]*domain.RotationTemplate)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID                 int64
			TenantID           int64
			SpotID             int64
			RotationEmployeeID sql.NullInt64
			RotationVehicleID  sql.NullInt64
			StartDayOffset     int32
			StartTime          string
			EndDayOffset       int32
			EndTime            string
			Type               string
			CreatedAt          time.Time
			Version            int32

			SkillID  sql.NullInt64
			SkillSet sql.NullInt32
		}

		dst := []any{
			&row.ID,
			&row.TenantID,
			&row.SpotID,
			&row.RotationEmployeeID,
			&row.RotationVehicleID,
			&row.StartDayOffset,
			&row.StartTime,
			&row.EndDayOffset,
			&row.EndTime,
			&row.Type,
			&row.CreatedAt,
			&row.Version,
			&row.SkillID,
			&row.SkillSet,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		tpl, exists := templatesMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个模板，需要在 map 中初始化这个模板
			tpl = &domain.RotationTemplate{
				ID:                row.ID,
				TenantID:          row.TenantID,
				SpotID:            row.SpotID,
				RequiredSkillSet:  domain.NewSkillSet(),
				RequiredSkillSet2: domain.NewSkillSet(),
				StartDayOffset:    row.StartDayOffset,
				StartTime:         row.StartTime,
				EndDayOffset:      row.EndDayOffset,
				EndTime:           row.EndTime,
				Type:              domain.ShiftType(row.Type),
				CreatedAt:         row.CreatedAt,
				Version:           row.Version,
			}
			if row.RotationEmployeeID.Valid {
				tpl.RotationEmployeeID = &row.RotationEmployeeID.Int64
			}
			if row.RotationVehicleID.Valid {
				tpl.RotationVehicleID = &row.RotationVehicleID.Int64
			}
			templatesMap[row.ID] = tpl
			order = append(order, row.ID)
		}

		// 如果 skillID 为空，则表示这个模板没有任何技能要求
		if !row.SkillID.Valid {
			continue
		}

		if row.SkillSet.Int32 == 2 {
			tpl.RequiredSkillSet2.Add(row.SkillID.Int64)
		} else {
			tpl.RequiredSkillSet.Add(row.SkillID.Int64)
		}
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	templates := make([]*domain.RotationTemplate, 0, len(order))
	for _, id := range order {
		templates = append(templates, templatesMap[id])
	}

	return templates, nil
}

const rotationTemplateSelectColumns = `
	rt.id,
	rt.tenant_id,
	rt.spot_id,
	rt.rotation_employee_id,
	rt.rotation_vehicle_id,
	rt.start_day_offset,
	rt.start_time,
	rt.end_day_offset,
	rt.end_time,
	rt.type,
	rt.created_at,
	rt.version,
	rts.skill_id,
	rts.skill_set
`

func (r *Repository) GetAllRotationTemplates(tenantID int64) ([]*domain.RotationTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + rotationTemplateSelectColumns + `
		FROM rotation_templates rt
		LEFT JOIN rotation_template_skills rts ON rt.id = rts.template_id
		WHERE rt.tenant_id = $1
		ORDER BY rt.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanRotationTemplateRows(rows)
}

func (r *Repository) GetRotationTemplate(id int64) (*domain.RotationTemplate, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + rotationTemplateSelectColumns + `
		FROM rotation_templates rt
		LEFT JOIN rotation_template_skills rts ON rt.id = rts.template_id
		WHERE rt.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	templates, err := r.scanRotationTemplateRows(rows)
	if err != nil {
		return nil, err
	}
	if len(templates) == 0 {
		return nil, fmt.Errorf("轮换模板 %d: %w", id, domain.ErrNotFound)
	}

	return templates[0], nil
}

func (r *Repository) CreateRotationTemplate(tpl *domain.RotationTemplate) error {
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
		INSERT INTO rotation_templates
			(tenant_id, spot_id, rotation_employee_id, rotation_vehicle_id, start_day_offset, start_time, end_day_offset, end_time, type)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at, version
	`
	args := []any{
		tpl.TenantID,
		tpl.SpotID,
		tpl.RotationEmployeeID,
		tpl.RotationVehicleID,
		tpl.StartDayOffset,
		tpl.StartTime,
		tpl.EndDayOffset,
		tpl.EndTime,
		string(tpl.Type),
	}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&tpl.ID, &tpl.CreatedAt, &tpl.Version); err != nil {
		return err
	}

	for _, skillID := range tpl.RequiredSkillSet.IDs() {
		query = `
			INSERT INTO rotation_template_skills (template_id, skill_id, skill_set)
			VALUES ($1, $2, 1)
		`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, skillID); err != nil {
			return err
		}
	}
	for _, skillID := range tpl.RequiredSkillSet2.IDs() {
		query = `
			INSERT INTO rotation_template_skills (template_id, skill_id, skill_set)
			VALUES ($1, $2, 2)
		`
		if _, err := tx.ExecContext(ctx, query, tpl.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteRotationTemplate(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM rotation_templates WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
