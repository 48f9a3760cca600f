package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (r *Repository) scanSpotRows(rows *sql.Rows) ([]*domain.Spot, error) {
	spotsMap := make(map[int64]*domain.Spot)
	order := make([]int64, 0)

	for rows.Next() {
		var row struct {
			ID          int64
			TenantID    int64
			Code        string
			Name        string
			NameDetail  string
			Description string
			Length      float64
			CreatedAt   time.Time
			Version     int32

			SkillID sql.NullInt64
		}

		dst := []any{
			&row.ID,
			&row.TenantID,
			&row.Code,
			&row.Name,
			&row.NameDetail,
			&row.Description,
			&row.Length,
			&row.CreatedAt,
			&row.Version,
			&row.SkillID,
		}
		if err := rows.Scan(dst...); err != nil {
			return nil, err
		}

		spot, exists := spotsMap[row.ID]
		if !exists {
			// 说明此时是第一次查到这个岗位，需要在 map 中初始化这个岗位
			spot = &domain.Spot{
				ID:               row.ID,
				TenantID:         row.TenantID,
				Code:             row.Code,
				Name:             row.Name,
				NameDetail:       row.NameDetail,
				Description:      row.Description,
				Length:           row.Length,
				RequiredSkillSet: domain.NewSkillSet(),
				CreatedAt:        row.CreatedAt,
				Version:          row.Version,
			}
			spotsMap[row.ID] = spot
			order = append(order, row.ID)
		}

		// 如果 skillID 为空，则表示这个岗位没有任何技能要求
		if !row.SkillID.Valid {
			continue
		}

		spot.RequiredSkillSet.Add(row.SkillID.Int64)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	spots := make([]*domain.Spot, 0, len(order))
	for _, id := range order {
		spots = append(spots, spotsMap[id])
	}

	return spots, nil
}

const spotSelectColumns = `
	s.id,
	s.tenant_id,
	s.code,
	s.name,
	s.name_detail,
	s.description,
	s.length,
	s.created_at,
	s.version,
	srs.skill_id
`

func (r *Repository) GetAllSpots(tenantID int64) ([]*domain.Spot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + spotSelectColumns + `
		FROM spots s
		LEFT JOIN spot_required_skills srs ON s.id = srs.spot_id
		WHERE s.tenant_id = $1
		ORDER BY s.id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	return r.scanSpotRows(rows)
}

func (r *Repository) GetSpot(id int64) (*domain.Spot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + spotSelectColumns + `
		FROM spots s
		LEFT JOIN spot_required_skills srs ON s.id = srs.spot_id
		WHERE s.id = $1
	`

	rows, err := r.dbpool.QueryContext(ctx, query, id)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots, err := r.scanSpotRows(rows)
	if err != nil {
		return nil, err
	}
	if len(spots) == 0 {
		return nil, fmt.Errorf("岗位 %d: %w", id, domain.ErrNotFound)
	}

	return spots[0], nil
}

func (r *Repository) FindSpotByCode(tenantID int64, code string) (*domain.Spot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT ` + spotSelectColumns + `
		FROM spots s
		LEFT JOIN spot_required_skills srs ON s.id = srs.spot_id
		WHERE s.tenant_id = $1 AND LOWER(s.code) = LOWER($2)
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID, code)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	spots, err := r.scanSpotRows(rows)
	if err != nil {
		return nil, err
	}
	if len(spots) == 0 {
		return nil, fmt.Errorf("岗位 %q: %w", code, domain.ErrNotFound)
	}

	return spots[0], nil
}

func (r *Repository) CreateSpot(spot *domain.Spot) error {
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
		INSERT INTO spots (tenant_id, code, name, name_detail, description, length)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, version
	`
	args := []any{spot.TenantID, spot.Code, spot.Name, spot.NameDetail, spot.Description, spot.Length}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&spot.ID, &spot.CreatedAt, &spot.Version); err != nil {
		return err
	}

	for _, skillID := range spot.RequiredSkillSet.IDs() {
		query = `
			INSERT INTO spot_required_skills (spot_id, skill_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, spot.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) UpdateSpot(spot *domain.Spot) error {
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
		UPDATE spots
		SET
			code = $1,
			name = $2,
			name_detail = $3,
			description = $4,
			length = $5,
			version = version + 1
		WHERE id = $6 AND version = $7
		RETURNING version
	`

	args := []any{spot.Code, spot.Name, spot.NameDetail, spot.Description, spot.Length, spot.ID, spot.Version}
	if err := tx.QueryRowContext(ctx, query, args...).Scan(&spot.Version); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return fmt.Errorf("更新岗位 %d: %w", spot.ID, domain.ErrConflict)
		}
		return err
	}

	// 技能要求整体替换
	query = `DELETE FROM spot_required_skills WHERE spot_id = $1`
	if _, err := tx.ExecContext(ctx, query, spot.ID); err != nil {
		return err
	}

	for _, skillID := range spot.RequiredSkillSet.IDs() {
		query = `
			INSERT INTO spot_required_skills (spot_id, skill_id)
			VALUES ($1, $2)
		`
		if _, err := tx.ExecContext(ctx, query, spot.ID, skillID); err != nil {
			return err
		}
	}

	if err := tx.Commit(); err != nil {
		return err
	}

	return nil
}

func (r *Repository) DeleteSpot(id int64) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		DELETE FROM spots WHERE id = $1
	`

	_, err := r.dbpool.ExecContext(ctx, query, id)
	if err != nil {
		return err
	}

	return nil
}
