package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func (r *Repository) GetSkillByName(tenantID int64, name string) (*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, created_at, version
		FROM skills
		WHERE tenant_id = $1 AND LOWER(name) = LOWER($2)
	`

	skill := &domain.Skill{
		TenantID: tenantID,
	}

	dst := []any{&skill.ID, &skill.Name, &skill.CreatedAt, &skill.Version}
	if err := r.dbpool.QueryRowContext(ctx, query, tenantID, name).Scan(dst...); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, fmt.Errorf("技能 %q: %w", name, domain.ErrNotFound)
		}
		return nil, err
	}

	return skill, nil
}

func (r *Repository) CreateSkill(skill *domain.Skill) error {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		INSERT INTO skills (tenant_id, name)
		VALUES ($1, $2)
		RETURNING id, created_at, version
	`

	if err := r.dbpool.QueryRowContext(ctx, query, skill.TenantID, skill.Name).Scan(&skill.ID, &skill.CreatedAt, &skill.Version); err != nil {
		return err
	}

	return nil
}

// ResolveSkill 按名称查找技能（不区分大小写），不存在时以传入的显示名创建。
// 并发创建撞上唯一约束时重新查找一次，保证幂等。
func (r *Repository) ResolveSkill(tenantID int64, name string) (*domain.Skill, error) {
	skill, err := r.GetSkillByName(tenantID, name)
	if err == nil {
		return skill, nil
	}
	if !errors.Is(err, domain.ErrNotFound) {
		return nil, err
	}

	skill = &domain.Skill{
		TenantID: tenantID,
		Name:     name,
	}
	if err := r.CreateSkill(skill); err != nil {
		var pgErr *pgconn.PgError
		if errors.As(err, &pgErr) && pgErr.Code == "23505" {
			// 另一个事务刚刚创建了同名技能
			return r.GetSkillByName(tenantID, name)
		}
		return nil, err
	}

	return skill, nil
}

func (r *Repository) GetAllSkills(tenantID int64) ([]*domain.Skill, error) {
	ctx, cancel := context.WithTimeout(context.Background(), time.Duration(r.cfg.Database.QueryTimeout)*time.Second)
	defer cancel()

	query := `
		SELECT id, name, created_at, version
		FROM skills
		WHERE tenant_id = $1
		ORDER BY id
	`

	rows, err := r.dbpool.QueryContext(ctx, query, tenantID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	skills := make([]*domain.Skill, 0)
	for rows.Next() {
		skill := &domain.Skill{
			TenantID: tenantID,
		}
		if err := rows.Scan(&skill.ID, &skill.Name, &skill.CreatedAt, &skill.Version); err != nil {
			return nil, err
		}
		skills = append(skills, skill)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}

	return skills, nil
}
