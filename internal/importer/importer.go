// Package importer 实现岗位表和轮换模板表的表格导入：
// 第一行是表头跳过，首格为空的行视为空白分隔行跳过，
// 技能名按逗号拆分、去空白、去空项后逐个解析（不存在则创建）。
package importer

import (
	"strings"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// SkillDirectory 按名称解析技能，不存在时创建（见 repository.ResolveSkill）
type SkillDirectory interface {
	ResolveSkill(tenantID int64, name string) (*domain.Skill, error)
}

type SpotStore interface {
	FindSpotByCode(tenantID int64, code string) (*domain.Spot, error)
	CreateSpot(spot *domain.Spot) error
	UpdateSpot(spot *domain.Spot) error
}

type TemplateStore interface {
	CreateRotationTemplate(tpl *domain.RotationTemplate) error
}

type RosterStateStore interface {
	GetRosterState(tenantID int64) (*domain.RosterState, error)
}

type Importer struct {
	skills    SkillDirectory
	spots     SpotStore
	templates TemplateStore
	roster    RosterStateStore
}

func NewImporter(skills SkillDirectory, spots SpotStore, templates TemplateStore, roster RosterStateStore) *Importer {
	return &Importer{
		skills:    skills,
		spots:     spots,
		templates: templates,
		roster:    roster,
	}
}

// resolveSkillList 把逗号分隔的技能名文本解析为技能集合，行内重复的名字会合并
func (imp *Importer) resolveSkillList(tenantID int64, listText string) (domain.SkillSet, error) {
	set := domain.NewSkillSet()

	for _, name := range strings.Split(listText, ",") {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}

		skill, err := imp.skills.ResolveSkill(tenantID, name)
		if err != nil {
			return nil, err
		}
		set.Add(skill.ID)
	}

	return set, nil
}

func cell(row []string, index int) string {
	if index >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[index])
}
