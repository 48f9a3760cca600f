package importer

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/utils"
)

// 模板表的列: 岗位 code AND 技能列表 车辆技能列表 startDayOffset startTime endDayOffset endTime 班次类型下标

// ImportRotationTemplates 解析轮换模板行并入库。
// 模板行引用的岗位必须已经存在，找不到时整个导入失败（不是跳过该行）。
// 周期长度从排班配置中读取一次，应用于整个文件。
func (imp *Importer) ImportRotationTemplates(tenantID int64, rows [][]string) ([]*domain.RotationTemplate, error) {
	state, err := imp.roster.GetRosterState(tenantID)
	if err != nil {
		return nil, err
	}

	templates := make([]*domain.RotationTemplate, 0, len(rows))

	for i, row := range rows {
		if i == 0 {
			// 表头行
			continue
		}
		spotCode := cell(row, 0)
		if spotCode == "" {
			// 空白分隔行
			continue
		}

		spot, err := imp.spots.FindSpotByCode(tenantID, spotCode)
		if err != nil {
			if errors.Is(err, domain.ErrNotFound) {
				return nil, fmt.Errorf("第 %d 行引用的岗位 %q 不存在: %w", i+1, spotCode, err)
			}
			return nil, err
		}

		requiredSkillSet, err := imp.resolveSkillList(tenantID, cell(row, 1))
		if err != nil {
			return nil, err
		}
		requiredSkillSet2, err := imp.resolveSkillList(tenantID, cell(row, 2))
		if err != nil {
			return nil, err
		}

		startDayOffset, err := parseDayOffset(cell(row, 3), i)
		if err != nil {
			return nil, err
		}
		endDayOffset, err := parseDayOffset(cell(row, 5), i)
		if err != nil {
			return nil, err
		}

		typeIndex, err := strconv.Atoi(cell(row, 7))
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("第 %d 行的班次类型 %q 不是整数", i+1, cell(row, 7))}
		}
		shiftType, err := domain.ShiftTypeFromIndex(typeIndex)
		if err != nil {
			return nil, err
		}

		tpl := &domain.RotationTemplate{
			TenantID:          tenantID,
			SpotID:            spot.ID,
			RequiredSkillSet:  requiredSkillSet,
			RequiredSkillSet2: requiredSkillSet2,
			// 导入文件中不指定轮换默认员工和车辆
			RotationEmployeeID: nil,
			RotationVehicleID:  nil,
			StartDayOffset:     startDayOffset,
			StartTime:          cell(row, 4),
			EndDayOffset:       endDayOffset,
			EndTime:            cell(row, 6),
			Type:               shiftType,
		}

		if err := utils.ValidateRotationTemplateTiming(tpl, state.RotationLength); err != nil {
			return nil, fmt.Errorf("第 %d 行: %w", i+1, err)
		}

		templates = append(templates, tpl)
	}

	for _, tpl := range templates {
		if err := imp.templates.CreateRotationTemplate(tpl); err != nil {
			return nil, err
		}
	}

	return templates, nil
}

func parseDayOffset(text string, rowIndex int) (int32, error) {
	offset, err := strconv.Atoi(text)
	if err != nil || offset < 0 {
		return 0, &domain.ValidationError{Message: fmt.Sprintf("第 %d 行的天数下标 %q 无效", rowIndex+1, text)}
	}
	return int32(offset), nil
}
