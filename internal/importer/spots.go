package importer

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// 岗位表的列: code name nameDetail length description 技能名列表

// ImportSpots 解析岗位行并入库：
// 同一文件内 code 重复（不区分大小写）时保留先出现的行，后续重复行直接丢弃；
// code 已存在于数据库时原地更新（保留 ID 和版本号），否则新建。
func (imp *Importer) ImportSpots(tenantID int64, rows [][]string) ([]*domain.Spot, error) {
	spots := make([]*domain.Spot, 0, len(rows))
	seenCodes := make(map[string]struct{})

	for i, row := range rows {
		if i == 0 {
			// 表头行
			continue
		}
		code := cell(row, 0)
		if code == "" {
			// 空白分隔行
			continue
		}

		if _, seen := seenCodes[strings.ToLower(code)]; seen {
			continue
		}
		seenCodes[strings.ToLower(code)] = struct{}{}

		lengthText := cell(row, 3)
		length, err := strconv.ParseFloat(lengthText, 64)
		if err != nil {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("第 %d 行的长度 %q 不是数字", i+1, lengthText)}
		}

		requiredSkillSet, err := imp.resolveSkillList(tenantID, cell(row, 5))
		if err != nil {
			return nil, err
		}

		spots = append(spots, &domain.Spot{
			TenantID:         tenantID,
			Code:             code,
			Name:             cell(row, 1),
			NameDetail:       cell(row, 2),
			Length:           length,
			Description:      cell(row, 4),
			RequiredSkillSet: requiredSkillSet,
		})
	}

	for _, spot := range spots {
		oldSpot, err := imp.spots.FindSpotByCode(tenantID, spot.Code)
		switch {
		case err == nil:
			spot.ID = oldSpot.ID
			spot.Version = oldSpot.Version
			if err := imp.spots.UpdateSpot(spot); err != nil {
				return nil, err
			}
		case errors.Is(err, domain.ErrNotFound):
			if err := imp.spots.CreateSpot(spot); err != nil {
				return nil, err
			}
		default:
			return nil, err
		}
	}

	return spots, nil
}
