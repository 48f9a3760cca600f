package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func rotationHeader() []string {
	return []string{"SPOT", "SKILLS", "SKILLS2", "START_DAY", "START_TIME", "END_DAY", "END_TIME", "TYPE"}
}

func storeWithSpot(t *testing.T, rotationLength int32) *fakeStore {
	t.Helper()
	store := newFakeStore(rotationLength)
	spot := &domain.Spot{TenantID: 1, Code: "L1-AM", Name: "1路早班", RequiredSkillSet: domain.NewSkillSet()}
	if err := store.CreateSpot(spot); err != nil {
		t.Fatal(err)
	}
	return store
}

func TestImportRotationTemplates(t *testing.T) {
	store := storeWithSpot(t, 7)
	imp := newTestImporter(store)

	rows := [][]string{
		rotationHeader(),
		{"L1-AM", "A1驾照", "新能源车型", "0", "06:00:00", "0", "14:00:00", "0"},
		{""},
		{"L1-AM", "", "", "6", "22:00:00", "0", "06:00:00", "1"}, // 回绕班次
	}

	templates, err := imp.ImportRotationTemplates(1, rows)
	if err != nil {
		t.Fatalf("ImportRotationTemplates: %v", err)
	}
	if len(templates) != 2 {
		t.Fatalf("len(templates) = %d, want 2", len(templates))
	}

	first := templates[0]
	if first.Type != domain.ShiftTypeOneway {
		t.Errorf("首个模板类型 = %s, want ONEWAY", first.Type)
	}
	if first.RequiredSkillSet.Len() != 1 || first.RequiredSkillSet2.Len() != 1 {
		t.Errorf("首个模板技能集长度 = %d/%d, want 1/1", first.RequiredSkillSet.Len(), first.RequiredSkillSet2.Len())
	}
	if first.RotationEmployeeID != nil || first.RotationVehicleID != nil {
		t.Error("导入的模板不应带轮换默认资源")
	}

	second := templates[1]
	if second.Type != domain.ShiftTypeReturn {
		t.Errorf("第二个模板类型 = %s, want RETURN", second.Type)
	}
	if second.StartDayOffset != 6 || second.EndDayOffset != 0 {
		t.Errorf("第二个模板天数下标 = %d/%d, want 6/0", second.StartDayOffset, second.EndDayOffset)
	}

	// 同一岗位允许多个模板
	if len(store.templates) != 2 {
		t.Errorf("入库模板数 = %d, want 2", len(store.templates))
	}
}

func TestImportRotationTemplatesMissingSpotAborts(t *testing.T) {
	store := storeWithSpot(t, 7)
	imp := newTestImporter(store)

	rows := [][]string{
		rotationHeader(),
		{"L1-AM", "", "", "0", "06:00:00", "0", "14:00:00", "0"},
		{"NO-SUCH", "", "", "0", "06:00:00", "0", "14:00:00", "0"},
	}

	_, err := imp.ImportRotationTemplates(1, rows)
	if !errors.Is(err, domain.ErrNotFound) {
		t.Fatalf("缺失岗位应使整个导入失败, got %v", err)
	}
	if !strings.Contains(err.Error(), "第 3 行") {
		t.Errorf("错误信息应包含行号: %s", err)
	}
	// 整个文件回绝，前面的合法行也不入库
	if len(store.templates) != 0 {
		t.Errorf("失败的导入不应写入任何模板, got %d", len(store.templates))
	}
}

func TestImportRotationTemplatesInvalidRows(t *testing.T) {
	tests := []struct {
		name string
		row  []string
	}{
		{"天数下标非数字", []string{"L1-AM", "", "", "x", "06:00:00", "0", "14:00:00", "0"}},
		{"天数下标为负", []string{"L1-AM", "", "", "-1", "06:00:00", "0", "14:00:00", "0"}},
		{"时间格式错误", []string{"L1-AM", "", "", "0", "6am", "0", "14:00:00", "0"}},
		{"类型下标越界", []string{"L1-AM", "", "", "0", "06:00:00", "0", "14:00:00", "9"}},
		{"零时长", []string{"L1-AM", "", "", "0", "06:00:00", "0", "06:00:00", "0"}},
		{"天数下标超出周期", []string{"L1-AM", "", "", "7", "06:00:00", "7", "14:00:00", "0"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := storeWithSpot(t, 7)
			imp := newTestImporter(store)

			rows := [][]string{rotationHeader(), tt.row}
			if _, err := imp.ImportRotationTemplates(1, rows); err == nil {
				t.Error("应返回错误")
			}
			if len(store.templates) != 0 {
				t.Error("失败的导入不应写入任何模板")
			}
		})
	}
}

func TestImportRotationTemplatesWithoutRosterState(t *testing.T) {
	store := storeWithSpot(t, 7)
	store.state = nil
	imp := newTestImporter(store)

	rows := [][]string{
		rotationHeader(),
		{"L1-AM", "", "", "0", "06:00:00", "0", "14:00:00", "0"},
	}

	if _, err := imp.ImportRotationTemplates(1, rows); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("缺失排班配置应返回 ErrNotFound, got %v", err)
	}
}
