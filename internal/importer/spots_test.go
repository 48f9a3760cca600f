package importer

import (
	"errors"
	"strings"
	"testing"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func TestImportSpots(t *testing.T) {
	store := newFakeStore(7)
	imp := newTestImporter(store)

	rows := [][]string{
		{"CODE", "NAME", "NAME_DETAIL", "LENGTH", "DESCRIPTION", "SKILLS"},
		{"L1-AM", "1路早班", "1路公交早班", "8", "早班车", "A1驾照, 夜班资质"},
		{""}, // 空白分隔行
		{"L2-AM", "2路早班", "", "8.5", "", ""},
	}

	spots, err := imp.ImportSpots(1, rows)
	if err != nil {
		t.Fatalf("ImportSpots: %v", err)
	}
	if len(spots) != 2 {
		t.Fatalf("len(spots) = %d, want 2", len(spots))
	}
	if store.createdSpots != 2 || store.updatedSpots != 0 {
		t.Errorf("created = %d, updated = %d, want 2/0", store.createdSpots, store.updatedSpots)
	}

	first := spots[0]
	if first.Code != "L1-AM" || first.Name != "1路早班" || first.Length != 8 {
		t.Errorf("首个岗位解析错误: %+v", first)
	}
	if first.RequiredSkillSet.Len() != 2 {
		t.Errorf("首个岗位技能数 = %d, want 2", first.RequiredSkillSet.Len())
	}
	if spots[1].RequiredSkillSet.Len() != 0 {
		t.Errorf("空技能列应得到空集合")
	}
}

func TestImportSpotsDuplicateCodeFirstWins(t *testing.T) {
	store := newFakeStore(7)
	imp := newTestImporter(store)

	rows := [][]string{
		{"CODE", "NAME", "NAME_DETAIL", "LENGTH", "DESCRIPTION", "SKILLS"},
		{"A1", "第一行", "", "8", "", ""},
		{"a1", "第二行", "", "10", "", ""}, // code 不区分大小写，重复行被丢弃
	}

	spots, err := imp.ImportSpots(1, rows)
	if err != nil {
		t.Fatalf("ImportSpots: %v", err)
	}
	if len(spots) != 1 {
		t.Fatalf("len(spots) = %d, want 1", len(spots))
	}
	if spots[0].Name != "第一行" {
		t.Errorf("保留的岗位 = %s, want 第一行", spots[0].Name)
	}
}

func TestImportSpotsUpdatesExisting(t *testing.T) {
	store := newFakeStore(7)
	imp := newTestImporter(store)

	existing := &domain.Spot{TenantID: 1, Code: "L1-AM", Name: "旧名字", RequiredSkillSet: domain.NewSkillSet()}
	if err := store.CreateSpot(existing); err != nil {
		t.Fatal(err)
	}
	store.createdSpots = 0

	rows := [][]string{
		{"CODE", "NAME", "NAME_DETAIL", "LENGTH", "DESCRIPTION", "SKILLS"},
		{"l1-am", "新名字", "", "8", "", ""}, // 大小写不同也命中已有岗位
	}

	spots, err := imp.ImportSpots(1, rows)
	if err != nil {
		t.Fatalf("ImportSpots: %v", err)
	}
	if store.createdSpots != 0 || store.updatedSpots != 1 {
		t.Errorf("created = %d, updated = %d, want 0/1", store.createdSpots, store.updatedSpots)
	}
	if spots[0].ID != existing.ID {
		t.Errorf("更新后 ID = %d, want %d", spots[0].ID, existing.ID)
	}
	if spots[0].Name != "新名字" {
		t.Errorf("更新后名字 = %s, want 新名字", spots[0].Name)
	}
}

func TestImportSpotsBadLengthAborts(t *testing.T) {
	store := newFakeStore(7)
	imp := newTestImporter(store)

	rows := [][]string{
		{"CODE", "NAME", "NAME_DETAIL", "LENGTH", "DESCRIPTION", "SKILLS"},
		{"L1-AM", "1路早班", "", "eight", "", ""},
	}

	_, err := imp.ImportSpots(1, rows)
	if err == nil {
		t.Fatal("非数字长度应使导入失败")
	}
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("错误类型 = %T, want *domain.ValidationError", err)
	}
	if !strings.Contains(validationErr.Message, "第 2 行") {
		t.Errorf("错误信息应包含行号: %s", validationErr.Message)
	}
	if store.createdSpots != 0 {
		t.Errorf("失败的导入不应写入任何岗位")
	}
}

func TestImportSkillNamesCaseInsensitive(t *testing.T) {
	store := newFakeStore(7)
	imp := newTestImporter(store)

	rows := [][]string{
		{"CODE", "NAME", "NAME_DETAIL", "LENGTH", "DESCRIPTION", "SKILLS"},
		{"S1", "一", "", "8", "", "Nurse"},
		{"S2", "二", "", "8", "", "nurse,  NURSE "},
	}

	spots, err := imp.ImportSpots(1, rows)
	if err != nil {
		t.Fatalf("ImportSpots: %v", err)
	}

	// 三种写法解析为同一个技能
	if len(store.skills) != 1 {
		t.Fatalf("技能数 = %d, want 1", len(store.skills))
	}
	if spots[0].RequiredSkillSet.Len() != 1 || spots[1].RequiredSkillSet.Len() != 1 {
		t.Error("两个岗位的技能集都应只含一个技能")
	}
	if spots[0].RequiredSkillSet.IDs()[0] != spots[1].RequiredSkillSet.IDs()[0] {
		t.Error("两个岗位应引用同一个技能 ID")
	}
}
