package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func testReferences() *References {
	return &References{
		Spots: map[int64]*domain.Spot{
			1: {ID: 1, TenantID: 1, Code: "L1-AM", RequiredSkillSet: domain.NewSkillSet(10)},
		},
		Employees: map[int64]*domain.Employee{
			1: {ID: 1, TenantID: 1, Name: "张伟", SkillProficiencySet: domain.NewSkillSet(10)},
		},
		Vehicles: map[int64]*domain.Vehicle{
			1: {ID: 1, TenantID: 1, Name: "粤B·12345", SkillProficiencySet: domain.NewSkillSet(20)},
		},
	}
}

func testState(rotationLength int32) *domain.RosterState {
	return &domain.RosterState{
		TenantID:          1,
		RotationLength:    rotationLength,
		RotationStartDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC), // 周一
		TimeZone:          "Asia/Shanghai",
	}
}

func testTemplate() *domain.RotationTemplate {
	employeeID := int64(1)
	vehicleID := int64(1)
	return &domain.RotationTemplate{
		ID:                 1,
		TenantID:           1,
		SpotID:             1,
		RequiredSkillSet:   domain.NewSkillSet(10),
		RequiredSkillSet2:  domain.NewSkillSet(20),
		RotationEmployeeID: &employeeID,
		RotationVehicleID:  &vehicleID,
		StartDayOffset:     0,
		StartTime:          "06:00:00",
		EndDayOffset:       0,
		EndTime:            "14:00:00",
		Type:               domain.ShiftTypeOneway,
	}
}

func TestBuildShiftInstance(t *testing.T) {
	refs := testReferences()
	state := testState(7)

	si, err := BuildShiftInstance(testTemplate(), state, refs, state.RotationStartDate)
	if err != nil {
		t.Fatalf("BuildShiftInstance: %v", err)
	}

	if si.Spot.Code != "L1-AM" {
		t.Errorf("Spot.Code = %s, want L1-AM", si.Spot.Code)
	}
	if si.StartDateTime().Hour() != 6 || si.EndDateTime().Hour() != 14 {
		t.Errorf("墙上时间 = %02d:00-%02d:00, want 06:00-14:00", si.StartDateTime().Hour(), si.EndDateTime().Hour())
	}
	if zone, _ := si.StartDateTime().Zone(); zone != "CST" {
		t.Errorf("时区 = %s, want CST", zone)
	}

	// 班次自身的技能集来自模板的第二技能集
	if !si.RequiredSkillSet.Contains(20) || si.RequiredSkillSet.Contains(10) {
		t.Errorf("RequiredSkillSet = %v, want {20}", si.RequiredSkillSet)
	}

	// 轮换默认资源同时作为初始指派和快照
	if si.Employee.Rotation == nil || si.Employee.Rotation.ID != 1 {
		t.Fatal("员工槽的轮换默认值未设置")
	}
	if si.Employee.Current != si.Employee.Rotation || si.Employee.Original != si.Employee.Rotation {
		t.Error("员工槽的初始指派和快照应等于轮换默认值")
	}
	if si.Employee.IsMoved() {
		t.Error("新展开的班次不应视为已移动")
	}
	if si.Vehicle.Current == nil || si.Vehicle.Current.ID != 1 {
		t.Error("车辆槽的初始指派未设置")
	}
}

func TestBuildShiftInstanceMissingReferences(t *testing.T) {
	refs := testReferences()
	state := testState(7)

	tpl := testTemplate()
	tpl.SpotID = 99
	if _, err := BuildShiftInstance(tpl, state, refs, state.RotationStartDate); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("缺失岗位应返回 ErrNotFound, got %v", err)
	}

	tpl = testTemplate()
	missing := int64(99)
	tpl.RotationEmployeeID = &missing
	if _, err := BuildShiftInstance(tpl, state, refs, state.RotationStartDate); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("缺失员工应返回 ErrNotFound, got %v", err)
	}
}

func TestExpandTemplates(t *testing.T) {
	refs := testReferences()
	state := testState(7)
	templates := []*domain.RotationTemplate{testTemplate()}

	// 四周的窗口应恰好展开四个周期。
	// 06:00+08:00 对应前一日 22:00 UTC，窗口整体前移一天把首个周期也包进来
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 28)

	instances, err := ExpandTemplates(templates, state, refs, from, to)
	if err != nil {
		t.Fatalf("ExpandTemplates: %v", err)
	}
	if len(instances) != 4 {
		t.Fatalf("len(instances) = %d, want 4", len(instances))
	}

	// 实例按周期排列，每次间隔一个周期长度
	for i := 1; i < len(instances); i++ {
		gap := instances[i].StartDateTime().Sub(instances[i-1].StartDateTime())
		if gap != 7*24*time.Hour {
			t.Errorf("第 %d 个实例与前一个的间隔 = %v, want 168h", i, gap)
		}
	}

	for _, si := range instances {
		if si.StartDateTime().Before(from) || !si.StartDateTime().Before(to) {
			t.Errorf("实例 %s 的开始时间落在窗口外", si)
		}
	}
}

func TestExpandTemplatesWindowStraddlesCycle(t *testing.T) {
	refs := testReferences()
	state := testState(7)

	// 模板排在周期第 3 天，窗口从周期中间开始，仍应包含当期的班次
	tpl := testTemplate()
	tpl.StartDayOffset = 3
	tpl.EndDayOffset = 3

	from := time.Date(2026, time.March, 4, 0, 0, 0, 0, time.UTC) // 周期第 2 天
	to := from.AddDate(0, 0, 7)

	instances, err := ExpandTemplates([]*domain.RotationTemplate{tpl}, state, refs, from, to)
	if err != nil {
		t.Fatalf("ExpandTemplates: %v", err)
	}
	if len(instances) != 1 {
		t.Fatalf("len(instances) = %d, want 1", len(instances))
	}

	want := time.Date(2026, time.March, 5, 6, 0, 0, 0, instances[0].StartDateTime().Location())
	if !instances[0].StartDateTime().Equal(want) {
		t.Errorf("开始时间 = %v, want %v", instances[0].StartDateTime(), want)
	}
}

func TestExpandTemplatesToBoundaryEasternZone(t *testing.T) {
	refs := testReferences()
	state := testState(7)

	// 周期第 0 天本地 00:00 的班次：东八区里它的绝对时刻是前一日 16:00 UTC。
	// 窗口结束端点恰好等于下一个周期起点时，该周期的这个班次仍落在范围内
	tpl := testTemplate()
	tpl.StartTime = "00:00:00"
	tpl.EndTime = "06:00:00"

	from := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 0, 7) // 2026-03-09，等于第二个周期的起始日期

	instances, err := ExpandTemplates([]*domain.RotationTemplate{tpl}, state, refs, from, to)
	if err != nil {
		t.Fatalf("ExpandTemplates: %v", err)
	}

	// 第一个周期的班次开始于 03-01 16:00 UTC，早于 from，被过滤；
	// 第二个周期的班次开始于 03-08 16:00 UTC（= 03-09 00:00 CST），在范围内
	want := time.Date(2026, time.March, 8, 16, 0, 0, 0, time.UTC)
	found := false
	for _, si := range instances {
		if si.StartDateTime().Equal(want) {
			found = true
		}
		if si.StartDateTime().Before(from) || !si.StartDateTime().Before(to) {
			t.Errorf("实例 %s 的开始时间落在窗口外", si)
		}
	}
	if !found {
		t.Fatalf("缺少开始于 %v 的班次，实际生成 %d 个", want, len(instances))
	}
}

func TestExpandTemplatesInvalidRange(t *testing.T) {
	refs := testReferences()
	state := testState(7)

	from := time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC)
	if _, err := ExpandTemplates(nil, state, refs, from, from); err == nil {
		t.Error("空窗口应返回错误")
	}
	if _, err := ExpandTemplates(nil, state, refs, from, from.AddDate(0, 0, -1)); err == nil {
		t.Error("倒置窗口应返回错误")
	}
}
