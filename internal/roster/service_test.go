package roster

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// fakeStore 在内存中模拟 repository，窗口替换和发布都只操作切片
type fakeStore struct {
	state     *domain.RosterState
	templates []*domain.RotationTemplate
	spots     []*domain.Spot
	employees []*domain.Employee
	vehicles  []*domain.Vehicle
	shifts    []*domain.ShiftInstance

	updatedAssignments int
}

func (f *fakeStore) GetRosterState(tenantID int64) (*domain.RosterState, error) {
	if f.state == nil {
		return nil, fmt.Errorf("租户 %d 的排班配置: %w", tenantID, domain.ErrNotFound)
	}
	return f.state, nil
}

func (f *fakeStore) GetAllRotationTemplates(tenantID int64) ([]*domain.RotationTemplate, error) {
	return f.templates, nil
}

func (f *fakeStore) GetAllSpots(tenantID int64) ([]*domain.Spot, error) {
	return f.spots, nil
}

func (f *fakeStore) GetAllEmployees(tenantID int64) ([]*domain.Employee, error) {
	return f.employees, nil
}

func (f *fakeStore) GetAllVehicles(tenantID int64) ([]*domain.Vehicle, error) {
	return f.vehicles, nil
}

func (f *fakeStore) GetEmployee(id int64) (*domain.Employee, error) {
	for _, e := range f.employees {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, fmt.Errorf("员工 %d: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) GetVehicle(id int64) (*domain.Vehicle, error) {
	for _, v := range f.vehicles {
		if v.ID == id {
			return v, nil
		}
	}
	return nil, fmt.Errorf("车辆 %d: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) GetShiftInstance(id int64) (*domain.ShiftInstance, error) {
	for _, si := range f.shifts {
		if si.ID == id {
			return si, nil
		}
	}
	return nil, fmt.Errorf("班次 %d: %w", id, domain.ErrNotFound)
}

func (f *fakeStore) GetShiftInstancesInRange(tenantID int64, from, to time.Time) ([]*domain.ShiftInstance, error) {
	result := make([]*domain.ShiftInstance, 0)
	for _, si := range f.shifts {
		if !si.StartDateTime().Before(from) && si.StartDateTime().Before(to) {
			result = append(result, si)
		}
	}
	return result, nil
}

func (f *fakeStore) ReplaceShiftInstancesInRange(tenantID int64, from, to time.Time, instances []*domain.ShiftInstance) error {
	kept := make([]*domain.ShiftInstance, 0)
	for _, si := range f.shifts {
		if si.StartDateTime().Before(from) || !si.StartDateTime().Before(to) {
			kept = append(kept, si)
		}
	}
	var nextID int64
	for _, si := range kept {
		if si.ID > nextID {
			nextID = si.ID
		}
	}
	for _, si := range instances {
		nextID++
		si.ID = nextID
	}
	f.shifts = append(kept, instances...)
	return nil
}

func (f *fakeStore) UpdateShiftAssignment(si *domain.ShiftInstance) error {
	f.updatedAssignments++
	return nil
}

func (f *fakeStore) PublishShiftInstances(tenantID int64, from, to time.Time) error {
	for _, si := range f.shifts {
		if !si.StartDateTime().Before(from) && si.StartDateTime().Before(to) {
			si.ResetProvenance()
		}
	}
	return nil
}

func newTestStore() *fakeStore {
	spot := &domain.Spot{ID: 1, TenantID: 1, Code: "L1-AM", RequiredSkillSet: domain.NewSkillSet()}
	employeeID := int64(1)
	return &fakeStore{
		state: &domain.RosterState{
			TenantID:          1,
			RotationLength:    7,
			RotationStartDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			TimeZone:          "Asia/Shanghai",
		},
		templates: []*domain.RotationTemplate{
			{
				ID:                 1,
				TenantID:           1,
				SpotID:             1,
				RequiredSkillSet:   domain.NewSkillSet(),
				RequiredSkillSet2:  domain.NewSkillSet(),
				RotationEmployeeID: &employeeID,
				StartDayOffset:     0,
				StartTime:          "06:00:00",
				EndDayOffset:       0,
				EndTime:            "14:00:00",
				Type:               domain.ShiftTypeOneway,
			},
		},
		spots: []*domain.Spot{spot},
		employees: []*domain.Employee{
			{ID: 1, TenantID: 1, Name: "张伟", Email: "zhangwei@example.com", SkillProficiencySet: domain.NewSkillSet()},
			{ID: 2, TenantID: 1, Name: "李静", Email: "lijing@example.com", SkillProficiencySet: domain.NewSkillSet()},
		},
		vehicles: []*domain.Vehicle{
			{ID: 1, TenantID: 1, Name: "粤B·12345", SkillProficiencySet: domain.NewSkillSet()},
		},
	}
}

func testWindow() (time.Time, time.Time) {
	from := time.Date(2026, time.March, 1, 0, 0, 0, 0, time.UTC)
	return from, from.AddDate(0, 0, 14)
}

func TestGenerateShifts(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)
	from, to := testWindow()

	instances, err := svc.GenerateShifts(1, from, to)
	if err != nil {
		t.Fatalf("GenerateShifts: %v", err)
	}
	if len(instances) != 2 {
		t.Fatalf("len(instances) = %d, want 2", len(instances))
	}
	if len(store.shifts) != 2 {
		t.Errorf("入库班次数 = %d, want 2", len(store.shifts))
	}
	for _, si := range instances {
		if si.Employee.Current == nil || si.Employee.Current.ID != 1 {
			t.Error("展开的班次应带上轮换默认员工")
		}
	}

	// 重新生成会整体替换窗口内的班次
	again, err := svc.GenerateShifts(1, from, to)
	if err != nil {
		t.Fatalf("第二次 GenerateShifts: %v", err)
	}
	if len(store.shifts) != len(again) {
		t.Errorf("重新生成后入库班次数 = %d, want %d", len(store.shifts), len(again))
	}
}

func TestGenerateShiftsWithoutState(t *testing.T) {
	store := newTestStore()
	store.state = nil
	svc := NewService(store)
	from, to := testWindow()

	if _, err := svc.GenerateShifts(1, from, to); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("缺失排班配置应返回 ErrNotFound, got %v", err)
	}
}

func TestApplyAssignment(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)
	from, to := testWindow()

	if _, err := svc.GenerateShifts(1, from, to); err != nil {
		t.Fatal(err)
	}
	shiftID := store.shifts[0].ID

	newEmployee := int64(2)
	updated, err := svc.ApplyAssignment(shiftID, &Assignment{EmployeeID: &newEmployee})
	if err != nil {
		t.Fatalf("ApplyAssignment: %v", err)
	}
	if updated.Employee.Current == nil || updated.Employee.Current.ID != 2 {
		t.Errorf("当前员工 = %v, want ID 2", updated.Employee.Current)
	}
	if !updated.Employee.IsMoved() {
		t.Error("改动指派后应视为已移动")
	}
	if store.updatedAssignments != 1 {
		t.Errorf("写库次数 = %d, want 1", store.updatedAssignments)
	}

	// 清空车辆指派
	if _, err := svc.ApplyAssignment(shiftID, &Assignment{ClearVehicle: true}); err != nil {
		t.Fatalf("清空车辆: %v", err)
	}

	// 引用不存在的员工
	missing := int64(99)
	if _, err := svc.ApplyAssignment(shiftID, &Assignment{EmployeeID: &missing}); !errors.Is(err, domain.ErrNotFound) {
		t.Errorf("不存在的员工应返回 ErrNotFound, got %v", err)
	}
}

func TestApplyAssignmentRejectsPinnedSlot(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)
	from, to := testWindow()

	if _, err := svc.GenerateShifts(1, from, to); err != nil {
		t.Fatal(err)
	}
	shiftID := store.shifts[0].ID

	// 先锁定员工槽
	pin := true
	if _, err := svc.ApplyAssignment(shiftID, &Assignment{PinEmployee: &pin}); err != nil {
		t.Fatalf("锁定员工槽: %v", err)
	}

	// 锁定后改动指派被拒绝
	newEmployee := int64(2)
	_, err := svc.ApplyAssignment(shiftID, &Assignment{EmployeeID: &newEmployee})
	var validationErr *domain.ValidationError
	if !errors.As(err, &validationErr) {
		t.Fatalf("锁定槽的改动应返回 ValidationError, got %v", err)
	}

	// 解锁并改动可以在同一次请求中完成
	unpin := false
	updated, err := svc.ApplyAssignment(shiftID, &Assignment{EmployeeID: &newEmployee, PinEmployee: &unpin})
	if err != nil {
		t.Fatalf("解锁并改动: %v", err)
	}
	if updated.Employee.Current.ID != 2 || updated.Employee.Pinned {
		t.Error("解锁后的改动未生效")
	}
}

func TestPublishRoster(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)
	from, to := testWindow()

	if _, err := svc.GenerateShifts(1, from, to); err != nil {
		t.Fatal(err)
	}

	// 把第一个班次改派给另一个员工
	newEmployee := int64(2)
	if _, err := svc.ApplyAssignment(store.shifts[0].ID, &Assignment{EmployeeID: &newEmployee}); err != nil {
		t.Fatal(err)
	}

	messages, err := svc.PublishRoster(1, from, to)
	if err != nil {
		t.Fatalf("PublishRoster: %v", err)
	}

	// 两个员工各有班次，各收到一封通知
	if len(messages) != 2 {
		t.Fatalf("len(messages) = %d, want 2", len(messages))
	}
	byTo := make(map[string]domain.RosterPublishedMailData)
	for _, msg := range messages {
		if msg.Type != domain.MailTypeRosterPublished {
			t.Errorf("邮件类型 = %s, want %s", msg.Type, domain.MailTypeRosterPublished)
		}
		byTo[msg.To] = msg.Data.(domain.RosterPublishedMailData)
	}
	if data, exists := byTo["lijing@example.com"]; !exists || data.ShiftCount != 1 {
		t.Errorf("李静的通知 = %+v, want 1 个班次", data)
	}
	if data, exists := byTo["zhangwei@example.com"]; !exists || data.ShiftCount != 1 {
		t.Errorf("张伟的通知 = %+v, want 1 个班次", data)
	}

	// 发布后所有班次的快照与当前一致
	for _, si := range store.shifts {
		if si.Employee.IsMoved() || si.Vehicle.IsMoved() {
			t.Error("发布后不应有已移动的班次")
		}
	}
}

func TestGetView(t *testing.T) {
	store := newTestStore()
	svc := NewService(store)
	from, to := testWindow()

	if _, err := svc.GenerateShifts(1, from, to); err != nil {
		t.Fatal(err)
	}

	view, err := svc.GetView(1, from, to)
	if err != nil {
		t.Fatalf("GetView: %v", err)
	}
	if len(view.Shifts) != 2 {
		t.Errorf("len(view.Shifts) = %d, want 2", len(view.Shifts))
	}
	if len(view.Employees) != 2 || len(view.Vehicles) != 1 {
		t.Errorf("值域大小 = %d 员工 / %d 车辆, want 2/1", len(view.Employees), len(view.Vehicles))
	}
	if view.State == nil || view.State.RotationLength != 7 {
		t.Error("视图应包含排班配置")
	}
}
