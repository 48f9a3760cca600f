package rotation

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// References 是展开模板时需要的引用数据，由调用方一次性加载好
type References struct {
	Spots     map[int64]*domain.Spot
	Employees map[int64]*domain.Employee
	Vehicles  map[int64]*domain.Vehicle
}

// BuildShiftInstance 根据模板和某一次轮换周期的起始日期生成一个班次实例。
// cycleStartDate 是该周期第一天的日期（只取年月日）；本地时间先按周期内偏移
// 和时长做民用历法运算，再各自按时区规则解析为绝对时间。
// 轮换默认的员工/车辆同时作为初始指派和快照，两个槽默认未锁定。
func BuildShiftInstance(tpl *domain.RotationTemplate, state *domain.RosterState, refs *References, cycleStartDate time.Time) (*domain.ShiftInstance, error) {
	timing, err := ComputeTiming(state.RotationLength, tpl.StartDayOffset, tpl.EndDayOffset, tpl.StartTime, tpl.EndTime)
	if err != nil {
		return nil, err
	}

	spot, exists := refs.Spots[tpl.SpotID]
	if !exists {
		return nil, fmt.Errorf("模板 %d 引用的岗位 %d: %w", tpl.ID, tpl.SpotID, domain.ErrNotFound)
	}

	cycleStart := time.Date(cycleStartDate.Year(), cycleStartDate.Month(), cycleStartDate.Day(), 0, 0, 0, 0, time.UTC)
	civilStart := cycleStart.Add(timing.OffsetFromRotationStart)
	civilEnd := civilStart.Add(timing.Duration)

	start, end, err := Materialize(state.TimeZone, civilStart, civilEnd)
	if err != nil {
		return nil, err
	}

	si := domain.NewShiftInstance(tpl.TenantID, spot, start, end)
	si.Type = tpl.Type
	si.RequiredSkillSet = tpl.RequiredSkillSet2

	if tpl.RotationEmployeeID != nil {
		employee, exists := refs.Employees[*tpl.RotationEmployeeID]
		if !exists {
			return nil, fmt.Errorf("模板 %d 引用的员工 %d: %w", tpl.ID, *tpl.RotationEmployeeID, domain.ErrNotFound)
		}
		si.Employee = domain.ResourceSlot[domain.Employee]{Rotation: employee, Original: employee, Current: employee}
	}

	if tpl.RotationVehicleID != nil {
		vehicle, exists := refs.Vehicles[*tpl.RotationVehicleID]
		if !exists {
			return nil, fmt.Errorf("模板 %d 引用的车辆 %d: %w", tpl.ID, *tpl.RotationVehicleID, domain.ErrNotFound)
		}
		si.Vehicle = domain.ResourceSlot[domain.Vehicle]{Rotation: vehicle, Original: vehicle, Current: vehicle}
	}

	return si, nil
}

// ExpandTemplates 在 [from, to) 范围内展开所有模板：
// 从 RosterState 的轮换起始日期开始，每隔一个周期长度产生一次周期起点，
// 每个周期起点对每个模板生成一个实例，只保留开始时间落在范围内的实例。
func ExpandTemplates(templates []*domain.RotationTemplate, state *domain.RosterState, refs *References, from, to time.Time) ([]*domain.ShiftInstance, error) {
	if !to.After(from) {
		return nil, &domain.ValidationError{Message: "展开范围的结束时间必须晚于开始时间"}
	}

	instances := make([]*domain.ShiftInstance, 0)

	cycleStart := state.RotationStartDate
	// 周期起点本身可以早于 from，只要周期内还有班次落在范围内就要展开，
	// 因此多回退一个周期再开始扫描
	for cycleStart.AddDate(0, 0, int(state.RotationLength)).Before(from) {
		cycleStart = cycleStart.AddDate(0, 0, int(state.RotationLength))
	}

	// 东侧时区里本地 00:00 的绝对时刻早于同一日期的 UTC 零点，
	// 周期起点等于 to 时当期仍可能有班次落在范围内，因此多扫描一天，
	// 由下面的逐实例过滤负责排除范围外的班次
	scanEnd := to.AddDate(0, 0, 1)
	for cycleStart.Before(scanEnd) {
		for _, tpl := range templates {
			si, err := BuildShiftInstance(tpl, state, refs, cycleStart)
			if err != nil {
				return nil, err
			}
			if si.StartDateTime().Before(from) || !si.StartDateTime().Before(to) {
				continue
			}
			instances = append(instances, si)
		}
		cycleStart = cycleStart.AddDate(0, 0, int(state.RotationLength))
	}

	return instances, nil
}
