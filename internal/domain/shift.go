package domain

import (
	"encoding/json"
	"fmt"
	"sync/atomic"
	"time"
)

// ResourceSlot 是班次实例上一类可指派资源的状态：
// 当前指派、创建（或上次发布）时的快照、轮换默认值、以及用户锁定标记。
// 员工槽和车辆槽共用同一个类型，避免两份字段各自漂移。
type ResourceSlot[T any] struct {
	Rotation *T
	Original *T
	Current  *T
	Pinned   bool
}

func (s *ResourceSlot[T]) Assign(v *T) {
	s.Current = v
}

// ResetProvenance 以当前指派为新的基准，此后 IsMoved 重新从 false 开始
func (s *ResourceSlot[T]) ResetProvenance() {
	s.Original = s.Current
}

// IsMoved 当且仅当当前指派与快照不是同一个对象时为真（按指针比较，双 nil 视为未移动）
func (s *ResourceSlot[T]) IsMoved() bool {
	return s.Original != s.Current
}

// ShiftInstance 是某个轮换周期内模板展开出来的一次具体班次，
// 外部求解器反复读写其中的员工槽和车辆槽。
// 起止时间通过 setter 修改以便让 lengthInMinutes 缓存失效，
// 其余字段的并发纪律由求解器自行保证（通常每个搜索线程持有私有副本）。
type ShiftInstance struct {
	ID               int64
	TenantID         int64
	Spot             *Spot
	RequiredSkillSet SkillSet // 来自模板的第二技能集，用于车辆技能校验
	Type             ShiftType
	Employee         ResourceSlot[Employee]
	Vehicle          ResourceSlot[Vehicle]
	Version          int32

	startDateTime time.Time
	endDateTime   time.Time

	// 线程安全的分钟数缓存，-1 表示未计算。
	// 写入方在修改起止时间时原子地置为 -1，读取方发现未计算时重算并写回；
	// 重算是起止时间的纯函数，多个读取方重复计算无害。
	lengthInMinutes atomic.Int64
}

func NewShiftInstance(tenantID int64, spot *Spot, startDateTime, endDateTime time.Time) *ShiftInstance {
	si := &ShiftInstance{
		TenantID:         tenantID,
		Spot:             spot,
		RequiredSkillSet: NewSkillSet(),
		Type:             ShiftTypeOneway,
		startDateTime:    startDateTime,
		endDateTime:      endDateTime,
	}
	si.lengthInMinutes.Store(-1)
	return si
}

func (si *ShiftInstance) StartDateTime() time.Time {
	return si.startDateTime
}

func (si *ShiftInstance) SetStartDateTime(t time.Time) {
	si.startDateTime = t
	si.lengthInMinutes.Store(-1)
}

func (si *ShiftInstance) EndDateTime() time.Time {
	return si.endDateTime
}

func (si *ShiftInstance) SetEndDateTime(t time.Time) {
	si.endDateTime = t
	si.lengthInMinutes.Store(-1)
}

func (si *ShiftInstance) LengthInMinutes() int64 {
	if cached := si.lengthInMinutes.Load(); cached >= 0 {
		return cached
	}
	length := int64(si.endDateTime.Sub(si.startDateTime) / time.Minute)
	si.lengthInMinutes.Store(length)
	return length
}

func (si *ShiftInstance) SetEmployee(e *Employee) {
	si.Employee.Assign(e)
}

func (si *ShiftInstance) SetVehicle(v *Vehicle) {
	si.Vehicle.Assign(v)
}

// ResetProvenance 在班表发布时调用，两个槽都以当前指派为新基准
func (si *ShiftInstance) ResetProvenance() {
	si.Employee.ResetProvenance()
	si.Vehicle.ResetProvenance()
}

// HasRequiredSkills 判断当前员工是否具备岗位要求的全部技能。
// 约定由调用方先确认已指派员工，未指派时返回 false 而不是 panic。
func (si *ShiftInstance) HasRequiredSkills() bool {
	if si.Employee.Current == nil {
		return false
	}
	return si.Employee.Current.SkillProficiencySet.ContainsAll(si.Spot.RequiredSkillSet)
}

// HasRequiredVehicleSkills 判断当前车辆是否具备班次自身要求的全部技能
// （注意数据来源是模板的第二技能集，不是岗位的技能集）
func (si *ShiftInstance) HasRequiredVehicleSkills() bool {
	if si.Vehicle.Current == nil {
		return false
	}
	return si.Vehicle.Current.SkillProficiencySet.ContainsAll(si.RequiredSkillSet)
}

// Follows 当本班次的开始不早于 other 的结束时为真
func (si *ShiftInstance) Follows(other *ShiftInstance) bool {
	return !si.startDateTime.Before(other.endDateTime)
}

// Precedes 当本班次的结束不晚于 other 的开始时为真
func (si *ShiftInstance) Precedes(other *ShiftInstance) bool {
	return !si.endDateTime.After(other.startDateTime)
}

func (s ResourceSlot[T]) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		Rotation *T   `json:"rotation"`
		Original *T   `json:"original"`
		Current  *T   `json:"current"`
		Pinned   bool `json:"pinned"`
		Moved    bool `json:"moved"`
	}{s.Rotation, s.Original, s.Current, s.Pinned, s.IsMoved()})
}

func (si *ShiftInstance) MarshalJSON() ([]byte, error) {
	return json.Marshal(struct {
		ID               int64                  `json:"id"`
		TenantID         int64                  `json:"tenantID"`
		Spot             *Spot                  `json:"spot"`
		RequiredSkillSet SkillSet               `json:"requiredSkillSet"`
		Type             ShiftType              `json:"type"`
		StartDateTime    time.Time              `json:"startDateTime"`
		EndDateTime      time.Time              `json:"endDateTime"`
		LengthInMinutes  int64                  `json:"lengthInMinutes"`
		Employee         ResourceSlot[Employee] `json:"employee"`
		Vehicle          ResourceSlot[Vehicle]  `json:"vehicle"`
	}{
		ID:               si.ID,
		TenantID:         si.TenantID,
		Spot:             si.Spot,
		RequiredSkillSet: si.RequiredSkillSet,
		Type:             si.Type,
		StartDateTime:    si.startDateTime,
		EndDateTime:      si.endDateTime,
		LengthInMinutes:  si.LengthInMinutes(),
		Employee:         si.Employee,
		Vehicle:          si.Vehicle,
	})
}

func (si *ShiftInstance) String() string {
	return fmt.Sprintf("%s %s-%s", si.Spot.Code, si.startDateTime.Format(time.RFC3339), si.endDateTime.Format(time.RFC3339))
}
