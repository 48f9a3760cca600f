package domain

import (
	"fmt"
	"time"
)

type ShiftType string

const (
	ShiftTypeOneway ShiftType = "ONEWAY"
	ShiftTypeReturn ShiftType = "RETURN"
)

// shiftTypes 的顺序即导入文件中的枚举下标
var shiftTypes = []ShiftType{ShiftTypeOneway, ShiftTypeReturn}

func ShiftTypeFromIndex(index int) (ShiftType, error) {
	if index < 0 || index >= len(shiftTypes) {
		return "", &ValidationError{Message: fmt.Sprintf("班次类型下标 %d 无效", index)}
	}
	return shiftTypes[index], nil
}

// RotationTemplate 描述轮换周期内一个循环班次的定义。
// StartDayOffset 和 EndDayOffset 均为相对于轮换周期起点的天数下标，
// 周期长度（rotationLength）由 RosterState 在展开时提供，不存储在模板上。
type RotationTemplate struct {
	ID                 int64     `json:"id"`
	TenantID           int64     `json:"tenantID"`
	SpotID             int64     `json:"spotID"`
	RequiredSkillSet   SkillSet  `json:"requiredSkillSet"`  // 员工侧技能集（AND 语义）
	RequiredSkillSet2  SkillSet  `json:"requiredSkillSet2"` // 车辆侧技能集
	RotationEmployeeID *int64    `json:"rotationEmployeeID"`
	RotationVehicleID  *int64    `json:"rotationVehicleID"`
	StartDayOffset     int32     `json:"startDayOffset"`
	StartTime          string    `json:"startTime"` // HH:mm 或 HH:mm:ss
	EndDayOffset       int32     `json:"endDayOffset"`
	EndTime            string    `json:"endTime"`
	Type               ShiftType `json:"type"`
	CreatedAt          time.Time `json:"createdAt"`
	Version            int32     `json:"-"`
}
