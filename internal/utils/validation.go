package utils

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/rotation"
)

// ValidateRotationTemplateTiming 检查模板在给定周期长度下能否换算出合法的时长。
// 环上的补偿运算只能隐式地防住一部分负时长，零时长或负时长的模板（以及超过
// 一个完整周期的模板）在这里显式拒绝，而不是留给下游默默接受。
func ValidateRotationTemplateTiming(tpl *domain.RotationTemplate, rotationLength int32) error {
	timing, err := rotation.ComputeTiming(rotationLength, tpl.StartDayOffset, tpl.EndDayOffset, tpl.StartTime, tpl.EndTime)
	if err != nil {
		return err
	}

	if timing.Duration <= 0 {
		return &domain.ValidationError{Message: fmt.Sprintf("模板时长必须为正，当前为 %s", timing.Duration)}
	}
	if timing.Duration > time.Duration(rotationLength)*24*time.Hour {
		return &domain.ValidationError{Message: fmt.Sprintf("模板时长 %s 超过了轮换周期长度 %d 天", timing.Duration, rotationLength)}
	}
	if int(tpl.StartDayOffset) >= int(rotationLength) || int(tpl.EndDayOffset) >= int(rotationLength) {
		return &domain.ValidationError{Message: fmt.Sprintf("天数下标必须小于轮换周期长度 %d", rotationLength)}
	}

	return nil
}

// ValidateRosterState 检查排班配置是否可用于展开
func ValidateRosterState(state *domain.RosterState) error {
	if state.RotationLength < 1 {
		return &domain.ValidationError{Message: "轮换周期长度至少为 1 天"}
	}
	if state.RotationStartDate.IsZero() {
		return &domain.ValidationError{Message: "轮换起始日期不能为空"}
	}
	if _, err := time.LoadLocation(state.TimeZone); err != nil {
		return &domain.ValidationError{Message: fmt.Sprintf("时区 %s 无效", state.TimeZone)}
	}
	return nil
}
