package rotation

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

const dayDuration = 24 * time.Hour

// ParseTimeOfDay 将 HH:mm 或 HH:mm:ss 格式的文本解析为距当天零点的时长
func ParseTimeOfDay(text string) (time.Duration, error) {
	t, err := time.Parse("15:04:05", text)
	if err != nil {
		t, err = time.Parse("15:04", text)
		if err != nil {
			return 0, &domain.ValidationError{Message: fmt.Sprintf("时间格式错误: %s", text)}
		}
	}
	return time.Duration(t.Hour())*time.Hour +
		time.Duration(t.Minute())*time.Minute +
		time.Duration(t.Second())*time.Second, nil
}

// TemplateTiming 是模板相对于轮换周期起点的派生时间信息
type TemplateTiming struct {
	OffsetFromRotationStart time.Duration // 周期起点到班次开始的时长
	Duration                time.Duration // 班次时长
}

// ComputeTiming 把模板的天数下标和当日时间换算成 (周期内偏移, 班次时长)。
// 模板定义在一个长度为 rotationLength 天的环上：当 endDayOffset 在数值上
// 小于 startDayOffset 时，班次跨过了周期边界，先补上一个完整周期再取天数差，
// 使时长恢复为正。
func ComputeTiming(rotationLength, startDayOffset, endDayOffset int32, startTime, endTime string) (TemplateTiming, error) {
	if rotationLength <= 0 {
		return TemplateTiming{}, &domain.ValidationError{Message: fmt.Sprintf("轮换周期长度 %d 无效", rotationLength)}
	}
	if startDayOffset < 0 || endDayOffset < 0 {
		return TemplateTiming{}, &domain.ValidationError{Message: "天数下标不能为负"}
	}

	startOfDay, err := ParseTimeOfDay(startTime)
	if err != nil {
		return TemplateTiming{}, err
	}
	endOfDay, err := ParseTimeOfDay(endTime)
	if err != nil {
		return TemplateTiming{}, err
	}

	var wrap int32 = 0
	if endDayOffset < startDayOffset {
		wrap = rotationLength
	}

	return TemplateTiming{
		OffsetFromRotationStart: time.Duration(startDayOffset)*dayDuration + startOfDay,
		Duration: time.Duration(wrap)*dayDuration +
			time.Duration(endDayOffset-startDayOffset)*dayDuration +
			endOfDay - startOfDay,
	}, nil
}
