package rotation

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// Materialize 把一对无时区的本地时间按 zoneID 的时区规则解析为带偏移的绝对时间。
// 入参的本地时间以 time.Time 承载，只取其年月日时分秒字段，Location 被忽略。
// 每个时间点各自按当地当时的偏移规则解析，因此同一个墙上时间在夏令时切换前后
// 会得到不同的绝对偏移；切换时重复出现的本地时间取 Go 时区规则查找所选的偏移。
// 本层不保证 end 晚于 start，顺序由调用方负责。
func Materialize(zoneID string, civilStart, civilEnd time.Time) (time.Time, time.Time, error) {
	loc, err := time.LoadLocation(zoneID)
	if err != nil {
		return time.Time{}, time.Time{}, &domain.ValidationError{Message: fmt.Sprintf("时区 %s 无效", zoneID)}
	}
	return inLocation(civilStart, loc), inLocation(civilEnd, loc), nil
}

func inLocation(civil time.Time, loc *time.Location) time.Time {
	return time.Date(civil.Year(), civil.Month(), civil.Day(),
		civil.Hour(), civil.Minute(), civil.Second(), civil.Nanosecond(), loc)
}
