package rotation

import (
	"testing"
	"time"
)

func civil(year int, month time.Month, day, hour, min int) time.Time {
	return time.Date(year, month, day, hour, min, 0, 0, time.UTC)
}

func TestMaterializeKeepsWallClock(t *testing.T) {
	start, end, err := Materialize("Asia/Shanghai",
		civil(2026, time.March, 2, 6, 0),
		civil(2026, time.March, 2, 14, 0))
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	if start.Hour() != 6 || start.Minute() != 0 {
		t.Errorf("开始墙上时间 = %02d:%02d, want 06:00", start.Hour(), start.Minute())
	}
	if end.Hour() != 14 {
		t.Errorf("结束墙上时间 = %02d:00, want 14:00", end.Hour())
	}
	if got := end.Sub(start); got != 8*time.Hour {
		t.Errorf("时长 = %v, want 8h", got)
	}
}

func TestMaterializeAcrossDSTTransition(t *testing.T) {
	// 美国东部时间 2026-03-08 02:00 进入夏令时，当天少一个小时：
	// 两个端点各自按当地规则解析，绝对时长因此比墙上时长短一小时
	start, end, err := Materialize("America/New_York",
		civil(2026, time.March, 8, 0, 0),
		civil(2026, time.March, 8, 8, 0))
	if err != nil {
		t.Fatalf("Materialize: %v", err)
	}

	_, startOffset := start.Zone()
	_, endOffset := end.Zone()
	if startOffset == endOffset {
		t.Fatalf("切换日两端的 UTC 偏移应不同，都是 %d", startOffset)
	}

	if got := end.Sub(start); got != 7*time.Hour {
		t.Errorf("切换日的绝对时长 = %v, want 7h", got)
	}

	// 墙上时间保持不变
	if start.Hour() != 0 || end.Hour() != 8 {
		t.Errorf("墙上时间 = %02d:00-%02d:00, want 00:00-08:00", start.Hour(), end.Hour())
	}
}

func TestMaterializeInvalidZone(t *testing.T) {
	_, _, err := Materialize("Mars/Olympus", civil(2026, time.March, 2, 6, 0), civil(2026, time.March, 2, 14, 0))
	if err == nil {
		t.Fatal("无效时区应返回错误")
	}
}
