package rotation

import (
	"errors"
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func TestParseTimeOfDay(t *testing.T) {
	tests := []struct {
		text    string
		want    time.Duration
		wantErr bool
	}{
		{"06:00:00", 6 * time.Hour, false},
		{"22:30", 22*time.Hour + 30*time.Minute, false},
		{"23:59:59", 23*time.Hour + 59*time.Minute + 59*time.Second, false},
		{"00:00", 0, false},
		{"25:00", 0, true},
		{"abc", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		got, err := ParseTimeOfDay(tt.text)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseTimeOfDay(%q) 应返回错误", tt.text)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseTimeOfDay(%q): %v", tt.text, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseTimeOfDay(%q) = %v, want %v", tt.text, got, tt.want)
		}
	}
}

func TestComputeTiming(t *testing.T) {
	tests := []struct {
		name           string
		rotationLength int32
		startDayOffset int32
		endDayOffset   int32
		startTime      string
		endTime        string
		wantOffset     time.Duration
		wantDuration   time.Duration
	}{
		{
			name:           "同日班次",
			rotationLength: 7,
			startDayOffset: 0, endDayOffset: 0,
			startTime: "09:00:00", endTime: "17:00:00",
			wantOffset:   9 * time.Hour,
			wantDuration: 8 * time.Hour,
		},
		{
			name:           "跨日不跨周期",
			rotationLength: 7,
			startDayOffset: 2, endDayOffset: 3,
			startTime: "22:00:00", endTime: "06:00:00",
			wantOffset:   2*24*time.Hour + 22*time.Hour,
			wantDuration: 8 * time.Hour,
		},
		{
			name:           "末日回绕到首日",
			rotationLength: 7,
			startDayOffset: 6, endDayOffset: 0,
			startTime: "22:00:00", endTime: "06:00:00",
			wantOffset:   6*24*time.Hour + 22*time.Hour,
			wantDuration: 8 * time.Hour,
		},
		{
			// 末日 22:00 回绕到次周期第 1 天 06:00：补 7 天后时长为 32 小时
			name:           "末日回绕跨入次周期第二天",
			rotationLength: 7,
			startDayOffset: 6, endDayOffset: 1,
			startTime: "22:00:00", endTime: "06:00:00",
			wantOffset:   6*24*time.Hour + 22*time.Hour,
			wantDuration: 32 * time.Hour,
		},
		{
			name:           "回绕恰好补一个周期",
			rotationLength: 28,
			startDayOffset: 27, endDayOffset: 1,
			startTime: "20:00:00", endTime: "08:00:00",
			wantOffset:   27*24*time.Hour + 20*time.Hour,
			wantDuration: 2*24*time.Hour + 12*time.Hour,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ComputeTiming(tt.rotationLength, tt.startDayOffset, tt.endDayOffset, tt.startTime, tt.endTime)
			if err != nil {
				t.Fatalf("ComputeTiming: %v", err)
			}
			if got.OffsetFromRotationStart != tt.wantOffset {
				t.Errorf("OffsetFromRotationStart = %v, want %v", got.OffsetFromRotationStart, tt.wantOffset)
			}
			if got.Duration != tt.wantDuration {
				t.Errorf("Duration = %v, want %v", got.Duration, tt.wantDuration)
			}
		})
	}
}

func TestComputeTimingWrapAddsExactlyOneRotation(t *testing.T) {
	// 同样的天数差，回绕与否应差恰好一个周期长度
	wrapped, err := ComputeTiming(7, 6, 0, "22:00:00", "06:00:00")
	if err != nil {
		t.Fatalf("ComputeTiming(回绕): %v", err)
	}
	plain, err := ComputeTiming(7, 0, 1, "22:00:00", "06:00:00")
	if err != nil {
		t.Fatalf("ComputeTiming(顺序): %v", err)
	}

	// 6→0 的天数差为 -6，补 7 天后等价于 0→1 的 +1 天
	if wrapped.Duration != plain.Duration {
		t.Errorf("回绕时长 = %v, 顺序时长 = %v, 应相等", wrapped.Duration, plain.Duration)
	}
}

func TestComputeTimingInvalidInputs(t *testing.T) {
	tests := []struct {
		name           string
		rotationLength int32
		startDayOffset int32
		endDayOffset   int32
		startTime      string
		endTime        string
	}{
		{"周期长度为零", 0, 0, 0, "09:00:00", "17:00:00"},
		{"周期长度为负", -7, 0, 0, "09:00:00", "17:00:00"},
		{"开始下标为负", 7, -1, 0, "09:00:00", "17:00:00"},
		{"结束下标为负", 7, 0, -1, "09:00:00", "17:00:00"},
		{"开始时间格式错误", 7, 0, 0, "9am", "17:00:00"},
		{"结束时间格式错误", 7, 0, 0, "09:00:00", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ComputeTiming(tt.rotationLength, tt.startDayOffset, tt.endDayOffset, tt.startTime, tt.endTime)
			if err == nil {
				t.Fatal("应返回错误")
			}
			var validationErr *domain.ValidationError
			if !errors.As(err, &validationErr) {
				t.Errorf("错误类型 = %T, want *domain.ValidationError", err)
			}
		})
	}
}
