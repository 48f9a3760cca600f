package utils

import (
	"testing"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

func timingTemplate(startDay int32, startTime string, endDay int32, endTime string) *domain.RotationTemplate {
	return &domain.RotationTemplate{
		StartDayOffset: startDay,
		StartTime:      startTime,
		EndDayOffset:   endDay,
		EndTime:        endTime,
	}
}

func TestValidateRotationTemplateTiming(t *testing.T) {
	tests := []struct {
		name           string
		tpl            *domain.RotationTemplate
		rotationLength int32
		wantErr        bool
	}{
		{"普通班次", timingTemplate(0, "09:00:00", 0, "17:00:00"), 7, false},
		{"回绕班次", timingTemplate(6, "22:00:00", 0, "06:00:00"), 7, false},
		{"零时长", timingTemplate(0, "09:00:00", 0, "09:00:00"), 7, true},
		{"同日负时长", timingTemplate(0, "17:00:00", 0, "09:00:00"), 7, true},
		{"下标超出周期", timingTemplate(7, "09:00:00", 7, "17:00:00"), 7, true},
		{"时长超过整个周期", timingTemplate(0, "09:00:00", 6, "19:00:00"), 3, true},
		{"时间格式错误", timingTemplate(0, "9am", 0, "17:00:00"), 7, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRotationTemplateTiming(tt.tpl, tt.rotationLength)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRotationTemplateTiming() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestValidateRosterState(t *testing.T) {
	valid := &domain.RosterState{
		TenantID:          1,
		RotationLength:    28,
		RotationStartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		TimeZone:          "Asia/Shanghai",
	}
	if err := ValidateRosterState(valid); err != nil {
		t.Errorf("合法配置不应报错: %v", err)
	}

	tests := []struct {
		name   string
		modify func(*domain.RosterState)
	}{
		{"周期长度为零", func(s *domain.RosterState) { s.RotationLength = 0 }},
		{"起始日期为空", func(s *domain.RosterState) { s.RotationStartDate = time.Time{} }},
		{"时区无效", func(s *domain.RosterState) { s.TimeZone = "Mars/Olympus" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			state := *valid
			tt.modify(&state)
			if err := ValidateRosterState(&state); err == nil {
				t.Error("应返回错误")
			}
		})
	}
}
