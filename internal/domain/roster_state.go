package domain

import "time"

// RosterState 是租户级别的排班配置，展开模板时读取一次
type RosterState struct {
	TenantID          int64     `json:"tenantID"`
	RotationLength    int32     `json:"rotationLength"`    // 轮换周期长度（天）
	RotationStartDate time.Time `json:"rotationStartDate"` // 第一个轮换周期的起始日期
	TimeZone          string    `json:"timeZone"`          // IANA 时区 ID
	CreatedAt         time.Time `json:"createdAt"`
	Version           int32     `json:"-"`
}
