package domain

import "time"

// Spot 的 code 在同一租户内不区分大小写唯一
type Spot struct {
	ID               int64     `json:"id"`
	TenantID         int64     `json:"tenantID"`
	Code             string    `json:"code"`
	Name             string    `json:"name"`
	NameDetail       string    `json:"nameDetail"`
	Description      string    `json:"description"`
	Length           float64   `json:"length"`
	RequiredSkillSet SkillSet  `json:"requiredSkillSet"`
	CreatedAt        time.Time `json:"createdAt"`
	Version          int32     `json:"-"`
}
