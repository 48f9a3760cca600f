package domain

import "time"

type Vehicle struct {
	ID                  int64     `json:"id"`
	TenantID            int64     `json:"tenantID"`
	Name                string    `json:"name"`
	SkillProficiencySet SkillSet  `json:"skillProficiencySet"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}
