package domain

import "time"

type Employee struct {
	ID                  int64     `json:"id"`
	TenantID            int64     `json:"tenantID"`
	Name                string    `json:"name"`
	Email               string    `json:"email"`
	SkillProficiencySet SkillSet  `json:"skillProficiencySet"`
	CreatedAt           time.Time `json:"createdAt"`
	Version             int32     `json:"-"`
}
