package domain

import (
	"encoding/json"
	"slices"
	"time"
)

// Skill 的 name 在同一租户内不区分大小写唯一
type Skill struct {
	ID        int64     `json:"id"`
	TenantID  int64     `json:"tenantID"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"createdAt"`
	Version   int32     `json:"-"`
}

// SkillSet 是一组技能 ID 的集合，顺序不可观测
type SkillSet map[int64]struct{}

func NewSkillSet(ids ...int64) SkillSet {
	set := make(SkillSet, len(ids))
	for _, id := range ids {
		set[id] = struct{}{}
	}
	return set
}

func (s SkillSet) Add(id int64) {
	s[id] = struct{}{}
}

func (s SkillSet) Contains(id int64) bool {
	_, exists := s[id]
	return exists
}

// ContainsAll 判断 s 是否为 other 的超集
func (s SkillSet) ContainsAll(other SkillSet) bool {
	for id := range other {
		if !s.Contains(id) {
			return false
		}
	}
	return true
}

func (s SkillSet) Len() int {
	return len(s)
}

// IDs 返回升序排列的技能 ID，仅用于序列化和 SQL 参数
func (s SkillSet) IDs() []int64 {
	ids := make([]int64, 0, len(s))
	for id := range s {
		ids = append(ids, id)
	}
	slices.Sort(ids)
	return ids
}

func (s SkillSet) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.IDs())
}

func (s *SkillSet) UnmarshalJSON(data []byte) error {
	var ids []int64
	if err := json.Unmarshal(data, &ids); err != nil {
		return err
	}
	*s = NewSkillSet(ids...)
	return nil
}
