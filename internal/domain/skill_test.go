package domain

import (
	"encoding/json"
	"slices"
	"testing"
)

func TestSkillSetContainsAll(t *testing.T) {
	tests := []struct {
		name  string
		set   SkillSet
		other SkillSet
		want  bool
	}{
		{"超集", NewSkillSet(1, 2, 3), NewSkillSet(1, 3), true},
		{"相等", NewSkillSet(1, 2), NewSkillSet(1, 2), true},
		{"缺少一个", NewSkillSet(1), NewSkillSet(1, 2), false},
		{"空要求恒成立", NewSkillSet(), NewSkillSet(), true},
		{"空集合对非空要求", NewSkillSet(), NewSkillSet(7), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.set.ContainsAll(tt.other); got != tt.want {
				t.Errorf("ContainsAll() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestSkillSetIDsSorted(t *testing.T) {
	set := NewSkillSet(5, 1, 3)
	set.Add(2)

	got := set.IDs()
	want := []int64{1, 2, 3, 5}
	if !slices.Equal(got, want) {
		t.Errorf("IDs() = %v, want %v", got, want)
	}
}

func TestSkillSetJSON(t *testing.T) {
	set := NewSkillSet(3, 1)

	data, err := json.Marshal(set)
	if err != nil {
		t.Fatalf("Marshal: %v", err)
	}
	if string(data) != "[1,3]" {
		t.Errorf("Marshal = %s, want [1,3]", data)
	}

	var decoded SkillSet
	if err := json.Unmarshal([]byte("[2,4,4]"), &decoded); err != nil {
		t.Fatalf("Unmarshal: %v", err)
	}
	if decoded.Len() != 2 || !decoded.Contains(2) || !decoded.Contains(4) {
		t.Errorf("Unmarshal = %v, want {2,4}", decoded)
	}
}
