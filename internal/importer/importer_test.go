package importer

import (
	"fmt"
	"strings"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
)

// fakeStore 在内存中模拟 repository 的导入相关能力
type fakeStore struct {
	skills       map[string]*domain.Skill // 键为小写技能名
	spots        map[string]*domain.Spot  // 键为小写岗位 code
	templates    []*domain.RotationTemplate
	state        *domain.RosterState
	nextID       int64
	createdSpots int
	updatedSpots int
}

func newFakeStore(rotationLength int32) *fakeStore {
	return &fakeStore{
		skills: make(map[string]*domain.Skill),
		spots:  make(map[string]*domain.Spot),
		state: &domain.RosterState{
			TenantID:          1,
			RotationLength:    rotationLength,
			RotationStartDate: time.Date(2026, time.March, 2, 0, 0, 0, 0, time.UTC),
			TimeZone:          "Asia/Shanghai",
		},
	}
}

func (f *fakeStore) nextIDValue() int64 {
	f.nextID++
	return f.nextID
}

func (f *fakeStore) ResolveSkill(tenantID int64, name string) (*domain.Skill, error) {
	key := strings.ToLower(name)
	if skill, exists := f.skills[key]; exists {
		return skill, nil
	}
	skill := &domain.Skill{ID: f.nextIDValue(), TenantID: tenantID, Name: name}
	f.skills[key] = skill
	return skill, nil
}

func (f *fakeStore) FindSpotByCode(tenantID int64, code string) (*domain.Spot, error) {
	if spot, exists := f.spots[strings.ToLower(code)]; exists {
		return spot, nil
	}
	return nil, fmt.Errorf("岗位 %q: %w", code, domain.ErrNotFound)
}

func (f *fakeStore) CreateSpot(spot *domain.Spot) error {
	spot.ID = f.nextIDValue()
	f.spots[strings.ToLower(spot.Code)] = spot
	f.createdSpots++
	return nil
}

func (f *fakeStore) UpdateSpot(spot *domain.Spot) error {
	f.spots[strings.ToLower(spot.Code)] = spot
	f.updatedSpots++
	return nil
}

func (f *fakeStore) CreateRotationTemplate(tpl *domain.RotationTemplate) error {
	tpl.ID = f.nextIDValue()
	f.templates = append(f.templates, tpl)
	return nil
}

func (f *fakeStore) GetRosterState(tenantID int64) (*domain.RosterState, error) {
	if f.state == nil {
		return nil, fmt.Errorf("租户 %d 的排班配置: %w", tenantID, domain.ErrNotFound)
	}
	return f.state, nil
}

func newTestImporter(store *fakeStore) *Importer {
	return NewImporter(store, store, store, store)
}
