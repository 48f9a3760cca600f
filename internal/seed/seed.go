// Package seed 填充演示数据：一个公交调度场景的技能、岗位、员工、车辆和轮换模板。
package seed

import (
	"log/slog"
	"math/rand"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/repository"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/utils"
)

var demoSkillNames = []string{"A1驾照", "B2驾照", "夜班资质", "长途资质", "新能源车型", "铰接车型"}

var demoSpots = []struct {
	Code        string
	Name        string
	Length      float64
	SkillNames  []string
	Description string
}{
	{Code: "L1-AM", Name: "1路早班", Length: 8, SkillNames: []string{"A1驾照"}, Description: "1路公交早班车"},
	{Code: "L1-PM", Name: "1路晚班", Length: 8, SkillNames: []string{"A1驾照", "夜班资质"}, Description: "1路公交晚班车"},
	{Code: "L2-AM", Name: "2路早班", Length: 8, SkillNames: []string{"B2驾照"}, Description: "2路公交早班车"},
	{Code: "EXPRESS", Name: "机场快线", Length: 10, SkillNames: []string{"A1驾照", "长途资质"}, Description: "机场快线全天班"},
}

var demoTemplates = []struct {
	SpotCode       string
	StartDayOffset int32
	StartTime      string
	EndDayOffset   int32
	EndTime        string
	Type           domain.ShiftType
	SkillNames2    []string
}{
	{SpotCode: "L1-AM", StartDayOffset: 0, StartTime: "06:00:00", EndDayOffset: 0, EndTime: "14:00:00", Type: domain.ShiftTypeOneway, SkillNames2: []string{"新能源车型"}},
	{SpotCode: "L1-PM", StartDayOffset: 0, StartTime: "14:00:00", EndDayOffset: 0, EndTime: "22:00:00", Type: domain.ShiftTypeReturn, SkillNames2: []string{"新能源车型"}},
	{SpotCode: "L2-AM", StartDayOffset: 1, StartTime: "06:00:00", EndDayOffset: 1, EndTime: "14:00:00", Type: domain.ShiftTypeOneway, SkillNames2: nil},
	// 跨周期回绕：末日 22:00 开到次周期首日 06:00
	{SpotCode: "EXPRESS", StartDayOffset: 6, StartTime: "22:00:00", EndDayOffset: 0, EndTime: "06:00:00", Type: domain.ShiftTypeReturn, SkillNames2: []string{"铰接车型"}},
}

func resolveSkillSet(repo *repository.Repository, tenantID int64, names []string) (domain.SkillSet, error) {
	set := domain.NewSkillSet()
	for _, name := range names {
		skill, err := repo.ResolveSkill(tenantID, name)
		if err != nil {
			return nil, err
		}
		set.Add(skill.ID)
	}
	return set, nil
}

// SeedDemoTenant 为指定租户插入一套可以直接生成班表的演示数据
func SeedDemoTenant(repo *repository.Repository, tenantID int64, rotationLength int32, timeZone string) {
	// 排班配置
	state := &domain.RosterState{
		TenantID:          tenantID,
		RotationLength:    rotationLength,
		RotationStartDate: time.Date(2026, time.January, 5, 0, 0, 0, 0, time.UTC),
		TimeZone:          timeZone,
	}
	if err := repo.CreateRosterState(state); err != nil {
		slog.Error("无法插入排班配置", "error", err)
		return
	}

	// 技能
	for _, name := range demoSkillNames {
		if _, err := repo.ResolveSkill(tenantID, name); err != nil {
			slog.Error("无法插入技能", "name", name, "error", err)
			return
		}
	}

	// 岗位
	spotsByCode := make(map[string]*domain.Spot)
	for _, ds := range demoSpots {
		skillSet, err := resolveSkillSet(repo, tenantID, ds.SkillNames)
		if err != nil {
			slog.Error("无法解析岗位技能", "code", ds.Code, "error", err)
			return
		}

		spot := &domain.Spot{
			TenantID:         tenantID,
			Code:             ds.Code,
			Name:             ds.Name,
			Description:      ds.Description,
			Length:           ds.Length,
			RequiredSkillSet: skillSet,
		}
		if err := repo.CreateSpot(spot); err != nil {
			slog.Error("无法插入岗位", "code", ds.Code, "error", err)
			return
		}
		spotsByCode[ds.Code] = spot
	}

	// 轮换模板
	for _, dt := range demoTemplates {
		spot := spotsByCode[dt.SpotCode]

		skillSet2, err := resolveSkillSet(repo, tenantID, dt.SkillNames2)
		if err != nil {
			slog.Error("无法解析模板技能", "spot", dt.SpotCode, "error", err)
			return
		}

		tpl := &domain.RotationTemplate{
			TenantID:          tenantID,
			SpotID:            spot.ID,
			RequiredSkillSet:  spot.RequiredSkillSet,
			RequiredSkillSet2: skillSet2,
			StartDayOffset:    dt.StartDayOffset,
			StartTime:         dt.StartTime,
			EndDayOffset:      dt.EndDayOffset,
			EndTime:           dt.EndTime,
			Type:              dt.Type,
		}
		if err := repo.CreateRotationTemplate(tpl); err != nil {
			slog.Error("无法插入轮换模板", "spot", dt.SpotCode, "error", err)
			return
		}
	}

	slog.Info("演示数据插入成功", "tenantID", tenantID)
}

// SeedRandomEmployees 插入 n 个随机员工，技能从已有技能中随机抽取
func SeedRandomEmployees(repo *repository.Repository, tenantID int64, n int) {
	skills, err := repo.GetAllSkills(tenantID)
	if err != nil {
		slog.Error("无法获取技能列表", "error", err)
		return
	}

	cnt := 0
	for i := 0; i < n; i++ {
		name := utils.GenerateRandomChineseName()
		username := utils.GenerateUsernameFromChineseName(name)

		set := domain.NewSkillSet()
		for _, skill := range skills {
			if rand.Intn(2) == 0 {
				set.Add(skill.ID)
			}
		}

		employee := &domain.Employee{
			TenantID:            tenantID,
			Name:                name,
			Email:               utils.GenerateRandomEmail(username),
			SkillProficiencySet: set,
		}
		if err := repo.CreateEmployee(employee); err != nil {
			slog.Error("无法插入员工", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("插入员工成功", "count", cnt)
}

// SeedRandomVehicles 插入 n 辆随机车辆
func SeedRandomVehicles(repo *repository.Repository, tenantID int64, n int) {
	skills, err := repo.GetAllSkills(tenantID)
	if err != nil {
		slog.Error("无法获取技能列表", "error", err)
		return
	}

	cnt := 0
	for i := 0; i < n; i++ {
		set := domain.NewSkillSet()
		for _, skill := range skills {
			if rand.Intn(2) == 0 {
				set.Add(skill.ID)
			}
		}

		vehicle := &domain.Vehicle{
			TenantID:            tenantID,
			Name:                utils.GenerateRandomPlateNumber(),
			SkillProficiencySet: set,
		}
		if err := repo.CreateVehicle(vehicle); err != nil {
			slog.Error("无法插入车辆", "error", err)
			continue
		}
		cnt++
	}

	slog.Info("插入车辆成功", "count", cnt)
}
