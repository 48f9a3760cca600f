package roster

import (
	"fmt"
	"time"

	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/domain"
	"github.com/sysu-ecnc-dev/rotation-roster/backend/internal/rotation"
)

// Store 是排班服务需要的持久化能力，由 repository.Repository 实现
type Store interface {
	GetRosterState(tenantID int64) (*domain.RosterState, error)
	GetAllRotationTemplates(tenantID int64) ([]*domain.RotationTemplate, error)
	GetAllSpots(tenantID int64) ([]*domain.Spot, error)
	GetAllEmployees(tenantID int64) ([]*domain.Employee, error)
	GetAllVehicles(tenantID int64) ([]*domain.Vehicle, error)
	GetEmployee(id int64) (*domain.Employee, error)
	GetVehicle(id int64) (*domain.Vehicle, error)
	GetShiftInstance(id int64) (*domain.ShiftInstance, error)
	GetShiftInstancesInRange(tenantID int64, from, to time.Time) ([]*domain.ShiftInstance, error)
	ReplaceShiftInstancesInRange(tenantID int64, from, to time.Time, instances []*domain.ShiftInstance) error
	UpdateShiftAssignment(si *domain.ShiftInstance) error
	PublishShiftInstances(tenantID int64, from, to time.Time) error
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

func (s *Service) loadReferences(tenantID int64) (*rotation.References, error) {
	spots, err := s.store.GetAllSpots(tenantID)
	if err != nil {
		return nil, err
	}
	employees, err := s.store.GetAllEmployees(tenantID)
	if err != nil {
		return nil, err
	}
	vehicles, err := s.store.GetAllVehicles(tenantID)
	if err != nil {
		return nil, err
	}

	refs := &rotation.References{
		Spots:     make(map[int64]*domain.Spot, len(spots)),
		Employees: make(map[int64]*domain.Employee, len(employees)),
		Vehicles:  make(map[int64]*domain.Vehicle, len(vehicles)),
	}
	for _, spot := range spots {
		refs.Spots[spot.ID] = spot
	}
	for _, employee := range employees {
		refs.Employees[employee.ID] = employee
	}
	for _, vehicle := range vehicles {
		refs.Vehicles[vehicle.ID] = vehicle
	}

	return refs, nil
}

// GenerateShifts 在 [from, to) 范围内按轮换模板展开班次并整体替换掉旧的班次
func (s *Service) GenerateShifts(tenantID int64, from, to time.Time) ([]*domain.ShiftInstance, error) {
	state, err := s.store.GetRosterState(tenantID)
	if err != nil {
		return nil, err
	}

	templates, err := s.store.GetAllRotationTemplates(tenantID)
	if err != nil {
		return nil, err
	}

	refs, err := s.loadReferences(tenantID)
	if err != nil {
		return nil, err
	}

	instances, err := rotation.ExpandTemplates(templates, state, refs, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.store.ReplaceShiftInstancesInRange(tenantID, from, to, instances); err != nil {
		return nil, err
	}

	return instances, nil
}

// View 是外部求解器的输入：窗口内的班次加上可指派的员工和车辆全集
type View struct {
	State     *domain.RosterState     `json:"state"`
	Shifts    []*domain.ShiftInstance `json:"shifts"`
	Employees []*domain.Employee      `json:"employees"`
	Vehicles  []*domain.Vehicle       `json:"vehicles"`
}

func (s *Service) GetView(tenantID int64, from, to time.Time) (*View, error) {
	state, err := s.store.GetRosterState(tenantID)
	if err != nil {
		return nil, err
	}

	shifts, err := s.store.GetShiftInstancesInRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	employees, err := s.store.GetAllEmployees(tenantID)
	if err != nil {
		return nil, err
	}

	vehicles, err := s.store.GetAllVehicles(tenantID)
	if err != nil {
		return nil, err
	}

	return &View{
		State:     state,
		Shifts:    shifts,
		Employees: employees,
		Vehicles:  vehicles,
	}, nil
}

// Assignment 是对单个班次两个槽的一次改动，为 nil 的字段表示不改动
type Assignment struct {
	EmployeeID    *int64 `json:"employeeID"`
	ClearEmployee bool   `json:"clearEmployee"`
	PinEmployee   *bool  `json:"pinEmployee"`
	VehicleID     *int64 `json:"vehicleID"`
	ClearVehicle  bool   `json:"clearVehicle"`
	PinVehicle    *bool  `json:"pinVehicle"`
}

// ApplyAssignment 把一次指派改动写到班次上。
// 已锁定的槽拒绝改动当前指派，除非同一请求里把锁定标记置回 false。
func (s *Service) ApplyAssignment(shiftID int64, a *Assignment) (*domain.ShiftInstance, error) {
	si, err := s.store.GetShiftInstance(shiftID)
	if err != nil {
		return nil, err
	}

	if a.EmployeeID != nil || a.ClearEmployee {
		if si.Employee.Pinned && (a.PinEmployee == nil || *a.PinEmployee) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("班次 %d 的员工槽已锁定，不能改动指派", shiftID)}
		}
		if a.ClearEmployee {
			si.SetEmployee(nil)
		} else {
			employee, err := s.store.GetEmployee(*a.EmployeeID)
			if err != nil {
				return nil, err
			}
			si.SetEmployee(employee)
		}
	}

	if a.VehicleID != nil || a.ClearVehicle {
		if si.Vehicle.Pinned && (a.PinVehicle == nil || *a.PinVehicle) {
			return nil, &domain.ValidationError{Message: fmt.Sprintf("班次 %d 的车辆槽已锁定，不能改动指派", shiftID)}
		}
		if a.ClearVehicle {
			si.SetVehicle(nil)
		} else {
			vehicle, err := s.store.GetVehicle(*a.VehicleID)
			if err != nil {
				return nil, err
			}
			si.SetVehicle(vehicle)
		}
	}

	if a.PinEmployee != nil {
		si.Employee.Pinned = *a.PinEmployee
	}
	if a.PinVehicle != nil {
		si.Vehicle.Pinned = *a.PinVehicle
	}

	if err := s.store.UpdateShiftAssignment(si); err != nil {
		return nil, err
	}

	return si, nil
}

// PublishRoster 发布窗口内的班表：所有班次以当前指派为新的快照，
// 并为每个被排到班的员工生成一条通知邮件消息，由调用方投递。
func (s *Service) PublishRoster(tenantID int64, from, to time.Time) ([]*domain.MailMessage, error) {
	shifts, err := s.store.GetShiftInstancesInRange(tenantID, from, to)
	if err != nil {
		return nil, err
	}

	if err := s.store.PublishShiftInstances(tenantID, from, to); err != nil {
		return nil, err
	}

	type employeeShifts struct {
		employee *domain.Employee
		count    int
	}
	byEmployee := make(map[int64]*employeeShifts)
	order := make([]int64, 0)
	for _, si := range shifts {
		employee := si.Employee.Current
		if employee == nil || employee.Email == "" {
			continue
		}
		es, exists := byEmployee[employee.ID]
		if !exists {
			es = &employeeShifts{employee: employee}
			byEmployee[employee.ID] = es
			order = append(order, employee.ID)
		}
		es.count++
	}

	messages := make([]*domain.MailMessage, 0, len(order))
	for _, id := range order {
		es := byEmployee[id]
		messages = append(messages, &domain.MailMessage{
			Type: domain.MailTypeRosterPublished,
			To:   es.employee.Email,
			Data: domain.RosterPublishedMailData{
				EmployeeName: es.employee.Name,
				FromDate:     from.Format("2006-01-02"),
				ToDate:       to.Format("2006-01-02"),
				ShiftCount:   es.count,
			},
		})
	}

	return messages, nil
}
