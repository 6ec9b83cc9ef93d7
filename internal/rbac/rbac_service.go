package rbac

import (
	"sync"

	"go-workforce/internal/domain"

	"github.com/casbin/casbin/v2"
)

const (
	RoleEmployee = "EMPLOYEE"
	RoleHR       = "HR"
	RoleAdmin    = "ADMIN"
)

//go:generate mockgen -source=rbac_service.go -destination=mock/rbac_service_mock.go -package=mock
type Service interface {
	Enforce(req domain.EnforceRequest) (bool, error)
}

type service struct {
	enforcer *casbin.Enforcer
	mu       sync.Mutex
}

func NewService(enforcer *casbin.Enforcer) (Service, error) {
	s := &service{enforcer: enforcer}
	if err := s.seedPolicies(); err != nil {
		return nil, err
	}
	return s, nil
}

// seedPolicies loads the static role grants. Admin inherits HR which
// inherits the base employee grants.
func (s *service) seedPolicies() error {
	policies := [][]string{
		{RoleEmployee, "leave", "read"},
		{RoleEmployee, "leave", "create"},
		{RoleEmployee, "leave", "update"},
		{RoleEmployee, "leave", "cancel"},
		{RoleEmployee, "leave", "delete"},
		{RoleEmployee, "attendance", "clock"},
		{RoleEmployee, "attendance", "read"},
		{RoleEmployee, "employee", "read"},
		{RoleEmployee, "salary", "read"},

		{RoleHR, "leave", "decide"},
		{RoleHR, "employee", "create"},
		{RoleHR, "employee", "update"},
		{RoleHR, "employee", "delete"},
		{RoleHR, "salary", "create"},
		{RoleHR, "salary", "update"},
		{RoleHR, "salary", "delete"},
	}

	for _, p := range policies {
		if _, err := s.enforcer.AddPolicy(p[0], p[1], p[2]); err != nil {
			return err
		}
	}

	groupings := [][]string{
		{RoleHR, RoleEmployee},
		{RoleAdmin, RoleHR},
	}
	for _, g := range groupings {
		if _, err := s.enforcer.AddGroupingPolicy(g[0], g[1]); err != nil {
			return err
		}
	}

	return nil
}

func (s *service) Enforce(req domain.EnforceRequest) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	return s.enforcer.Enforce(req.Role, req.Resource, req.Action)
}

// IsDecisionMaker reports whether a role may approve or reject requests.
func IsDecisionMaker(role string) bool {
	return role == RoleHR || role == RoleAdmin
}
