package rbac

import (
	"github.com/casbin/casbin/v2"
	"github.com/casbin/casbin/v2/model"
)

// Roles carried in JWT claims.
const (
	RoleSuperAdmin = "SUPER_ADMIN"
	RoleAdmin      = "ADMIN"
	RoleCaregiver  = "CAREGIVER"
)

const modelText = `
[request_definition]
r = sub, obj, act

[policy_definition]
p = sub, obj, act

[role_definition]
g = _, _

[policy_effect]
e = some(where (p.eft == allow))

[matchers]
m = g(r.sub, p.sub) && r.obj == p.obj && r.act == p.act
`

// policies is the static permission table. Role assignment itself comes from
// the identity provider; only resource/action grants live here.
var policies = [][3]string{
	{RoleCaregiver, "roster", "read"},
	{RoleCaregiver, "roster", "transition"},
	{RoleCaregiver, "leave", "create"},
	{RoleCaregiver, "leave", "read_own"},
	{RoleCaregiver, "leave", "cancel"},

	{RoleAdmin, "roster", "read"},
	{RoleAdmin, "roster", "manage"},
	{RoleAdmin, "leave", "read"},
	{RoleAdmin, "leave", "manage"},
	{RoleAdmin, "room_bed", "read"},
	{RoleAdmin, "room_bed", "manage"},
	{RoleAdmin, "care_receiver", "read"},
	{RoleAdmin, "care_receiver", "manage"},
	{RoleAdmin, "caregiver", "read"},
	{RoleAdmin, "caregiver", "manage"},
	{RoleAdmin, "location", "read"},
	{RoleAdmin, "audit", "read"},

	{RoleSuperAdmin, "location", "manage"},
}

// groupings: SUPER_ADMIN covers everything ADMIN can do.
var groupings = [][2]string{
	{RoleSuperAdmin, RoleAdmin},
	{RoleAdmin, RoleCaregiver},
}

type Enforcer struct {
	e *casbin.Enforcer
}

// NewEnforcer builds the casbin enforcer from the in-code model and policy
// table. No external policy files or tables are consulted.
func NewEnforcer() (*Enforcer, error) {
	m, err := model.NewModelFromString(modelText)
	if err != nil {
		return nil, err
	}

	e, err := casbin.NewEnforcer(m)
	if err != nil {
		return nil, err
	}

	for _, p := range policies {
		if _, err := e.AddPolicy(p[0], p[1], p[2]); err != nil {
			return nil, err
		}
	}
	for _, g := range groupings {
		if _, err := e.AddGroupingPolicy(g[0], g[1]); err != nil {
			return nil, err
		}
	}

	return &Enforcer{e: e}, nil
}

// Allowed reports whether role may perform action on resource.
func (e *Enforcer) Allowed(role, resource, action string) (bool, error) {
	return e.e.Enforce(role, resource, action)
}
