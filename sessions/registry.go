package sessions

import (
	"github.com/jrsteele09/go-school-admin/internal/config"
	apperrors "github.com/jrsteele09/go-school-admin/internal/errors"
	"github.com/jrsteele09/go-school-admin/token"
)

// Registry holds one RoleSession per configured role.
type Registry struct {
	roles   map[string]*RoleSession
	ordered []*RoleSession
}

// NewRegistry validates cfg and builds every role. A missing secret is fatal.
func NewRegistry(cfg config.SessionConfig, opts ...token.Option) (*Registry, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	cookies := NewCookieStore(cfg.GetSecureCookies())
	reg := &Registry{roles: make(map[string]*RoleSession)}
	for _, settings := range cfg.GetRoles() {
		rs, err := NewRoleSession(settings, cfg.GetSessionTTL(), cookies, opts...)
		if err != nil {
			return nil, err
		}
		reg.roles[settings.Name] = rs
		reg.ordered = append(reg.ordered, rs)
	}
	return reg, nil
}

// Get returns the named role.
func (r *Registry) Get(name string) (*RoleSession, error) {
	rs, ok := r.roles[name]
	if !ok {
		return nil, apperrors.Wrapf(apperrors.ErrUnknownRole, "role %q", name)
	}
	return rs, nil
}

// Roles returns every role in configuration order.
func (r *Registry) Roles() []*RoleSession {
	out := make([]*RoleSession, len(r.ordered))
	copy(out, r.ordered)
	return out
}
