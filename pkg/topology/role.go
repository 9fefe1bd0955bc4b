package topology

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Role is a single capability tag an OpenSearch node can hold.
// Roles are bits so a node's role set fits in one Roles value.
type Role uint8

const (
	RoleData Role = 1 << iota
	RoleIngest
	RoleML
	RoleCoordinatingOnly
	RoleClusterManager
)

// vocabulary lists every known role in its canonical order.
var vocabulary = []Role{
	RoleData,
	RoleIngest,
	RoleML,
	RoleCoordinatingOnly,
	RoleClusterManager,
}

var roleNames = map[Role]string{
	RoleData:             "data",
	RoleIngest:           "ingest",
	RoleML:               "ml",
	RoleCoordinatingOnly: "coordinating_only",
	RoleClusterManager:   "cluster_manager",
}

// String returns the wire tag of the role.
func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("role(%d)", uint8(r))
}

// MarshalText encodes the role as its wire tag, so Role can be used as a JSON map key.
func (r Role) MarshalText() ([]byte, error) {
	name, ok := roleNames[r]
	if !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRole, uint8(r))
	}
	return []byte(name), nil
}

func (r *Role) UnmarshalText(text []byte) error {
	parsed, err := ParseRole(string(text))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}

// ParseRole converts a wire tag into a Role. Tags are case-sensitive.
func ParseRole(s string) (Role, error) {
	for role, name := range roleNames {
		if name == s {
			return role, nil
		}
	}
	return 0, fmt.Errorf("%w: %q", ErrUnknownRole, s)
}

// Roles is a set of Role values.
type Roles uint8

var (
	// BaseRoles are held by every node.
	BaseRoles = NewRoles(RoleData, RoleIngest, RoleML, RoleCoordinatingOnly)
	// ClusterManagerRoles are the base roles plus cluster manager eligibility.
	ClusterManagerRoles = BaseRoles.With(RoleClusterManager)
)

// NewRoles builds a set from the given roles.
func NewRoles(roles ...Role) Roles {
	var set Roles
	for _, r := range roles {
		set |= Roles(r)
	}
	return set
}

// ParseRoles converts wire tags into a set. Duplicate tags collapse.
func ParseRoles(tags []string) (Roles, error) {
	var set Roles
	for _, tag := range tags {
		role, err := ParseRole(tag)
		if err != nil {
			return 0, err
		}
		set = set.With(role)
	}
	return set, nil
}

func (s Roles) Has(r Role) bool { return s&Roles(r) != 0 }

func (s Roles) With(r Role) Roles { return s | Roles(r) }

func (s Roles) Without(r Role) Roles { return s &^ Roles(r) }

func (s Roles) IsZero() bool { return s == 0 }

func (s Roles) Equal(other Roles) bool { return s == other }

// Len returns the number of roles in the set.
func (s Roles) Len() int {
	n := 0
	for _, r := range vocabulary {
		if s.Has(r) {
			n++
		}
	}
	return n
}

// Slice returns the roles in canonical vocabulary order.
func (s Roles) Slice() []Role {
	out := make([]Role, 0, len(vocabulary))
	for _, r := range vocabulary {
		if s.Has(r) {
			out = append(out, r)
		}
	}
	return out
}

// Strings returns the wire tags in canonical vocabulary order.
func (s Roles) Strings() []string {
	roles := s.Slice()
	out := make([]string, len(roles))
	for i, r := range roles {
		out[i] = r.String()
	}
	return out
}

func (s Roles) String() string {
	return "[" + strings.Join(s.Strings(), " ") + "]"
}

// MarshalJSON encodes the set as an array of wire tags.
func (s Roles) MarshalJSON() ([]byte, error) {
	return json.Marshal(s.Strings())
}

func (s *Roles) UnmarshalJSON(data []byte) error {
	var tags []string
	if err := json.Unmarshal(data, &tags); err != nil {
		return errors.Join(ErrInvalidField, err)
	}
	parsed, err := ParseRoles(tags)
	if err != nil {
		return err
	}
	*s = parsed
	return nil
}
