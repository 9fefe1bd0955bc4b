package topology

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Node is one member of the cluster. It is a value type: changing a node's
// roles produces a new Node through WithRoles.
type Node struct {
	Name  string
	Roles Roles
	IP    string
}

// NewNode returns a node holding the given roles.
func NewNode(name string, roles Roles, ip string) Node {
	return Node{Name: name, Roles: roles, IP: ip}
}

// WithRoles returns a copy of the node with its role set replaced.
func (n Node) WithRoles(roles Roles) Node {
	n.Roles = roles
	return n
}

// IsClusterManager reports whether the node is eligible for cluster manager election.
func (n Node) IsClusterManager() bool {
	return n.Roles.Has(RoleClusterManager)
}

// NodeFromMap builds a node from its relation-data shape:
//
//	{"name": "opensearch-0", "roles": ["data", "cluster_manager"], "ip": "10.0.0.1"}
//
// Every key is required; nothing is defaulted.
func NodeFromMap(m map[string]any) (Node, error) {
	name, err := stringField(m, "name")
	if err != nil {
		return Node{}, err
	}
	ip, err := stringField(m, "ip")
	if err != nil {
		return Node{}, err
	}

	raw, ok := m["roles"]
	if !ok || raw == nil {
		return Node{}, fmt.Errorf("%w: roles", ErrMissingField)
	}

	var tags []string
	switch v := raw.(type) {
	case []string:
		tags = v
	case []any:
		tags = make([]string, 0, len(v))
		for i, item := range v {
			tag, ok := item.(string)
			if !ok {
				return Node{}, fmt.Errorf("%w: roles[%d] is %T", ErrInvalidField, i, item)
			}
			tags = append(tags, tag)
		}
	default:
		return Node{}, fmt.Errorf("%w: roles is %T", ErrInvalidField, raw)
	}

	roles, err := ParseRoles(tags)
	if err != nil {
		return Node{}, err
	}

	return Node{Name: name, Roles: roles, IP: ip}, nil
}

// ToMap is the inverse of NodeFromMap.
func (n Node) ToMap() map[string]any {
	return map[string]any{
		"name":  n.Name,
		"roles": n.Roles.Strings(),
		"ip":    n.IP,
	}
}

type nodeJSON struct {
	Name  *string `json:"name"`
	Roles *Roles  `json:"roles"`
	IP    *string `json:"ip"`
}

func (n Node) MarshalJSON() ([]byte, error) {
	return json.Marshal(nodeJSON{Name: &n.Name, Roles: &n.Roles, IP: &n.IP})
}

// UnmarshalJSON applies the same required-field rules as NodeFromMap.
func (n *Node) UnmarshalJSON(data []byte) error {
	var raw nodeJSON
	if err := json.Unmarshal(data, &raw); err != nil {
		if errors.Is(err, ErrUnknownRole) || errors.Is(err, ErrInvalidField) {
			return err
		}
		return errors.Join(ErrInvalidField, err)
	}
	switch {
	case raw.Name == nil:
		return fmt.Errorf("%w: name", ErrMissingField)
	case raw.Roles == nil:
		return fmt.Errorf("%w: roles", ErrMissingField)
	case raw.IP == nil:
		return fmt.Errorf("%w: ip", ErrMissingField)
	}
	*n = Node{Name: *raw.Name, Roles: *raw.Roles, IP: *raw.IP}
	return nil
}

func stringField(m map[string]any, key string) (string, error) {
	raw, ok := m[key]
	if !ok || raw == nil {
		return "", fmt.Errorf("%w: %s", ErrMissingField, key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("%w: %s is %T", ErrInvalidField, key, raw)
	}
	return s, nil
}
