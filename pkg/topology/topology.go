package topology

// maxClusterManagerNodes caps the voting configuration size.
const maxClusterManagerNodes = 5

// MaxClusterManagers returns the number of cluster manager eligible nodes a
// cluster of plannedUnits should have. The count is always odd to avoid split
// votes and never exceeds five.
func MaxClusterManagers(plannedUnits int) int {
	if plannedUnits <= 0 {
		return 0
	}
	if plannedUnits%2 == 0 {
		plannedUnits--
	}
	return min(plannedUnits, maxClusterManagerNodes)
}

// SuggestRoles returns the roles a node joining roster should receive when the
// cluster is planned to reach plannedUnits nodes. The result is always either
// ClusterManagerRoles or BaseRoles.
func SuggestRoles(roster []Node, plannedUnits int) Roles {
	if countClusterManagers(roster) < MaxClusterManagers(plannedUnits) {
		return ClusterManagerRoles
	}
	return BaseRoles
}

// NodeWithNewRoles is called after a node left the cluster. It returns a
// remaining node promoted to ClusterManagerRoles when the roster lacks cluster
// manager nodes, or false when no change is needed.
//
// The departed unit still counts towards the planned size, so the target is
// computed for len(roster)+1 units. Among non cluster manager nodes the one
// with the lowest name is promoted. It never demotes; a surplus of cluster
// managers after a scale-down is handled by ExcessClusterManager.
func NodeWithNewRoles(roster []Node) (Node, bool) {
	target := MaxClusterManagers(len(roster) + 1)
	if countClusterManagers(roster) >= target {
		return Node{}, false
	}

	var (
		candidate Node
		found     bool
	)
	for _, n := range roster {
		if n.IsClusterManager() {
			continue
		}
		if !found || n.Name < candidate.Name {
			candidate, found = n, true
		}
	}
	if !found {
		return Node{}, false
	}

	return candidate.WithRoles(ClusterManagerRoles), true
}

// ExcessClusterManager returns a cluster manager node demoted to its non cluster
// manager roles when roster holds more cluster managers than plannedUnits
// allows. The node with the highest name is demoted.
func ExcessClusterManager(roster []Node, plannedUnits int) (Node, bool) {
	if countClusterManagers(roster) <= MaxClusterManagers(plannedUnits) {
		return Node{}, false
	}

	var (
		candidate Node
		found     bool
	)
	for _, n := range roster {
		if !n.IsClusterManager() {
			continue
		}
		if !found || n.Name > candidate.Name {
			candidate, found = n, true
		}
	}
	if !found {
		return Node{}, false
	}

	roles := candidate.Roles.Without(RoleClusterManager)
	if roles.IsZero() {
		roles = BaseRoles
	}
	return candidate.WithRoles(roles), true
}

// ClusterManagersIPs returns the addresses of cluster manager nodes in roster order.
func ClusterManagersIPs(roster []Node) []string {
	out := make([]string, 0, len(roster))
	for _, n := range roster {
		if n.IsClusterManager() {
			out = append(out, n.IP)
		}
	}
	return out
}

// ClusterManagersNames returns the names of cluster manager nodes in roster order.
func ClusterManagersNames(roster []Node) []string {
	out := make([]string, 0, len(roster))
	for _, n := range roster {
		if n.IsClusterManager() {
			out = append(out, n.Name)
		}
	}
	return out
}

// NodesCountByRole counts, for every role present in roster, the nodes holding it.
func NodesCountByRole(roster []Node) map[Role]int {
	counts := make(map[Role]int)
	for _, n := range roster {
		for _, r := range n.Roles.Slice() {
			counts[r]++
		}
	}
	return counts
}

// NodesByRole groups roster nodes under each role they hold, preserving roster order.
func NodesByRole(roster []Node) map[Role][]Node {
	groups := make(map[Role][]Node)
	for _, n := range roster {
		for _, r := range n.Roles.Slice() {
			groups[r] = append(groups[r], n)
		}
	}
	return groups
}

// Find returns the node named name.
func Find(roster []Node, name string) (Node, bool) {
	for _, n := range roster {
		if n.Name == name {
			return n, true
		}
	}
	return Node{}, false
}

func countClusterManagers(roster []Node) int {
	n := 0
	for _, node := range roster {
		if node.IsClusterManager() {
			n++
		}
	}
	return n
}
