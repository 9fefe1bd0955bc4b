// Package topology computes OpenSearch node role assignments from a cluster
// roster.
//
// A roster is the list of Node values reconstructed from peer membership on
// every reconciliation pass. The package never mutates a roster; every
// operation is a pure function of its inputs, so calling it repeatedly with the
// same roster yields the same answer.
//
// # Roles
//
// Roles form a fixed vocabulary held in a bitset:
//
//   - BaseRoles: data, ingest, ml, coordinating_only
//   - ClusterManagerRoles: BaseRoles plus cluster_manager
//
// New nodes always receive one of these two sets.
//
// # Cluster managers
//
// A cluster planned for n units aims for MaxClusterManagers(n) cluster manager
// nodes: n rounded down to an odd number, capped at five.
//
//	roles := topology.SuggestRoles(roster, plannedUnits)
//
// After a unit departs, NodeWithNewRoles picks the node to promote, and once a
// scale-down completes ExcessClusterManager picks the node to demote:
//
//	if promoted, ok := topology.NodeWithNewRoles(roster); ok {
//	    // announce promoted.Roles for promoted.Name
//	}
//
// # Wire format
//
// Nodes travel through relation data as {"name", "roles", "ip"} mappings.
// NodeFromMap and Node.ToMap convert between the two, and Node implements
// json.Marshaler with the same shape. Missing fields are errors, never
// defaults.
//
// Roster names must be unique. Results for rosters with duplicate names are
// unspecified.
package topology
