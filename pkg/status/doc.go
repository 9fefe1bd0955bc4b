// Package status defines the unit statuses the operator reports while it
// reconciles the cluster topology.
package status
