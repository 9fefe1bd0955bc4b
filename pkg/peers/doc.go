// Package peers adapts peer membership into a topology roster.
//
// The roster is rebuilt on every call; sources never cache. FileSource reads a
// document written by the host runtime, StaticSource serves an in-memory
// roster for embedding and tests. Entries are validated with
// topology.NodeFromMap, so a malformed entry fails the whole read, and
// duplicate names are rejected before they reach the topology functions.
package peers
