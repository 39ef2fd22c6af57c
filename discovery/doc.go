// Package discovery harvests candidate keywords for every taxonomy node.
//
// For each node the Engine issues one shopping search using the node name,
// extracts keywords from the listings and replaces the node's auto keywords
// with them. User keywords and explicit disables are left to the store's
// replace rules.
//
// Nodes are processed strictly one after another. Failures stay with their
// node unless they make further calls pointless; see Engine.DiscoverNodes.
package discovery
