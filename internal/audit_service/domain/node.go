package domain

import (
	"fmt"
	"sync"
)

// NodeStatus is the advisory health of a cluster node. It feeds reporting
// only; failover order stays static so audit runs are reproducible.
type NodeStatus string

const (
	NodeStatusUnknown  NodeStatus = "unknown"
	NodeStatusHealthy  NodeStatus = "healthy"
	NodeStatusDegraded NodeStatus = "degraded"
	NodeStatusDead     NodeStatus = "dead"
)

// NodeEndpoint is one API node in the failover order.
type NodeEndpoint struct {
	URL                 string
	Ordinal             int
	ConsecutiveFailures int
	LastStatus          NodeStatus
}

// NodePool is the ordered, fixed-at-start list of cluster nodes plus their
// per-run health bookkeeping. Health mutation is mutex-guarded because
// multiple resolutions run concurrently.
type NodePool struct {
	mu    sync.Mutex
	nodes []NodeEndpoint
}

// NewNodePool builds a pool from resolved endpoint URLs, preserving order.
// An empty list is a startup error, fatal to the whole run.
func NewNodePool(urls []string) (*NodePool, error) {
	if len(urls) == 0 {
		return nil, ErrEmptyNodePool
	}
	nodes := make([]NodeEndpoint, len(urls))
	for i, u := range urls {
		nodes[i] = NodeEndpoint{URL: u, Ordinal: i, LastStatus: NodeStatusUnknown}
	}
	return &NodePool{nodes: nodes}, nil
}

// Size returns the number of nodes in the pool.
func (p *NodePool) Size() int {
	return len(p.nodes)
}

// Next returns a copy of the node following the given ordinal, or nil when
// the pool is exhausted. Pass -1 to start from the first node. The sequence
// never revisits a node within one record's resolution.
func (p *NodePool) Next(afterOrdinal int) *NodeEndpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	idx := afterOrdinal + 1
	if idx < 0 || idx >= len(p.nodes) {
		return nil
	}
	node := p.nodes[idx]
	return &node
}

// MarkSuccess records a successful attempt against the node.
func (p *NodePool) MarkSuccess(ordinal int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ordinal < 0 || ordinal >= len(p.nodes) {
		return
	}
	p.nodes[ordinal].ConsecutiveFailures = 0
	p.nodes[ordinal].LastStatus = NodeStatusHealthy
}

// MarkFailure records a transport failure against the node: Degraded on the
// first failure, Dead once deadThreshold consecutive failures accumulate.
func (p *NodePool) MarkFailure(ordinal int, deadThreshold int) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if ordinal < 0 || ordinal >= len(p.nodes) {
		return
	}
	n := &p.nodes[ordinal]
	n.ConsecutiveFailures++
	if n.ConsecutiveFailures >= deadThreshold {
		n.LastStatus = NodeStatusDead
	} else {
		n.LastStatus = NodeStatusDegraded
	}
}

// Snapshot returns a copy of all node states for reporting.
func (p *NodePool) Snapshot() []NodeEndpoint {
	p.mu.Lock()
	defer p.mu.Unlock()
	out := make([]NodeEndpoint, len(p.nodes))
	copy(out, p.nodes)
	return out
}

// NodeURL assembles the cluster's query URL for a host, port and API path.
func NodeURL(host string, port int, apiPath string) string {
	return fmt.Sprintf("http://%s:%d%s", host, port, apiPath)
}
