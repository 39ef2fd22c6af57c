package discovery

// Monitor provides hooks to observe a discovery run.
// Implement this interface to track progress node by node.
type Monitor interface {
	Start(total int)
	StartNode(path NodePath)
	FinishNode(result NodeResult)
	Finish(report *Report)
}

// noopMonitor is a no-op implementation of Monitor
type noopMonitor struct{}

var _ Monitor = (*noopMonitor)(nil)

func (n *noopMonitor) Start(_ int)             {}
func (n *noopMonitor) StartNode(_ NodePath)    {}
func (n *noopMonitor) FinishNode(_ NodeResult) {}
func (n *noopMonitor) Finish(_ *Report)        {}
