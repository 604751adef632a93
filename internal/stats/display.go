package stats

import (
	"go.uber.org/zap"
)

// Target names the display layer binds counts to. They mirror the page
// shell's element identifiers.
const (
	TargetTotal      = "totalCount"
	TargetOpen       = "openCount"
	TargetInProgress = "inProgressCount"
	TargetClosed     = "closedCount"
)

// Sink receives one count value for a named target.
type Sink func(count int)

// Display pushes snapshot counts to registered named targets. A target
// nobody registered is skipped silently: display wiring gaps must not
// break the calculation path.
type Display struct {
	targets map[string]Sink
	logger  *zap.Logger
}

// NewDisplay constructs an empty display registry.
func NewDisplay(logger *zap.Logger) *Display {
	return &Display{targets: make(map[string]Sink), logger: logger}
}

// Register binds a sink to a target name, replacing any previous one.
func (d *Display) Register(name string, sink Sink) {
	if sink == nil {
		return
	}
	d.targets[name] = sink
}

// Update pushes the snapshot's counts to the registered targets.
func (d *Display) Update(snapshot Snapshot) {
	d.push(TargetTotal, snapshot.Total)
	d.push(TargetOpen, snapshot.Open)
	d.push(TargetInProgress, snapshot.InProgress)
	d.push(TargetClosed, snapshot.Closed)
}

func (d *Display) push(name string, count int) {
	sink, ok := d.targets[name]
	if !ok {
		d.logger.Debug("display target missing", zap.String("target", name))
		return
	}
	sink(count)
}
