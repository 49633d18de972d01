package systems

import (
	"errors"
	"fmt"
	"time"
)

// System is one stage of a fixed-rate simulation tick operating on world W.
type System[W any] interface {
	// Identity

	Name() string

	// Execution

	FixedUpdate(fixedDeltaTime float64, world W) error
}

// Metrics provides runtime metrics for a system
type Metrics struct {
	ExecutionCount       uint64
	TotalExecutionTime   time.Duration
	AverageExecutionTime time.Duration
	MaxExecutionTime     time.Duration
	MinExecutionTime     time.Duration
	ErrorCount           uint64
	LastError            error
	LastExecutionTime    time.Time
}

func (m *Metrics) record(start time.Time, elapsed time.Duration, err error) {
	m.ExecutionCount++
	m.TotalExecutionTime += elapsed
	m.AverageExecutionTime = m.TotalExecutionTime / time.Duration(m.ExecutionCount)
	if elapsed > m.MaxExecutionTime {
		m.MaxExecutionTime = elapsed
	}
	if m.ExecutionCount == 1 || elapsed < m.MinExecutionTime {
		m.MinExecutionTime = elapsed
	}
	m.LastExecutionTime = start
	if err != nil {
		m.ErrorCount++
		m.LastError = err
	}
}

var (
	ErrDuplicateSystem = errors.New("system already registered")
	ErrUnknownSystem   = errors.New("system not registered")
)

type entry[W any] struct {
	system  System[W]
	enabled bool
	metrics Metrics
}

// Pipeline runs registered systems in registration order, once per fixed tick.
// A failing system does not stop the systems after it; errors are reported to
// the error hook and joined into the FixedUpdate result.
// Pipeline is not safe for concurrent use.
type Pipeline[W any] struct {
	entries []*entry[W]
	index   map[string]*entry[W]
	onError func(name string, err error)
	clock   func() time.Time
}

// NewPipeline creates an empty pipeline.
func NewPipeline[W any]() *Pipeline[W] {
	return &Pipeline[W]{
		index: make(map[string]*entry[W]),
		clock: time.Now,
	}
}

// RegisterSystem appends s to the execution order.
func (p *Pipeline[W]) RegisterSystem(s System[W]) error {
	name := s.Name()
	if _, exists := p.index[name]; exists {
		return fmt.Errorf("%s: %w", name, ErrDuplicateSystem)
	}
	e := &entry[W]{system: s, enabled: true}
	p.entries = append(p.entries, e)
	p.index[name] = e
	return nil
}

// SetEnabled toggles a system without changing its position in the order.
func (p *Pipeline[W]) SetEnabled(name string, enabled bool) error {
	e, ok := p.index[name]
	if !ok {
		return fmt.Errorf("%s: %w", name, ErrUnknownSystem)
	}
	e.enabled = enabled
	return nil
}

// IsEnabled reports whether the named system runs.
func (p *Pipeline[W]) IsEnabled(name string) bool {
	e, ok := p.index[name]
	return ok && e.enabled
}

// OnSystemError installs a hook called for every system error.
func (p *Pipeline[W]) OnSystemError(fn func(name string, err error)) {
	p.onError = fn
}

// FixedUpdate runs every enabled system in order.
func (p *Pipeline[W]) FixedUpdate(fixedDeltaTime float64, world W) error {
	var all error
	for _, e := range p.entries {
		if !e.enabled {
			continue
		}
		start := p.clock()
		err := e.system.FixedUpdate(fixedDeltaTime, world)
		e.metrics.record(start, p.clock().Sub(start), err)
		if err != nil {
			err = fmt.Errorf("%s: %w", e.system.Name(), err)
			if p.onError != nil {
				p.onError(e.system.Name(), err)
			}
			all = errors.Join(all, err)
		}
	}
	return all
}

// GetExecutionOrder returns system names in execution order.
func (p *Pipeline[W]) GetExecutionOrder() []string {
	out := make([]string, len(p.entries))
	for i, e := range p.entries {
		out[i] = e.system.Name()
	}
	return out
}

// GetSystemMetrics returns a snapshot of a system's metrics.
func (p *Pipeline[W]) GetSystemMetrics(name string) (Metrics, bool) {
	e, ok := p.index[name]
	if !ok {
		return Metrics{}, false
	}
	return e.metrics, true
}
