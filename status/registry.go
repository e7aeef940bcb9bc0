// Package status holds lock-free counters and labels that describe a running
// session: bytes written, keys dispatched, active theme.
package status

import (
	"fmt"
	"strings"
	"sync/atomic"
)

// Registry groups a session's counters and labels
type Registry struct {
	Counters *MetricMap[atomic.Int64]
	Labels   *MetricMap[Label]
}

func NewRegistry() *Registry {
	return &Registry{
		Counters: NewMetricMap[atomic.Int64](),
		Labels:   NewMetricMap[Label](),
	}
}

// Counter returns the named counter
func (r *Registry) Counter(name string) *atomic.Int64 {
	return r.Counters.Get(name)
}

// Label returns the named label
func (r *Registry) Label(name string) *Label {
	return r.Labels.Get(name)
}

// Snapshot copies every value, counters formatted in decimal
func (r *Registry) Snapshot() map[string]string {
	out := make(map[string]string, r.Counters.Len()+r.Labels.Len())
	r.Counters.Range(func(k string, c *atomic.Int64) {
		out[k] = fmt.Sprint(c.Load())
	})
	r.Labels.Range(func(k string, l *Label) {
		out[k] = l.Load()
	})
	return out
}

// String renders "key=value" pairs, counters then labels, each in key order
func (r *Registry) String() string {
	var parts []string
	r.Counters.Range(func(k string, c *atomic.Int64) {
		parts = append(parts, fmt.Sprintf("%s=%d", k, c.Load()))
	})
	r.Labels.Range(func(k string, l *Label) {
		parts = append(parts, fmt.Sprintf("%s=%q", k, l.Load()))
	})
	return strings.Join(parts, " ")
}
