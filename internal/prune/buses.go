package prune

import (
	"sort"

	"github.com/specialistvlad/cdlex/internal/model"
)

// BusIndex is the static enumeration of open-ended connector signals: for
// each signal name, every endpoint that reads or writes it. It is built once
// before pruning; nothing ever extends it afterwards.
type BusIndex map[string][]model.Endpoint

// IndexBuses pre-enumerates bus signals from the declared connection set.
// A connection touches a signal when either of its endpoints resolves under
// an expandable connector; the signal is named by the expandable side's port.
func IndexBuses(connections []*model.Connection) BusIndex {
	idx := make(BusIndex)
	add := func(signal string, e model.Endpoint) {
		idx[signal] = append(idx[signal], e)
	}

	for _, conn := range connections {
		if conn.From.Expandable {
			add(conn.From.Port, conn.To)
		}
		if conn.To.Expandable {
			add(conn.To.Port, conn.From)
		}
	}
	return idx
}

// Signals returns the indexed signal names in sorted order.
func (b BusIndex) Signals() []string {
	names := make([]string, 0, len(b))
	for name := range b {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
