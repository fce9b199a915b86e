package prune

import (
	"context"
	"fmt"
	"strings"

	"github.com/specialistvlad/cdlex/internal/classify"
	"github.com/specialistvlad/cdlex/internal/ctxlog"
	"github.com/specialistvlad/cdlex/internal/model"
)

// BoundaryPort documents a dropped link between a qualified instance and the
// excluded equipment model: the retained qualified-side endpoint plus a
// symbolic name derived from the dropped side.
type BoundaryPort struct {
	Inside model.Endpoint
	Name   string
}

// Result is the outcome of pruning one tree's connection set.
type Result struct {
	Retained []*model.Connection
	Boundary []BoundaryPort
}

// Prune filters connections using the classification rules:
//
//   - both endpoints qualified: retained, annotation or not
//   - any endpoint unqualified but graphically annotated: retained, the
//     annotation is explicit authorial intent to keep the link visible
//   - exactly one endpoint qualified, no annotation: dropped, one boundary
//     port emitted for the qualified side
//   - neither endpoint qualified: dropped silently
//
// Connections are visited in declared order, so output order and boundary
// name deduplication are deterministic.
func Prune(ctx context.Context, tree *model.Tree, classifier *classify.Classifier) Result {
	logger := ctxlog.FromContext(ctx)

	qualified := func(e model.Endpoint) bool {
		in, ok := tree.Lookup(e.Instance)
		if !ok {
			return false
		}
		return classifier.Qualified(in)
	}

	var res Result
	nameSeen := make(map[string]int)
	dropped := 0

	for _, conn := range tree.Connections() {
		fromQ, toQ := qualified(conn.From), qualified(conn.To)

		switch {
		case fromQ && toQ:
			res.Retained = append(res.Retained, conn)

		case conn.Annotated:
			res.Retained = append(res.Retained, conn)

		case fromQ != toQ:
			inside, outside := conn.From, conn.To
			if toQ {
				inside, outside = conn.To, conn.From
			}
			name := uniqueName(boundaryName(outside), nameSeen)
			res.Boundary = append(res.Boundary, BoundaryPort{Inside: inside, Name: name})
			logger.Debug("Connection dropped at export boundary.",
				"inside", inside.String(), "outside", outside.String(), "boundary_port", name)

		default:
			dropped++
		}
	}

	logger.Debug("Connection pruning finished.",
		"retained", len(res.Retained), "boundary_ports", len(res.Boundary), "dropped_silently", dropped)
	return res
}

// boundaryName derives the symbolic port name for a dropped link from its
// unqualified endpoint. Bus signals keep their signal name; ordinary ports
// use the sanitized full endpoint path.
func boundaryName(outside model.Endpoint) string {
	if outside.Expandable {
		return outside.Port
	}
	return sanitize(outside.String())
}

// uniqueName deduplicates boundary names deterministically with a numeric
// suffix.
func uniqueName(name string, seen map[string]int) string {
	n := seen[name]
	seen[name] = n + 1
	if n == 0 {
		return name
	}
	return fmt.Sprintf("%s_%d", name, n)
}

// sanitize rewrites a dotted endpoint path into a flat identifier.
func sanitize(s string) string {
	r := strings.NewReplacer(".", "_", "[", "_", "]", "")
	return r.Replace(s)
}
