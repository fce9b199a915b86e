package writer

import (
	"fmt"
	"io"
	"os"

	json "github.com/goccy/go-json"
	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/zclconf/go-cty/cty"
)

var groupByNames = map[assemble.GroupingMode]string{
	assemble.GroupBySequence:                "sequence",
	assemble.GroupBySequenceAndParameterSet: "parameter-set",
}

var recordClassNames = map[assemble.RecordClassPolicy]string{
	assemble.RecordClassDeclared: "declared",
	assemble.RecordClassProject:  "project",
}

type documentJSON struct {
	Class        string          `json:"class"`
	Sequences    []string        `json:"sequences"`
	Instances    []*instanceJSON `json:"instances"`
	ParameterSet string          `json:"parameterSet"`
}

type instanceJSON struct {
	Path       string           `json:"path"`
	Class      string           `json:"class"`
	Parameters []*parameterJSON `json:"parameters,omitempty"`
}

// parameterJSON carries either an inline literal or a symbolic record
// reference, never both.
type parameterJSON struct {
	Name  string          `json:"name"`
	Value json.RawMessage `json:"value,omitempty"`
	Ref   string          `json:"ref,omitempty"`
}

type parameterSetJSON struct {
	ID         string           `json:"id"`
	Parameters []*parameterJSON `json:"parameters"`
}

type linkJSON struct {
	From      string `json:"from"`
	To        string `json:"to"`
	Annotated bool   `json:"annotated,omitempty"`
}

type boundaryJSON struct {
	Inside string `json:"inside"`
	Name   string `json:"name"`
}

type exportJSON struct {
	GroupBy       string              `json:"groupBy"`
	RecordClasses string              `json:"recordClasses"`
	Documents     []*documentJSON     `json:"documents"`
	ParameterSets []*parameterSetJSON `json:"parameterSets,omitempty"`
	Connections   []linkJSON          `json:"connections,omitempty"`
	Boundary      []boundaryJSON      `json:"boundary,omitempty"`
	BusSignals    []string            `json:"busSignals,omitempty"`
}

// Write serializes the export model to w as indented JSON.
func Write(w io.Writer, m *assemble.ExportModel) error {
	doc, err := encodeModel(m)
	if err != nil {
		return err
	}

	out, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding export document: %w", err)
	}
	out = append(out, '\n')

	if _, err := w.Write(out); err != nil {
		return fmt.Errorf("writing export document: %w", err)
	}
	return nil
}

// WriteFile serializes the export model to the named file, replacing any
// previous content.
func WriteFile(path string, m *assemble.ExportModel) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating output file: %w", err)
	}
	defer f.Close()

	if err := Write(f, m); err != nil {
		return err
	}
	return f.Close()
}

func encodeModel(m *assemble.ExportModel) (*exportJSON, error) {
	out := &exportJSON{
		GroupBy:       groupByNames[m.GroupBy],
		RecordClasses: recordClassNames[m.RecordClasses],
		BusSignals:    m.BusSignals,
	}

	for _, doc := range m.Documents {
		dj := &documentJSON{
			Class:        doc.ClassPath,
			ParameterSet: doc.ParameterSetID,
		}
		for _, seq := range doc.Sequences {
			dj.Sequences = append(dj.Sequences, seq.String())
		}
		for _, inst := range doc.Instances {
			ij := &instanceJSON{Path: inst.Path.String(), Class: inst.ClassPath}
			params, err := encodeParameters(inst.Parameters)
			if err != nil {
				return nil, err
			}
			ij.Parameters = params
			dj.Instances = append(dj.Instances, ij)
		}
		out.Documents = append(out.Documents, dj)
	}

	for _, set := range m.ParameterSets {
		params, err := encodeParameters(set.Parameters)
		if err != nil {
			return nil, err
		}
		out.ParameterSets = append(out.ParameterSets, &parameterSetJSON{ID: set.ID, Parameters: params})
	}

	for _, conn := range m.Connections {
		out.Connections = append(out.Connections, linkJSON{
			From:      conn.From,
			To:        conn.To,
			Annotated: conn.Annotated,
		})
	}

	for _, bp := range m.Boundary {
		out.Boundary = append(out.Boundary, boundaryJSON{
			Inside: bp.Inside.String(),
			Name:   bp.Name,
		})
	}

	return out, nil
}

func encodeParameters(params []assemble.ResolvedParameter) ([]*parameterJSON, error) {
	var out []*parameterJSON
	for _, p := range params {
		pj, err := encodeParameter(p)
		if err != nil {
			return nil, err
		}
		out = append(out, pj)
	}
	return out, nil
}

func encodeParameter(p assemble.ResolvedParameter) (*parameterJSON, error) {
	if p.Value.IsRecordRef() {
		return &parameterJSON{Name: p.Name, Ref: p.Value.Record.String()}, nil
	}
	raw, err := encodeValue(p.Value.Value)
	if err != nil {
		return nil, fmt.Errorf("parameter %q: %w", p.Name, err)
	}
	return &parameterJSON{Name: p.Name, Value: raw}, nil
}

// encodeValue renders a resolved literal as raw JSON. Numbers come from the
// canonical big.Float rendering, not a float64 round trip.
func encodeValue(v cty.Value) (json.RawMessage, error) {
	switch {
	case v.Type() == cty.Bool:
		if v.True() {
			return json.RawMessage("true"), nil
		}
		return json.RawMessage("false"), nil

	case v.Type() == cty.Number:
		return json.RawMessage(v.AsBigFloat().Text('g', -1)), nil

	case v.Type() == cty.String:
		quoted, err := json.Marshal(v.AsString())
		if err != nil {
			return nil, err
		}
		return quoted, nil

	case v.Type().IsTupleType() || v.Type().IsListType():
		elems := v.AsValueSlice()
		out := json.RawMessage("[")
		for i, el := range elems {
			if i > 0 {
				out = append(out, ',')
			}
			raw, err := encodeValue(el)
			if err != nil {
				return nil, err
			}
			out = append(out, raw...)
		}
		return append(out, ']'), nil

	default:
		return nil, fmt.Errorf("unencodable value type %s", v.Type().FriendlyName())
	}
}
