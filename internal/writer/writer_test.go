package writer

import (
	"bytes"
	"testing"

	json "github.com/goccy/go-json"
	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/specialistvlad/cdlex/internal/prune"
	"github.com/specialistvlad/cdlex/internal/resolve"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func sampleModel() *assemble.ExportModel {
	params := []assemble.ResolvedParameter{
		{Name: "k", Value: resolve.Result{Value: cty.MustParseNumberVal("0.5")}},
		{Name: "have_CO2Sen", Value: resolve.Result{Value: cty.False}},
		{Name: "typ", Value: resolve.Result{Value: cty.StringVal("CommonDamper")}},
		{Name: "TSupSet_max", Value: resolve.Result{
			Record: &resolve.RecordRef{Record: instpath.MustParse("ctl.dat"), Field: "TSupSet_max"},
		}},
		{Name: "VZon_flow", Value: resolve.Result{Value: cty.TupleVal([]cty.Value{
			cty.MustParseNumberVal("100"), cty.MustParseNumberVal("200"),
		})}},
	}

	return &assemble.ExportModel{
		Documents: []*assemble.Document{{
			ClassPath:      "MyProject.Controls.G36VAVMultiZone",
			Sequences:      []instpath.Path{instpath.MustParse("ctl")},
			Instances:      []*assemble.ExportInstance{{Path: instpath.MustParse("ctl"), ClassPath: "MyProject.Controls.G36VAVMultiZone", Parameters: params}},
			ParameterSetID: "abc123",
		}},
		ParameterSets: []*assemble.ParameterSet{{ID: "abc123", Parameters: params}},
		Connections: []assemble.Link{
			{From: "ctl.conSup.y", To: "ctl.limDam.u"},
		},
		Boundary: []prune.BoundaryPort{{
			Inside: model.Endpoint{Instance: instpath.MustParse("ctl.limDam"), Port: "y"},
			Name:   "secOutRel_yDamOut",
		}},
		BusSignals: []string{"TAirSup", "VAirSup_flow"},
	}
}

func TestWrite_Shape(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sampleModel()))

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &decoded))

	assert.Equal(t, "sequence", decoded["groupBy"])
	assert.Equal(t, "declared", decoded["recordClasses"])

	docs := decoded["documents"].([]any)
	require.Len(t, docs, 1)
	doc := docs[0].(map[string]any)
	assert.Equal(t, "abc123", doc["parameterSet"])

	params := doc["instances"].([]any)[0].(map[string]any)["parameters"].([]any)
	require.Len(t, params, 5)

	byName := map[string]map[string]any{}
	for _, p := range params {
		pm := p.(map[string]any)
		byName[pm["name"].(string)] = pm
	}

	// Literal parameters carry a value, record references only a ref.
	assert.Equal(t, 0.5, byName["k"]["value"])
	assert.Equal(t, false, byName["have_CO2Sen"]["value"])
	assert.Equal(t, "CommonDamper", byName["typ"]["value"])
	assert.Equal(t, "ctl.dat.TSupSet_max", byName["TSupSet_max"]["ref"])
	assert.NotContains(t, byName["TSupSet_max"], "value")
	assert.Equal(t, []any{100.0, 200.0}, byName["VZon_flow"]["value"])

	boundary := decoded["boundary"].([]any)[0].(map[string]any)
	assert.Equal(t, "ctl.limDam.y", boundary["inside"])
	assert.Equal(t, "secOutRel_yDamOut", boundary["name"])
}

func TestWrite_ByteIdentical(t *testing.T) {
	var first, second bytes.Buffer
	require.NoError(t, Write(&first, sampleModel()))
	require.NoError(t, Write(&second, sampleModel()))

	assert.True(t, bytes.Equal(first.Bytes(), second.Bytes()))
}

func TestEncodeValue_CanonicalNumbers(t *testing.T) {
	raw, err := encodeValue(cty.MustParseNumberVal("4000"))
	require.NoError(t, err)
	assert.Equal(t, "4000", string(raw))

	raw, err = encodeValue(cty.MustParseNumberVal("291.15"))
	require.NoError(t, err)
	assert.Equal(t, "291.15", string(raw))
}
