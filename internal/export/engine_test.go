package export

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/specialistvlad/cdlex/internal/assemble"
	"github.com/specialistvlad/cdlex/internal/classify"
	"github.com/specialistvlad/cdlex/internal/expr"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/specialistvlad/cdlex/internal/resolve"
	"github.com/specialistvlad/cdlex/internal/scope"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zclconf/go-cty/cty"
)

func num(s string) cty.Value { return cty.MustParseNumberVal(s) }

func ref(path string) expr.Ref { return expr.Ref{Path: instpath.MustParse(path)} }

// fixtureTemplate builds a small but complete air handler template:
// a qualified controller whose parameters reach into the unexported
// equipment model, a record for symbolic references, and connections that
// exercise all three pruning outcomes.
func fixtureTemplate(t *testing.T, withCycle bool) *model.Tree {
	t.Helper()

	dat := &model.Instance{
		Path:      instpath.MustParse("ctl.dat"),
		ClassPath: "Buildings.Templates.AirHandlersFans.Components.Data.VAVMultiZoneController",
		Kind:      model.KindRecord,
		Parameters: []*model.ParameterBinding{
			{Name: "TSupSet_max", Expr: expr.Literal{Val: num("291.15")}},
		},
	}

	ctlParams := []*model.ParameterBinding{
		// Crosses into the equipment model and back.
		{Name: "VPriSysMax_flow", Expr: expr.Binary{
			Op: expr.OpDivide,
			L:  ref("secOutRel.mAirSup_flow_nominal"),
			R:  expr.Literal{Val: num("1.2")},
		}},
		// Stays symbolic.
		{Name: "TSupSet_max", Expr: ref("dat.TSupSet_max")},
	}
	if withCycle {
		ctlParams = append(ctlParams,
			&model.ParameterBinding{Name: "a", Expr: ref("b")},
			&model.ParameterBinding{Name: "b", Expr: ref("a")},
		)
	}

	ctl := &model.Instance{
		Path:        instpath.MustParse("ctl"),
		ClassPath:   "MyProject.Controls.G36VAVMultiZone",
		Annotations: []string{"__cdl(export=true)"},
		Parameters:  ctlParams,
		Children:    []*model.Instance{dat},
		Connections: []*model.Connection{
			// Qualified either side: retained.
			{
				From: model.Endpoint{Instance: instpath.MustParse("ctl.conSup"), Port: "y"},
				To:   model.Endpoint{Instance: instpath.MustParse("ctl.limDam"), Port: "u"},
			},
		},
	}
	ctl.Children = append(ctl.Children,
		&model.Instance{
			Path:       instpath.MustParse("ctl.conSup"),
			ClassPath:  "Buildings.Controls.OBC.CDL.Reals.PID",
			Parameters: []*model.ParameterBinding{{Name: "k", Expr: expr.Literal{Val: num("0.5")}}},
		},
		&model.Instance{
			Path:      instpath.MustParse("ctl.limDam"),
			ClassPath: "Buildings.Controls.OBC.CDL.Reals.Limiter",
			Parameters: []*model.ParameterBinding{
				{Name: "uMax", Expr: expr.Literal{Val: num("1")}},
			},
		},
	)

	secOutRel := &model.Instance{
		Path:      instpath.MustParse("secOutRel"),
		ClassPath: "Buildings.Templates.AirHandlersFans.Components.OutdoorReliefReturnSection",
		Parameters: []*model.ParameterBinding{
			{Name: "mAirSup_flow_nominal", Expr: expr.Literal{Val: num("4000")}},
			// Never reached from a qualified chain; must not fail the run.
			{Name: "brokenNeverTouched", Expr: ref("does.not.exist")},
		},
	}

	root := &model.Instance{
		Path:      instpath.Path{},
		ClassPath: "Buildings.Templates.AirHandlersFans.VAVMultiZone",
		Children:  []*model.Instance{ctl, secOutRel},
		Connections: []*model.Connection{
			// Control to equipment, no annotation: boundary port.
			{
				From: model.Endpoint{Instance: instpath.MustParse("ctl.limDam"), Port: "y"},
				To:   model.Endpoint{Instance: instpath.MustParse("secOutRel"), Port: "yDamOut"},
			},
			// Equipment to equipment: dropped silently.
			{
				From: model.Endpoint{Instance: instpath.MustParse("secOutRel"), Port: "port_a"},
				To:   model.Endpoint{Instance: instpath.MustParse("secOutRel"), Port: "port_b"},
			},
		},
	}

	tree, err := model.NewTree(root)
	require.NoError(t, err)
	return tree
}

func newEngine(workers int) *Engine {
	return New(classify.New(nil, ""), assemble.Options{}, workers)
}

func TestEngine_Run(t *testing.T) {
	tree := fixtureTemplate(t, false)

	out, err := newEngine(4).Run(context.Background(), tree)
	require.NoError(t, err)

	require.Len(t, out.Documents, 1)
	doc := out.Documents[0]
	assert.Equal(t, "ctl", doc.Sequences[0].String())

	// ctl itself plus its two qualified children; the record child is not
	// qualified and stays out of the document.
	require.Len(t, doc.Instances, 3)

	byName := map[string]assemble.ResolvedParameter{}
	for _, p := range doc.Instances[0].Parameters {
		byName[p.Name] = p
	}

	folded := byName["VPriSysMax_flow"]
	require.False(t, folded.Value.IsRecordRef())
	assert.Equal(t, "3333.333333", folded.Value.Value.AsBigFloat().Text('f', 6))

	symbolic := byName["TSupSet_max"]
	require.True(t, symbolic.Value.IsRecordRef())
	assert.Equal(t, "ctl.dat.TSupSet_max", symbolic.Value.Record.String())

	// Pruning: one retained link, one boundary port, one silent drop.
	require.Len(t, out.Connections, 1)
	assert.Equal(t, "ctl.conSup.y", out.Connections[0].From)
	require.Len(t, out.Boundary, 1)
	assert.Equal(t, "secOutRel_yDamOut", out.Boundary[0].Name)
}

// nestedTemplate builds a sequence root with a qualified block hidden below
// an unqualified section: root, annotated ctl, plain ctl.sub, CDL
// ctl.sub.con. The connection into the deep block is qualified on both ends.
func nestedTemplate(t *testing.T, conExpr expr.Node) *model.Tree {
	t.Helper()

	root := &model.Instance{
		Path:      instpath.Path{},
		ClassPath: "Buildings.Templates.AirHandlersFans.VAVMultiZone",
		Children: []*model.Instance{
			{
				Path:        instpath.MustParse("ctl"),
				ClassPath:   "MyProject.Controls.G36VAVMultiZone",
				Annotations: []string{"__cdl(export=true)"},
				Connections: []*model.Connection{{
					From: model.Endpoint{Instance: instpath.MustParse("ctl"), Port: "y"},
					To:   model.Endpoint{Instance: instpath.MustParse("ctl.sub.con"), Port: "u"},
				}},
				Children: []*model.Instance{
					{
						Path:      instpath.MustParse("ctl.sub"),
						ClassPath: "Buildings.Templates.Components.Sections.Passthrough",
						Children: []*model.Instance{
							{
								Path:       instpath.MustParse("ctl.sub.con"),
								ClassPath:  "Buildings.Controls.OBC.CDL.Reals.PID",
								Parameters: []*model.ParameterBinding{{Name: "k", Expr: conExpr}},
							},
						},
					},
				},
			},
		},
	}

	tree, err := model.NewTree(root)
	require.NoError(t, err)
	return tree
}

func TestEngine_DetachedQualifiedSubtreeIsExported(t *testing.T) {
	tree := nestedTemplate(t, expr.Literal{Val: num("0.5")})

	out, err := newEngine(2).Run(context.Background(), tree)
	require.NoError(t, err)

	// Two documents: the annotated controller and the block below the
	// unqualified section, which starts its own sequence.
	require.Len(t, out.Documents, 2)
	assert.Equal(t, "ctl", out.Documents[0].Sequences[0].String())
	assert.Equal(t, "ctl.sub.con", out.Documents[1].Sequences[0].String())

	deep := out.Documents[1].Instances[0]
	require.Len(t, deep.Parameters, 1)
	assert.Equal(t, "0.5", deep.Parameters[0].Value.Value.AsBigFloat().Text('g', -1))

	// The retained link lands between two exported instances, so the
	// document stays internally consistent.
	require.Len(t, out.Connections, 1)
	assert.Equal(t, "ctl.sub.con.u", out.Connections[0].To)
}

func TestEngine_DetachedQualifiedUnresolvableAborts(t *testing.T) {
	tree := nestedTemplate(t, ref("does.not.exist"))

	out, err := newEngine(2).Run(context.Background(), tree)
	require.Nil(t, out)

	var unbound *scope.UnboundError
	require.ErrorAs(t, err, &unbound)
}

func TestEngine_CycleAbortsWholeRun(t *testing.T) {
	tree := fixtureTemplate(t, true)

	out, err := newEngine(2).Run(context.Background(), tree)
	require.Nil(t, out, "no partial export model on failure")

	var cycleErr *resolve.CycleError
	require.ErrorAs(t, err, &cycleErr)
}

func TestEngine_UntouchedEquipmentErrorsAreNotReported(t *testing.T) {
	// secOutRel.brokenNeverTouched is unresolvable, but no qualified chain
	// reaches it, so the run must succeed.
	tree := fixtureTemplate(t, false)

	_, err := newEngine(1).Run(context.Background(), tree)
	require.NoError(t, err)
}

func TestEngine_CancelledContext(t *testing.T) {
	tree := fixtureTemplate(t, false)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := newEngine(2).Run(ctx, tree)
	require.ErrorIs(t, err, context.Canceled)
}

func TestEngine_Idempotence(t *testing.T) {
	valueEq := cmp.Comparer(func(a, b cty.Value) bool { return a.RawEquals(b) })
	pathEq := cmp.Comparer(func(a, b instpath.Path) bool { return a.Equal(b) })

	tree := fixtureTemplate(t, false)

	first, err := newEngine(4).Run(context.Background(), tree)
	require.NoError(t, err)
	second, err := newEngine(1).Run(context.Background(), tree)
	require.NoError(t, err)

	// Same tree, different engines and worker counts: identical output.
	assert.Empty(t, cmp.Diff(first, second, valueEq, pathEq))
}
