package prune

import (
	"context"
	"testing"

	"github.com/specialistvlad/cdlex/internal/classify"
	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/specialistvlad/cdlex/internal/model"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func endpoint(inst, port string) model.Endpoint {
	return model.Endpoint{Instance: instpath.MustParse(inst), Port: port}
}

// fixtureTree wires two qualified control blocks and one unqualified coil.
func fixtureTree(t *testing.T, conns ...*model.Connection) *model.Tree {
	t.Helper()

	root := &model.Instance{
		Path:        instpath.Path{},
		ClassPath:   "Buildings.Templates.AirHandlersFans.VAVMultiZone",
		Connections: conns,
		Children: []*model.Instance{
			{Path: instpath.MustParse("conSup"), ClassPath: "Buildings.Controls.OBC.CDL.Reals.PID"},
			{Path: instpath.MustParse("limDam"), ClassPath: "Buildings.Controls.OBC.CDL.Reals.Limiter"},
			{Path: instpath.MustParse("coi"), ClassPath: "Buildings.Templates.Components.Coils.WaterBasedHeating"},
		},
	}
	tree, err := model.NewTree(root)
	require.NoError(t, err)
	return tree
}

func TestPrune(t *testing.T) {
	ctx := context.Background()
	classifier := classify.New(nil, "")

	t.Run("qualified to qualified is retained without annotation", func(t *testing.T) {
		conn := &model.Connection{From: endpoint("conSup", "y"), To: endpoint("limDam", "u")}
		res := Prune(ctx, fixtureTree(t, conn), classifier)

		require.Len(t, res.Retained, 1)
		assert.Same(t, conn, res.Retained[0])
		assert.Empty(t, res.Boundary)
	})

	t.Run("qualified to unqualified without annotation becomes a boundary port", func(t *testing.T) {
		conn := &model.Connection{From: endpoint("conSup", "y"), To: endpoint("coi", "u")}
		res := Prune(ctx, fixtureTree(t, conn), classifier)

		assert.Empty(t, res.Retained)
		require.Len(t, res.Boundary, 1)
		assert.Equal(t, "conSup", res.Boundary[0].Inside.Instance.String())
		assert.Equal(t, "y", res.Boundary[0].Inside.Port)
		assert.Equal(t, "coi_u", res.Boundary[0].Name)
	})

	t.Run("annotation keeps a cross-boundary link", func(t *testing.T) {
		conn := &model.Connection{From: endpoint("conSup", "y"), To: endpoint("coi", "u"), Annotated: true}
		res := Prune(ctx, fixtureTree(t, conn), classifier)

		require.Len(t, res.Retained, 1)
		assert.Empty(t, res.Boundary)
	})

	t.Run("unqualified to unqualified is dropped silently", func(t *testing.T) {
		conn := &model.Connection{From: endpoint("coi", "port_a"), To: endpoint("coi", "port_b")}
		res := Prune(ctx, fixtureTree(t, conn), classifier)

		assert.Empty(t, res.Retained)
		assert.Empty(t, res.Boundary)
	})

	t.Run("boundary names deduplicate deterministically", func(t *testing.T) {
		c1 := &model.Connection{From: endpoint("conSup", "y"), To: endpoint("coi", "u")}
		c2 := &model.Connection{From: endpoint("limDam", "y"), To: endpoint("coi", "u")}
		res := Prune(ctx, fixtureTree(t, c1, c2), classifier)

		require.Len(t, res.Boundary, 2)
		assert.Equal(t, "coi_u", res.Boundary[0].Name)
		assert.Equal(t, "coi_u_1", res.Boundary[1].Name)
	})

	t.Run("bus signals name the boundary port", func(t *testing.T) {
		conn := &model.Connection{
			From: endpoint("conSup", "y"),
			To:   model.Endpoint{Instance: instpath.MustParse("coi"), Port: "yCoiCoo", Expandable: true},
		}
		res := Prune(ctx, fixtureTree(t, conn), classifier)

		require.Len(t, res.Boundary, 1)
		assert.Equal(t, "yCoiCoo", res.Boundary[0].Name)
	})
}

func TestIndexBuses(t *testing.T) {
	bus := model.Endpoint{Instance: instpath.MustParse("busAHU"), Port: "yFanSup", Expandable: true}
	reader := endpoint("conSup", "u")
	writer := endpoint("fanSup", "y")

	idx := IndexBuses([]*model.Connection{
		{From: writer, To: bus},
		{From: bus, To: reader},
	})

	require.Contains(t, idx, "yFanSup")
	assert.Equal(t, []model.Endpoint{writer, reader}, idx["yFanSup"])
	assert.Equal(t, []string{"yFanSup"}, idx.Signals())
}
