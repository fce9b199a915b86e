package model

import (
	"testing"

	"github.com/specialistvlad/cdlex/internal/instpath"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewTree(t *testing.T) {
	t.Run("indexes paths and parents", func(t *testing.T) {
		ctl := &Instance{Path: instpath.MustParse("ctl"), ClassPath: "Buildings.Controls.OBC.CDL.Reals.PID"}
		coi := &Instance{Path: instpath.MustParse("coi"), ClassPath: "Buildings.Templates.Components.Coils.WaterBasedHeating"}
		root := &Instance{
			Path:      instpath.Path{},
			ClassPath: "Buildings.Templates.AirHandlersFans.VAVMultiZone",
			Children:  []*Instance{ctl, coi},
		}

		tree, err := NewTree(root)
		require.NoError(t, err)

		assert.Equal(t, 3, tree.Len())

		got, ok := tree.Lookup(instpath.MustParse("ctl"))
		require.True(t, ok)
		assert.Same(t, ctl, got)

		parent, ok := tree.ParentOf(coi)
		require.True(t, ok)
		assert.Same(t, root, parent)

		_, ok = tree.ParentOf(root)
		assert.False(t, ok)
	})

	t.Run("rejects nil root", func(t *testing.T) {
		_, err := NewTree(nil)
		require.Error(t, err)
	})

	t.Run("rejects duplicate paths", func(t *testing.T) {
		root := &Instance{
			Path: instpath.Path{},
			Children: []*Instance{
				{Path: instpath.MustParse("ctl")},
				{Path: instpath.MustParse("ctl")},
			},
		}
		_, err := NewTree(root)
		require.ErrorContains(t, err, "duplicate instance path")
	})

	t.Run("rejects connections to unknown instances", func(t *testing.T) {
		root := &Instance{
			Path: instpath.Path{},
			Children: []*Instance{
				{Path: instpath.MustParse("ctl")},
			},
			Connections: []*Connection{{
				From:      Endpoint{Instance: instpath.MustParse("ctl"), Port: "y"},
				To:        Endpoint{Instance: instpath.MustParse("ghost"), Port: "u"},
				Annotated: true,
			}},
		}
		_, err := NewTree(root)
		require.ErrorContains(t, err, `references an unknown instance`)
	})

	t.Run("rejects children with foreign paths", func(t *testing.T) {
		root := &Instance{
			Path: instpath.MustParse("ahu"),
			Children: []*Instance{
				{Path: instpath.MustParse("other.ctl")},
			},
		}
		_, err := NewTree(root)
		require.ErrorContains(t, err, "does not extend")
	})
}

func TestTree_WalkOrder(t *testing.T) {
	root := &Instance{
		Path: instpath.Path{},
		Children: []*Instance{
			{
				Path: instpath.MustParse("ctl"),
				Children: []*Instance{
					{Path: instpath.MustParse("ctl.conSup")},
				},
			},
			{Path: instpath.MustParse("coi")},
		},
	}
	tree, err := NewTree(root)
	require.NoError(t, err)

	var visited []string
	tree.Walk(func(in *Instance) bool {
		visited = append(visited, in.Path.String())
		return true
	})
	assert.Equal(t, []string{"", "ctl", "ctl.conSup", "coi"}, visited)
}

func TestInstance_Accessors(t *testing.T) {
	in := &Instance{
		Path:        instpath.MustParse("ctl"),
		Annotations: []string{"__cdl(export=true)", "Placement(visible=false)"},
		Parameters: []*ParameterBinding{
			{Name: "kP"},
			{Name: "Ti"},
		},
	}

	assert.Equal(t, "ctl", in.Name())

	p, ok := in.Parameter("Ti")
	require.True(t, ok)
	assert.Equal(t, "Ti", p.Name)

	_, ok = in.Parameter("Td")
	assert.False(t, ok)

	assert.True(t, in.HasAnnotationPrefix("__cdl"))
	assert.False(t, in.HasAnnotationPrefix("__vendor"))
	assert.False(t, in.HasAnnotationPrefix(""))
}

func TestEndpoint_String(t *testing.T) {
	e := Endpoint{Instance: instpath.MustParse("ctl.conSup"), Port: "y"}
	assert.Equal(t, "ctl.conSup.y", e.String())

	root := Endpoint{Port: "busAHU"}
	assert.Equal(t, "busAHU", root.String())
}
