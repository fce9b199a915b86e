package instpath

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPath_ParentChildLeaf(t *testing.T) {
	p := MustParse("ctl.secOutRel.damOut")

	assert.Equal(t, "damOut", p.Leaf())
	assert.Equal(t, "ctl.secOutRel", p.Parent().String())
	assert.Equal(t, "ctl.secOutRel.damOut.yMin", p.Child("yMin").String())

	root := Path{}
	assert.True(t, root.IsEmpty())
	assert.Equal(t, "", root.Leaf())
	assert.True(t, root.Parent().IsEmpty())
}

func TestPath_Join(t *testing.T) {
	base := MustParse("ctl.secOutRel")
	rel := MustParse("damOut.yMin")
	assert.Equal(t, "ctl.secOutRel.damOut.yMin", base.Join(rel).String())
}

func TestPath_HasPrefix(t *testing.T) {
	p := MustParse("ctl.secOutRel.damOut")

	assert.True(t, p.HasPrefix(MustParse("ctl")))
	assert.True(t, p.HasPrefix(MustParse("ctl.secOutRel")))
	assert.True(t, p.HasPrefix(p))
	assert.True(t, p.HasPrefix(Path{}))
	assert.False(t, p.HasPrefix(MustParse("ctl.secOutRel.damRel")))
	assert.False(t, p.HasPrefix(MustParse("ctl.secOutRel.damOut.yMin")))
}

func TestPath_ChildDoesNotAliasParent(t *testing.T) {
	base := MustParse("ctl.a")
	c1 := base.Child("x")
	c2 := base.Child("y")

	assert.Equal(t, "ctl.a.x", c1.String())
	assert.Equal(t, "ctl.a.y", c2.String())
	assert.Equal(t, "ctl.a", base.String())
}
