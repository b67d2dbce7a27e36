package ihop

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStateMapFluent(t *testing.T) {
	s := NewState("t")
	s.DeclareMap("pos")
	s.Set("pos", "a", "table")

	v, ok := s.Get("pos", "a")
	require.True(t, ok)
	assert.Equal(t, "table", v)

	_, ok = s.Get("pos", "missing")
	assert.False(t, ok)
}

func TestStateSetFluent(t *testing.T) {
	s := NewState("t")
	s.DeclareSet("clear")
	s.Add("clear", "a")
	assert.True(t, s.Contains("clear", "a"))
	s.Remove("clear", "a")
	assert.False(t, s.Contains("clear", "a"))
}

func TestStateScalarFluent(t *testing.T) {
	s := NewState("t")
	s.DeclareScalar("holding", nil)
	v, ok := s.Scalar("holding")
	require.True(t, ok)
	assert.Nil(t, v)
	s.SetScalar("holding", "a")
	v, _ = s.Scalar("holding")
	assert.Equal(t, "a", v)
}

func TestStateCopyIsIsolated(t *testing.T) {
	s := NewState("t")
	s.DeclareMap("pos")
	s.Set("pos", "a", "table")

	cp := s.Copy()
	cp.Set("pos", "a", "b")

	v, _ := s.Get("pos", "a")
	assert.Equal(t, "table", v)
	cv, _ := cp.Get("pos", "a")
	assert.Equal(t, "b", cv)
}

func TestStateEqual(t *testing.T) {
	a := NewState("t")
	a.DeclareMap("pos")
	a.Set("pos", "x", "table")

	b := a.Copy()
	assert.True(t, a.Equal(b))

	b.Set("pos", "x", "shelf")
	assert.False(t, a.Equal(b))
}

func TestStateMembers(t *testing.T) {
	s := NewState("t")
	s.DeclareSet("blocks")
	s.Add("blocks", "a")
	s.Add("blocks", "b")
	assert.ElementsMatch(t, []any{"a", "b"}, s.Members("blocks"))
}
