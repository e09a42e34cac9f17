package replay

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIDMap_BindAndResolve(t *testing.T) {
	m := NewIDMap()

	m.Bind(16113575, 1)
	m.Bind(16113600, 2)

	internal, ok := m.Internal(16113575)
	assert.True(t, ok)
	assert.Equal(t, uint64(1), internal)

	external, ok := m.External(2)
	assert.True(t, ok)
	assert.Equal(t, int64(16113600), external)

	_, ok = m.Internal(999)
	assert.False(t, ok)
	assert.Equal(t, 2, m.Len())
	assert.NoError(t, m.Validate())
}

func TestIDMap_RebindReplacesBothDirections(t *testing.T) {
	m := NewIDMap()

	m.Bind(100, 1)
	m.Bind(100, 2) // external id reused
	m.Bind(200, 2) // internal id reused

	internal, ok := m.Internal(200)
	assert.True(t, ok)
	assert.Equal(t, uint64(2), internal)

	_, ok = m.Internal(100)
	assert.False(t, ok)
	_, ok = m.External(1)
	assert.False(t, ok)

	assert.Equal(t, 1, m.Len())
	assert.NoError(t, m.Validate())
}

func TestIDMap_Unbind(t *testing.T) {
	m := NewIDMap()

	m.Bind(100, 1)
	m.Bind(200, 2)

	m.Unbind(100)
	_, ok := m.Internal(100)
	assert.False(t, ok)
	_, ok = m.External(1)
	assert.False(t, ok)

	m.UnbindInternal(2)
	assert.Equal(t, 0, m.Len())

	// Unbinding unknown ids is a no-op.
	m.Unbind(100)
	m.UnbindInternal(7)
	assert.NoError(t, m.Validate())
}

func TestIDMap_ValidateCatchesSkew(t *testing.T) {
	m := NewIDMap()
	m.Bind(100, 1)

	// Corrupt one direction behind the type's back.
	delete(m.toExternal, 1)
	assert.Error(t, m.Validate())

	m.toExternal[1] = 999
	assert.Error(t, m.Validate())
}
