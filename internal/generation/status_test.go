package generation

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestStatusTracker_Lifecycle(t *testing.T) {
	tr := NewStatusTracker()
	assert.Equal(t, StatusIdle, tr.Status("exp-1"))

	assert.True(t, tr.Begin("exp-1"))
	assert.Equal(t, StatusGenerating, tr.Status("exp-1"))
	assert.False(t, tr.Begin("exp-1"), "second begin while generating is rejected")

	tr.Fail("exp-1")
	assert.Equal(t, StatusFailed, tr.Status("exp-1"))
	assert.Equal(t, map[string]Status{"exp-1": StatusFailed}, tr.Snapshot())

	assert.True(t, tr.Begin("exp-1"), "a failed key can be retried by the caller")
	tr.Finish("exp-1")
	assert.Equal(t, StatusIdle, tr.Status("exp-1"))
	assert.Empty(t, tr.Snapshot())
}

func TestStatusTracker_KeysAreIndependent(t *testing.T) {
	tr := NewStatusTracker()
	assert.True(t, tr.Begin("exp-1"))
	assert.True(t, tr.Begin("exp-2"))
	assert.Equal(t, StatusIdle, tr.Status(KeySummary))
}
