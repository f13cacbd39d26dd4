package slugify

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestBase(t *testing.T) {
	assert.Equal(t, "ana-lopez", Base("Ana López"))
	assert.Equal(t, "hello-world", Base("  Hello,  World!  "))
	assert.Equal(t, "user", Base(""))
}

func TestUnique_NoCollision(t *testing.T) {
	assert.Equal(t, "ana-lopez", Unique("ana-lopez", nil))
	assert.Equal(t, "ana-lopez", Unique("ana-lopez", []string{"other"}))
}

func TestUnique_CollisionAddsPaddedSuffix(t *testing.T) {
	assert.Equal(t, "ana-lopez-001", Unique("ana-lopez", []string{"ana-lopez"}))
	assert.Equal(t, "ana-lopez-002", Unique("ana-lopez", []string{"ana-lopez", "ana-lopez-001"}))
}

func TestUnique_SkipsGaps(t *testing.T) {
	taken := []string{"ana-lopez", "ana-lopez-001", "ana-lopez-003"}
	assert.Equal(t, "ana-lopez-002", Unique("ana-lopez", taken))
}
