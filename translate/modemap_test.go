package translate

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMapGroupStatus(t *testing.T) {
	tests := []struct {
		flags string
		want  string
	}{
		{"pvn", "+n"},
		{"mvn", "+nt"},
		{"rvn", "+nti"},
		{"cvn", "+ntC"},
		{"psn", "+np"},
		{"pin", "+ns"},
		{"pvq", "+nq"},
		{"", "+n"},
		{"rsq", "+npq"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, mapGroupStatus(tt.flags), "flags=%q", tt.flags)
	}
}

func TestDiffGroupStatusModesSingleCharDiff(t *testing.T) {
	diff := diffGroupStatusModes("pvn", "mvn")
	assert.Equal(t, []string{"+t"}, diff)
}

func TestDiffGroupStatusModesNoChange(t *testing.T) {
	assert.Empty(t, diffGroupStatusModes("pvn", "pvn"))
}

func TestDiffGroupStatusModesAddAndRemove(t *testing.T) {
	diff := diffGroupStatusModes("mvn", "pin")
	assert.ElementsMatch(t, []string{"+s", "-t"}, diff)
}
