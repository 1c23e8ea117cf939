package common

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestHasAny(t *testing.T) {
	assert.True(t, HasAny("dial tcp: connection refused", "refused", "timeout"))
	assert.False(t, HasAny("unexpected EOF", "refused", "timeout"))
	assert.False(t, HasAny("anything"))
}

func TestSplitAndTrim(t *testing.T) {
	assert.Equal(t, []string{"Nairobi", "Lagos"}, SplitAndTrim(" Nairobi , Lagos ,, "))
	assert.Nil(t, SplitAndTrim(""))
	assert.Nil(t, SplitAndTrim(" , ,"))
}
