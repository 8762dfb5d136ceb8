package ptr

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDeref(t *testing.T) {
	assert.Equal(t, 5, Deref(Ptr(5), 1))
	assert.Equal(t, 1, Deref[int](nil, 1))
}

func TestValues(t *testing.T) {
	assert.Equal(t, []int{1, 3}, Values([]*int{Ptr(1), nil, Ptr(3)}))
	assert.Empty(t, Values[int](nil))
}
