package postgres

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMigrations_IDsAscend(t *testing.T) {
	list := migrations()
	require.NotEmpty(t, list)

	for i := 1; i < len(list); i++ {
		assert.Less(t, list[i-1].ID, list[i].ID)
	}
	assert.Equal(t, "20240715-0000", list[len(list)-1].ID)
}
