package psqlbuilder

import (
	"testing"

	"github.com/Masterminds/squirrel"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSelect_UsesDollarPlaceholders(t *testing.T) {
	query, args, err := Select("id").From("bookings").
		Where(squirrel.Eq{"service_option_id": 10}).
		Where(squirrel.GtOrEq{"start_time": "2026-03-10"}).
		ToSql()

	require.NoError(t, err)
	assert.Equal(t, "SELECT id FROM bookings WHERE service_option_id = $1 AND start_time >= $2", query)
	assert.Equal(t, []interface{}{10, "2026-03-10"}, args)
}

func TestUpdate_UsesDollarPlaceholders(t *testing.T) {
	query, _, err := Update("bookings").Set("status", "confirmed").Where(squirrel.Eq{"id": 1}).ToSql()

	require.NoError(t, err)
	assert.Equal(t, "UPDATE bookings SET status = $1 WHERE id = $2", query)
}
