package database

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSchemaKeepsOneReservationPerSlot(t *testing.T) {
	require.Len(t, schema, 1)
	ddl := schema[0]
	assert.Contains(t, ddl, "CREATE TABLE IF NOT EXISTS terrace_reservations")
	assert.Contains(t, ddl, "UNIQUE KEY uq_terrace_slot (reservation_date, time_slot)")
	assert.True(t, strings.Contains(ddl, "ENUM('morning','afternoon_evening')"))
}
