package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseUpdateTicketInput_TracksPresence(t *testing.T) {
	in, err := ParseUpdateTicketInput([]byte(`{"notes":null,"status":"IN_PROGRESS","assignee_ids":[3,4]}`))
	require.NoError(t, err)

	assert.True(t, in.Has("notes"))
	assert.False(t, in.Notes.Valid)
	assert.True(t, in.Has("status"))
	assert.Equal(t, "IN_PROGRESS", in.Status.String)
	assert.True(t, in.Has("assignee_ids"))
	assert.Equal(t, []uint{3, 4}, in.AssigneeIDs)
	assert.False(t, in.Has("location"))
	assert.Equal(t, []string{"assignee_ids", "notes", "status"}, in.Fields())
}

func TestParseUpdateTicketInput_FieldsIgnoresUnknownKeys(t *testing.T) {
	in, err := ParseUpdateTicketInput([]byte(`{"bogus":1,"status":"CANCELLED","id":9}`))
	require.NoError(t, err)

	assert.True(t, in.Has("bogus"))
	assert.Equal(t, []string{"status"}, in.Fields())
}

func TestParseUpdateTicketInput_Invalid(t *testing.T) {
	_, err := ParseUpdateTicketInput([]byte(`[1,2]`))
	assert.Error(t, err)

	_, err = ParseUpdateTicketInput([]byte(`{"assignee_ids":"nope"}`))
	assert.Error(t, err)
}

func TestColumnUpdates(t *testing.T) {
	in, err := ParseUpdateTicketInput([]byte(`{
		"problem_title": "Broken window",
		"reporter_phone": null,
		"urgency": "high",
		"scheduled_at": "2026-04-01T10:00:00Z",
		"completed_at": null
	}`))
	require.NoError(t, err)

	updates, err := in.columnUpdates()
	require.NoError(t, err)

	assert.Len(t, updates, 5)
	assert.Equal(t, "Broken window", updates["problem_title"])
	assert.Nil(t, updates["reporter_phone"])
	assert.Equal(t, "HIGH", updates["urgency"])
	assert.Equal(t, time.Date(2026, 4, 1, 10, 0, 0, 0, time.UTC), *(updates["scheduled_at"].(*time.Time)))
	assert.Nil(t, updates["completed_at"])
}

func TestColumnUpdates_AssigneesOnly(t *testing.T) {
	in, err := ParseUpdateTicketInput([]byte(`{"assignee_ids":[]}`))
	require.NoError(t, err)

	updates, err := in.columnUpdates()
	require.NoError(t, err)
	assert.Empty(t, updates)
	assert.True(t, in.Has("assignee_ids"))
	assert.Empty(t, in.AssigneeIDs)
}

func TestUniqueIDs(t *testing.T) {
	assert.Equal(t, []uint{3, 1}, uniqueIDs([]uint{3, 0, 1, 3, 1}))
	assert.Empty(t, uniqueIDs(nil))
}
