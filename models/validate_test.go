package models

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTaskValidate(t *testing.T) {
	task := &Task{Name: "write report", Deadline: time.Now().Add(24 * time.Hour)}
	require.NoError(t, task.Validate())

	err := (&Task{Deadline: time.Now()}).Validate()
	require.Error(t, err)
	assert.Equal(t, "name is required", err.Error())

	err = (&Task{Name: "write report"}).Validate()
	require.Error(t, err)
	assert.Equal(t, "deadline is required", err.Error())
}

func TestTaskValidateAggregatesInOrder(t *testing.T) {
	err := (&Task{}).Validate()
	require.Error(t, err)
	assert.Equal(t, "name is required, deadline is required", err.Error())
}

func TestTaskApplyDefaults(t *testing.T) {
	task := &Task{Name: "write report", Deadline: time.Now()}
	task.ApplyDefaults()

	assert.Equal(t, UnassignedName, task.AssignedUserName)
	assert.False(t, task.DateCreated.IsZero())

	created := task.DateCreated
	task.ApplyDefaults()
	assert.Equal(t, created, task.DateCreated, "dateCreated is set once")
}

func TestUserValidate(t *testing.T) {
	user := &User{Name: "Ana", Email: "ana@example.com"}
	require.NoError(t, user.Validate())

	err := (&User{}).Validate()
	require.Error(t, err)
	assert.Equal(t, "name is required, email is required", err.Error())
}

func TestUserApplyDefaults(t *testing.T) {
	user := &User{Name: "Ana", Email: "ana@example.com"}
	user.ApplyDefaults()
	assert.NotNil(t, user.PendingTasks)
	assert.Empty(t, user.PendingTasks)
}
