package query

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
)

func TestParseDefaults(t *testing.T) {
	spec, err := Parse(url.Values{}, TasksDefaultLimit)
	require.NoError(t, err)

	assert.Nil(t, spec.Filter)
	assert.Nil(t, spec.Sort)
	assert.Nil(t, spec.Projection)
	assert.Equal(t, int64(0), spec.Skip)
	assert.Equal(t, int64(100), spec.Limit)
	assert.False(t, spec.CountOnly)
}

func TestParseDefaultLimitAsymmetry(t *testing.T) {
	tasks, err := Parse(url.Values{}, TasksDefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, int64(100), tasks.Limit)

	users, err := Parse(url.Values{}, UsersDefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, int64(0), users.Limit, "user listings have no default limit")
}

func TestParseWhere(t *testing.T) {
	params := url.Values{"where": {`{"completed": true}`}}
	spec, err := Parse(params, TasksDefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"completed": true}, spec.Filter)
}

func TestParseRejectionsNameTheParameter(t *testing.T) {
	tests := []struct {
		name   string
		params url.Values
		want   string
	}{
		{"malformed where", url.Values{"where": {`{"completed":`}}, "Invalid where parameter"},
		{"non-object where", url.Values{"where": {`[1,2]`}}, "Invalid where parameter"},
		{"malformed sort", url.Values{"sort": {`{"deadline"}`}}, "Invalid sort parameter"},
		{"non-object sort", url.Values{"sort": {`"deadline"`}}, "Invalid sort parameter"},
		{"bad sort direction", url.Values{"sort": {`{"deadline": "sideways"}`}}, "Invalid sort parameter"},
		{"malformed select", url.Values{"select": {`{name: 1}`}}, "Invalid select parameter"},
		{"bad where before bad sort", url.Values{"where": {`nope`}, "sort": {`also nope`}}, "Invalid where parameter"},
		{"bad sort before bad select", url.Values{"where": {`{}`}, "sort": {`nope`}, "select": {`nope`}}, "Invalid sort parameter"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.params, TasksDefaultLimit)
			require.Error(t, err)
			assert.Equal(t, tt.want, err.Error())
		})
	}
}

func TestParseSortPreservesKeyOrder(t *testing.T) {
	params := url.Values{"sort": {`{"completed": -1, "deadline": 1, "name": "desc"}`}}
	spec, err := Parse(params, TasksDefaultLimit)
	require.NoError(t, err)

	want := bson.D{
		{Key: "completed", Value: int32(-1)},
		{Key: "deadline", Value: int32(1)},
		{Key: "name", Value: int32(-1)},
	}
	assert.Equal(t, want, spec.Sort)
}

func TestParseSelect(t *testing.T) {
	params := url.Values{"select": {`{"name": 1, "_id": 0}`}}
	spec, err := Parse(params, TasksDefaultLimit)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"name": float64(1), "_id": float64(0)}, spec.Projection)
}

func TestParseSkipLimitLenient(t *testing.T) {
	tests := []struct {
		name      string
		params    url.Values
		wantSkip  int64
		wantLimit int64
	}{
		{"valid values", url.Values{"skip": {"5"}, "limit": {"20"}}, 5, 20},
		{"non-numeric skip", url.Values{"skip": {"abc"}}, 0, 100},
		{"negative skip", url.Values{"skip": {"-3"}}, 0, 100},
		{"non-numeric limit", url.Values{"limit": {"lots"}}, 0, 100},
		{"negative limit", url.Values{"limit": {"-1"}}, 0, 100},
		{"explicit zero limit disables the cap", url.Values{"limit": {"0"}}, 0, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Parse(tt.params, TasksDefaultLimit)
			require.NoError(t, err)
			assert.Equal(t, tt.wantSkip, spec.Skip)
			assert.Equal(t, tt.wantLimit, spec.Limit)
		})
	}
}

func TestParseCount(t *testing.T) {
	spec, err := Parse(url.Values{"count": {"true"}}, TasksDefaultLimit)
	require.NoError(t, err)
	assert.True(t, spec.CountOnly)

	spec, err = Parse(url.Values{"count": {"TRUE"}}, TasksDefaultLimit)
	require.NoError(t, err)
	assert.False(t, spec.CountOnly, "count must be the literal string true")
}

func TestProjectionStandalone(t *testing.T) {
	projection, err := Projection(`{"pendingTasks": 1}`)
	require.NoError(t, err)
	assert.Equal(t, bson.M{"pendingTasks": float64(1)}, projection)

	_, err = Projection(`pendingTasks`)
	require.Error(t, err)
	assert.Equal(t, "Invalid select parameter", err.Error())
}
