package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/course-service/internal/domain"
)

func TestTags_Unmarshal(t *testing.T) {
	tests := []struct {
		name string
		body string
		want []string
		set  bool
	}{
		{name: "absent", body: `{}`, want: nil, set: false},
		{name: "array", body: `{"tags":["go","web"]}`, want: []string{"go", "web"}, set: true},
		{name: "comma string", body: `{"tags":" go, web ,,"}`, want: []string{"go", "web"}, set: true},
		{name: "null clears", body: `{"tags":null}`, want: []string{}, set: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var req CourseRequest
			require.NoError(t, json.Unmarshal([]byte(tt.body), &req))
			assert.Equal(t, tt.set, req.Tags.Set)
			assert.Equal(t, tt.want, req.Tags.Values)
		})
	}
}

func TestNewCourseResponse_ModuleRef(t *testing.T) {
	moduleID, title := "m1", "Go"
	resp := NewCourseResponse(&domain.Course{ID: "c1", ModuleID: &moduleID, ModuleTitle: &title})

	require.NotNil(t, resp.Module)
	assert.Equal(t, "Go", resp.Module.Title)
	assert.Equal(t, []string{}, resp.Tags)

	detached := NewCourseResponse(&domain.Course{ID: "c2"})
	assert.Nil(t, detached.Module)
}

func TestNewUserResponse_OmitsPassword(t *testing.T) {
	b, err := json.Marshal(NewUserResponse(&domain.User{ID: "u1", PasswordHash: "secret-hash"}))
	require.NoError(t, err)
	assert.NotContains(t, string(b), "secret-hash")
	assert.Contains(t, string(b), `"fName"`)
}
