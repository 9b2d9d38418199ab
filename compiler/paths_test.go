package compiler

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCompilePath(t *testing.T) {
	t.Run("simple path", func(t *testing.T) {
		cp, err := CompilePath("", "/pets", false)
		require.NoError(t, err)
		assert.Equal(t, "/pets", cp.Name)
		assert.Empty(t, cp.ParamNames())
		assert.Equal(t, []string{"pets"}, cp.Expected)
		assert.Equal(t, `^/pets$`, cp.Regex.String())
	})

	t.Run("parameters under a base path", func(t *testing.T) {
		cp, err := CompilePath("/api", "/users/{userId}/posts/{postId}", false)
		require.NoError(t, err)
		assert.Equal(t, []string{"userId", "postId"}, cp.ParamNames())
		assert.Equal(t, []string{"users", "{userId}", "posts", "{postId}"}, cp.Expected)
		assert.Equal(t, `^/api/users/([^/]+)/posts/([^/]+)$`, cp.Regex.String())
	})

	t.Run("trailing slash on base path is dropped", func(t *testing.T) {
		cp, err := CompilePath("/", "/users", false)
		require.NoError(t, err)
		assert.True(t, cp.Matches("/users"))
		assert.False(t, cp.Matches("//users"))
	})

	t.Run("suffix matching omits the start anchor", func(t *testing.T) {
		cp, err := CompilePath("/api", "/users/{id}", true)
		require.NoError(t, err)
		assert.Equal(t, `/api/users/([^/]+)$`, cp.Regex.String())
		assert.True(t, cp.Matches("/gateway/api/users/42"))
		assert.False(t, cp.Matches("/api/users/42/extra"))
	})

	t.Run("escapes regex special characters", func(t *testing.T) {
		cp, err := CompilePath("/v1.0", "/api+beta/items", false)
		require.NoError(t, err)
		assert.True(t, cp.Matches("/v1.0/api+beta/items"))
		assert.False(t, cp.Matches("/v1x0/api+beta/items"))
		assert.False(t, cp.Matches("/v1.0/apiibeta/items"))
	})

	t.Run("parameter inside a segment", func(t *testing.T) {
		cp, err := CompilePath("", "/files/{name}.json", false)
		require.NoError(t, err)
		assert.Equal(t, map[string]string{"name": "report"}, cp.Extract("/files/report.json"))
		assert.Equal(t, []string{"files", "{name}.json"}, cp.Expected)
	})

	errorTests := []struct {
		name     string
		template string
		contains string
	}{
		{"empty template", "", "cannot be empty"},
		{"unclosed brace", "/pets/{petId", "unclosed"},
		{"empty parameter name", "/pets/{}", "empty path parameter"},
		{"duplicate parameter", "/users/{id}/posts/{id}", "duplicate"},
		{"stray closing brace", "/pets/id}", "unexpected '}'"},
	}
	for _, tt := range errorTests {
		t.Run("errors on "+tt.name, func(t *testing.T) {
			_, err := CompilePath("", tt.template, false)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.contains)
		})
	}
}

func TestCompiledPath_Matches(t *testing.T) {
	cp, err := CompilePath("/api", "/users/{id}", false)
	require.NoError(t, err)

	tests := []struct {
		path string
		want bool
	}{
		{"/api/users/42", true},
		{"/api/users/abc-def", true},
		{"/api/users/42/extra", false},
		{"/api/users/", false},
		{"/api/users", false},
		{"/users/42", false},
		{"/prefix/api/users/42", false},
		{"/api/users/42/", false},
	}
	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, cp.Matches(tt.path))
		})
	}
}

func TestCompiledPath_Extract(t *testing.T) {
	cp, err := CompilePath("/api", "/users/{userId}/posts/{postId}", false)
	require.NoError(t, err)

	assert.Equal(t, map[string]string{"userId": "7", "postId": "abc"}, cp.Extract("/api/users/7/posts/abc"))
	assert.Nil(t, cp.Extract("/api/users/7"))

	static, err := CompilePath("", "/health", false)
	require.NoError(t, err)
	assert.Equal(t, map[string]string{}, static.Extract("/health"))
}

func TestShape(t *testing.T) {
	assert.Equal(t, shape("/a/{x}/b"), shape("/a/{y}/b"))
	assert.NotEqual(t, shape("/a/{x}"), shape("/a/b"))
}

func TestCompiledPath_ParamNamesIsACopy(t *testing.T) {
	cp, err := CompilePath("/api", "/users/{userId}/posts/{postId}", false)
	require.NoError(t, err)

	names := cp.ParamNames()
	names[0] = "changed"
	_ = append(names[:1], "extra")

	assert.Equal(t, []string{"userId", "postId"}, cp.ParamNames())
	assert.Equal(t, map[string]string{"userId": "7", "postId": "9"}, cp.Extract("/api/users/7/posts/9"))
}
