package handlers

import (
	"net/http"
	"regexp"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

var routeParam = regexp.MustCompile(`:(\w+)`)

func TestOpenAPIDescribesEveryRoute(t *testing.T) {
	app := newTestApp(t, &fakeRenderer{}, nil)

	resp, data := call(t, app, http.MethodGet, "/docs/openapi.yaml", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	var doc struct {
		Paths map[string]map[string]any `yaml:"paths"`
	}
	require.NoError(t, yaml.Unmarshal(data, &doc))

	for _, r := range app.GetRoutes(true) {
		switch r.Method {
		case http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete:
		default:
			continue
		}
		path := strings.TrimSuffix(r.Path, "/")
		if path == "/api/v1" || strings.HasPrefix(path, "/docs") {
			continue
		}

		path = routeParam.ReplaceAllString(path, "{$1}")
		ops, ok := doc.Paths[path]
		if assert.True(t, ok, "path %s not documented", path) {
			assert.Contains(t, ops, strings.ToLower(r.Method), "%s %s not documented", r.Method, path)
		}
	}
}

func TestSwaggerUI(t *testing.T) {
	app := newTestApp(t, &fakeRenderer{}, nil)

	resp, data := call(t, app, http.MethodGet, "/docs", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Contains(t, string(data), "/docs/openapi.yaml")
}
