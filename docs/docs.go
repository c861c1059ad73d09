// Package docs holds the OpenAPI description of the planner API.
package docs

import _ "embed"

//go:embed openapi.yaml
var OpenAPI []byte
