// Package api содержит встроенную OpenAPI-спецификацию портала,
// отдаётся на /swagger/openapi.json.
package api

import _ "embed"

//go:embed openapi.json
var OpenAPISpec []byte
