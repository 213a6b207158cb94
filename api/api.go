// Package api embeds the OpenAPI document describing the HTTP surface.
package api

import _ "embed"

// Spec is the raw OpenAPI 3.0 document. The HTTP adapter validates
// incoming requests against it.
//
//go:embed openapi.yaml
var Spec []byte
