package sandbox

import _ "embed"

// OpenAPISpec is the contract the sandbox serves and validates requests against
//
//go:embed openapi.yaml
var OpenAPISpec []byte
