package httpserver

import "github.com/swaggo/swag"

// swaggerInfo is served as /swagger/doc.json. Running swag init against
// cmd/api replaces it with the full document built from the handler
// annotations.
var swaggerInfo = &swag.Spec{
	Version:          "1",
	Title:            "Intent Router API",
	Description:      "Routes natural-language queries to handlers by embedding similarity.",
	BasePath:         "/",
	Schemes:          []string{},
	InfoInstanceName: swag.Name,
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(swaggerInfo.InstanceName(), swaggerInfo)
}

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/health": {"get": {"tags": ["Health"], "summary": "Health Check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/live": {"get": {"tags": ["Health"], "summary": "Liveness Check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/ready": {"get": {"tags": ["Health"], "summary": "Readiness Check", "produces": ["application/json"], "responses": {"200": {"description": "OK"}, "503": {"description": "Index not loaded"}}}},
        "/api/v1/ask": {
            "post": {
                "tags": ["Assistant"],
                "summary": "Ask a question",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"type": "object", "properties": {"query": {"type": "string"}}}}],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "502": {"description": "Route handler failed"}, "503": {"description": "Encoder unavailable"}}
            }
        },
        "/api/v1/routes": {"get": {"tags": ["Assistant"], "summary": "List routes", "produces": ["application/json"], "responses": {"200": {"description": "OK"}}}},
        "/api/v1/admin/sync": {
            "post": {
                "tags": ["Admin"],
                "summary": "Resync the routing index",
                "produces": ["application/json"],
                "parameters": [
                    {"in": "query", "name": "mode", "type": "string", "enum": ["full", "incremental"]},
                    {"in": "header", "name": "X-Admin-Token", "type": "string"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "Bad Request"}, "401": {"description": "Unauthorized"}, "409": {"description": "Sync already running"}}
            }
        }
    }
}`
