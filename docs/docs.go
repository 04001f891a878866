// Package docs registra la descripción OpenAPI servida en /swagger/*.
// Se regenera con: swag init -g cmd/api/main.go
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/calendar/{token}": {
            "get": {
                "description": "Feed iCalendar público. El token es la credencial; acepta sufijo .ics.",
                "produces": ["text/calendar"],
                "tags": ["calendar"],
                "summary": "Feed de calendario suscribible",
                "parameters": [
                    {"type": "string", "description": "Token del feed", "name": "token", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "VCALENDAR", "schema": {"type": "string"}},
                    "404": {"description": "calendar not found", "schema": {"type": "string"}}
                }
            }
        },
        "/me/calendar-feeds": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Listar mis feeds",
                "responses": {"200": {"description": "OK"}, "401": {"description": "unauthorized"}}
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Crear feed (todas las mascotas o una)",
                "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}, "403": {"description": "forbidden"}}
            }
        },
        "/me/calendar-feeds/{feedID}/rotate": {
            "post": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Rotar token del feed",
                "parameters": [
                    {"type": "string", "name": "feedID", "in": "path", "required": true}
                ],
                "responses": {"200": {"description": "OK"}, "404": {"description": "feed not found"}}
            }
        },
        "/me/upcoming": {
            "get": {
                "produces": ["application/json"],
                "tags": ["calendar"],
                "summary": "Próximas ocurrencias",
                "parameters": [
                    {"type": "integer", "description": "Días hacia adelante (1..365, default 7)", "name": "days", "in": "query"}
                ],
                "responses": {"200": {"description": "OK"}, "400": {"description": "invalid days"}}
            }
        },
        "/me/changes": {
            "get": {
                "produces": ["text/event-stream"],
                "tags": ["changes"],
                "summary": "Stream de cambios (SSE)",
                "responses": {"200": {"description": "event stream"}, "401": {"description": "unauthorized"}}
            }
        },
        "/pets": {
            "get": {"produces": ["application/json"], "tags": ["pets"], "summary": "Listar mis mascotas", "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["pets"], "summary": "Crear mascota", "responses": {"201": {"description": "Created"}}}
        },
        "/pets/{petID}": {
            "get": {"produces": ["application/json"], "tags": ["pets"], "summary": "Obtener mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "404": {"description": "pet not found"}}},
            "patch": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["pets"], "summary": "Actualizar perfil de mascota", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}, "403": {"description": "forbidden"}}}
        },
        "/pets/{petID}/care-events": {
            "get": {"produces": ["application/json"], "tags": ["care-events"], "summary": "Listar eventos de cuidado", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["care-events"], "summary": "Crear evento de cuidado", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}}}
        },
        "/pets/{petID}/vaccinations": {
            "get": {"produces": ["application/json"], "tags": ["vaccinations"], "summary": "Listar vacunas", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["vaccinations"], "summary": "Registrar vacuna", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "400": {"description": "invalid input"}}}
        },
        "/pets/{petID}/collaborators": {
            "get": {"produces": ["application/json"], "tags": ["collaborators"], "summary": "Listar colaboradores", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"200": {"description": "OK"}}},
            "post": {"consumes": ["application/json"], "produces": ["application/json"], "tags": ["collaborators"], "summary": "Invitar colaborador", "parameters": [{"type": "string", "name": "petID", "in": "path", "required": true}], "responses": {"201": {"description": "Created"}, "403": {"description": "forbidden"}}}
        }
    }
}`

var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "pet-care-records API",
	Description:      "Registros de cuidado de mascotas y feeds de calendario suscribibles.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
