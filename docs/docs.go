// Package docs registers the OpenAPI description served at /swagger.
// Regenerate with: swag init -g cmd/homeworks/main.go -o docs
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
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "paths": {
        "/auth/register": {"post": {"tags": ["auth"], "summary": "Register a new user",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
            "responses": {"201": {"description": "Created"}, "400": {"description": "Bad Request"}, "409": {"description": "Conflict"}}}},
        "/auth/login": {"post": {"tags": ["auth"], "summary": "Login",
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/credentials"}}],
            "responses": {"200": {"description": "OK"}, "401": {"description": "Unauthorized"}, "404": {"description": "Not Found"}}}},
        "/auth/logout": {"post": {"tags": ["auth"], "summary": "Logout", "security": [{"BearerAuth": []}],
            "responses": {"204": {"description": "No Content"}}}},
        "/v1/profile": {
            "get": {"tags": ["profile"], "summary": "Get profile", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserProfile"}}, "404": {"description": "Not Found"}}},
            "put": {"tags": ["profile"], "summary": "Set display name", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/profileRequest"}}],
                "responses": {"200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.UserProfile"}}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/categories": {
            "get": {"tags": ["categories"], "summary": "List categories", "security": [{"BearerAuth": []}],
                "responses": {"200": {"description": "OK"}, "503": {"description": "Service Unavailable"}}},
            "post": {"tags": ["categories"], "summary": "Create category", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/categoryRequest"}}],
                "responses": {"201": {"description": "Created"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/categories/{id}": {
            "put": {"tags": ["categories"], "summary": "Update category", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"},
                    {"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/categoryRequest"}}],
                "responses": {"200": {"description": "OK"}, "404": {"description": "Not Found"}}},
            "delete": {"tags": ["categories"], "summary": "Delete category", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
                "responses": {"204": {"description": "No Content"}}}},
        "/v1/history": {
            "get": {"tags": ["history"], "summary": "List a week of history", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "query", "name": "start", "type": "string", "description": "First day, YYYY-MM-DD"}],
                "responses": {"200": {"description": "OK"}, "422": {"description": "Unprocessable Entity"}}},
            "post": {"tags": ["history"], "summary": "Record a chore", "security": [{"BearerAuth": []}],
                "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/recordRequest"}}],
                "responses": {"201": {"description": "Created", "schema": {"$ref": "#/definitions/domain.CompletionRecord"}}, "428": {"description": "Precondition Required"}}}},
        "/v1/history/{id}": {"delete": {"tags": ["history"], "summary": "Delete a record", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "path", "name": "id", "required": true, "type": "string"}],
            "responses": {"204": {"description": "No Content"}}}},
        "/v1/session": {"get": {"tags": ["session"], "summary": "Session view", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/session/reload": {"post": {"tags": ["session"], "summary": "Reload session lists", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/session/window/prev": {"post": {"tags": ["session"], "summary": "Previous week", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/session/window/next": {"post": {"tags": ["session"], "summary": "Next week", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/session/window/today": {"post": {"tags": ["session"], "summary": "Current week", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}}}},
        "/v1/session/selection/main": {"post": {"tags": ["session"], "summary": "Choose main category", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/choiceRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/session/selection/sub": {"post": {"tags": ["session"], "summary": "Choose subcategory", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "body", "name": "body", "required": true, "schema": {"$ref": "#/definitions/choiceRequest"}}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}, "422": {"description": "Unprocessable Entity"}}}},
        "/v1/session/selection/back": {"post": {"tags": ["session"], "summary": "Back to main categories", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/v1/session/selection/reselect": {"post": {"tags": ["session"], "summary": "Reselect subcategory", "security": [{"BearerAuth": []}],
            "responses": {"200": {"description": "OK"}, "409": {"description": "Conflict"}}}},
        "/v1/session/selection/confirm": {"post": {"tags": ["session"], "summary": "Confirm chore", "security": [{"BearerAuth": []}],
            "responses": {"201": {"description": "Created"}, "409": {"description": "Conflict"}, "428": {"description": "Precondition Required"}}}},
        "/v1/feed": {"get": {"tags": ["feed"], "summary": "Live change feed (websocket)", "security": [{"BearerAuth": []}],
            "parameters": [{"in": "query", "name": "access_token", "type": "string"}],
            "responses": {"101": {"description": "Switching Protocols"}}}}
    },
    "definitions": {
        "credentials": {"type": "object", "properties": {"email": {"type": "string"}, "password": {"type": "string"}}},
        "profileRequest": {"type": "object", "properties": {"display_name": {"type": "string"}}},
        "categoryRequest": {"type": "object", "properties": {"main_category": {"type": "string"}, "sub_categories": {"type": "string", "description": "comma-separated"}}},
        "recordRequest": {"type": "object", "properties": {"main_category": {"type": "string"}, "sub_category": {"type": "string"}}},
        "choiceRequest": {"type": "object", "properties": {"name": {"type": "string"}}},
        "domain.UserProfile": {"type": "object", "properties": {"uid": {"type": "string"}, "display_name": {"type": "string"},
            "created_at": {"type": "string"}, "updated_at": {"type": "string"}}},
        "domain.CompletionRecord": {"type": "object", "properties": {"id": {"type": "string"}, "title": {"type": "string"},
            "assigned_to": {"type": "string"}, "assigned_to_uid": {"type": "string"}, "completed_at": {"type": "string"}}}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "homeworks API",
	Description:      "Shared household chore tracker.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
