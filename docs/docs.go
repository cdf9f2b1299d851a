// ReelMatch - Fingerprint-Based Movie and TV Recommendations
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/reelmatch

// Package docs registers the OpenAPI document served at /swagger/doc.json.
// Regenerate with: swag init -g cmd/server/main.go -o docs
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {
            "name": "GitHub Repository",
            "url": "https://github.com/tomtom215/reelmatch/issues"
        },
        "license": {
            "name": "AGPL-3.0-or-later",
            "url": "https://www.gnu.org/licenses/agpl-3.0.html"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/v1/recommendations/guest": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Guest recommendations",
                "parameters": [
                    {"type": "string", "description": "movie, show or all (default all)", "name": "mediaType", "in": "query"},
                    {"type": "string", "description": "JSON array of {title_id, media_type, score}", "name": "scoredItems", "in": "query", "required": true},
                    {"type": "string", "description": "JSON array of {title_id, media_type}", "name": "excludeIds", "in": "query"},
                    {"type": "integer", "description": "Maximum results (default 20, max 100)", "name": "limit", "in": "query"},
                    {"type": "boolean", "description": "Reduce more than 20 scored items instead of rejecting them", "name": "autoReduce", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "Guest recommendations (JSON body)",
                "parameters": [
                    {"description": "Guest ratings", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/api.guestBody"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/recommendations/user": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["Recommendations"],
                "summary": "User recommendations",
                "parameters": [
                    {"type": "string", "description": "movie, show or all (default all)", "name": "mediaType", "in": "query"},
                    {"type": "integer", "description": "Maximum results (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/titles/{tmdbId}/similar": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Titles"],
                "summary": "Similar titles",
                "parameters": [
                    {"type": "integer", "description": "Source title id", "name": "tmdbId", "in": "path", "required": true},
                    {"type": "string", "description": "Media type of the source title (default movie)", "name": "sourceMediaType", "in": "query"},
                    {"type": "string", "description": "Fingerprint attribute to match on", "name": "fingerprintKey", "in": "query"},
                    {"type": "string", "description": "movie, show or all (default: the source media type)", "name": "mediaType", "in": "query"},
                    {"type": "integer", "description": "Maximum results (default 50)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/search": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Titles"],
                "summary": "Text search",
                "parameters": [
                    {"type": "string", "description": "Search text", "name": "q", "in": "query", "required": true},
                    {"type": "string", "description": "movie, show or all (default all)", "name": "mediaType", "in": "query"},
                    {"type": "integer", "description": "Maximum results (default 20, max 100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "502": {"description": "Bad Gateway", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/api/v1/fingerprint/attributes": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Titles"],
                "summary": "Fingerprint attributes",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Liveness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        },
        "/health/ready": {
            "get": {
                "produces": ["application/json"],
                "tags": ["Health"],
                "summary": "Readiness probe",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/api.APIResponse"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/api.APIResponse"}}
                }
            }
        }
    },
    "definitions": {
        "api.APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "details": {}
            }
        },
        "api.APIMeta": {
            "type": "object",
            "properties": {
                "timestamp": {"type": "string"},
                "request_id": {"type": "string"},
                "query_time_ms": {"type": "integer"},
                "cached": {"type": "boolean"}
            }
        },
        "api.APIResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "data": {},
                "error": {"$ref": "#/definitions/api.APIError"},
                "meta": {"$ref": "#/definitions/api.APIMeta"}
            }
        },
        "api.guestBody": {
            "type": "object",
            "properties": {
                "mediaType": {"type": "string"},
                "scoredItems": {"type": "array", "items": {"$ref": "#/definitions/recommend.ScoredItem"}},
                "excludeIds": {"type": "array", "items": {"$ref": "#/definitions/recommend.TitleKey"}},
                "limit": {"type": "integer"},
                "autoReduce": {"type": "boolean"}
            }
        },
        "recommend.ScoredItem": {
            "type": "object",
            "required": ["media_type", "title_id"],
            "properties": {
                "title_id": {"type": "integer"},
                "media_type": {"type": "string"},
                "score": {"type": "integer", "minimum": 1, "maximum": 10}
            }
        },
        "recommend.TitleKey": {
            "type": "object",
            "properties": {
                "title_id": {"type": "integer"},
                "media_type": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "description": "HS256 JWT whose subject is the user id.",
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http", "https"},
	Title:            "ReelMatch API",
	Description:      "Fingerprint-based movie and TV recommendations.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
