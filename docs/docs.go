// Package docs holds the OpenAPI document served under /swagger/.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "schemes": {{ marshal .Schemes }},
    "paths": {
        "/": {
            "get": {
                "tags": ["General"],
                "summary": "Greeting",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "Static greeting",
                        "schema": {"$ref": "#/definitions/MessageResponse"}
                    }
                }
            }
        },
        "/api/movies": {
            "get": {
                "tags": ["Movies"],
                "summary": "List all movies and shows",
                "description": "Returns every record of the data file in file order",
                "produces": ["application/json"],
                "responses": {
                    "200": {
                        "description": "The movie collection",
                        "schema": {"$ref": "#/definitions/MoviesResponse"}
                    },
                    "500": {
                        "description": "Data file missing or malformed"
                    }
                }
            }
        },
        "/api/movies/{movie_id}/watched": {
            "patch": {
                "tags": ["Movies"],
                "summary": "Set the watched flag",
                "description": "Sets watched on the first movie with the given id. An unknown id still succeeds unless strict not-found mode is enabled.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "parameters": [
                    {
                        "in": "path",
                        "name": "movie_id",
                        "type": "integer",
                        "required": true
                    },
                    {
                        "in": "body",
                        "name": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/UpdateWatchedRequest"}
                    }
                ],
                "responses": {
                    "200": {
                        "description": "Update confirmation",
                        "schema": {"$ref": "#/definitions/UpdateWatchedResponse"}
                    },
                    "400": {
                        "description": "Invalid movie id or body"
                    },
                    "404": {
                        "description": "Unknown movie id (strict mode only)"
                    },
                    "500": {
                        "description": "Data file missing or malformed"
                    }
                }
            }
        },
        "/health": {
            "get": {
                "tags": ["Health"],
                "summary": "Liveness check",
                "responses": {"200": {"description": "Server is running"}}
            }
        },
        "/ready": {
            "get": {
                "tags": ["Health"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Data file is readable"},
                    "503": {"description": "Data file is missing or malformed"}
                }
            }
        }
    },
    "definitions": {
        "MessageResponse": {
            "type": "object",
            "properties": {"message": {"type": "string"}}
        },
        "Movie": {
            "type": "object",
            "required": ["id", "watched"],
            "properties": {
                "id": {"type": "integer"},
                "watched": {"type": "boolean"}
            },
            "additionalProperties": true
        },
        "MoviesResponse": {
            "type": "object",
            "properties": {
                "movies": {"type": "array", "items": {"$ref": "#/definitions/Movie"}}
            }
        },
        "UpdateWatchedRequest": {
            "type": "object",
            "required": ["watched"],
            "properties": {"watched": {"type": "boolean"}}
        },
        "UpdateWatchedResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "movie_id": {"type": "integer"},
                "watched": {"type": "boolean"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{"http"},
	Title:            "Marvel Movie Guide API",
	Description:      "Serves the Marvel movies and shows collection and tracks what has been watched",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
