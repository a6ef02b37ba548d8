// Package docs holds the OpenAPI description served under /swagger.
package docs

import "github.com/swaggo/swag"

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
        "/generate": {
            "post": {
                "description": "Generates images for a prompt. The direct service answers with one base64 data URI in image; the browser service answers with the scraped gallery in images.",
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Generate images",
                "parameters": [
                    {
                        "description": "prompt",
                        "name": "request",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/dto.GenerateRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.GenerationResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/dto.HttpError"}},
                    "413": {"description": "Request Entity Too Large", "schema": {"$ref": "#/definitions/dto.HttpError"}},
                    "429": {"description": "Too Many Requests", "schema": {"$ref": "#/definitions/dto.HttpError"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.HttpError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HttpError"}}
                }
            }
        },
        "/refresh": {
            "get": {
                "description": "Browser service only. Clicks the page's refresh control and returns the gallery paired with the last prompt.",
                "produces": ["application/json"],
                "tags": ["generation"],
                "summary": "Refresh the gallery",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.ImagesResponse"}},
                    "500": {"description": "Internal Server Error", "schema": {"$ref": "#/definitions/dto.HttpError"}},
                    "503": {"description": "Service Unavailable", "schema": {"$ref": "#/definitions/dto.HttpError"}}
                }
            }
        },
        "/health": {
            "get": {
                "produces": ["application/json"],
                "tags": ["system"],
                "summary": "Liveness and memory figures",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/dto.HealthResponse"}}
                }
            }
        }
    },
    "definitions": {
        "dto.GenerateRequest": {
            "type": "object",
            "required": ["prompt"],
            "properties": {"prompt": {"type": "string", "example": "a red fox in the snow"}}
        },
        "dto.GenerationResponse": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "image": {"type": "string", "example": "data:image/jpeg;base64,/9j/4AAQ..."},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.ImagesResponse": {
            "type": "object",
            "properties": {
                "prompt": {"type": "string"},
                "images": {"type": "array", "items": {"type": "string"}}
            }
        },
        "dto.HttpError": {
            "type": "object",
            "properties": {
                "error": {"type": "string"},
                "details": {"type": "string"}
            }
        },
        "dto.HealthResponse": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "service": {"type": "string"},
                "browser_session": {"type": "string", "enum": ["idle", "active"]},
                "memory": {"type": "object"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "genx image generation API",
	Description:      "Prompt-to-image proxy over MagicStudio's AI art generator.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
