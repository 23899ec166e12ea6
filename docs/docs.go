// Package docs registers the OpenAPI document served by Swagger UI.
package docs

import "github.com/swaggo/swag"

const docTemplate = `{
    "schemes": {{ marshal .Schemes }},
    "swagger": "2.0",
    "info": {
        "description": "{{escape .Description}}",
        "title": "{{.Title}}",
        "contact": {},
        "license": {
            "name": "MIT",
            "url": "https://opensource.org/licenses/MIT"
        },
        "version": "{{.Version}}"
    },
    "host": "{{.Host}}",
    "basePath": "{{.BasePath}}",
    "paths": {
        "/api/latest-newsletter": {
            "get": {
                "description": "Returns the most recently sent campaign. The API key never leaves the server.",
                "produces": ["application/json"],
                "tags": ["newsletter"],
                "summary": "Latest newsletter",
                "responses": {
                    "200": {
                        "description": "OK",
                        "schema": {"$ref": "#/definitions/newsletter.LatestDTO"}
                    },
                    "404": {
                        "description": "No newsletters found",
                        "schema": {"$ref": "#/definitions/respond.ErrorBody"}
                    },
                    "405": {
                        "description": "method not allowed",
                        "schema": {"$ref": "#/definitions/respond.ErrorBody"}
                    },
                    "500": {
                        "description": "Failed to fetch newsletter",
                        "schema": {"$ref": "#/definitions/respond.ErrorBody"}
                    }
                }
            }
        },
        "/newsletter/widget": {
            "get": {
                "description": "Returns the container element with the most recently rendered newsletter state.",
                "produces": ["text/html"],
                "tags": ["newsletter"],
                "summary": "Newsletter widget",
                "responses": {
                    "200": {
                        "description": "HTML fragment",
                        "schema": {"type": "string"}
                    }
                }
            }
        }
    },
    "definitions": {
        "newsletter.LatestDTO": {
            "type": "object",
            "properties": {
                "preview_text": {"type": "string", "example": "What we shipped this month"},
                "send_time": {"type": "string", "example": "2026-10-01T09:00:00+00:00"},
                "title": {"type": "string", "example": "October Update"},
                "url": {"type": "string", "example": "https://us6.campaign-archive.com/?u=abc&id=123"}
            }
        },
        "respond.ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Newsletter Feed API",
	Description:      "Latest-newsletter proxy and rendered widget.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
