// Package docs registers the OpenAPI description served at /swagger.
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
        "/v1/webhooks/purchases": {
            "post": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["webhooks"],
                "summary": "Apply a purchase notification",
                "parameters": [
                    {
                        "description": "Purchase event",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/handler.purchaseEventRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "Already enrolled or already processed", "schema": {"$ref": "#/definitions/handler.purchaseResponse"}},
                    "201": {"description": "Enrollment created", "schema": {"$ref": "#/definitions/handler.purchaseResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Course not found", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "422": {"description": "Unprocessable Entity", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "503": {"description": "Storage unavailable, redeliver later", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        },
        "/v1/purchases/{key}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["purchases"],
                "summary": "Get the recorded outcome of a purchase",
                "parameters": [
                    {
                        "type": "string",
                        "description": "Transaction id or derived dedup key",
                        "name": "key",
                        "in": "path",
                        "required": true
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handler.purchaseResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/handler.errorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/handler.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handler.errorResponse": {
            "type": "object",
            "properties": {"error": {"type": "string"}}
        },
        "handler.purchaseEventRequest": {
            "type": "object",
            "required": ["course_id", "email", "full_name"],
            "properties": {
                "course_id": {"type": "string"},
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "purchase_date": {"type": "string"},
                "transaction_id": {"type": "string"}
            }
        },
        "handler.accountView": {
            "type": "object",
            "properties": {
                "created_at": {"type": "string"},
                "display_name": {"type": "string"},
                "email": {"type": "string"},
                "id": {"type": "string"},
                "must_reset_credential": {"type": "boolean"},
                "role": {"type": "string"}
            }
        },
        "handler.enrollmentView": {
            "type": "object",
            "properties": {
                "course_id": {"type": "string"},
                "enrolled_at": {"type": "string"},
                "id": {"type": "string"},
                "progress": {"type": "number"}
            }
        },
        "handler.purchaseResponse": {
            "type": "object",
            "properties": {
                "account": {"$ref": "#/definitions/handler.accountView"},
                "already_processed": {"type": "boolean"},
                "dedup_key": {"type": "string"},
                "enrollment": {"$ref": "#/definitions/handler.enrollmentView"},
                "is_new_enrollment": {"type": "boolean"},
                "is_new_user": {"type": "boolean"},
                "outcome": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {
            "type": "apiKey",
            "name": "Authorization",
            "in": "header"
        }
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Enrollment Pipeline API",
	Description:      "Turns course purchase notifications into learner accounts and enrollments, at most once per purchase.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
