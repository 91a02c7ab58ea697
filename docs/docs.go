// Package docs registers the OpenAPI description served under /swagger.
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
        "/auth/token": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue access token",
                "parameters": [
                    {"description": "Credentials", "name": "request", "in": "body", "required": true, "schema": {"$ref": "#/definitions/handlers.Credentials"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/handlers.TokenResponse"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Revoke access token",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "string"}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/account": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "Get account",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/models.AccountSnapshot"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "404": {"description": "Not Found", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/transactions": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "List transactions",
                "parameters": [
                    {"type": "integer", "default": 10, "description": "Number of transactions (1-100)", "name": "limit", "in": "query"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/models.TransactionRecord"}}}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/services.ErrorResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        },
        "/overdraft-logs": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["account"],
                "summary": "List overdraft logs",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "object", "additionalProperties": {"type": "array", "items": {"$ref": "#/definitions/models.OverdraftLog"}}}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/services.ErrorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "handlers.Credentials": {
            "description": "Customer id and password",
            "type": "object",
            "required": ["password", "username"],
            "properties": {
                "password": {"type": "string", "example": "hunter2"},
                "username": {"type": "string", "example": "jdoe"}
            }
        },
        "handlers.TokenResponse": {
            "description": "Bearer token for the JSON API",
            "type": "object",
            "properties": {
                "account": {"$ref": "#/definitions/models.AccountSnapshot"},
                "token": {"type": "string"}
            }
        },
        "models.AccountSnapshot": {
            "description": "Account details shown after login, deposit, withdraw or dispute",
            "type": "object",
            "properties": {
                "balance": {"type": "integer", "example": 5000},
                "customerId": {"type": "string", "example": "jdoe"},
                "firstName": {"type": "string", "example": "John"},
                "frozen": {"type": "boolean", "example": false},
                "lastName": {"type": "string", "example": "Doe"},
                "numFraudReversals": {"type": "integer", "example": 0},
                "overdraftBalance": {"type": "integer", "example": 0},
                "overdraftLogs": {"type": "array", "items": {"$ref": "#/definitions/models.OverdraftLog"}}
            }
        },
        "models.OverdraftLog": {
            "type": "object",
            "properties": {
                "customerId": {"type": "string"},
                "depositAmt": {"type": "integer"},
                "id": {"type": "integer"},
                "newOverBalance": {"type": "integer"},
                "oldOverBalance": {"type": "integer"},
                "timestamp": {"type": "string"}
            }
        },
        "models.TransactionRecord": {
            "type": "object",
            "properties": {
                "action": {"type": "string", "enum": ["Deposit", "Withdraw"]},
                "amount": {"type": "integer"},
                "customerId": {"type": "string"},
                "id": {"type": "integer"},
                "timestamp": {"type": "string"},
                "transactionId": {"type": "string"}
            }
        },
        "services.ErrorResponse": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "details": {"type": "object", "additionalProperties": {"type": "string"}},
                "error": {"type": "string"}
            }
        }
    },
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    }
}`

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "localhost:8080",
	BasePath:         "/api/v1",
	Schemes:          []string{"http", "https"},
	Title:            "Web Bank Ledger API",
	Description:      "Deposits, withdrawals with overdraft, and fraud disputes",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
