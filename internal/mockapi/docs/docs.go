// Package docs registers the OpenAPI description of the mock trading API
// with swag, served under /swagger by the mock API.
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
        "/auth/login": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Issue a bearer token",
                "parameters": [
                    {
                        "description": "Credentials",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.LoginRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.LoginResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/mockapi.errorResponse"}}
                }
            }
        },
        "/auth/profile/{username}": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Read a profile",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/mockapi.errorResponse"}}
                }
            }
        },
        "/auth/register": {
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Register an account",
                "parameters": [
                    {
                        "description": "Account",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.RegistrationRecord"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/mockapi.User"}},
                    "409": {"description": "Conflict", "schema": {"$ref": "#/definitions/mockapi.errorResponse"}}
                }
            }
        },
        "/auth/update/{username}": {
            "put": {
                "security": [{"BearerAuth": []}],
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["auth"],
                "summary": "Update a profile",
                "parameters": [
                    {"type": "string", "description": "Username", "name": "username", "in": "path", "required": true},
                    {
                        "description": "Changed fields",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/domain.ProfileUpdate"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Profile"}}
                }
            }
        },
        "/portfolio/{id}/orders": {
            "get": {
                "security": [{"BearerAuth": []}],
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "List the orders of a portfolio",
                "parameters": [
                    {"type": "integer", "description": "Portfolio id", "name": "id", "in": "path", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/domain.Order"}}}
                }
            },
            "post": {
                "consumes": ["application/json"],
                "produces": ["application/json"],
                "tags": ["portfolio"],
                "summary": "Place an order",
                "parameters": [
                    {"type": "integer", "description": "Portfolio id", "name": "id", "in": "path", "required": true},
                    {
                        "description": "Order",
                        "name": "body",
                        "in": "body",
                        "required": true,
                        "schema": {"$ref": "#/definitions/mockapi.orderRequest"}
                    }
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/domain.Order"}},
                    "400": {"description": "Bad Request", "schema": {"$ref": "#/definitions/mockapi.errorResponse"}}
                }
            }
        }
    },
    "definitions": {
        "domain.LoginRequest": {
            "type": "object",
            "properties": {
                "password": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "domain.LoginResponse": {
            "type": "object",
            "properties": {
                "token": {"type": "string"}
            }
        },
        "domain.Order": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "orderTime": {"type": "string"},
                "price": {"type": "number"},
                "quantity": {"type": "number"},
                "status": {"type": "string"},
                "symbol": {"type": "string"},
                "type": {"type": "string"}
            }
        },
        "domain.Profile": {
            "type": "object",
            "properties": {
                "accountType": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "gender": {"type": "string"},
                "lastName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "domain.ProfileUpdate": {
            "type": "object",
            "properties": {
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"}
            }
        },
        "domain.RegistrationRecord": {
            "type": "object",
            "properties": {
                "accountType": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "gender": {"type": "string"},
                "lastName": {"type": "string"},
                "password": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "role": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "mockapi.User": {
            "type": "object",
            "properties": {
                "accountType": {"type": "string"},
                "createdAt": {"type": "string"},
                "dateOfBirth": {"type": "string"},
                "email": {"type": "string"},
                "firstName": {"type": "string"},
                "gender": {"type": "string"},
                "id": {"type": "string"},
                "lastName": {"type": "string"},
                "phoneNumber": {"type": "string"},
                "role": {"type": "string"},
                "updatedAt": {"type": "string"},
                "username": {"type": "string"}
            }
        },
        "mockapi.errorResponse": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "mockapi.orderRequest": {
            "type": "object",
            "properties": {
                "price": {"type": "number"},
                "quantity": {"type": "number"},
                "symbol": {"type": "string"},
                "type": {"type": "string"}
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

// SwaggerInfo is the document served under /swagger.
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/api",
	Schemes:          []string{},
	Title:            "TradeShift mock trading API",
	Description:      "Local stand-in for the remote portfolio and order backend.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
	LeftDelim:        "{{",
	RightDelim:       "}}",
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
