package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "NotionCoach API",
        "description": "Access gate and user-directory service for the NotionCoach platform",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Admin", "description": "User directory administration"},
        {"name": "Profile", "description": "Self-service account settings"},
        {"name": "Integrations", "description": "Third-party OAuth flows"},
        {"name": "Auth", "description": "Signup protections"},
        {"name": "Monitoring", "description": "Health and metrics"}
    ],
    "paths": {
        "/health": {
            "get": {
                "tags": ["Monitoring"],
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "tags": ["Monitoring"],
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/api/admin/users": {
            "get": {
                "tags": ["Admin"],
                "summary": "List users",
                "parameters": [
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"},
                    {"name": "sortBy", "in": "query", "type": "string", "enum": ["name", "email", "created_at", "last_sign_in"]},
                    {"name": "sortOrder", "in": "query", "type": "string", "enum": ["asc", "desc"]},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/AdminUsersResponse"}},
                    "401": {"description": "Unauthorized", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Forbidden", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            },
            "delete": {
                "tags": ["Admin"],
                "summary": "Delete user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/DeleteUserRequest"}}
                ],
                "responses": {
                    "200": {"description": "Deleted"},
                    "400": {"description": "Missing user id", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "403": {"description": "Admin account protected", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/admin/users/export": {
            "get": {
                "tags": ["Admin"],
                "summary": "Export users as CSV or PDF",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]},
                    {"name": "sortBy", "in": "query", "type": "string"},
                    {"name": "sortOrder", "in": "query", "type": "string"},
                    {"name": "role", "in": "query", "type": "string"},
                    {"name": "search", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Unknown format", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/me/role": {
            "put": {
                "tags": ["Profile"],
                "summary": "Choose account role",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/SetRoleRequest"}}
                ],
                "responses": {
                    "200": {"description": "Role set"},
                    "400": {"description": "Unknown role", "schema": {"$ref": "#/definitions/ErrorBody"}},
                    "409": {"description": "Role already chosen", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/strava/callback": {
            "get": {
                "tags": ["Integrations"],
                "summary": "Strava OAuth callback",
                "parameters": [
                    {"name": "code", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "302": {"description": "Redirect to success page"},
                    "400": {"description": "Missing code", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        },
        "/api/verify-recaptcha": {
            "post": {
                "tags": ["Auth"],
                "summary": "Verify captcha token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/VerifyCaptchaRequest"}}
                ],
                "responses": {
                    "200": {"description": "Verification result"},
                    "400": {"description": "Invalid payload", "schema": {"$ref": "#/definitions/ErrorBody"}}
                }
            }
        }
    },
    "definitions": {
        "ErrorBody": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
            }
        },
        "DeleteUserRequest": {
            "type": "object",
            "required": ["userIdToDelete"],
            "properties": {
                "userIdToDelete": {"type": "string"}
            }
        },
        "SetRoleRequest": {
            "type": "object",
            "required": ["role"],
            "properties": {
                "role": {"type": "string", "enum": ["athlete", "coach"]}
            }
        },
        "VerifyCaptchaRequest": {
            "type": "object",
            "required": ["token"],
            "properties": {
                "token": {"type": "string"}
            }
        },
        "AdminUser": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "firstName": {"type": "string"},
                "lastName": {"type": "string"},
                "email": {"type": "string"},
                "role": {"type": "string"},
                "createdAt": {"type": "integer", "format": "int64"},
                "lastSignInAt": {"type": "integer", "format": "int64"},
                "imageUrl": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "currentPage": {"type": "integer"},
                "totalPages": {"type": "integer"},
                "totalCount": {"type": "integer"},
                "limit": {"type": "integer"},
                "hasNextPage": {"type": "boolean"},
                "hasPreviousPage": {"type": "boolean"}
            }
        },
        "Statistics": {
            "type": "object",
            "properties": {
                "totalUsers": {"type": "integer"},
                "roleDistribution": {
                    "type": "object",
                    "properties": {
                        "coaches": {"type": "integer"},
                        "athletes": {"type": "integer"},
                        "noRole": {"type": "integer"}
                    }
                },
                "recentSignups": {"type": "integer"},
                "activeUsers": {"type": "integer"},
                "growthRate": {"type": "number"}
            }
        },
        "AdminUsersResponse": {
            "type": "object",
            "properties": {
                "users": {"type": "array", "items": {"$ref": "#/definitions/AdminUser"}},
                "statistics": {"$ref": "#/definitions/Statistics"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "filters": {"type": "object"}
            }
        }
    }
}`

type swaggerDoc struct{}

// ReadDoc returns the Swagger document.
func (s *swaggerDoc) ReadDoc() string {
	return docTemplate
}

func init() {
	swag.Register(swag.Name, &swaggerDoc{})
}
