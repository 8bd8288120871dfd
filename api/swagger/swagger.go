package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "ZmanView API",
        "description": "Shul display board backend: custom times, zmanim tables, announcements and the resolved schedule",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "securityDefinitions": {
        "BearerAuth": {"type": "apiKey", "name": "Authorization", "in": "header"}
    },
    "tags": [
        {"name": "Authentication", "description": "Login and session management"},
        {"name": "Shuls", "description": "Shul tenant settings"},
        {"name": "CustomTimes", "description": "Custom time definitions"},
        {"name": "Zmanim", "description": "Precomputed zmanim tables"},
        {"name": "Display", "description": "Resolved display schedule"},
        {"name": "Announcements", "description": "Display announcements"}
    ],
    "paths": {
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate user",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"}
                }
            }
        },
        "/auth/refresh": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Refresh access token",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/RefreshRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid session"}
                }
            }
        },
        "/auth/logout": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Logout current user",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "204": {"description": "No Content"}
                }
            }
        },
        "/shuls": {
            "get": {
                "tags": ["Shuls"],
                "summary": "List shuls",
                "security": [{"BearerAuth": []}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shuls/{shulId}": {
            "get": {
                "tags": ["Shuls"],
                "summary": "Get shul settings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Shuls"],
                "summary": "Update shul settings",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ShulUpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/shuls/{shulId}/custom-times": {
            "get": {
                "tags": ["CustomTimes"],
                "summary": "List custom times",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["CustomTimes"],
                "summary": "Create custom time",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomTimeRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "409": {"description": "Internal name taken"}
                }
            }
        },
        "/shuls/{shulId}/custom-times/{internalName}": {
            "get": {
                "tags": ["CustomTimes"],
                "summary": "Get custom time",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "internalName", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["CustomTimes"],
                "summary": "Update custom time",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "internalName", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CustomTimeRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["CustomTimes"],
                "summary": "Delete custom time",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "internalName", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/zmanim/fields": {
            "get": {
                "tags": ["Zmanim"],
                "summary": "Zmanim field catalog",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/shuls/{shulId}/zmanim": {
            "get": {
                "tags": ["Zmanim"],
                "summary": "Raw zmanim table rows",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "end", "in": "query", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/shuls/{shulId}/zmanim/refresh": {
            "post": {
                "tags": ["Zmanim"],
                "summary": "Enqueue zmanim refresh",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "202": {"description": "Queued"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/shuls/{shulId}/display": {
            "get": {
                "tags": ["Display"],
                "summary": "Resolved display schedule",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "date", "in": "query", "type": "string"},
                    {"name": "start", "in": "query", "type": "string"},
                    {"name": "end", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/shuls/{shulId}/display/layout": {
            "get": {
                "tags": ["Display"],
                "summary": "Display layout entries",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            }
        },
        "/shuls/{shulId}/display/export": {
            "get": {
                "tags": ["Display"],
                "summary": "Weekly schedule sheet (CSV or PDF)",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "start", "in": "query", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File download"},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/shuls/{shulId}/announcements": {
            "get": {
                "tags": ["Announcements"],
                "summary": "List announcements",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "active", "in": "query", "type": "boolean"},
                    {"name": "pinned", "in": "query", "type": "boolean"},
                    {"name": "page", "in": "query", "type": "integer"},
                    {"name": "limit", "in": "query", "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Announcements"],
                "summary": "Create announcement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Validation error"}
                }
            }
        },
        "/shuls/{shulId}/announcements/{id}": {
            "get": {
                "tags": ["Announcements"],
                "summary": "Get announcement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Announcements"],
                "summary": "Update announcement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AnnouncementRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Announcements"],
                "summary": "Delete announcement",
                "security": [{"BearerAuth": []}],
                "parameters": [
                    {"name": "shulId", "in": "path", "required": true, "type": "string"},
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "No Content"},
                    "404": {"description": "Not found"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "required": ["email", "password"],
            "properties": {
                "email": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "RefreshRequest": {
            "type": "object",
            "required": ["refresh_token"],
            "properties": {
                "refresh_token": {"type": "string"}
            }
        },
        "ShulUpdateRequest": {
            "type": "object",
            "properties": {
                "name": {"type": "string"},
                "nusach": {"type": "string"},
                "address": {"type": "string"},
                "latitude": {"type": "number"},
                "longitude": {"type": "number"},
                "elevation": {"type": "number"},
                "timezone": {"type": "string"}
            }
        },
        "CustomTimeRequest": {
            "type": "object",
            "required": ["internal_name", "display_name", "time_type", "calculation_mode"],
            "properties": {
                "internal_name": {"type": "string"},
                "display_name": {"type": "string"},
                "description": {"type": "string"},
                "time_type": {"type": "string", "enum": ["fixed", "dynamic"]},
                "fixed_time": {"type": "string"},
                "base_time": {"type": "string"},
                "offset_minutes": {"type": "integer"},
                "calculation_mode": {"type": "string", "enum": ["daily", "weekly_target", "specific_date"]},
                "target_weekday": {"type": "integer"},
                "specific_date": {"type": "string"},
                "daily": {"type": "boolean"},
                "days_of_week": {"type": "array", "items": {"type": "integer"}}
            }
        },
        "AnnouncementRequest": {
            "type": "object",
            "required": ["title", "content"],
            "properties": {
                "title": {"type": "string"},
                "content": {"type": "string"},
                "priority": {"type": "string", "enum": ["LOW", "NORMAL", "HIGH"]},
                "is_pinned": {"type": "boolean"},
                "published_at": {"type": "string"},
                "expires_at": {"type": "string"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "page_size": {"type": "integer"},
                "total_count": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"},
                "details": {"type": "object"}
            }
        },
        "ResponseEnvelope": {
            "type": "object",
            "properties": {
                "data": {"type": "object"},
                "error": {"$ref": "#/definitions/APIError"},
                "pagination": {"$ref": "#/definitions/Pagination"},
                "meta": {"type": "object"}
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
