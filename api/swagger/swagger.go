package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "BAP Request API",
        "description": "Submission, review and export of BAP interview requests",
        "version": "1.0.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Admin credential check"},
        {"name": "Requests", "description": "BAP request submission and review"},
        {"name": "Export", "description": "Collection downloads"}
    ],
    "paths": {
        "/health": {
            "get": {
                "summary": "Health check",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/ready": {
            "get": {
                "summary": "Readiness check",
                "responses": {
                    "200": {"description": "Ready"},
                    "503": {"description": "Record store unavailable"}
                }
            }
        },
        "/api/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Check admin credentials",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/LoginRequest"}}
                ],
                "responses": {
                    "200": {"description": "Accepted", "schema": {"$ref": "#/definitions/Success"}},
                    "400": {"description": "Invalid JSON", "schema": {"$ref": "#/definitions/Error"}},
                    "401": {"description": "Invalid credentials", "schema": {"$ref": "#/definitions/Failure"}}
                }
            }
        },
        "/api/requests": {
            "get": {
                "tags": ["Requests"],
                "summary": "List BAP requests",
                "responses": {
                    "200": {"description": "OK", "schema": {"type": "array", "items": {"$ref": "#/definitions/Record"}}}
                }
            },
            "post": {
                "tags": ["Requests"],
                "summary": "Submit a BAP request",
                "consumes": ["multipart/form-data"],
                "parameters": [
                    {"name": "nama", "in": "formData", "type": "string", "required": true},
                    {"name": "tanggal_lahir", "in": "formData", "type": "string", "required": true},
                    {"name": "nomor_hp", "in": "formData", "type": "string", "required": true},
                    {"name": "email", "in": "formData", "type": "string"},
                    {"name": "paspor", "in": "formData", "type": "string", "required": true},
                    {"name": "tujuan", "in": "formData", "type": "string", "required": true},
                    {"name": "lampiran", "in": "formData", "type": "file", "required": true}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/CreateResponse"}},
                    "400": {"description": "Invalid submission", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/requests/check": {
            "get": {
                "tags": ["Requests"],
                "summary": "Exact, case-insensitive lookup by application or passport number",
                "parameters": [
                    {"name": "query", "in": "query", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Matches", "schema": {"type": "array", "items": {"$ref": "#/definitions/Record"}}}
                }
            }
        },
        "/api/requests/{id}": {
            "get": {
                "tags": ["Requests"],
                "summary": "Get a BAP request",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Record"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "put": {
                "tags": ["Requests"],
                "summary": "Update status, admin note or schedule",
                "consumes": ["application/json"],
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpdateRequest"}}
                ],
                "responses": {
                    "200": {"description": "Updated", "schema": {"$ref": "#/definitions/Success"}},
                    "400": {"description": "Invalid JSON", "schema": {"$ref": "#/definitions/Error"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            },
            "delete": {
                "tags": ["Requests"],
                "summary": "Delete a BAP request and its attachment",
                "parameters": [
                    {"name": "id", "in": "path", "type": "string", "required": true}
                ],
                "responses": {
                    "200": {"description": "Deleted", "schema": {"$ref": "#/definitions/Success"}},
                    "404": {"description": "Not found", "schema": {"$ref": "#/definitions/Error"}}
                }
            }
        },
        "/api/export": {
            "get": {
                "tags": ["Export"],
                "summary": "Download all requests as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "pengajuan_BAP.csv"}
                }
            }
        },
        "/api/export/pdf": {
            "get": {
                "tags": ["Export"],
                "summary": "Download all requests as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "pengajuan_BAP.pdf"}
                }
            }
        }
    },
    "definitions": {
        "LoginRequest": {
            "type": "object",
            "properties": {
                "username": {"type": "string"},
                "password": {"type": "string"}
            }
        },
        "Schedule": {
            "type": "object",
            "properties": {
                "tanggal": {"type": "string"},
                "jam_mulai": {"type": "string"},
                "jam_selesai": {"type": "string"},
                "lokasi": {"type": "string"},
                "petugas": {"type": "string"}
            }
        },
        "Record": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "nomor_permohonan": {"type": "string"},
                "nama": {"type": "string"},
                "tanggal_lahir": {"type": "string"},
                "nomor_hp": {"type": "string"},
                "email": {"type": "string"},
                "paspor": {"type": "string"},
                "tujuan": {"type": "string"},
                "lampiran": {"type": "string"},
                "status": {"type": "string"},
                "catatan_admin": {"type": "string"},
                "schedule": {"$ref": "#/definitions/Schedule"},
                "created_at": {"type": "string", "format": "date-time"},
                "updated_at": {"type": "string", "format": "date-time"}
            }
        },
        "UpdateRequest": {
            "type": "object",
            "properties": {
                "status": {"type": "string"},
                "catatan_admin": {"type": "string"},
                "schedule": {"$ref": "#/definitions/Schedule"}
            }
        },
        "CreateResponse": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "id": {"type": "string"},
                "nomor_permohonan": {"type": "string"}
            }
        },
        "Success": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"}
            }
        },
        "Failure": {
            "type": "object",
            "properties": {
                "success": {"type": "boolean"},
                "error": {"type": "string"}
            }
        },
        "Error": {
            "type": "object",
            "properties": {
                "error": {"type": "string"}
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
