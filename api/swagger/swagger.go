package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Admissions Engine API",
        "description": "Application persistence and admission workflow engine",
        "version": "0.1.0"
    },
    "basePath": "/",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Applications", "description": "Admission application lifecycle and status workflow"},
        {"name": "Students", "description": "Enrolled student records"},
        {"name": "Profiles", "description": "Identity profiles"},
        {"name": "Statistics", "description": "Enrollment aggregates and reconciliation"},
        {"name": "Exports", "description": "Roster and summary downloads"}
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
                "summary": "Readiness check including the active storage backend",
                "responses": {
                    "200": {"description": "Ready"}
                }
            }
        },
        "/applications": {
            "get": {
                "tags": ["Applications"],
                "summary": "List applications ordered by submission time",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Applications"],
                "summary": "Create an admission application",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CreateApplicationRequest"}}
                ],
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Application already exists"},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/applications/{email}": {
            "get": {
                "tags": ["Applications"],
                "summary": "Get one application by applicant email",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Applications"],
                "summary": "Partially update an application",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ApplicationPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Applications"],
                "summary": "Delete an application",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted or already absent"}
                }
            }
        },
        "/applications/{email}/status": {
            "post": {
                "tags": ["Applications"],
                "summary": "Change application status, appending to the audit trail",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/TransitionRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"},
                    "422": {"description": "Unrecognized status"}
                }
            }
        },
        "/applications/{email}/promote": {
            "post": {
                "tags": ["Applications"],
                "summary": "Promote an approved application to an enrolled student",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "201": {"description": "Student created; meta.warning set when the aggregate update failed"},
                    "404": {"description": "Not found"},
                    "409": {"description": "Application is not approved"}
                }
            }
        },
        "/students": {
            "get": {
                "tags": ["Students"],
                "summary": "List students ordered by ID",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/students/{id}": {
            "get": {
                "tags": ["Students"],
                "summary": "Get one student by ID",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Students"],
                "summary": "Partially update a student record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/StudentPatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Students"],
                "summary": "Delete a student record",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted or already absent"}
                }
            }
        },
        "/profiles": {
            "put": {
                "tags": ["Profiles"],
                "summary": "Create or replace a profile",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/UpsertProfileRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "422": {"description": "Validation failed"}
                }
            }
        },
        "/profiles/{email}": {
            "get": {
                "tags": ["Profiles"],
                "summary": "Get one profile by email",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "patch": {
                "tags": ["Profiles"],
                "summary": "Partially update a profile",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"},
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/ProfilePatch"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "Not found"}
                }
            },
            "delete": {
                "tags": ["Profiles"],
                "summary": "Delete a profile",
                "parameters": [
                    {"name": "email", "in": "path", "required": true, "type": "string"}
                ],
                "responses": {
                    "204": {"description": "Deleted or already absent"}
                }
            }
        },
        "/statistics": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Global enrollment statistics across all years",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/statistics/{year}": {
            "get": {
                "tags": ["Statistics"],
                "summary": "Enrollment aggregate for one year",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "404": {"description": "No aggregate for the year"}
                }
            }
        },
        "/statistics/{year}/reconcile": {
            "post": {
                "tags": ["Statistics"],
                "summary": "Rebuild one year's aggregate from a full student scan",
                "parameters": [
                    {"name": "year", "in": "path", "required": true, "type": "integer"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/exports/students.csv": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the student roster as CSV",
                "produces": ["text/csv"],
                "responses": {
                    "200": {"description": "CSV attachment"}
                }
            }
        },
        "/exports/enrollment.pdf": {
            "get": {
                "tags": ["Exports"],
                "summary": "Download the enrollment summary as PDF",
                "produces": ["application/pdf"],
                "responses": {
                    "200": {"description": "PDF attachment"}
                }
            }
        }
    },
    "definitions": {
        "CreateApplicationRequest": {
            "type": "object",
            "required": ["email", "personal", "contact", "academic"],
            "properties": {
                "email": {"type": "string"},
                "draft": {"type": "boolean"},
                "personal": {"type": "object"},
                "contact": {"type": "object"},
                "parent": {"type": "object"},
                "academic": {"type": "object"},
                "documents": {"type": "object", "additionalProperties": {"type": "string"}},
                "notes": {"type": "string"}
            }
        },
        "TransitionRequest": {
            "type": "object",
            "required": ["status"],
            "properties": {
                "status": {"type": "string", "enum": ["draft", "submitted", "under_review", "approved", "rejected", "waitlisted"]},
                "comment": {"type": "string"},
                "notes": {"type": "string"}
            }
        },
        "ApplicationPatch": {
            "type": "object",
            "properties": {
                "notes": {"type": "string"},
                "personal": {"type": "object"},
                "contact": {"type": "object"},
                "parent": {"type": "object"},
                "academic": {"type": "object"},
                "documents": {"type": "object", "additionalProperties": {"type": "string"}}
            }
        },
        "StudentPatch": {
            "type": "object",
            "properties": {
                "status": {"type": "string", "enum": ["active", "inactive", "graduated", "transferred"]},
                "personal": {"type": "object"},
                "contact": {"type": "object"},
                "parent": {"type": "object"},
                "academic": {"type": "object"},
                "documents": {"type": "object", "additionalProperties": {"type": "string"}},
                "verification_status": {"type": "object", "additionalProperties": {"type": "boolean"}}
            }
        },
        "UpsertProfileRequest": {
            "type": "object",
            "required": ["email"],
            "properties": {
                "email": {"type": "string"},
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "guardian": {"type": "object"},
                "emergency": {"type": "object"},
                "academic": {"type": "object"}
            }
        },
        "ProfilePatch": {
            "type": "object",
            "properties": {
                "full_name": {"type": "string"},
                "phone": {"type": "string"},
                "address": {"type": "string"},
                "guardian": {"type": "object"},
                "emergency": {"type": "object"},
                "academic": {"type": "object"}
            }
        },
        "Pagination": {
            "type": "object",
            "properties": {
                "page": {"type": "integer"},
                "limit": {"type": "integer"},
                "total": {"type": "integer"}
            }
        },
        "APIError": {
            "type": "object",
            "properties": {
                "code": {"type": "string"},
                "message": {"type": "string"},
                "status": {"type": "integer"}
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
