package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "LeoFest API",
        "description": "Student festival management engine",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Authentication", "description": "Sign-up, login and identity"},
        {"name": "Events", "description": "Event lifecycle management"},
        {"name": "Assignments", "description": "Coordinator ↔ event assignments"},
        {"name": "Participations", "description": "Student registrations"},
        {"name": "Leaderboard", "description": "Scores, ranking and winners"},
        {"name": "Revenue", "description": "Derived collection figures"},
        {"name": "Users", "description": "Account provisioning and approval"},
        {"name": "Analytics", "description": "Visit counters"},
        {"name": "Reports", "description": "CSV and PDF exports"}
    ],
    "paths": {
        "/auth/register": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Register a student account",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "409": {"description": "Email already registered"}
                }
            }
        },
        "/auth/login": {
            "post": {
                "tags": ["Authentication"],
                "summary": "Authenticate a student, coordinator or admin",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "401": {"description": "Invalid credentials"},
                    "403": {"description": "Coordinator pending approval"}
                }
            }
        },
        "/auth/me": {
            "get": {
                "tags": ["Authentication"],
                "summary": "Current user",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events": {
            "get": {
                "tags": ["Events"],
                "summary": "List events",
                "parameters": [
                    {"name": "status", "in": "query", "type": "string"},
                    {"name": "category", "in": "query", "type": "string"}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            },
            "post": {
                "tags": ["Events"],
                "summary": "Create an event (admin)",
                "responses": {
                    "201": {"description": "Created", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/{id}": {
            "get": {
                "tags": ["Events"],
                "summary": "Get one event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/Event"}},
                    "404": {"description": "Not found"}
                }
            },
            "put": {
                "tags": ["Events"],
                "summary": "Update an event (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "delete": {
                "tags": ["Events"],
                "summary": "Soft-delete an event (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Deleted"}
                }
            }
        },
        "/events/{id}/status": {
            "patch": {
                "tags": ["Events"],
                "summary": "Change event status (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "409": {"description": "Illegal transition"}
                }
            }
        },
        "/events/{id}/complete": {
            "post": {
                "tags": ["Leaderboard"],
                "summary": "Complete an event and freeze winners (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "Winners"},
                    "409": {"description": "Already completed or closed"}
                }
            }
        },
        "/events/{id}/coordinators": {
            "get": {
                "tags": ["Assignments"],
                "summary": "List an event's coordinators",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            },
            "post": {
                "tags": ["Assignments"],
                "summary": "Join an event as coordinator",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "201": {"description": "Joined"},
                    "409": {"description": "Already assigned or capacity exceeded"}
                }
            },
            "delete": {
                "tags": ["Assignments"],
                "summary": "Leave an event",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Left"}
                }
            }
        },
        "/coordinators/me/events": {
            "get": {
                "tags": ["Assignments"],
                "summary": "My assignment history",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/participations": {
            "post": {
                "tags": ["Participations"],
                "summary": "Register for an event (student)",
                "responses": {
                    "200": {"description": "Already registered, original record"},
                    "201": {"description": "Registered"}
                }
            }
        },
        "/participations/me": {
            "get": {
                "tags": ["Participations"],
                "summary": "My registrations",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/participations/{id}": {
            "delete": {
                "tags": ["Participations"],
                "summary": "Withdraw a registration",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "204": {"description": "Withdrawn"},
                    "403": {"description": "Not the owner"}
                }
            }
        },
        "/participations/{id}/arrived": {
            "patch": {
                "tags": ["Participations"],
                "summary": "Mark arrival (staff)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/participations/{id}/payment": {
            "patch": {
                "tags": ["Participations"],
                "summary": "Record payment verdict (staff)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}/participations": {
            "get": {
                "tags": ["Participations"],
                "summary": "List an event's registrations (staff)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}/scores": {
            "put": {
                "tags": ["Leaderboard"],
                "summary": "Set a participant's score (staff)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"},
                    "400": {"description": "Score not finite"}
                }
            }
        },
        "/events/{id}/leaderboard": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Ranked leaderboard",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}/winners": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Frozen winners",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}/score-authors": {
            "get": {
                "tags": ["Leaderboard"],
                "summary": "Coordinators who entered scores (staff)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/events/{id}/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download registration sheet (staff)",
                "parameters": [
                    {"name": "id", "in": "path", "required": true, "type": "string"},
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/payments/summary": {
            "get": {
                "tags": ["Revenue"],
                "summary": "Collection summary (admin)",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/RevenueSummary"}}
                }
            }
        },
        "/payments/report": {
            "get": {
                "tags": ["Reports"],
                "summary": "Download collection summary (admin)",
                "parameters": [
                    {"name": "format", "in": "query", "type": "string", "enum": ["csv", "pdf"]}
                ],
                "responses": {
                    "200": {"description": "File"}
                }
            }
        },
        "/users": {
            "post": {
                "tags": ["Users"],
                "summary": "Create a coordinator or admin (admin)",
                "responses": {
                    "201": {"description": "Created with temporary password"}
                }
            }
        },
        "/users/coordinators": {
            "get": {
                "tags": ["Users"],
                "summary": "List coordinators (admin)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/users/coordinators/{id}/status": {
            "patch": {
                "tags": ["Users"],
                "summary": "Approve or reject a coordinator (admin)",
                "parameters": [{"name": "id", "in": "path", "required": true, "type": "string"}],
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        },
        "/analytics/visits": {
            "get": {
                "tags": ["Analytics"],
                "summary": "Visit counters (admin)",
                "responses": {
                    "200": {"description": "OK"}
                }
            }
        }
    },
    "definitions": {
        "Event": {
            "type": "object",
            "properties": {
                "id": {"type": "string"},
                "title": {"type": "string"},
                "description": {"type": "string"},
                "date": {"type": "string"},
                "time": {"type": "string"},
                "venue": {"type": "string"},
                "category": {"type": "string"},
                "cost": {"type": "integer"},
                "rules": {"type": "string"},
                "teamSize": {"type": "string"},
                "status": {"type": "string", "enum": ["open", "ongoing", "completed", "closed"]}
            }
        },
        "RevenueSummary": {
            "type": "object",
            "properties": {
                "total": {"type": "integer"},
                "byEvent": {"type": "object"}
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
