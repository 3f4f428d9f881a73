package swagger

import "github.com/swaggo/swag"

const docTemplate = `{
    "swagger": "2.0",
    "info": {
        "title": "Testudo Plus Schedule API",
        "description": "Free-text course schedule builder for the UMD catalog",
        "version": "1.0.0"
    },
    "basePath": "/api/v1",
    "schemes": [
        "http"
    ],
    "tags": [
        {"name": "Schedule", "description": "Schedule building and export"},
        {"name": "Terms", "description": "Selectable academic terms"},
        {"name": "Events", "description": "Upcoming campus events"},
        {"name": "Advisor", "description": "Course recommendations"},
        {"name": "Compass", "description": "Campus logistics answers"}
    ],
    "paths": {
        "/schedule/build": {
            "post": {
                "tags": ["Schedule"],
                "summary": "Build conflict-free schedules from free text",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/BuildScheduleRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "400": {"description": "Invalid request", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/schedule/export": {
            "get": {
                "tags": ["Schedule"],
                "summary": "Export a built schedule as an iCalendar file",
                "produces": ["text/calendar"],
                "parameters": [
                    {"name": "freeText", "in": "query", "required": true, "type": "string"},
                    {"name": "termId", "in": "query", "type": "string"},
                    {"name": "rank", "in": "query", "type": "integer", "description": "1-based rank of the schedule to export"}
                ],
                "responses": {
                    "200": {"description": "iCalendar document"},
                    "404": {"description": "No schedule at the requested rank", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/terms": {
            "get": {
                "tags": ["Terms"],
                "summary": "List selectable academic terms",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/events/upcoming": {
            "get": {
                "tags": ["Events"],
                "summary": "List upcoming campus events",
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/advisor/recommend": {
            "post": {
                "tags": ["Advisor"],
                "summary": "Recommend catalog courses for a free-text request",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/AdvisorRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        },
        "/compass/ask": {
            "post": {
                "tags": ["Compass"],
                "summary": "Answer a campus-logistics question",
                "parameters": [
                    {"name": "payload", "in": "body", "required": true, "schema": {"$ref": "#/definitions/CompassRequest"}}
                ],
                "responses": {
                    "200": {"description": "OK", "schema": {"$ref": "#/definitions/ResponseEnvelope"}},
                    "503": {"description": "Advisor unavailable", "schema": {"$ref": "#/definitions/ResponseEnvelope"}}
                }
            }
        }
    },
    "definitions": {
        "BuildScheduleRequest": {
            "type": "object",
            "properties": {
                "freeText": {"type": "string", "example": "I need CMSC131 and a humanities gen ed, no classes on friday"},
                "termId": {"type": "string", "example": "202508"}
            },
            "required": ["freeText"]
        },
        "AdvisorRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "an easy 400 level CMSC course"},
                "termId": {"type": "string"}
            },
            "required": ["query"]
        },
        "CompassRequest": {
            "type": "object",
            "properties": {
                "query": {"type": "string", "example": "where can I eat near the engineering buildings?"}
            },
            "required": ["query"]
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
