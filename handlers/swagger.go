package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// RegisterSwagger registers minimal Swagger/OpenAPI endpoints for the service.
// - GET /swagger/index.html  -> a small HTML page that loads the OpenAPI JSON
// - GET /swagger/doc.json    -> machine-readable OpenAPI JSON
func RegisterSwagger(rg *gin.Engine) {
	rg.GET("/swagger/index.html", func(c *gin.Context) {
		c.Header("Content-Type", "text/html; charset=utf-8")
		c.String(http.StatusOK, swaggerHTML)
	})

	rg.GET("/swagger/doc.json", func(c *gin.Context) {
		c.Data(http.StatusOK, "application/json", []byte(swaggerJSON))
	})
}

const swaggerHTML = `<!doctype html>
<html>
  <head>
    <meta charset="utf-8" />
    <title>codocs — Swagger</title>
    <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@4/swagger-ui.css" />
  </head>
  <body>
    <div id="swagger-ui"></div>
    <script src="https://unpkg.com/swagger-ui-dist@4/swagger-ui-bundle.js"></script>
    <script>
      window.ui = SwaggerUIBundle({
        url: '/swagger/doc.json',
        dom_id: '#swagger-ui',
      })
    </script>
  </body>
</html>`

// Minimal OpenAPI document covering the document, presence and comment APIs.
const swaggerJSON = `{
  "openapi": "3.0.0",
  "info": { "title": "codocs", "version": "v0.1.0" },
  "paths": {
    "/api/documents": {
      "get": { "summary": "List own documents", "responses": { "200": { "description": "document summaries" } } },
      "post": {
        "summary": "Create a document",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"title":{"type":"string"}}}}}},
        "responses": { "201": { "description": "document created" } }
      }
    },
    "/api/documents/join": {
      "post": {
        "summary": "Join a shared document by access code",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"code":{"type":"string"}}}}}},
        "responses": { "200": { "description": "document and collaboration token" }, "404": { "description": "unknown code" } }
      }
    },
    "/api/documents/import": {
      "post": { "summary": "Create a document from an uploaded text file", "responses": { "201": { "description": "document created" }, "413": { "description": "file too large" } } }
    },
    "/api/documents/{id}": {
      "get": { "summary": "Fetch a document", "responses": { "200": { "description": "document" }, "404": { "description": "not found" } } },
      "patch": { "summary": "Update title or content (retitle is owner-only)", "responses": { "200": { "description": "updated" }, "403": { "description": "not the owner" } } }
    },
    "/api/documents/{id}/content": {
      "put": { "summary": "Save document content", "responses": { "200": { "description": "saved" } } }
    },
    "/api/documents/{id}/access-code": {
      "post": { "summary": "Generate or rotate the access code (owner-only)", "responses": { "200": { "description": "new code" }, "403": { "description": "not the owner" } } }
    },
    "/api/documents/{id}/snapshots": {
      "get": { "summary": "List recent content snapshots", "responses": { "200": { "description": "snapshots, newest first" } } }
    },
    "/api/documents/{id}/presence": {
      "get": { "summary": "List active collaborators", "responses": { "200": { "description": "active presence records" } } },
      "delete": { "summary": "Leave the document session", "responses": { "204": { "description": "left" } } }
    },
    "/api/documents/{id}/presence/join": {
      "post": { "summary": "Join the document session", "responses": { "200": { "description": "presence record with color" } } }
    },
    "/api/documents/{id}/presence/cursor": {
      "post": {
        "summary": "Report cursor position",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"from":{"type":"integer"},"to":{"type":"integer"}}}}}},
        "responses": { "204": { "description": "recorded" } }
      }
    },
    "/api/documents/{id}/comments": {
      "get": { "summary": "List comment threads", "responses": { "200": { "description": "threads with comments in append order" } } },
      "post": {
        "summary": "Reply to a thread or start a new anchored thread",
        "requestBody": { "content": { "application/json": { "schema": {"type":"object","properties":{"thread_id":{"type":"string"},"anchor":{"type":"object","properties":{"from":{"type":"integer"},"to":{"type":"integer"}}},"content":{"type":"string"}}}}}},
        "responses": { "201": { "description": "comment or thread created" }, "400": { "description": "neither or both of thread_id and anchor given" } }
      }
    },
    "/api/v1/me": {
      "get": { "summary": "Get user info", "responses": { "200": { "description": "user or claims" } } }
    },
    "/health": { "get": { "summary": "Liveness check", "responses": { "200": { "description": "healthy" } } } },
    "/ready": { "get": { "summary": "Readiness check", "responses": { "200": { "description": "ready" }, "503": { "description": "not ready" } } } }
  }
}`
