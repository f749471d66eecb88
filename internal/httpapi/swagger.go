package httpapi

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (h *Handler) swaggerUI(c *gin.Context) {
	const page = `<!doctype html>
<html lang="en">
<head>
  <meta charset="utf-8" />
  <meta name="viewport" content="width=device-width, initial-scale=1" />
  <title>AYAN API Swagger</title>
  <link rel="stylesheet" href="https://unpkg.com/swagger-ui-dist@5/swagger-ui.css" />
</head>
<body>
  <div id="swagger-ui"></div>
  <script src="https://unpkg.com/swagger-ui-dist@5/swagger-ui-bundle.js"></script>
  <script>
    window.ui = SwaggerUIBundle({
      url: '/docs/openapi.json',
      dom_id: '#swagger-ui'
    });
  </script>
</body>
</html>`
	c.Data(http.StatusOK, "text/html; charset=utf-8", []byte(page))
}

func (h *Handler) swaggerSpec(c *gin.Context) {
	c.JSON(http.StatusOK, openAPISpec(requestBaseURL(c.Request)))
}

func requestBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil {
		scheme = "https"
	}
	if forwarded := strings.TrimSpace(r.Header.Get("X-Forwarded-Proto")); forwarded != "" {
		scheme = strings.Split(forwarded, ",")[0]
		scheme = strings.TrimSpace(scheme)
	}

	host := strings.TrimSpace(r.Host)
	if host == "" {
		host = "localhost:8080"
	}
	return scheme + "://" + host
}

func schemaRef(name string) map[string]any {
	return map[string]any{"$ref": "#/components/schemas/" + name}
}

func jsonContent(schema map[string]any) map[string]any {
	return map[string]any{
		"application/json": map[string]any{"schema": schema},
	}
}

// viewOperation describes an endpoint that answers with the rendered view.
func viewOperation(summary, operationID string, extra map[string]any) map[string]any {
	responses := map[string]any{
		"200": map[string]any{
			"description": "Current view",
			"content":     jsonContent(schemaRef("View")),
		},
	}
	for code, resp := range extra {
		responses[code] = resp
	}
	return map[string]any{
		"summary":     summary,
		"operationId": operationID,
		"responses":   responses,
	}
}

func withBody(op map[string]any, content map[string]any) map[string]any {
	op["requestBody"] = map[string]any{"required": true, "content": content}
	return op
}

func errorResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content":     jsonContent(schemaRef("ErrorResponse")),
	}
}

func identifyFailureResponse(description string) map[string]any {
	return map[string]any{
		"description": description,
		"content":     jsonContent(schemaRef("IdentifyFailure")),
	}
}

func openAPISpec(serverURL string) map[string]any {
	return map[string]any{
		"openapi": "3.0.3",
		"info": map[string]any{
			"title":       "AYAN API",
			"description": "Landmark scanner backend: navigation, identification, rewards and catalog.",
			"version":     "1.0.0",
		},
		"servers": []map[string]string{
			{"url": serverURL},
		},
		"paths": map[string]any{
			"/healthz": map[string]any{
				"get": map[string]any{
					"summary":     "Health check",
					"operationId": "healthz",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "OK",
							"content":     jsonContent(schemaRef("HealthResponse")),
						},
					},
				},
			},
			"/metrics": map[string]any{
				"get": map[string]any{
					"summary":     "Prometheus metrics",
					"operationId": "metrics",
					"responses": map[string]any{
						"200": map[string]any{"description": "Prometheus text exposition"},
					},
				},
			},
			"/api/v1/state": map[string]any{
				"get": viewOperation("Render the current screen", "state", nil),
			},
			"/api/v1/navigate": map[string]any{
				"post": withBody(
					viewOperation("Push a screen onto the navigation stack", "navigate", map[string]any{
						"400": errorResponse("Unknown screen or no landmark selected"),
						"409": errorResponse("Scan failure pending"),
					}),
					jsonContent(schemaRef("NavigateRequest")),
				),
			},
			"/api/v1/back": map[string]any{
				"post": viewOperation("Pop the navigation stack, dismissing any pending failure", "back", nil),
			},
			"/api/v1/scan/start": map[string]any{
				"post": viewOperation("Open the camera screen", "startScan", map[string]any{
					"409": errorResponse("Scan failure pending"),
				}),
			},
			"/api/v1/capture": map[string]any{
				"post": withBody(
					viewOperation("Submit a captured image", "capture", map[string]any{
						"400": errorResponse("Missing or unreadable image"),
						"409": errorResponse("Scan failure pending"),
					}),
					map[string]any{
						"application/json": map[string]any{"schema": schemaRef("CaptureRequest")},
						"multipart/form-data": map[string]any{
							"schema": map[string]any{
								"type":     "object",
								"required": []string{"file"},
								"properties": map[string]any{
									"file": map[string]any{"type": "string", "format": "binary"},
								},
							},
						},
					},
				),
			},
			"/api/v1/identify": map[string]any{
				"post": viewOperation("Identify the captured landmark", "identify", map[string]any{
					"400": identifyFailureResponse("Classifier endpoint is not encrypted"),
					"409": errorResponse("No capture, identification in progress, or capture discarded"),
					"422": identifyFailureResponse("Not a building or landmark not in catalog"),
					"500": identifyFailureResponse("Unexpected failure"),
					"502": identifyFailureResponse("Classifier service failure"),
				}),
			},
			"/api/v1/retry": map[string]any{
				"post": viewOperation("Dismiss the failure and go back", "retry", nil),
			},
			"/api/v1/cancel": map[string]any{
				"post": viewOperation("Dismiss the failure and return to scan", "cancel", nil),
			},
			"/api/v1/scan/again": map[string]any{
				"post": viewOperation("Discard the capture and return to scan", "scanAgain", map[string]any{
					"409": errorResponse("Scan failure pending"),
				}),
			},
			"/api/v1/landmarks": map[string]any{
				"get": map[string]any{
					"summary":     "Search and page the landmark catalog",
					"operationId": "landmarks",
					"parameters": []map[string]any{
						{"name": "search", "in": "query", "schema": map[string]any{"type": "string"}},
						{"name": "category", "in": "query", "schema": map[string]any{"type": "string"}},
						{"name": "sort", "in": "query", "schema": map[string]any{"type": "string", "enum": []string{"name-asc", "name-desc"}}},
						{"name": "page", "in": "query", "schema": map[string]any{"type": "integer", "minimum": 1}},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Catalog page",
							"content":     jsonContent(schemaRef("CatalogResult")),
						},
						"400": errorResponse("Invalid query"),
					},
				},
			},
			"/api/v1/landmarks/{id}/open": map[string]any{
				"post": func() map[string]any {
					op := viewOperation("Show a catalog landmark", "openLandmark", map[string]any{
						"404": errorResponse("Unknown landmark"),
						"409": errorResponse("Scan failure pending"),
					})
					op["parameters"] = []map[string]any{
						{"name": "id", "in": "path", "required": true, "schema": map[string]any{"type": "string"}},
					}
					return op
				}(),
			},
			"/api/v1/language": map[string]any{
				"post": withBody(
					viewOperation("Switch the UI language", "setLanguage", map[string]any{
						"400": errorResponse("Unsupported language"),
					}),
					jsonContent(schemaRef("LanguageRequest")),
				),
			},
			"/api/v1/badge/dismiss": map[string]any{
				"post": viewOperation("Dismiss the badge notification", "dismissBadge", nil),
			},
			"/api/v1/history": map[string]any{
				"get": map[string]any{
					"summary":     "Resolved scan history",
					"operationId": "history",
					"responses": map[string]any{
						"200": map[string]any{
							"description": "History entries, newest first",
							"content":     jsonContent(schemaRef("HistoryResponse")),
						},
					},
				},
			},
			"/api/v1/i18n/{lang}": map[string]any{
				"get": map[string]any{
					"summary":     "Localized message table",
					"operationId": "messages",
					"parameters": []map[string]any{
						{"name": "lang", "in": "path", "required": true, "schema": map[string]any{"type": "string", "enum": []string{"en", "ar"}}},
					},
					"responses": map[string]any{
						"200": map[string]any{
							"description": "Messages",
							"content":     jsonContent(schemaRef("MessagesResponse")),
						},
						"404": errorResponse("Unsupported language"),
					},
				},
			},
		},
		"components": map[string]any{
			"schemas": map[string]any{
				"HealthResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"status": map[string]any{"type": "string"},
					},
				},
				"ErrorResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error": map[string]any{"type": "string"},
					},
				},
				"NavigateRequest": map[string]any{
					"type":     "object",
					"required": []string{"screen"},
					"properties": map[string]any{
						"screen": map[string]any{
							"type": "string",
							"enum": []string{"scan", "camera", "loading", "results", "explore", "rewards", "profile"},
						},
					},
				},
				"CaptureRequest": map[string]any{
					"type":     "object",
					"required": []string{"image_data_url"},
					"properties": map[string]any{
						"image_data_url": map[string]any{"type": "string", "example": "data:image/jpeg;base64,..."},
					},
				},
				"LanguageRequest": map[string]any{
					"type":     "object",
					"required": []string{"language"},
					"properties": map[string]any{
						"language": map[string]any{"type": "string", "enum": []string{"en", "ar"}},
					},
				},
				"Failure": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"kind":        map[string]any{"type": "string"},
						"title":       map[string]any{"type": "string"},
						"description": map[string]any{"type": "string"},
					},
				},
				"IdentifyFailure": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"error":   map[string]any{"type": "string"},
						"failure": schemaRef("Failure"),
						"view":    schemaRef("View"),
					},
				},
				"BadgeNotice": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":   map[string]any{"type": "string"},
						"name": map[string]any{"type": "string"},
					},
				},
				"View": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"screen":       map[string]any{"type": "string"},
						"language":     map[string]any{"type": "string"},
						"direction":    map[string]any{"type": "string", "enum": []string{"ltr", "rtl"}},
						"points":       map[string]any{"type": "integer"},
						"can_go_back":  map[string]any{"type": "boolean"},
						"nav":          map[string]any{"type": "array", "items": map[string]any{"type": "object"}},
						"notification": schemaRef("BadgeNotice"),
						"body": map[string]any{
							"type":        "object",
							"description": "Screen-specific content; shape depends on screen.",
						},
					},
				},
				"Landmark": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"id":          map[string]any{"type": "string"},
						"name":        schemaRef("Text"),
						"built":       map[string]any{"type": "string"},
						"image":       map[string]any{"type": "string"},
						"region":      schemaRef("Text"),
						"category":    schemaRef("Text"),
						"description": schemaRef("Text"),
						"history":     schemaRef("Text"),
						"location":    schemaRef("Text"),
						"coordinates": map[string]any{
							"type": "object",
							"properties": map[string]any{
								"lat": map[string]any{"type": "number"},
								"lon": map[string]any{"type": "number"},
							},
						},
					},
				},
				"Text": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"en": map[string]any{"type": "string"},
						"ar": map[string]any{"type": "string"},
					},
				},
				"CatalogResult": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"items": map[string]any{
							"type":  "array",
							"items": schemaRef("Landmark"),
						},
						"total":    map[string]any{"type": "integer"},
						"page":     map[string]any{"type": "integer"},
						"has_more": map[string]any{"type": "boolean"},
					},
				},
				"HistoryResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"entries": map[string]any{
							"type":  "array",
							"items": map[string]any{"type": "object"},
						},
					},
				},
				"MessagesResponse": map[string]any{
					"type": "object",
					"properties": map[string]any{
						"language":  map[string]any{"type": "string"},
						"direction": map[string]any{"type": "string"},
						"messages": map[string]any{
							"type":                 "object",
							"additionalProperties": map[string]any{"type": "string"},
						},
					},
				},
			},
		},
	}
}
