// Package docs holds the OpenAPI document served under /swagger.
// Regenerate with: swag init -g cmd/main.go
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
		"/health": {
			"get": {
				"tags": [
					"system"
				],
				"summary": "Health check",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					}
				}
			}
		},
		"/auth/sign-up": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign up",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				]
			}
		},
		"/auth/sign-in": {
			"post": {
				"tags": [
					"auth"
				],
				"summary": "Sign in",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.authCredentials"
						}
					}
				]
			}
		},
		"/api/v1/filaments": {
			"get": {
				"tags": [
					"filaments"
				],
				"summary": "List filaments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"filaments"
				],
				"summary": "Create filament",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.filamentInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/filaments/low-stock": {
			"get": {
				"tags": [
					"filaments"
				],
				"summary": "Low stock filaments",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/filaments/{id}": {
			"get": {
				"tags": [
					"filaments"
				],
				"summary": "Get filament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"filaments"
				],
				"summary": "Update filament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.filamentInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"filaments"
				],
				"summary": "Delete filament",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/filaments/{id}/consume": {
			"post": {
				"tags": [
					"filaments"
				],
				"summary": "Consume filament",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.consumeRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/printers": {
			"get": {
				"tags": [
					"printers"
				],
				"summary": "List printers",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"printers"
				],
				"summary": "Create printer",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.printerInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/printers/{id}": {
			"get": {
				"tags": [
					"printers"
				],
				"summary": "Get printer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"printers"
				],
				"summary": "Update printer",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.printerInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"printers"
				],
				"summary": "Delete printer",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/projects": {
			"get": {
				"tags": [
					"projects"
				],
				"summary": "List projects",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "status",
						"in": "query",
						"enum": [
							"rascunho",
							"producao",
							"aprovado",
							"finalizado"
						]
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"post": {
				"tags": [
					"projects"
				],
				"summary": "Create project",
				"produces": [
					"application/json"
				],
				"responses": {
					"201": {
						"description": "Created"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.projectInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/projects/approve": {
			"post": {
				"tags": [
					"projects"
				],
				"summary": "Approve budget",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.approveRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/projects/{id}": {
			"get": {
				"tags": [
					"projects"
				],
				"summary": "Get project",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"put": {
				"tags": [
					"projects"
				],
				"summary": "Update project",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.projectInput"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			},
			"delete": {
				"tags": [
					"projects"
				],
				"summary": "Delete project",
				"produces": [
					"application/json"
				],
				"responses": {
					"204": {
						"description": "No Content"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/projects/{id}/status": {
			"post": {
				"tags": [
					"projects"
				],
				"summary": "Advance project status",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"409": {
						"description": "Conflict",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"type": "string",
						"name": "id",
						"in": "path",
						"required": true
					},
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/handlers.statusRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/movements": {
			"get": {
				"tags": [
					"movements"
				],
				"summary": "List stock movements",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"500": {
						"description": "Internal Server Error",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "from",
						"in": "query"
					},
					{
						"type": "string",
						"name": "to",
						"in": "query"
					},
					{
						"type": "string",
						"name": "type",
						"in": "query",
						"enum": [
							"APPROVAL",
							"CONSUMPTION",
							"ADJUSTMENT"
						]
					},
					{
						"type": "string",
						"name": "filament_id",
						"in": "query"
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/files/analyze": {
			"post": {
				"tags": [
					"files"
				],
				"summary": "Analyze sliced file",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"413": {
						"description": "Payload Too Large",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"multipart/form-data"
				],
				"parameters": [
					{
						"type": "file",
						"name": "file",
						"in": "formData",
						"required": true
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/api/v1/quotes": {
			"post": {
				"tags": [
					"quotes"
				],
				"summary": "Price a print",
				"produces": [
					"application/json"
				],
				"responses": {
					"200": {
						"description": "OK"
					},
					"400": {
						"description": "Bad Request",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					},
					"404": {
						"description": "Not Found",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"consumes": [
					"application/json"
				],
				"parameters": [
					{
						"in": "body",
						"name": "input",
						"required": true,
						"schema": {
							"$ref": "#/definitions/service.QuoteRequest"
						}
					}
				],
				"security": [
					{
						"BearerAuth": []
					}
				]
			}
		},
		"/ws": {
			"get": {
				"tags": [
					"filaments"
				],
				"summary": "Low stock feed",
				"produces": [
					"application/json"
				],
				"responses": {
					"101": {
						"description": "Switching Protocols"
					},
					"401": {
						"description": "Unauthorized",
						"schema": {
							"$ref": "#/definitions/handlers.errorResponse"
						}
					}
				},
				"parameters": [
					{
						"type": "string",
						"name": "token",
						"in": "query"
					},
					{
						"type": "string",
						"name": "interval",
						"in": "query"
					},
					{
						"type": "integer",
						"name": "interval_ms",
						"in": "query"
					}
				]
			}
		}
	},
	"definitions": {
		"handlers.errorResponse": {
			"type": "object",
			"properties": {
				"error": {
					"type": "string"
				}
			}
		},
		"handlers.authCredentials": {
			"type": "object",
			"required": [
				"username",
				"password"
			],
			"properties": {
				"username": {
					"type": "string"
				},
				"password": {
					"type": "string"
				}
			}
		},
		"handlers.filamentInput": {
			"type": "object",
			"properties": {
				"nome": {
					"type": "string"
				},
				"material": {
					"type": "string"
				},
				"tipo": {
					"type": "string",
					"enum": [
						"FDM",
						"SLA"
					]
				},
				"corHex": {
					"type": "string"
				},
				"pesoTotal": {
					"type": "number"
				},
				"pesoAtual": {
					"type": "number"
				},
				"preco": {
					"type": "number"
				}
			}
		},
		"handlers.consumeRequest": {
			"type": "object",
			"required": [
				"peso"
			],
			"properties": {
				"peso": {
					"type": "number"
				},
				"nota": {
					"type": "string"
				}
			}
		},
		"handlers.printerInput": {
			"type": "object",
			"properties": {
				"nome": {
					"type": "string"
				},
				"modelo": {
					"type": "string"
				},
				"potenciaW": {
					"type": "number"
				},
				"rendimentoTotal": {
					"type": "number"
				}
			}
		},
		"handlers.projectInput": {
			"type": "object",
			"properties": {
				"nome": {
					"type": "string"
				},
				"cliente": {
					"type": "string"
				},
				"data": {
					"type": "object"
				}
			}
		},
		"handlers.statusRequest": {
			"type": "object",
			"required": [
				"status"
			],
			"properties": {
				"status": {
					"type": "string",
					"enum": [
						"aprovado",
						"finalizado"
					]
				}
			}
		},
		"models.FilamentUsage": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"peso": {
					"type": "number"
				}
			}
		},
		"handlers.approveRequest": {
			"type": "object",
			"required": [
				"projectId"
			],
			"properties": {
				"projectId": {
					"type": "string"
				},
				"printerId": {
					"type": "string"
				},
				"filaments": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/models.FilamentUsage"
					}
				},
				"totalTime": {
					"type": "number"
				}
			}
		},
		"service.QuoteMaterial": {
			"type": "object",
			"properties": {
				"id": {
					"type": "string"
				},
				"peso": {
					"type": "number"
				},
				"precoGrama": {
					"type": "number"
				}
			}
		},
		"service.QuoteRequest": {
			"type": "object",
			"properties": {
				"printerId": {
					"type": "string"
				},
				"horas": {
					"type": "number"
				},
				"horasMaoDeObra": {
					"type": "number"
				},
				"extras": {
					"type": "number"
				},
				"filamentos": {
					"type": "array",
					"items": {
						"$ref": "#/definitions/service.QuoteMaterial"
					}
				},
				"precoKwh": {
					"type": "number"
				},
				"valorHora": {
					"type": "number"
				},
				"depreciacaoHora": {
					"type": "number"
				},
				"taxaFalha": {
					"type": "number"
				},
				"margem": {
					"type": "number"
				}
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

// SwaggerInfo holds exported Swagger Info so clients can modify it
var SwaggerInfo = &swag.Spec{
	Version:          "1.0",
	Host:             "",
	BasePath:         "/",
	Schemes:          []string{},
	Title:            "Print Shop API",
	Description:      "Stock, printers, budgets and sliced-file analysis for a 3D printing shop.",
	InfoInstanceName: "swagger",
	SwaggerTemplate:  docTemplate,
}

func init() {
	swag.Register(SwaggerInfo.InstanceName(), SwaggerInfo)
}
