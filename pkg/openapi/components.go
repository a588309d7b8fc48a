package openapi

import "maps"

// NewComponents registers the page request schema and the error responses
// shared by every handler.
func NewComponents() *Components {
	return &Components{
		Schemas: map[string]*Schema{
			"PageRequest": Object(map[string]*Schema{
				"page":      {Type: "integer", Description: "Page number (1-indexed)", Example: 1},
				"page_size": {Type: "integer", Description: "Results per page", Example: 20},
				"search":    {Type: "string", Description: "Search query"},
				"sort":      {Type: "string", Description: "Comma-separated sort fields, - prefix for descending", Example: "filename,-uploaded_at"},
			}),
			"Error": Object(map[string]*Schema{
				"error": {Type: "string"},
			}, "error"),
		},
		Responses: map[string]*Response{
			"BadRequest":      ResponseJSON("Invalid request", "Error"),
			"NotFound":        ResponseJSON("Resource not found", "Error"),
			"Conflict":        ResponseJSON("Resource conflict", "Error"),
			"PayloadTooLarge": ResponseJSON("Upload exceeds the maximum size", "Error"),
		},
	}
}

func (c *Components) AddSchemas(schemas map[string]*Schema) {
	maps.Copy(c.Schemas, schemas)
}

func (c *Components) AddResponses(responses map[string]*Response) {
	maps.Copy(c.Responses, responses)
}

func SchemaRef(name string) *Schema {
	return &Schema{Ref: "#/components/schemas/" + name}
}

func ResponseRef(name string) *Response {
	return &Response{Ref: "#/components/responses/" + name}
}

// Object is an object schema with the given properties and required keys.
func Object(properties map[string]*Schema, required ...string) *Schema {
	return &Schema{Type: "object", Properties: properties, Required: required}
}

func ArrayOf(items *Schema) *Schema {
	return &Schema{Type: "array", Items: items}
}

// Enum is a string schema restricted to values.
func Enum(values ...string) *Schema {
	s := &Schema{Type: "string"}
	for _, v := range values {
		s.Enum = append(s.Enum, v)
	}
	return s
}

// Content maps a single media type to schema.
func Content(mediaType string, schema *Schema) map[string]*MediaType {
	return map[string]*MediaType{mediaType: {Schema: schema}}
}

// ResponseJSON is a JSON response whose body is the named component schema.
func ResponseJSON(description, schemaName string) *Response {
	return &Response{
		Description: description,
		Content:     Content("application/json", SchemaRef(schemaName)),
	}
}

// PathParam is a required UUID path parameter.
func PathParam(name, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "path",
		Required:    true,
		Description: description,
		Schema:      &Schema{Type: "string", Format: "uuid"},
	}
}

// QueryParam is an optional query parameter of the given JSON type.
func QueryParam(name, typ, description string) *Parameter {
	return &Parameter{
		Name:        name,
		In:          "query",
		Description: description,
		Schema:      &Schema{Type: typ},
	}
}
