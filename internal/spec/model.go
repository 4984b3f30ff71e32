package spec

// Descriptor model shared by the registry, the synthesizer, and the code
// example generators. Everything here is immutable after a registry load.

type HTTPMethod string

const (
	GET     HTTPMethod = "GET"
	POST    HTTPMethod = "POST"
	PUT     HTTPMethod = "PUT"
	PATCH   HTTPMethod = "PATCH"
	DELETE  HTTPMethod = "DELETE"
	HEAD    HTTPMethod = "HEAD"
	OPTIONS HTTPMethod = "OPTIONS"
)

// Methods lists the supported HTTP methods in the order operations are
// extracted from a path item.
var Methods = []HTTPMethod{GET, POST, PUT, PATCH, DELETE, HEAD, OPTIONS}

// SpecDocument is one loaded OpenAPI document plus its extracted endpoints.
type SpecDocument struct {
	ID              string               `json:"id"`
	Filename        string               `json:"filename"`
	Title           string               `json:"title"`
	Version         string               `json:"version"`
	Description     string               `json:"description,omitempty"`
	OpenAPIVersion  string               `json:"openapi_version"`
	Servers         []Server             `json:"servers,omitempty"`
	SecuritySchemes []SecurityScheme     `json:"security_schemes,omitempty"`
	Endpoints       []EndpointDescriptor `json:"endpoints"`
}

type Server struct {
	URL         string `json:"url"`
	Description string `json:"description,omitempty"`
}

// SecurityScheme is the subset of an OpenAPI security scheme that matters
// for generated client code.
type SecurityScheme struct {
	Name         string `json:"name"`
	Type         string `json:"type"` // http, apiKey, oauth2, openIdConnect
	Scheme       string `json:"scheme,omitempty"`
	BearerFormat string `json:"bearer_format,omitempty"`
	In           string `json:"in,omitempty"`
	ParamName    string `json:"param_name,omitempty"`
}

// EndpointDescriptor is one (path, method) operation. The pair is unique
// within its owning SpecDocument.
type EndpointDescriptor struct {
	Path        string                        `json:"path"`
	Method      HTTPMethod                    `json:"method"`
	OperationID string                        `json:"operation_id,omitempty"`
	Summary     string                        `json:"summary,omitempty"`
	Description string                        `json:"description,omitempty"`
	Tags        []string                      `json:"tags,omitempty"`
	Parameters  []ParameterDescriptor         `json:"parameters,omitempty"`
	RequestBody *RequestBodyDescriptor        `json:"request_body,omitempty"`
	Responses   map[string]ResponseDescriptor `json:"responses,omitempty"`
	Security    []string                      `json:"security,omitempty"`
	Deprecated  bool                          `json:"deprecated,omitempty"`
}

type ParameterDescriptor struct {
	Name     string  `json:"name"`
	In       string  `json:"in"` // path|query|header|cookie
	Required bool    `json:"required"`
	Schema   *Schema `json:"schema,omitempty"`
	Example  any     `json:"example,omitempty"`
}

// RequestBodyDescriptor maps content types to their schemas.
type RequestBodyDescriptor struct {
	Required bool             `json:"required"`
	Content  map[string]Media `json:"content"`
}

type ResponseDescriptor struct {
	Description string           `json:"description,omitempty"`
	Content     map[string]Media `json:"content,omitempty"`
}

type Media struct {
	Schema  *Schema `json:"schema,omitempty"`
	Example any     `json:"example,omitempty"`
}

// Schema is the JSON Schema subset carried on descriptors. $ref chains are
// resolved during extraction (cycle-safe), so consumers never see refs.
type Schema struct {
	Type       string             `json:"type,omitempty"`
	Format     string             `json:"format,omitempty"`
	Enum       []any              `json:"enum,omitempty"`
	Properties map[string]*Schema `json:"properties,omitempty"`
	Required   []string           `json:"required,omitempty"`
	Items      *Schema            `json:"items,omitempty"`
	Minimum    *float64           `json:"minimum,omitempty"`
	Example    any                `json:"example,omitempty"`
}

// Summary is the compact listing entry returned by Registry.List.
type Summary struct {
	ID            string `json:"id"`
	Title         string `json:"title"`
	Version       string `json:"version"`
	EndpointCount int    `json:"endpoint_count"`
}

// IntegrationInfo carries everything a generated client snippet needs
// beyond the endpoint itself.
type IntegrationInfo struct {
	SpecID          string           `json:"spec_id"`
	Title           string           `json:"title"`
	Version         string           `json:"version"`
	BaseURL         string           `json:"base_url"`
	Servers         []Server         `json:"servers,omitempty"`
	SecuritySchemes []SecurityScheme `json:"security_schemes,omitempty"`
	ContentType     string           `json:"content_type"`
}
