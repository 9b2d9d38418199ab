package document

// Document represents a Swagger 2.0 document.
// Reference: https://spec.openapis.org/oas/v2.0.html
type Document struct {
	Swagger     string                `yaml:"swagger" json:"swagger"` // Required: "2.0"
	Info        *Info                 `yaml:"info,omitempty" json:"info,omitempty"`
	Host        string                `yaml:"host,omitempty" json:"host,omitempty"`
	BasePath    string                `yaml:"basePath,omitempty" json:"basePath,omitempty"`
	Schemes     []string              `yaml:"schemes,omitempty" json:"schemes,omitempty"`
	Consumes    []string              `yaml:"consumes,omitempty" json:"consumes,omitempty"`
	Produces    []string              `yaml:"produces,omitempty" json:"produces,omitempty"`
	Paths       Paths                 `yaml:"paths" json:"paths"`
	Definitions map[string]*Schema    `yaml:"definitions,omitempty" json:"definitions,omitempty"`
	Parameters  map[string]*Parameter `yaml:"parameters,omitempty" json:"parameters,omitempty"`
	Responses   map[string]*Response  `yaml:"responses,omitempty" json:"responses,omitempty"`
	// Extra captures specification extensions (fields starting with "x-")
	Extra map[string]any `yaml:",inline" json:"-"`
}

// Info provides metadata about the API.
type Info struct {
	Title       string         `yaml:"title" json:"title"`
	Description string         `yaml:"description,omitempty" json:"description,omitempty"`
	Version     string         `yaml:"version" json:"version"`
	Extra       map[string]any `yaml:",inline" json:"-"`
}

// Title returns the API title, or "" when Info is missing.
func (d *Document) Title() string {
	if d == nil || d.Info == nil {
		return ""
	}
	return d.Info.Title
}
