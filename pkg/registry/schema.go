package registry

// Document is the on-disk shape of a form registry file.
type Document struct {
	Version string           `json:"version"`
	Forms   []FormDefinition `json:"forms"`
}

// FormDefinition describes one configured form: its display name, required
// field names, recipient addresses and the template key used to render
// submissions. Definitions are immutable after registry construction.
type FormDefinition struct {
	ID         string   `json:"id"`
	Name       string   `json:"name"`
	Fields     []string `json:"fields"`
	Recipients []string `json:"recipients"`
	Template   string   `json:"template"`
}

// FormSummary is the public view of a form exposed over the API.
type FormSummary struct {
	ID     string   `json:"id"`
	Name   string   `json:"name"`
	Fields []string `json:"fields"`
}

// documentSchema is the JSON Schema a registry file must satisfy before any
// semantic checks run.
const documentSchema = `{
  "type": "object",
  "required": ["forms"],
  "properties": {
    "version": {"type": "string"},
    "forms": {
      "type": "array",
      "minItems": 1,
      "items": {
        "type": "object",
        "required": ["id", "name", "fields", "recipients", "template"],
        "properties": {
          "id": {"type": "string", "minLength": 1},
          "name": {"type": "string", "minLength": 1},
          "fields": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 1}
          },
          "recipients": {
            "type": "array",
            "minItems": 1,
            "items": {"type": "string", "minLength": 3}
          },
          "template": {"type": "string", "minLength": 1}
        },
        "additionalProperties": false
      }
    }
  },
  "additionalProperties": false
}`
