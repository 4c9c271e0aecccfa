package profile

import (
	"encoding/json"
	"fmt"
	"sync"

	"github.com/santhosh-tekuri/jsonschema/v6"
)

// documentSchema is the shape a stored profile must have to be trusted.
// Extra fields are allowed so newer documents stay readable.
const documentSchema = `{
  "type": "object",
  "required": ["student_id", "created_at", "quiz_attempts", "topics"],
  "properties": {
    "student_id": {"type": "string"},
    "created_at": {"type": "string"},
    "last_updated": {"type": ["string", "null"]},
    "quiz_attempts": {"type": "integer", "minimum": 0},
    "topics": {
      "type": "object",
      "additionalProperties": {
        "type": "object",
        "required": ["history"],
        "properties": {
          "history": {
            "type": "array",
            "items": {
              "type": "object",
              "required": ["score", "level", "timestamp"],
              "properties": {
                "score": {"type": "number"},
                "level": {"enum": ["Weak", "Medium", "Strong"]},
                "timestamp": {"type": "string"}
              }
            }
          },
          "current_score": {"type": ["number", "null"]},
          "current_level": {"enum": ["Weak", "Medium", "Strong", null]}
        }
      }
    }
  }
}`

const schemaURL = "schema://student-profile.json"

var (
	compileOnce sync.Once
	compiled    *jsonschema.Schema
	compileErr  error
)

func profileSchema() (*jsonschema.Schema, error) {
	compileOnce.Do(func() {
		var def any
		if err := json.Unmarshal([]byte(documentSchema), &def); err != nil {
			compileErr = fmt.Errorf("parse profile schema: %w", err)
			return
		}
		c := jsonschema.NewCompiler()
		if err := c.AddResource(schemaURL, def); err != nil {
			compileErr = fmt.Errorf("add resource: %w", err)
			return
		}
		compiled, compileErr = c.Compile(schemaURL)
	})
	return compiled, compileErr
}

// Validate checks raw JSON against the profile document schema.
func Validate(raw []byte) error {
	var doc any
	if err := json.Unmarshal(raw, &doc); err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}

	sch, err := profileSchema()
	if err != nil {
		return err
	}
	if err := sch.Validate(doc); err != nil {
		return fmt.Errorf("schema validation failed: %w", err)
	}
	return nil
}
