package validation

import (
	"fmt"
	"strings"

	"github.com/xeipuuv/gojsonschema"
)

// chatRequestSchema pins the inbound chat body: message is required and must
// be a non-empty string. Extra fields are rejected so client typos surface
// as 400s instead of silently matching nothing.
const chatRequestSchema = `{
	"type": "object",
	"properties": {
		"message": {
			"type": "string",
			"minLength": 1,
			"maxLength": 2000
		},
		"session": {
			"type": "string",
			"maxLength": 128
		}
	},
	"required": ["message"],
	"additionalProperties": false
}`

var chatRequestLoader = gojsonschema.NewStringLoader(chatRequestSchema)

// ValidateChatRequest checks a raw JSON chat body against the request schema.
// It returns a human-readable description of the first violations on failure.
func ValidateChatRequest(body []byte) error {
	result, err := gojsonschema.Validate(chatRequestLoader, gojsonschema.NewBytesLoader(body))
	if err != nil {
		return fmt.Errorf("invalid JSON: %w", err)
	}
	if result.Valid() {
		return nil
	}

	msgs := make([]string, 0, len(result.Errors()))
	for _, desc := range result.Errors() {
		msgs = append(msgs, desc.String())
	}
	return fmt.Errorf("%s", strings.Join(msgs, "; "))
}
