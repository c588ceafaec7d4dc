package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"github.com/santhosh-tekuri/jsonschema/v5"
)

const maxBodyBytes = 64 << 10

const generateRequestSchema = `{
  "$schema": "http://json-schema.org/draft-07/schema#",
  "type": "object",
  "required": ["host_secret", "family_code"],
  "properties": {
    "host_secret": {"type": "string", "minLength": 1},
    "family_code": {"type": "string", "minLength": 1}
  }
}`

var generateSchema = jsonschema.MustCompileString("generate_request.schema.json", generateRequestSchema)

var errEmptyBody = errors.New("empty request body")

// GenerateRequest is the inbound payload of the generate endpoint.
type GenerateRequest struct {
	HostSecret string `json:"host_secret"`
	FamilyCode string `json:"family_code"`
}

// decodeGenerateRequest reads and validates the body. Any failure means the
// caller did not supply both fields as non-empty strings.
func decodeGenerateRequest(body io.Reader) (*GenerateRequest, error) {
	if body == nil {
		return nil, errEmptyBody
	}
	data, err := io.ReadAll(io.LimitReader(body, maxBodyBytes+1))
	if err != nil {
		return nil, fmt.Errorf("failed to read body: %w", err)
	}
	if len(data) > maxBodyBytes {
		return nil, fmt.Errorf("body exceeds %d bytes", maxBodyBytes)
	}
	if len(bytes.TrimSpace(data)) == 0 {
		return nil, errEmptyBody
	}
	var doc any
	if err := json.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON body: %w", err)
	}
	if err := generateSchema.Validate(doc); err != nil {
		return nil, err
	}
	// Read the fields from the validated document. A struct decode would
	// match keys case-insensitively and let a variant key override them.
	fields := doc.(map[string]any)
	return &GenerateRequest{
		HostSecret: fields["host_secret"].(string),
		FamilyCode: fields["family_code"].(string),
	}, nil
}
