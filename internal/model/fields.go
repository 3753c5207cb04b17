package model

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/invopop/jsonschema"
)

var ErrInvalidFields = errors.New("invalid fields")

const (
	MaxNameLength        = 100
	MaxDescriptionLength = 500
)

// The structs below describe the editable fields of each content type. They
// drive both request decoding and the JSON schema served to the edit form.

type ChatFields struct {
	Name                         *string  `json:"name,omitempty" jsonschema:"minLength=1,maxLength=100,description=Chat title"`
	Model                        *string  `json:"model,omitempty" jsonschema:"description=Model used for new messages"`
	Prompt                       *string  `json:"prompt,omitempty" jsonschema:"description=System prompt"`
	Temperature                  *float64 `json:"temperature,omitempty" jsonschema:"minimum=0,maximum=2"`
	ContextLength                *int     `json:"context_length,omitempty" jsonschema:"minimum=0"`
	IncludeProfileContext        *bool    `json:"include_profile_context,omitempty"`
	IncludeWorkspaceInstructions *bool    `json:"include_workspace_instructions,omitempty"`
	EmbeddingsProvider           *string  `json:"embeddings_provider,omitempty" jsonschema:"enum=openai,enum=local"`
}

type PromptFields struct {
	Name    *string `json:"name,omitempty" jsonschema:"minLength=1,maxLength=100"`
	Content *string `json:"content,omitempty" jsonschema:"description=Prompt text"`
}

type FileFields struct {
	Name        *string `json:"name,omitempty" jsonschema:"minLength=1,maxLength=100"`
	Description *string `json:"description,omitempty" jsonschema:"maxLength=500"`
}

type ToolFields struct {
	Name          *string `json:"name,omitempty" jsonschema:"minLength=1,maxLength=100"`
	Description   *string `json:"description,omitempty" jsonschema:"maxLength=500"`
	URL           *string `json:"url,omitempty" jsonschema:"format=uri"`
	Schema        *string `json:"schema,omitempty" jsonschema:"description=OpenAPI schema of the tool"`
	CustomHeaders *string `json:"custom_headers,omitempty" jsonschema:"description=JSON object of extra request headers"`
}

type ModelFields struct {
	Name          *string `json:"name,omitempty" jsonschema:"minLength=1,maxLength=100"`
	Description   *string `json:"description,omitempty" jsonschema:"maxLength=500"`
	ModelID       *string `json:"model_id,omitempty" jsonschema:"description=Provider model identifier"`
	BaseURL       *string `json:"base_url,omitempty" jsonschema:"format=uri"`
	APIKey        *string `json:"api_key,omitempty"`
	ContextLength *int    `json:"context_length,omitempty" jsonschema:"minimum=0"`
}

func fieldsFor(ct ContentType) (any, error) {
	switch ct {
	case ContentTypeChats:
		return &ChatFields{}, nil
	case ContentTypePrompts:
		return &PromptFields{}, nil
	case ContentTypeFiles:
		return &FileFields{}, nil
	case ContentTypeTools:
		return &ToolFields{}, nil
	case ContentTypeModels:
		return &ModelFields{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownContentType, ct)
	}
}

// DecodePatch decodes raw field edits for the given content type. Unknown
// keys are rejected. Empty input yields an empty patch.
func DecodePatch(ct ContentType, raw json.RawMessage) (ItemPatch, error) {
	target, err := fieldsFor(ct)
	if err != nil {
		return ItemPatch{}, err
	}

	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return ItemPatch{}, nil
	}

	dec := json.NewDecoder(bytes.NewReader(trimmed))
	dec.DisallowUnknownFields()
	if err := dec.Decode(target); err != nil {
		return ItemPatch{}, fmt.Errorf("%w: %v", ErrInvalidFields, err)
	}

	// Round-trip through a map so omitempty drops the fields that were not sent.
	encoded, err := json.Marshal(target)
	if err != nil {
		return ItemPatch{}, fmt.Errorf("encoding %s fields: %w", ct.Singular(), err)
	}
	var data map[string]any
	if err := json.Unmarshal(encoded, &data); err != nil {
		return ItemPatch{}, fmt.Errorf("encoding %s fields: %w", ct.Singular(), err)
	}

	var patch ItemPatch
	if v, ok := data["name"]; ok {
		name := strings.TrimSpace(v.(string))
		if name == "" || utf8.RuneCountInString(name) > MaxNameLength {
			return ItemPatch{}, fmt.Errorf("%w: name must be between 1 and %d characters", ErrInvalidFields, MaxNameLength)
		}
		patch.Name = &name
		delete(data, "name")
	}
	if v, ok := data["description"]; ok {
		desc := v.(string)
		if utf8.RuneCountInString(desc) > MaxDescriptionLength {
			return ItemPatch{}, fmt.Errorf("%w: description must be at most %d characters", ErrInvalidFields, MaxDescriptionLength)
		}
		patch.Description = &desc
		delete(data, "description")
	}
	if len(data) > 0 {
		patch.Data = data
	}

	return patch, nil
}

// FieldSchema returns the JSON schema of the editable fields of a content type.
func FieldSchema(ct ContentType) (*jsonschema.Schema, error) {
	target, err := fieldsFor(ct)
	if err != nil {
		return nil, err
	}
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	schema := reflector.Reflect(target)
	schema.Title = "Edit " + ct.Singular()
	return schema, nil
}
