package validator

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"reflect"
	"strings"

	"github.com/go-playground/locales/en"
	ut "github.com/go-playground/universal-translator"
	"github.com/go-playground/validator/v10"
	en_translations "github.com/go-playground/validator/v10/translations/en"
	"github.com/ruizTechServices/new-main-1/pkg/api"
	"github.com/tidwall/gjson"
)

const bodyFormatMessage = "Invalid request body format. Please fix your payload."

// chatBody is the wire form of a chat request. Pointers distinguish absent
// fields from zero values so defaults can be applied.
type chatBody struct {
	Provider    string          `json:"provider" validate:"required,oneof=openai anthropic google mistral deepseek hf"`
	Model       string          `json:"model" validate:"required"`
	Messages    []messageBody   `json:"messages" validate:"required,min=1,dive"`
	Stream      *bool           `json:"stream"`
	Temperature *float64        `json:"temperature" validate:"omitempty,gte=0,lte=2"`
	TopP        *float64        `json:"top_p" validate:"omitempty,gte=0,lte=1"`
	Tools       json.RawMessage `json:"tools"`
	Options     *optionsBody    `json:"options"`
}

type messageBody struct {
	Role    string  `json:"role" validate:"required,oneof=user assistant system"`
	Content *string `json:"content" validate:"required"`
}

type optionsBody struct {
	Anthropic *anthropicOptionsBody `json:"anthropic"`
}

type anthropicOptionsBody struct {
	MaxTokens *int64 `json:"max_tokens" validate:"omitempty,gt=0"`
}

// Validator parses and checks incoming chat requests.
type Validator struct {
	validate *validator.Validate
	trans    ut.Translator
}

func New() *Validator {
	v := validator.New(validator.WithRequiredStructEnabled())
	v.RegisterTagNameFunc(func(fld reflect.StructField) string {
		name := strings.SplitN(fld.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	english := en.New()
	uni := ut.New(english, english)
	trans, _ := uni.GetTranslator("en")
	_ = en_translations.RegisterDefaultTranslations(v, trans)

	return &Validator{validate: v, trans: trans}
}

// Parse decodes a JSON chat request from r, validates it and applies
// defaults. Failures are returned as *api.ValidationError.
func (v *Validator) Parse(r io.Reader) (*api.ChatRequest, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, &api.ValidationError{Issues: []api.Issue{{Path: "body", Message: bodyFormatMessage}}}
	}

	var body chatBody
	dec := json.NewDecoder(bytes.NewReader(data))
	if err := dec.Decode(&body); err != nil {
		return nil, &api.ValidationError{Issues: []api.Issue{messageIssue(data, decodeIssue(err))}}
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, &api.ValidationError{Issues: []api.Issue{{Path: "body", Message: bodyFormatMessage}}}
	}

	if err := v.validate.Struct(&body); err != nil {
		return nil, &api.ValidationError{Issues: v.Issues(err)}
	}

	return body.toRequest(), nil
}

// Issues converts validator errors into field-level issues.
func (v *Validator) Issues(err error) []api.Issue {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return []api.Issue{{Path: "body", Message: bodyFormatMessage}}
	}

	issues := make([]api.Issue, 0, len(validationErrors))
	for _, e := range validationErrors {
		ns := e.Namespace()

		if i := strings.Index(ns, "."); i != -1 {
			ns = ns[i+1:]
		}

		msg := e.Translate(v.trans)

		if e.Tag() == "oneof" {
			msg = fmt.Sprintf("must be one of [%s]", strings.ReplaceAll(e.Param(), " ", ", "))
		}

		issues = append(issues, api.Issue{Path: ns, Message: msg})
	}
	return issues
}

func decodeIssue(err error) api.Issue {
	var typeErr *json.UnmarshalTypeError
	if errors.As(err, &typeErr) && typeErr.Field != "" {
		return api.Issue{
			Path:    typeErr.Field,
			Message: fmt.Sprintf("expected %s, received %s", kindName(typeErr.Type), typeErr.Value),
		}
	}
	return api.Issue{Path: "body", Message: bodyFormatMessage}
}

// messageIssue pins a type mismatch inside messages to the offending element,
// e.g. messages[2].content.
func messageIssue(data []byte, issue api.Issue) api.Issue {
	if issue.Path != "messages" && !strings.HasPrefix(issue.Path, "messages.") {
		return issue
	}
	messages := gjson.GetBytes(data, "messages")
	if !messages.IsArray() {
		return issue
	}
	for i, m := range messages.Array() {
		var mb messageBody
		err := json.Unmarshal([]byte(m.Raw), &mb)
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			continue
		}
		path := fmt.Sprintf("messages[%d]", i)
		if typeErr.Field != "" {
			path += "." + typeErr.Field
		}
		return api.Issue{Path: path, Message: fmt.Sprintf("expected %s, received %s", kindName(typeErr.Type), typeErr.Value)}
	}
	return issue
}

func kindName(t reflect.Type) string {
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	switch t.Kind() {
	case reflect.String:
		return "string"
	case reflect.Bool:
		return "boolean"
	case reflect.Slice, reflect.Array:
		return "array"
	case reflect.Struct, reflect.Map:
		return "object"
	default:
		return "number"
	}
}

func (b *chatBody) toRequest() *api.ChatRequest {
	req := &api.ChatRequest{
		Provider:    api.Provider(b.Provider),
		Model:       b.Model,
		Messages:    make([]api.ChatMessage, 0, len(b.Messages)),
		Temperature: api.DefaultTemperature,
		TopP:        api.DefaultTopP,
		Tools:       b.Tools,
	}
	for _, m := range b.Messages {
		req.Messages = append(req.Messages, api.ChatMessage{Role: api.Role(m.Role), Content: *m.Content})
	}
	if b.Stream != nil {
		req.Stream = *b.Stream
	}
	if b.Temperature != nil {
		req.Temperature = *b.Temperature
	}
	if b.TopP != nil {
		req.TopP = *b.TopP
	}
	if b.Options != nil && b.Options.Anthropic != nil {
		req.Options.Anthropic = &api.AnthropicOptions{}
		if b.Options.Anthropic.MaxTokens != nil {
			req.Options.Anthropic.MaxTokens = *b.Options.Anthropic.MaxTokens
		}
	}
	return req
}
