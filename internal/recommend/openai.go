// Bloomwatch - Algal Bloom Risk Assessment for Ponds and Lakes
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/bloomwatch

package recommend

import (
	"context"
	"errors"
	"fmt"

	"github.com/goccy/go-json"
	"github.com/invopop/jsonschema"
	"github.com/openai/openai-go"
	"github.com/openai/openai-go/option"
)

// actionPlan is the structured output requested from the model.
type actionPlan struct {
	Actions []string `json:"actions" jsonschema_description:"3 to 5 concrete mitigation actions for the pond owner, ordered most urgent first, each a single imperative sentence"`
}

// generateSchema builds a strict JSON schema for a structured-output type.
func generateSchema[T any]() interface{} {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// OpenAIGenerator produces recommendations via the OpenAI chat completions
// API using strict structured output.
type OpenAIGenerator struct {
	client openai.Client
	model  openai.ChatModel
	schema interface{}
}

// NewOpenAIGenerator creates a generator backed by the OpenAI API. The API
// key must be non-empty; model defaults to GPT-4o when empty.
func NewOpenAIGenerator(apiKey string, model string) (*OpenAIGenerator, error) {
	if apiKey == "" {
		return nil, errors.New("openai api key not set")
	}
	chatModel := openai.ChatModel(model)
	if model == "" {
		chatModel = openai.ChatModelGPT4o
	}

	return &OpenAIGenerator{
		client: openai.NewClient(option.WithAPIKey(apiKey)),
		model:  chatModel,
		schema: generateSchema[actionPlan](),
	}, nil
}

const systemPrompt = `You are an aquatic ecology advisor helping pond and lake owners manage algal bloom risk.

Given a risk assessment derived from a photo of the water surface and environmental measurements, produce 3 to 5 concrete mitigation actions the owner can take, ordered most urgent first.

Requirements:
- Each action is one imperative sentence a non-expert can follow.
- Actions must be proportionate to the risk level: containment and safety for high risk, prevention for medium, monitoring for low.
- Ground actions in the provided measurements (rainfall, temperature, fertilizer use, stagnation) when they are relevant drivers.
- Never recommend chemical algaecides without also recommending professional consultation.

Output strictly in JSON.`

// Generate implements Generator.
func (g *OpenAIGenerator) Generate(ctx context.Context, rc Context) ([]string, error) {
	payload, err := json.Marshal(rc)
	if err != nil {
		return nil, fmt.Errorf("marshal recommendation context: %w", err)
	}

	schemaParam := openai.ResponseFormatJSONSchemaJSONSchemaParam{
		Name:        "action_plan",
		Description: openai.String("Ordered mitigation actions for the pond owner"),
		Schema:      g.schema,
		Strict:      openai.Bool(true),
	}

	chat, err := g.client.Chat.Completions.New(ctx, openai.ChatCompletionNewParams{
		Messages: []openai.ChatCompletionMessageParamUnion{
			openai.SystemMessage(systemPrompt),
			openai.UserMessage(string(payload)),
		},
		ResponseFormat: openai.ChatCompletionNewParamsResponseFormatUnion{
			OfJSONSchema: &openai.ResponseFormatJSONSchemaParam{JSONSchema: schemaParam},
		},
		Model: g.model,
	})
	if err != nil {
		return nil, fmt.Errorf("openai chat completion: %w", err)
	}

	if len(chat.Choices) == 0 || chat.Choices[0].Message.Content == "" {
		return nil, errors.New("empty completion response")
	}

	var plan actionPlan
	if err := json.Unmarshal([]byte(chat.Choices[0].Message.Content), &plan); err != nil {
		return nil, fmt.Errorf("unmarshal action plan: %w", err)
	}

	return plan.Actions, nil
}
