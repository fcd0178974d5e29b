// Package llm is the structured-generation client: it calls a text
// generation service and only accepts responses that decode as JSON and
// conform to the request's declared schema, retrying with escalating
// strictness otherwise.
package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log"

	"github.com/ChakriOriginals/MathVizAI/internal/model"
)

// strictJSONSuffix is appended to the system prompt on every attempt after
// the first.
const strictJSONSuffix = "\n\nCRITICAL: Your response MUST be valid JSON only. " +
	"No markdown fences, no prose, no explanation — raw JSON only."

// Caller issues a single call to the generation service.
type Caller interface {
	Call(ctx context.Context, systemPrompt, userPrompt string) (string, error)
}

// Request describes one structured generation. Requests are stateless and
// constructed fresh per call.
type Request struct {
	Name         string // artifact name, for logging
	SystemPrompt string
	UserPrompt   string
	Schema       string // CUE source the response must satisfy
	MaxRetries   int
}

// Client wraps a Caller with schema enforcement and bounded retry.
type Client struct {
	caller Caller
}

// NewClient builds a client around an injected service caller.
func NewClient(caller Caller) *Client {
	return &Client{caller: caller}
}

// Generate runs the attempt loop: up to MaxRetries+1 calls, accepting the
// first response that decodes as JSON and validates against the schema.
// Fatal service errors abort immediately; anything else is recorded and the
// next attempt proceeds with a stricter prompt.
func (c *Client) Generate(ctx context.Context, req Request) (json.RawMessage, error) {
	attempts := req.MaxRetries + 1
	var lastErr error

	for attempt := 0; attempt < attempts; attempt++ {
		system := req.SystemPrompt
		if attempt > 0 {
			system += strictJSONSuffix
		}

		out, err := c.caller.Call(ctx, system, req.UserPrompt)
		if err != nil {
			var genErr *Error
			if errors.As(err, &genErr) && !genErr.Retryable() {
				log.Printf("llm: %s attempt %d/%d fatal: %v", req.Name, attempt+1, attempts, err)
				return nil, genErr
			}
			lastErr = err
			log.Printf("llm: %s attempt %d/%d call error: %v", req.Name, attempt+1, attempts, err)
			continue
		}

		raw := ExtractJSON(out)
		if raw == nil {
			lastErr = &Error{Kind: KindParse, Err: fmt.Errorf("no JSON found in response")}
			log.Printf("llm: %s attempt %d/%d parse error: no JSON in response", req.Name, attempt+1, attempts)
			continue
		}
		if !json.Valid(raw) {
			lastErr = &Error{Kind: KindParse, Err: fmt.Errorf("response is not valid JSON")}
			log.Printf("llm: %s attempt %d/%d parse error: invalid JSON", req.Name, attempt+1, attempts)
			continue
		}

		if err := model.ValidateSchema(raw, req.Schema); err != nil {
			lastErr = &Error{Kind: KindValidation, Err: err}
			log.Printf("llm: %s attempt %d/%d validation error: %v", req.Name, attempt+1, attempts, err)
			continue
		}

		log.Printf("llm: %s attempt %d/%d ok (%d bytes)", req.Name, attempt+1, attempts, len(raw))
		return raw, nil
	}

	return nil, &RetriesExhaustedError{Attempts: attempts, Last: lastErr}
}

// GenerateInto runs Generate and decodes the accepted JSON into dst.
func (c *Client) GenerateInto(ctx context.Context, req Request, dst any) error {
	raw, err := c.Generate(ctx, req)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		// Schema validation passed, so a decode failure here means the Go
		// type and the schema disagree.
		return &Error{Kind: KindValidation, Err: fmt.Errorf("decode %s: %w", req.Name, err)}
	}
	return nil
}
