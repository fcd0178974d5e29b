package llm

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"testing"
)

const pointSchema = `{
	x: int
	y: int
}`

// scriptedCaller returns its responses in order; an empty response with a
// non-nil err entry simulates a service failure for that attempt.
type scriptedCaller struct {
	responses []string
	errs      []error
	calls     int
	systems   []string
}

func (s *scriptedCaller) Call(_ context.Context, systemPrompt, _ string) (string, error) {
	idx := s.calls
	s.calls++
	s.systems = append(s.systems, systemPrompt)
	if idx >= len(s.responses) {
		return "", fmt.Errorf("unexpected call %d", idx+1)
	}
	var err error
	if idx < len(s.errs) {
		err = s.errs[idx]
	}
	return s.responses[idx], err
}

func TestGenerate_FirstAttemptSucceeds(t *testing.T) {
	caller := &scriptedCaller{responses: []string{`{"x": 1, "y": 2}`}}
	c := NewClient(caller)

	raw, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema, MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.calls != 1 {
		t.Fatalf("expected 1 call, got %d", caller.calls)
	}
	if string(raw) != `{"x": 1, "y": 2}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
	if strings.Contains(caller.systems[0], "CRITICAL") {
		t.Fatalf("first attempt must not carry the strict suffix")
	}
}

func TestGenerate_RetriesThenSucceeds(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		"not json at all",
		`{"x": "one", "y": 2}`, // wrong type, fails schema
		`{"x": 1, "y": 2}`,
	}}
	c := NewClient(caller)

	raw, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema, MaxRetries: 2,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", caller.calls)
	}
	if !json.Valid(raw) {
		t.Fatalf("accepted response is not valid JSON: %s", raw)
	}
	// Retried attempts escalate strictness.
	for i, sys := range caller.systems[1:] {
		if !strings.Contains(sys, "CRITICAL") {
			t.Fatalf("attempt %d missing strict suffix", i+2)
		}
	}
}

func TestGenerate_RetriesExhausted(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		"garbage", "garbage", "garbage",
	}}
	c := NewClient(caller)

	_, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema, MaxRetries: 2,
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	var exhausted *RetriesExhaustedError
	if !errors.As(err, &exhausted) {
		t.Fatalf("expected RetriesExhaustedError, got %T: %v", err, err)
	}
	if exhausted.Attempts != 3 {
		t.Fatalf("expected 3 attempts, got %d", exhausted.Attempts)
	}
	if caller.calls != 3 {
		t.Fatalf("expected 3 calls, got %d", caller.calls)
	}
	var last *Error
	if !errors.As(exhausted.Last, &last) || last.Kind != KindParse {
		t.Fatalf("expected last error of kind parse, got %v", exhausted.Last)
	}
}

func TestGenerate_FatalAbortsImmediately(t *testing.T) {
	fatal := &Error{Kind: KindFatal, Err: errors.New("missing api key")}
	caller := &scriptedCaller{
		responses: []string{"", `{"x": 1, "y": 2}`},
		errs:      []error{fatal},
	}
	c := NewClient(caller)

	_, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema, MaxRetries: 2,
	})
	if caller.calls != 1 {
		t.Fatalf("fatal error must abort after 1 call, got %d", caller.calls)
	}
	var genErr *Error
	if !errors.As(err, &genErr) || genErr.Kind != KindFatal {
		t.Fatalf("expected fatal generation error, got %v", err)
	}
}

func TestGenerate_TransportErrorIsRetried(t *testing.T) {
	caller := &scriptedCaller{
		responses: []string{"", `{"x": 1, "y": 2}`},
		errs:      []error{errors.New("connection reset")},
	}
	c := NewClient(caller)

	_, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema, MaxRetries: 1,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if caller.calls != 2 {
		t.Fatalf("expected 2 calls, got %d", caller.calls)
	}
}

func TestGenerate_AcceptsFencedResponse(t *testing.T) {
	caller := &scriptedCaller{responses: []string{
		"Here you go:\n```json\n{\"x\": 3, \"y\": 4}\n```\nDone.",
	}}
	c := NewClient(caller)

	raw, err := c.Generate(context.Background(), Request{
		Name: "point", Schema: pointSchema,
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if string(raw) != `{"x": 3, "y": 4}` {
		t.Fatalf("unexpected raw: %s", raw)
	}
}

func TestGenerateInto_Decodes(t *testing.T) {
	caller := &scriptedCaller{responses: []string{`{"x": 7, "y": 9}`}}
	c := NewClient(caller)

	var pt struct {
		X int `json:"x"`
		Y int `json:"y"`
	}
	if err := c.GenerateInto(context.Background(), Request{
		Name: "point", Schema: pointSchema,
	}, &pt); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if pt.X != 7 || pt.Y != 9 {
		t.Fatalf("unexpected decode: %+v", pt)
	}
}
