package insights

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"google.golang.org/genai"

	"github.com/julianstephens/trackpro/internal/models"
)

func TestDescribe(t *testing.T) {
	if _, ok := Describe(nil, "2025-03-01"); ok {
		t.Error("empty day should not be described")
	}

	desc, ok := Describe([]models.DailyTask{
		{Completed: true, PointsEarned: 20},
		{Completed: true, PointsEarned: 5},
		{PointsEarned: 100},
	}, "2025-03-01")
	if !ok {
		t.Fatal("expected a description")
	}
	want := "2 tasks done, 25 points earned today on 2025-03-01."
	if desc != want {
		t.Errorf("Describe = %q, want %q", desc, want)
	}
}

type fakeModels struct {
	text    string
	err     error
	model   string
	prompt  string
	config  *genai.GenerateContentConfig
	blockOn chan struct{}
}

func (f *fakeModels) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.model = model
	f.config = config
	if len(contents) > 0 && len(contents[0].Parts) > 0 {
		f.prompt = contents[0].Parts[0].Text
	}
	if f.blockOn != nil {
		select {
		case <-f.blockOn:
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}
	if f.err != nil {
		return nil, f.err
	}
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{{
			Content: genai.NewContentFromText(f.text, genai.RoleModel),
		}},
	}, nil
}

func TestGeminiGenerate(t *testing.T) {
	fake := &fakeModels{text: `{"summary":"Great day.","tips":["Sleep early","Plan tomorrow"]}`}
	g := newGemini(fake, "", 0)

	got, err := g.Generate(context.Background(), "1 tasks done")
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}
	want := models.Insights{Summary: "Great day.", Tips: []string{"Sleep early", "Plan tomorrow"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Generate mismatch (-want +got):\n%s", diff)
	}

	if fake.model != "gemini-3-flash-preview" {
		t.Errorf("model = %q", fake.model)
	}
	if !strings.Contains(fake.prompt, `"1 tasks done"`) {
		t.Errorf("prompt does not quote the description: %q", fake.prompt)
	}
	if fake.config.ResponseMIMEType != "application/json" {
		t.Errorf("ResponseMIMEType = %q", fake.config.ResponseMIMEType)
	}
	if diff := cmp.Diff([]string{"summary", "tips"}, fake.config.ResponseSchema.Required); diff != "" {
		t.Errorf("schema required mismatch:\n%s", diff)
	}
}

func TestGeminiFailuresDegrade(t *testing.T) {
	tests := []struct {
		name string
		fake *fakeModels
	}{
		{"request error", &fakeModels{err: errors.New("quota exceeded")}},
		{"empty text", &fakeModels{text: ""}},
		{"not json", &fakeModels{text: "Sure! Here are some tips"}},
		{"empty object", &fakeModels{text: `{}`}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, ok := Fetch(context.Background(), newGemini(tt.fake, "m", time.Second), "x"); ok {
				t.Error("expected ok=false")
			}
		})
	}
}

func TestNewGeminiWithoutKey(t *testing.T) {
	if _, err := NewGemini(context.Background(), "", "", 0); !errors.Is(err, ErrUnavailable) {
		t.Errorf("expected ErrUnavailable, got %v", err)
	}
}

func TestNopIsUnavailable(t *testing.T) {
	if _, ok := Fetch(context.Background(), Nop{}, "x"); ok {
		t.Error("Nop should never produce insights")
	}
}

func TestGuardDropsStaleResult(t *testing.T) {
	var g Guard
	g.View("2025-03-01")

	fake := &fakeModels{text: `{"summary":"s","tips":[]}`, blockOn: make(chan struct{})}
	gen := newGemini(fake, "m", time.Minute)

	type result struct {
		ok bool
	}
	done := make(chan result)
	go func() {
		_, ok := g.Fetch(context.Background(), gen, "x")
		done <- result{ok}
	}()

	// Wait until the request is in flight, then move to another day
	deadline := time.After(5 * time.Second)
	for {
		g.mu.Lock()
		started := g.cancel != nil
		g.mu.Unlock()
		if started {
			break
		}
		select {
		case <-deadline:
			t.Fatal("request never started")
		case <-time.After(time.Millisecond):
		}
	}
	g.View("2025-03-02")

	select {
	case r := <-done:
		if r.ok {
			t.Error("stale result was accepted")
		}
	case <-deadline:
		t.Fatal("request was not cancelled")
	}
}

func TestGuardAcceptsCurrentResult(t *testing.T) {
	var g Guard
	g.View("2025-03-01")
	gen := newGemini(&fakeModels{text: `{"summary":"s","tips":["t"]}`}, "m", time.Second)

	ins, ok := g.Fetch(context.Background(), gen, "x")
	if !ok || ins.Summary != "s" {
		t.Errorf("Fetch = %+v, %v", ins, ok)
	}
}

func TestGuardSupersededTicket(t *testing.T) {
	var g Guard
	g.View("2025-03-01")

	_, first := g.Begin(context.Background())
	_, second := g.Begin(context.Background())
	if g.Accept(first) {
		t.Error("superseded ticket accepted")
	}
	if !g.Accept(second) {
		t.Error("latest ticket rejected")
	}

	g.View("2025-03-01")
	if g.Date() != "2025-03-01" {
		t.Errorf("Date = %q", g.Date())
	}
}

func TestGuardCancel(t *testing.T) {
	var g Guard
	g.View("2025-03-01")

	ctx, ticket := g.Begin(context.Background())
	g.Cancel()
	if ctx.Err() == nil {
		t.Error("Cancel did not cancel the request context")
	}
	if g.Accept(ticket) {
		t.Error("ticket accepted after Cancel")
	}
	if g.Date() != "2025-03-01" {
		t.Errorf("Cancel changed the date to %q", g.Date())
	}
}
