package generation

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"testing"
	"time"

	"google.golang.org/genai"
)

// fakeGenerator records the last call and replies with a canned response.
type fakeGenerator struct {
	resp  *genai.GenerateContentResponse
	err   error
	block bool

	calls    int
	model    string
	contents []*genai.Content
	config   *genai.GenerateContentConfig
}

func (f *fakeGenerator) GenerateContent(ctx context.Context, model string, contents []*genai.Content, config *genai.GenerateContentConfig) (*genai.GenerateContentResponse, error) {
	f.calls++
	f.model = model
	f.contents = contents
	f.config = config
	if f.block {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.resp, f.err
}

func responseWithParts(parts ...*genai.Part) *genai.GenerateContentResponse {
	return &genai.GenerateContentResponse{
		Candidates: []*genai.Candidate{
			{Content: &genai.Content{Role: "model", Parts: parts}},
		},
	}
}

func newTestClient(gen ContentGenerator) *Client {
	return NewClient(Options{Model: ModelGemini25FlashImage, Generator: gen})
}

func mustBuild(t *testing.T) *Request {
	t.Helper()
	req, err := Build(testAsset(), "corporate", "")
	if err != nil {
		t.Fatalf("Build() error: %v", err)
	}
	return req
}

func TestSubmit_SendsImageThenPrompt(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(&genai.Part{
		InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("png")},
	})}
	client := newTestClient(gen)
	req := mustBuild(t)

	if _, err := client.Submit(context.Background(), req); err != nil {
		t.Fatalf("Submit() error: %v", err)
	}

	if gen.model != ModelGemini25FlashImage {
		t.Errorf("model = %q, want %q", gen.model, ModelGemini25FlashImage)
	}
	if len(gen.contents) != 1 {
		t.Fatalf("expected 1 content, got %d", len(gen.contents))
	}
	content := gen.contents[0]
	if content.Role != "user" {
		t.Errorf("role = %q, want user", content.Role)
	}
	if len(content.Parts) != 2 {
		t.Fatalf("expected 2 parts, got %d", len(content.Parts))
	}
	blob := content.Parts[0].InlineData
	if blob == nil {
		t.Fatal("first part should carry inline data")
	}
	if blob.MIMEType != "image/jpeg" || string(blob.Data) != string(req.Asset.Raw) {
		t.Errorf("inline data = %s %v, want image/jpeg %v", blob.MIMEType, blob.Data, req.Asset.Raw)
	}
	if got := base64.StdEncoding.EncodeToString(blob.Data); got != req.Asset.Encoded {
		t.Errorf("inline data encodes to %q, want the asset's encoded form %q", got, req.Asset.Encoded)
	}
	if content.Parts[1].Text != req.Prompt() {
		t.Errorf("text part = %q, want %q", content.Parts[1].Text, req.Prompt())
	}
	if gen.config == nil || len(gen.config.ResponseModalities) == 0 {
		t.Error("expected response modalities to be set")
	}
}

func TestSubmit_FirstInlineImageWins(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(
		&genai.Part{Text: "Here is your headshot."},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "image/png", Data: []byte("first")}},
		&genai.Part{InlineData: &genai.Blob{MIMEType: "image/jpeg", Data: []byte("second")}},
	)}

	img, err := newTestClient(gen).Submit(context.Background(), mustBuild(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
	b, _ := img.Bytes()
	if string(b) != "first" {
		t.Errorf("image data = %q, want first", b)
	}
}

func TestSubmit_DefaultsMIMEType(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(
		&genai.Part{InlineData: &genai.Blob{Data: []byte("x")}},
	)}

	img, err := newTestClient(gen).Submit(context.Background(), mustBuild(t))
	if err != nil {
		t.Fatalf("Submit() error: %v", err)
	}
	if img.MIMEType != "image/png" {
		t.Errorf("MIMEType = %q, want image/png", img.MIMEType)
	}
}

func TestSubmit_TextOnly(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(&genai.Part{Text: "I cannot edit this photo."})}

	_, err := newTestClient(gen).Submit(context.Background(), mustBuild(t))
	if !errors.Is(err, ErrNoImageReturned) {
		t.Fatalf("Submit() error = %v, want ErrNoImageReturned", err)
	}
}

func TestSubmit_Malformed(t *testing.T) {
	tests := []struct {
		name       string
		resp       *genai.GenerateContentResponse
		wantReason string
	}{
		{name: "nil response", resp: nil},
		{name: "no candidates", resp: &genai.GenerateContentResponse{}},
		{
			name: "candidate without content",
			resp: &genai.GenerateContentResponse{Candidates: []*genai.Candidate{
				{FinishReason: genai.FinishReason("SAFETY")},
			}},
			wantReason: "SAFETY",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(&fakeGenerator{resp: tt.resp}).Submit(context.Background(), mustBuild(t))
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("Submit() error = %v, want TransportError", err)
			}
			if te.Kind != KindMalformed {
				t.Errorf("Kind = %v, want malformed", te.Kind)
			}
			if tt.wantReason != "" && !strings.Contains(te.Reason, tt.wantReason) {
				t.Errorf("Reason = %q, want it to mention %q", te.Reason, tt.wantReason)
			}
		})
	}
}

func TestSubmit_TransportErrors(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantKind   TransportKind
		wantReason string
	}{
		{"quota", errors.New("quota exceeded"), KindQuota, "quota exceeded"},
		{"auth", errors.New("API key not valid. Please pass a valid API key."), KindAuth, "API key not valid. Please pass a valid API key."},
		{"network", errors.New("dial tcp: lookup generativelanguage.googleapis.com: no such host"), KindNetwork, "dial tcp: lookup generativelanguage.googleapis.com: no such host"},
		{"unknown", errors.New("something odd"), KindUnknown, "something odd"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newTestClient(&fakeGenerator{err: tt.err}).Submit(context.Background(), mustBuild(t))
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("Submit() error = %v, want TransportError", err)
			}
			if te.Kind != tt.wantKind {
				t.Errorf("Kind = %v, want %v", te.Kind, tt.wantKind)
			}
			if te.Reason != tt.wantReason {
				t.Errorf("Reason = %q, want %q", te.Reason, tt.wantReason)
			}
			if !errors.Is(err, tt.err) {
				t.Error("TransportError should wrap the original error")
			}
		})
	}
}

func TestSubmit_Timeout(t *testing.T) {
	gen := &fakeGenerator{block: true}
	client := NewClient(Options{Generator: gen, Timeout: 20 * time.Millisecond})

	_, err := client.Submit(context.Background(), mustBuild(t))
	var te *TransportError
	if !errors.As(err, &te) {
		t.Fatalf("Submit() error = %v, want TransportError", err)
	}
	if te.Kind != KindTimeout {
		t.Errorf("Kind = %v, want timeout", te.Kind)
	}
}

func TestSubmit_NoKey(t *testing.T) {
	tests := []struct {
		name   string
		apiKey func() (string, error)
	}{
		{"no key source", nil},
		{"empty key", func() (string, error) { return "  ", nil }},
		{"key lookup fails", func() (string, error) { return "", errors.New("not found") }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			client := NewClient(Options{APIKey: tt.apiKey})
			_, err := client.Submit(context.Background(), mustBuild(t))
			var te *TransportError
			if !errors.As(err, &te) {
				t.Fatalf("Submit() error = %v, want TransportError", err)
			}
			if te.Kind != KindNoKey {
				t.Errorf("Kind = %v, want no_key", te.Kind)
			}
		})
	}
}

func TestSubmit_MissingImage(t *testing.T) {
	gen := &fakeGenerator{}
	client := newTestClient(gen)

	if _, err := client.Submit(context.Background(), nil); !errors.Is(err, ErrMissingImage) {
		t.Errorf("Submit(nil) error = %v, want ErrMissingImage", err)
	}
	if _, err := client.Submit(context.Background(), &Request{}); !errors.Is(err, ErrMissingImage) {
		t.Errorf("Submit(empty) error = %v, want ErrMissingImage", err)
	}
	if gen.calls != 0 {
		t.Errorf("generator called %d times, want 0", gen.calls)
	}
}

func TestPing(t *testing.T) {
	gen := &fakeGenerator{resp: responseWithParts(&genai.Part{Text: "hello"})}
	if err := newTestClient(gen).Ping(context.Background()); err != nil {
		t.Fatalf("Ping() error: %v", err)
	}
	if gen.model != ModelGemini25FlashLite {
		t.Errorf("Ping model = %q, want %q", gen.model, ModelGemini25FlashLite)
	}

	empty := &fakeGenerator{resp: &genai.GenerateContentResponse{}}
	if err := newTestClient(empty).Ping(context.Background()); err == nil {
		t.Error("Ping() expected error for empty response")
	}
}

func TestNewClient_Defaults(t *testing.T) {
	t.Setenv("GEMINI_MODEL", "")
	client := NewClient(Options{})
	if client.Model() != DefaultModelName {
		t.Errorf("Model() = %q, want %q", client.Model(), DefaultModelName)
	}
	if client.Timeout() != DefaultTimeout {
		t.Errorf("Timeout() = %v, want %v", client.Timeout(), DefaultTimeout)
	}

	t.Setenv("GEMINI_MODEL", "custom-model")
	if got := NewClient(Options{}).Model(); got != "custom-model" {
		t.Errorf("Model() with env = %q, want custom-model", got)
	}
}

func TestTransportKind_String(t *testing.T) {
	kinds := map[TransportKind]string{
		KindUnknown:   "unknown",
		KindNoKey:     "no_key",
		KindAuth:      "auth",
		KindQuota:     "quota",
		KindNetwork:   "network",
		KindTimeout:   "timeout",
		KindServer:    "server",
		KindMalformed: "malformed",
	}
	for k, want := range kinds {
		if got := k.String(); got != want {
			t.Errorf("%d.String() = %q, want %q", k, got, want)
		}
	}
}

func TestTransportError_EmptyReasonFallsBack(t *testing.T) {
	te := newTransportError(KindUnknown, "  ", nil)
	if te.Error() != DefaultTransportReason {
		t.Errorf("Error() = %q, want %q", te.Error(), DefaultTransportReason)
	}
}
