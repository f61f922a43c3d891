package thought

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/anthropics/anthropic-sdk-go/bedrock"
	"github.com/anthropics/anthropic-sdk-go/option"
	"github.com/aws/aws-sdk-go-v2/config"
)

// brainstormSystemPrompt is the system prompt for the Claude brainstormer.
const brainstormSystemPrompt = `You are a planning assistant. Given a thought, propose concrete candidate next-steps.

For each candidate:
1. Make the step concrete and actionable
2. Explain in one sentence why it follows from the thought
3. Estimate a confidence between 0 and 1 that it advances the goal`

// brainstormPromptTemplate is the template for brainstorm requests.
const brainstormPromptTemplate = `Thought: %s

Return ONLY a JSON array with at most %d entries of this exact structure (no other text):
[
  {"thought": "candidate next-step", "reasoning": "one sentence", "confidence": 0.8}
]`

// ClaudeConfig contains configuration for creating a ClaudeBrainstormer.
type ClaudeConfig struct {
	// Model is the Claude model to use (e.g., anthropic.ModelClaudeSonnet4_20250514).
	Model anthropic.Model
	// APIKey is the Anthropic API key. If empty, uses ANTHROPIC_API_KEY env var.
	APIKey string
	// UseAWSBedrock indicates whether to use AWS Bedrock instead of direct API.
	UseAWSBedrock bool
	// AWSRegion is the AWS region for Bedrock (e.g., "us-west-2").
	AWSRegion string
	// AWSProfile is the optional AWS profile name to use.
	AWSProfile string
	// MaxCandidates caps how many candidates one call asks for.
	MaxCandidates int
}

// ClaudeBrainstormer proposes candidate next-steps with a Claude model.
// It satisfies the Brainstormer interface so the template brainstormer can
// be swapped for it without touching the expander.
type ClaudeBrainstormer struct {
	inner         anthropic.Client
	model         anthropic.Model
	maxCandidates int
}

// NewClaudeBrainstormer creates a Claude-backed brainstormer.
func NewClaudeBrainstormer(cfg ClaudeConfig) (*ClaudeBrainstormer, error) {
	var opts []option.RequestOption

	if cfg.UseAWSBedrock {
		ctx := context.Background()

		var loadOpts []func(*config.LoadOptions) error
		if cfg.AWSRegion != "" {
			loadOpts = append(loadOpts, config.WithRegion(cfg.AWSRegion))
		}
		if cfg.AWSProfile != "" {
			loadOpts = append(loadOpts, config.WithSharedConfigProfile(cfg.AWSProfile))
		}

		opts = append(opts, bedrock.WithLoadDefaultConfig(ctx, loadOpts...))
	} else {
		apiKey := cfg.APIKey
		if apiKey == "" {
			apiKey = os.Getenv("ANTHROPIC_API_KEY")
		}
		if apiKey == "" {
			return nil, fmt.Errorf("ANTHROPIC_API_KEY environment variable is not set")
		}
		opts = append(opts, option.WithAPIKey(apiKey))
	}

	inner := anthropic.NewClient(opts...)

	model := cfg.Model
	if model == "" {
		model = anthropic.ModelClaudeSonnet4_20250514
	}
	if cfg.UseAWSBedrock {
		model = translateModelForBedrock(model)
	}

	maxCandidates := cfg.MaxCandidates
	if maxCandidates <= 0 {
		maxCandidates = DefaultBranching
	}

	return &ClaudeBrainstormer{
		inner:         inner,
		model:         model,
		maxCandidates: maxCandidates,
	}, nil
}

// translateModelForBedrock converts standard Anthropic model names to Bedrock inference profile format.
// Bedrock uses cross-region inference profiles: us.anthropic.{model}-v1:0
func translateModelForBedrock(model anthropic.Model) anthropic.Model {
	bedrockModels := map[anthropic.Model]string{
		anthropic.ModelClaudeSonnet4_20250514:   "us.anthropic.claude-sonnet-4-20250514-v1:0",
		anthropic.ModelClaudeSonnet4_5_20250929: "us.anthropic.claude-sonnet-4-5-20250929-v1:0",
		anthropic.ModelClaudeHaiku4_5_20251001:  "us.anthropic.claude-haiku-4-5-20251001-v1:0",
		anthropic.ModelClaudeOpus4_1_20250805:   "us.anthropic.claude-opus-4-1-20250805-v1:0",
		anthropic.ModelClaude3_5Haiku20241022:   "us.anthropic.claude-3-5-haiku-20241022-v1:0",
	}

	if bedrockModel, ok := bedrockModels[model]; ok {
		return anthropic.Model(bedrockModel)
	}
	return model
}

// Candidates asks the model for next-steps and parses its JSON response.
func (b *ClaudeBrainstormer) Candidates(ctx context.Context, thought string) ([]Candidate, error) {
	prompt := fmt.Sprintf(brainstormPromptTemplate, thought, b.maxCandidates)

	resp, err := b.inner.Messages.New(ctx, anthropic.MessageNewParams{
		Model:     b.model,
		MaxTokens: 1024,
		System: []anthropic.TextBlockParam{
			{Text: brainstormSystemPrompt},
		},
		Messages: []anthropic.MessageParam{
			anthropic.NewUserMessage(anthropic.NewTextBlock(prompt)),
		},
	})
	if err != nil {
		return nil, fmt.Errorf("API call failed: %w", err)
	}

	var text string
	for _, block := range resp.Content {
		if variant, ok := block.AsAny().(anthropic.TextBlock); ok {
			text += variant.Text
		}
	}

	candidates, err := ParseCandidates(text)
	if err != nil {
		return nil, fmt.Errorf("parse brainstorm response: %w", err)
	}
	return candidates, nil
}

// ParseCandidates extracts the candidate array from a model response,
// tolerating a fenced code block around the JSON.
func ParseCandidates(response string) ([]Candidate, error) {
	cleaned := stripFences(response)

	start := strings.Index(cleaned, "[")
	end := strings.LastIndex(cleaned, "]")
	if start == -1 || end == -1 || end < start {
		return nil, fmt.Errorf("no JSON array found in response")
	}

	var raw []Candidate
	if err := json.Unmarshal([]byte(cleaned[start:end+1]), &raw); err != nil {
		return nil, fmt.Errorf("unmarshal candidates: %w", err)
	}

	out := make([]Candidate, 0, len(raw))
	for _, c := range raw {
		if c.Text == "" || c.Confidence <= 0 || c.Confidence > 1 {
			continue
		}
		out = append(out, c)
	}
	if len(out) == 0 {
		return nil, fmt.Errorf("response contained no usable candidates")
	}
	return out, nil
}

// stripFences removes a surrounding markdown code fence, if present.
func stripFences(s string) string {
	s = strings.TrimSpace(s)
	if !strings.HasPrefix(s, "```") {
		return s
	}
	s = strings.TrimPrefix(s, "```json")
	s = strings.TrimPrefix(s, "```")
	s = strings.TrimSuffix(strings.TrimSpace(s), "```")
	return strings.TrimSpace(s)
}
