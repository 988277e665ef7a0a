package classifier

import (
	"context"
	"fmt"
	"strings"

	"google.golang.org/genai"
)

// categorizationPrompt instructs the model to answer with a bare JSON array
// of category labels, one per merchant, in input order.
const categorizationPrompt = `Categorize each merchant into exactly one category.

IMPORTANT RULES:
1. Focus on the CORE BUSINESS NAME - ignore dates, card numbers, transaction IDs, locations
2. Be CONSISTENT - same store must always get the same category
3. "Convenience" stores, gas stations with shops = groceries
4. Look at the business type, not the extra text

Examples:
- "Card Purchase [CARD] College Convenience Boston MA" -> groceries (it's a convenience store)
- "UBER TRIP [REF] HELP.UBER.COM" -> transport
- "UBER EATS [REF] HELP.UBER.COM" -> dining

Categories: %s

Merchants:
%s

Respond with ONLY a JSON array of categories in the same order:
["category1", "category2", ...]
Do NOT wrap the response in code fences.`

// GeminiClassifier classifies merchant batches with the Gemini API.
type GeminiClassifier struct {
	apiKey string
	model  string
}

// NewGeminiClassifier creates a Gemini-backed TextClassifier.
func NewGeminiClassifier(apiKey, model string) *GeminiClassifier {
	return &GeminiClassifier{apiKey: apiKey, model: model}
}

// ClassifyBatch sends one batch of merchant texts to Gemini and returns the
// raw response text. The caller owns parsing and coercion.
func (g *GeminiClassifier) ClassifyBatch(ctx context.Context, merchants []string, categories []string) (string, error) {
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:      g.apiKey,
		HTTPOptions: genai.HTTPOptions{APIVersion: "v1"},
	})
	if err != nil {
		return "", fmt.Errorf("classify batch: create genai client: %w", err)
	}

	var numbered strings.Builder
	for i, m := range merchants {
		fmt.Fprintf(&numbered, "%d. %s\n", i+1, m)
	}

	prompt := fmt.Sprintf(categorizationPrompt, strings.Join(categories, ", "), numbered.String())

	contents := []*genai.Content{
		{
			Role:  "user",
			Parts: []*genai.Part{{Text: prompt}},
		},
	}

	resp, err := client.Models.GenerateContent(ctx, g.model, contents, nil)
	if err != nil {
		return "", fmt.Errorf("classify batch: generate content: %w", err)
	}

	text := resp.Text()
	if text == "" {
		return "", fmt.Errorf("classify batch: empty response from model")
	}
	return text, nil
}
