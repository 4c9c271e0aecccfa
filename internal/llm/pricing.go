package llm

import "strings"

// ModelCost is USD per million tokens.
type ModelCost struct {
	InputPerMTok  float64
	OutputPerMTok float64
}

// Cost returns the USD cost of one request.
func (c ModelCost) Cost(inputTokens, outputTokens int) float64 {
	return (float64(inputTokens)*c.InputPerMTok + float64(outputTokens)*c.OutputPerMTok) / 1_000_000
}

var free = ModelCost{}

// modelCosts is keyed by model family. A dated or tagged ID such as
// "claude-sonnet-4-5-20250929" or "qwen2.5:7b" resolves to its longest
// matching family. Prices as of 2026-02.
var modelCosts = map[string]ModelCost{
	// Local models served by ollama.
	"qwen2.5":  free,
	"qwen3":    free,
	"llama3.1": free,
	"llama3.2": free,
	"gemma3":   free,
	"mistral":  free,

	"claude-3-5-haiku":  {0.8, 4},
	"claude-3-7-sonnet": {3, 15},
	"claude-haiku-4-5":  {1, 5},
	"claude-sonnet-4":   {3, 15},
	"claude-sonnet-4-5": {3, 15},
	"claude-opus-4":     {15, 75},
	"claude-opus-4-1":   {15, 75},
	"claude-opus-4-5":   {5, 25},

	"gpt-4o":       {2.5, 10},
	"gpt-4o-mini":  {0.15, 0.6},
	"gpt-4.1":      {2, 8},
	"gpt-4.1-mini": {0.4, 1.6},
	"gpt-4.1-nano": {0.1, 0.4},
	"gpt-5":        {1.25, 10},
	"gpt-5-mini":   {0.25, 2},
	"gpt-5-nano":   {0.05, 0.4},
	"o3-mini":      {1.1, 4.4},
	"o4-mini":      {1.1, 4.4},

	"gemini-2.0-flash":      {0.1, 0.4},
	"gemini-2.0-flash-lite": {0.075, 0.3},
	"gemini-2.5-flash":      {0.3, 2.5},
	"gemini-2.5-flash-lite": {0.1, 0.4},
	"gemini-2.5-pro":        {1.25, 10},
}

// LookupCost returns the pricing for a model ID, or nil if unknown.
// OpenRouter IDs carry a vendor prefix ("google/...") which is ignored;
// their ":free" variants cost nothing.
func LookupCost(modelID string) *ModelCost {
	id := modelID
	if i := strings.LastIndexByte(id, '/'); i >= 0 {
		id = id[i+1:]
	}
	if strings.HasSuffix(id, ":free") {
		c := free
		return &c
	}

	best := ""
	for family := range modelCosts {
		if len(family) > len(best) && familyMatches(id, family) {
			best = family
		}
	}
	if best == "" {
		return nil
	}
	c := modelCosts[best]
	return &c
}

// familyMatches reports whether id is family itself or family followed by a
// version or tag separator.
func familyMatches(id, family string) bool {
	rest, ok := strings.CutPrefix(id, family)
	if !ok {
		return false
	}
	return rest == "" || rest[0] == '-' || rest[0] == ':'
}
