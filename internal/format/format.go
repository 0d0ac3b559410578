// Package format maps remote JSON payloads to transcript text, one pure
// template per feature. Missing optional fields render fixed placeholders;
// only a missing payload is an error.
package format

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/pkg/errors"
	"github.com/shopspring/decimal"

	"github.com/verdictx/vx/internal/feature"
)

// ErrMissingPayload is returned when there is no payload to format.
var ErrMissingPayload = errors.New("missing payload")

const banner = "======================================================================"
const rule = "----------------------------------------------------------------------"

// Render formats a feature payload into transcript text. Unknown feature
// keys fall back to a structural dump of the payload.
func Render(data map[string]any, featureKey string) (string, error) {
	if data == nil {
		return "", ErrMissingPayload
	}
	switch featureKey {
	case feature.JudgmentPrediction:
		return renderJudgment(data), nil
	case feature.BailAnalysis:
		return renderBail(data), nil
	case feature.CaseSummarization:
		return "\n" + str(data, "summary", "No summary available."), nil
	case feature.VerdictxQAI:
		return fmt.Sprintf("%s\n⚖️  LEGAL RESPONSE\n%s\n%s",
			banner, banner, str(data, "response", "No response available.")), nil
	case feature.InformationExtraction:
		return renderExtraction(data), nil
	}
	return dump(data), nil
}

// RenderFollowup formats a follow-up answer.
func RenderFollowup(response string) string {
	if response == "" {
		response = "No response available."
	}
	return fmt.Sprintf("%s\n⚖️ FOLLOW-UP ANSWER\n%s\n%s", banner, banner, response)
}

func renderJudgment(data map[string]any) string {
	precedents := "No similar precedents found."
	list := slice(data, "precedents")
	if len(list) > 0 {
		var parts []string
		for i, entry := range list {
			p, _ := entry.(map[string]any)
			parts = append(parts, fmt.Sprintf("%d. [%s] (Similarity: %s%%)\n%s",
				i+1, str(p, "outcome", "Unknown"), percent(p, "similarity"), str(p, "text", "")))
		}
		precedents = strings.Join(parts, "\n\n")
	}

	return fmt.Sprintf(`%s
⚖️  CASE TYPE: %s
%s

🎯 PREDICTION: %s
   Confidence: %s%%
   (Grant: %s%% | Reject: %s%%)

%s
LEGAL ANALYSIS (Case Summary + IRAC)
%s
%s

%s
SIMILAR PRECEDENTS (Top %d)
%s
%s`,
		banner, str(data, "case_type", "Unknown"), banner,
		str(data, "prediction", "N/A"),
		num(data, "confidence", "N/A"),
		num(data, "grant_probability", "0"), num(data, "reject_probability", "0"),
		banner, banner,
		str(data, "llm_analysis", "No IRAC analysis available."),
		banner, len(list), banner,
		precedents)
}

func renderBail(data map[string]any) string {
	relevance, _ := data["bail_relevance"].(map[string]any)

	finalProb, haveFinal := probability(data, "final_verdict_prob")
	finalProbText, finalRejectText := "N/A", "N/A"
	if haveFinal {
		finalProbText = finalProb.StringFixed(1)
		finalRejectText = decimal.NewFromInt(100).Sub(finalProb).StringFixed(1)
	}
	finalVerdict := str(data, "final_verdict_text", "UNCERTAIN")

	// An absent bail_relevance block counts as a non-bail case.
	relevanceNote := ""
	if !boolean(relevance, "is_bail_case") {
		relevanceNote = fmt.Sprintf(`
%s
⚠️  NOTE: This is a %s, NOT a bail application
   Bail mentions in judgment: %s
   Relevance score: %s%%
%s
`, banner, str(data, "case_type", "Legal Case"), num(relevance, "bail_mentions", "0"),
			num(relevance, "relevance_score", "0"), banner)
	}

	statusNote := ""
	if boolean(relevance, "case_closed") {
		statusNote = fmt.Sprintf("\n%s\n📌 CASE STATUS: %s\n%s\n",
			banner, str(relevance, "case_status", "Closed/Decided"), banner)
	}

	emoji := "⚠️"
	if haveFinal {
		switch {
		case finalProb.GreaterThanOrEqual(decimal.NewFromInt(60)):
			emoji = "✅"
		case finalProb.LessThan(decimal.NewFromInt(40)):
			emoji = "❌"
		}
	}

	return fmt.Sprintf(`%s
📋 CASE ANALYSIS RESULTS
%s

⚖️  CASE TYPE: %s
%s%s
%s
📖 CASE SUMMARY
%s
%s

%s
🎓 LEGAL ANALYSIS (IRAC Method)
%s
%s

📊 BAIL PREDICTION
%s

Final Verdict: %s
Bail Grant Probability: %s%%
Bail Reject Probability: %s%%

%s FINAL TENDENCY: %s

%s
📝 KEY LEGAL REASONING
%s
%s

%s
✅ ANALYSIS COMPLETE
%s`,
		banner, banner,
		str(data, "case_type", "Unknown"),
		statusNote, relevanceNote,
		banner, banner, numberedList(data, "summary", "No summary available."),
		banner, banner, str(data, "irac_analysis", "No IRAC analysis available."),
		rule,
		finalVerdict, finalProbText, finalRejectText,
		emoji, finalVerdict,
		banner, banner, numberedList(data, "reasons", "No reasoning available."),
		banner, banner)
}

func renderExtraction(data map[string]any) string {
	entities := "No entities extracted."
	if extracted, ok := data["extracted_entities"].(map[string]any); ok && len(extracted) > 0 {
		keys := make([]string, 0, len(extracted))
		for key := range extracted {
			keys = append(keys, key)
		}
		sort.Strings(keys)
		var parts []string
		for _, key := range keys {
			parts = append(parts, fmt.Sprintf("%s: %v", key, extracted[key]))
		}
		entities = strings.Join(parts, "\n")
	}

	documents := "No documents drafted."
	if drafted := slice(data, "drafted_documents"); len(drafted) > 0 {
		var parts []string
		for i, entry := range drafted {
			doc, _ := entry.(map[string]any)
			parts = append(parts, fmt.Sprintf("%d. %s\n%s",
				i+1, str(doc, "title", "Untitled"), str(doc, "content", "")))
		}
		documents = strings.Join(parts, "\n\n")
	}

	return fmt.Sprintf(`%s
📄 INFORMATION EXTRACTION & DOCUMENT DRAFTING
%s

🔍 EXTRACTED INFORMATION
%s
%s

📝 DRAFTED DOCUMENTS
%s
%s

%s
✅ EXTRACTION & DRAFTING COMPLETE
%s`, banner, banner, rule, entities, rule, documents, banner, banner)
}

// str returns a string field or the fallback.
func str(data map[string]any, key, fallback string) string {
	if data == nil {
		return fallback
	}
	if value, ok := data[key].(string); ok && value != "" {
		return value
	}
	return fallback
}

// num renders a numeric field without a trailing decimal point, or the fallback.
func num(data map[string]any, key, fallback string) string {
	if data == nil {
		return fallback
	}
	value, ok := data[key].(float64)
	if !ok {
		return fallback
	}
	return decimal.NewFromFloat(value).String()
}

// percent renders a 0..1 field as a percentage with one decimal.
func percent(data map[string]any, key string) string {
	if data == nil {
		return "0.0"
	}
	value, ok := data[key].(float64)
	if !ok {
		return "0.0"
	}
	return decimal.NewFromFloat(value).Mul(decimal.NewFromInt(100)).StringFixed(1)
}

// probability returns a 0..1 field scaled to a 0..100 decimal.
func probability(data map[string]any, key string) (decimal.Decimal, bool) {
	value, ok := data[key].(float64)
	if !ok {
		return decimal.Zero, false
	}
	return decimal.NewFromFloat(value).Mul(decimal.NewFromInt(100)), true
}

func boolean(data map[string]any, key string) bool {
	value, ok := data[key].(bool)
	return ok && value
}

func slice(data map[string]any, key string) []any {
	value, _ := data[key].([]any)
	return value
}

// numberedList renders a string array field as a numbered list.
func numberedList(data map[string]any, key, fallback string) string {
	entries := slice(data, key)
	if len(entries) == 0 {
		return fallback
	}
	var parts []string
	for i, entry := range entries {
		parts = append(parts, fmt.Sprintf("%d. %v", i+1, entry))
	}
	return strings.Join(parts, "\n")
}

// dump renders an unknown payload structurally.
func dump(data map[string]any) string {
	bytes, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Sprintf("%v", data)
	}
	return string(bytes)
}
