package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/verdictx/vx/internal/feature"
)

func TestRender_MissingPayload(t *testing.T) {
	t.Parallel()

	_, err := Render(nil, feature.VerdictxQAI)
	assert.ErrorIs(t, err, ErrMissingPayload)
}

func TestRender_Judgment(t *testing.T) {
	t.Parallel()

	t.Run("full payload", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"case_type":          "Criminal Appeal",
			"prediction":         "GRANT",
			"confidence":         87.5,
			"grant_probability":  87.5,
			"reject_probability": 12.5,
			"llm_analysis":       "Issue: whether bail applies.",
			"precedents": []any{
				map[string]any{"outcome": "GRANT", "similarity": 0.91, "text": "State v. Kumar"},
			},
		}
		out, err := Render(payload, feature.JudgmentPrediction)
		require.NoError(t, err)
		assert.Contains(t, out, "⚖️  CASE TYPE: Criminal Appeal")
		assert.Contains(t, out, "🎯 PREDICTION: GRANT")
		assert.Contains(t, out, "Confidence: 87.5%")
		assert.Contains(t, out, "(Grant: 87.5% | Reject: 12.5%)")
		assert.Contains(t, out, "1. [GRANT] (Similarity: 91.0%)")
		assert.Contains(t, out, "State v. Kumar")
		assert.Contains(t, out, "SIMILAR PRECEDENTS (Top 1)")
	})

	t.Run("empty payload renders placeholders", func(t *testing.T) {
		t.Parallel()
		out, err := Render(map[string]any{}, feature.JudgmentPrediction)
		require.NoError(t, err)
		assert.Contains(t, out, "⚖️  CASE TYPE: Unknown")
		assert.Contains(t, out, "🎯 PREDICTION: N/A")
		assert.Contains(t, out, "No IRAC analysis available.")
		assert.Contains(t, out, "No similar precedents found.")
	})
}

func TestRender_Bail(t *testing.T) {
	t.Parallel()

	t.Run("grant tendency", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"case_type":          "Bail Application",
			"summary":            []any{"Accused in custody since May.", "No prior record."},
			"irac_analysis":      "Rule: section 439 CrPC.",
			"final_verdict_prob": 0.72,
			"final_verdict_text": "LIKELY GRANTED",
			"reasons":            []any{"Clean record."},
		}
		out, err := Render(payload, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "Final Verdict: LIKELY GRANTED")
		assert.Contains(t, out, "Bail Grant Probability: 72.0%")
		assert.Contains(t, out, "Bail Reject Probability: 28.0%")
		assert.Contains(t, out, "✅ FINAL TENDENCY: LIKELY GRANTED")
		assert.Contains(t, out, "1. Accused in custody since May.")
		assert.Contains(t, out, "2. No prior record.")
	})

	t.Run("reject tendency", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"final_verdict_prob": 0.2,
			"final_verdict_text": "LIKELY REJECTED",
		}
		out, err := Render(payload, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "❌ FINAL TENDENCY: LIKELY REJECTED")
	})

	t.Run("uncertain tendency in the middle band", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{"final_verdict_prob": 0.5}
		out, err := Render(payload, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "⚠️ FINAL TENDENCY: UNCERTAIN")
	})

	t.Run("non-bail case carries a relevance note", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"case_type": "Property Dispute",
			"bail_relevance": map[string]any{
				"is_bail_case":    false,
				"bail_mentions":   2.0,
				"relevance_score": 8.0,
			},
		}
		out, err := Render(payload, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "⚠️  NOTE: This is a Property Dispute, NOT a bail application")
		assert.Contains(t, out, "Bail mentions in judgment: 2")
		assert.Contains(t, out, "Relevance score: 8%")
	})

	t.Run("missing relevance block still flags a non-bail case", func(t *testing.T) {
		t.Parallel()
		out, err := Render(map[string]any{"case_type": "Writ Petition"}, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "⚠️  NOTE: This is a Writ Petition, NOT a bail application")
		assert.Contains(t, out, "Bail mentions in judgment: 0")
		assert.Contains(t, out, "Relevance score: 0%")
	})

	t.Run("closed case carries a status note", func(t *testing.T) {
		t.Parallel()
		payload := map[string]any{
			"bail_relevance": map[string]any{
				"is_bail_case": true,
				"case_closed":  true,
				"case_status":  "Disposed",
			},
		}
		out, err := Render(payload, feature.BailAnalysis)
		require.NoError(t, err)
		assert.Contains(t, out, "📌 CASE STATUS: Disposed")
	})
}

func TestRender_Summary(t *testing.T) {
	t.Parallel()

	out, err := Render(map[string]any{"summary": "The court held..."}, feature.CaseSummarization)
	require.NoError(t, err)
	assert.Equal(t, "\nThe court held...", out)

	out, err = Render(map[string]any{}, feature.CaseSummarization)
	require.NoError(t, err)
	assert.Contains(t, out, "No summary available.")
}

func TestRender_QAI(t *testing.T) {
	t.Parallel()

	out, err := Render(map[string]any{"response": "Bail is discretionary."}, feature.VerdictxQAI)
	require.NoError(t, err)
	assert.Contains(t, out, "⚖️  LEGAL RESPONSE")
	assert.Contains(t, out, "Bail is discretionary.")
}

func TestRender_Extraction(t *testing.T) {
	t.Parallel()

	payload := map[string]any{
		"extracted_entities": map[string]any{"petitioner": "A. Sharma"},
		"drafted_documents": []any{
			map[string]any{"title": "Bail Application", "content": "To the Hon'ble Court..."},
		},
	}
	out, err := Render(payload, feature.InformationExtraction)
	require.NoError(t, err)
	assert.Contains(t, out, "petitioner: A. Sharma")
	assert.Contains(t, out, "1. Bail Application")
	assert.Contains(t, out, "To the Hon'ble Court...")

	payload = map[string]any{
		"extracted_entities": map[string]any{
			"respondent": "State",
			"court":      "High Court",
			"petitioner": "A. Sharma",
		},
	}
	out, err = Render(payload, feature.InformationExtraction)
	require.NoError(t, err)
	assert.Contains(t, out, "court: High Court\npetitioner: A. Sharma\nrespondent: State")

	out, err = Render(map[string]any{}, feature.InformationExtraction)
	require.NoError(t, err)
	assert.Contains(t, out, "No entities extracted.")
	assert.Contains(t, out, "No documents drafted.")
}

func TestRender_UnknownFeatureDumpsPayload(t *testing.T) {
	t.Parallel()

	out, err := Render(map[string]any{"anything": "goes"}, "unmapped_feature")
	require.NoError(t, err)
	assert.Contains(t, out, `"anything": "goes"`)
}

func TestRenderFollowup(t *testing.T) {
	t.Parallel()

	out := RenderFollowup("Yes, within 30 days.")
	assert.Contains(t, out, "⚖️ FOLLOW-UP ANSWER")
	assert.Contains(t, out, "Yes, within 30 days.")

	assert.Contains(t, RenderFollowup(""), "No response available.")
}
