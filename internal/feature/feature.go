package feature

import (
	"github.com/pkg/errors"
)

// InputMode describes what a feature needs before a submission is allowed.
type InputMode string

const (
	// InputText features take a typed question only.
	InputText InputMode = "text"
	// InputFile features take an attached document only.
	InputFile InputMode = "file"
	// InputBoth features take either or both.
	InputBoth InputMode = "both"
)

// Host selects which backend a feature talks to.
type Host string

const (
	// HostMaster is the prediction/summarization/QA backend.
	HostMaster Host = "master"
	// HostExtraction is the extraction & drafting backend.
	HostExtraction Host = "extraction"
)

// ErrUnknownFeature is returned when resolving a key outside the closed set.
var ErrUnknownFeature = errors.New("unknown feature")

// Feature keys.
const (
	JudgmentPrediction    = "judgment_prediction"
	BailAnalysis          = "bail_analysis"
	CaseSummarization     = "case_summarization"
	VerdictxQAI           = "verdictx_qai"
	InformationExtraction = "information_extraction"
)

// ExtractAndDownloadEndpoint is the fixed endpoint the extraction feature
// always targets, regardless of its configured primary endpoint.
const ExtractAndDownloadEndpoint = "/api/extract-and-download"

// Descriptor binds a feature key to its remote endpoints and input rules.
type Descriptor struct {
	Key              string
	DisplayName      string
	Icon             string
	PrimaryEndpoint  string
	FollowupEndpoint string
	AcceptsText      bool
	AcceptsFile      bool
	InputMode        InputMode
	Host             Host
}

// descriptors is the closed feature set, in display order.
var descriptors = []Descriptor{
	{
		Key:              JudgmentPrediction,
		DisplayName:      "Judgment Prediction",
		Icon:             "⚖️",
		PrimaryEndpoint:  "/predict/judgment",
		FollowupEndpoint: "/predict/followup/judgment",
		AcceptsText:      true,
		AcceptsFile:      true,
		InputMode:        InputBoth,
		Host:             HostMaster,
	},
	{
		Key:              BailAnalysis,
		DisplayName:      "Bail Analysis",
		Icon:             "🔓",
		PrimaryEndpoint:  "/predict/bail",
		FollowupEndpoint: "/predict/followup/bail",
		AcceptsText:      false,
		AcceptsFile:      true,
		InputMode:        InputFile,
		Host:             HostMaster,
	},
	{
		Key:              CaseSummarization,
		DisplayName:      "Case Summarization",
		Icon:             "📋",
		PrimaryEndpoint:  "/summary/case",
		FollowupEndpoint: "/predict/followup/summary",
		AcceptsText:      false,
		AcceptsFile:      true,
		InputMode:        InputFile,
		Host:             HostMaster,
	},
	{
		Key:              VerdictxQAI,
		DisplayName:      "VerdictX QAI",
		Icon:             "🤖",
		PrimaryEndpoint:  "/qa/query",
		FollowupEndpoint: "/qa/followup",
		AcceptsText:      true,
		AcceptsFile:      false,
		InputMode:        InputText,
		Host:             HostMaster,
	},
	{
		Key:              InformationExtraction,
		DisplayName:      "Information Extraction & Document Drafting",
		Icon:             "📄",
		PrimaryEndpoint:  ExtractAndDownloadEndpoint,
		FollowupEndpoint: ExtractAndDownloadEndpoint,
		AcceptsText:      true,
		AcceptsFile:      true,
		InputMode:        InputBoth,
		Host:             HostExtraction,
	},
}

// Resolve returns the descriptor of a feature key.
func Resolve(key string) (*Descriptor, error) {
	for i := range descriptors {
		if descriptors[i].Key == key {
			return &descriptors[i], nil
		}
	}
	return nil, errors.Wrapf(ErrUnknownFeature, "%q", key)
}

// All returns every registered descriptor in display order.
func All() []Descriptor {
	out := make([]Descriptor, len(descriptors))
	copy(out, descriptors)
	return out
}

// TextField is the multipart field name carrying submitted text: text-only
// features take a question, mixed-input features take the case body.
func (d *Descriptor) TextField() string {
	if d.InputMode == InputText {
		return "question"
	}
	return "case_text"
}

// Validate rejects a submission that does not satisfy the feature's input
// requirements. Runs before any network call.
func (d *Descriptor) Validate(text string, hasFile bool) error {
	switch d.InputMode {
	case InputText:
		if text == "" {
			return errors.Errorf("%s needs a question", d.DisplayName)
		}
	case InputFile:
		if !hasFile {
			return errors.Errorf("%s needs an attached document", d.DisplayName)
		}
	case InputBoth:
		if text == "" && !hasFile {
			return errors.Errorf("%s needs text or an attached document", d.DisplayName)
		}
	}
	return nil
}
