package models

// Format selects the summary's writing style.
type Format string

const (
	FormatBullets      Format = "bullets"
	FormatAcademic     Format = "academic"
	FormatProfessional Format = "professional"
	FormatSimplified   Format = "simplified"
)

// Length selects how long the summary should be.
type Length string

const (
	LengthBrief    Length = "brief"
	LengthDetailed Length = "detailed"
)

// Feedback toggle names, in the order the prompt lists them.
const (
	FeedbackToneBias      = "tone-bias"
	FeedbackVagueClaims   = "vague-claims"
	FeedbackCounterpoints = "counterpoints"
	FeedbackSentiment     = "sentiment"
	FeedbackIntent        = "intent"
	FeedbackFactContrast  = "fact-contrast"
)

// FeedbackNames lists every feedback toggle in declared order.
var FeedbackNames = []string{
	FeedbackToneBias,
	FeedbackVagueClaims,
	FeedbackCounterpoints,
	FeedbackSentiment,
	FeedbackIntent,
	FeedbackFactContrast,
}

// FeedbackOptions holds the optional analysis sections requested from the model.
type FeedbackOptions struct {
	ToneBias      bool `json:"enableToneBiasAnalysis" yaml:"tone_bias"`
	VagueClaims   bool `json:"enableHighlightVagueClaims" yaml:"vague_claims"`
	Counterpoints bool `json:"enableCounterpoints" yaml:"counterpoints"`
	Sentiment     bool `json:"enableSentimentDetection" yaml:"sentiment"`
	Intent        bool `json:"enableIntentSummary" yaml:"intent"`
	FactContrast  bool `json:"enableFactContrast" yaml:"fact_contrast"`
}

// Get reports whether the named toggle is enabled. Unknown names are false.
func (f FeedbackOptions) Get(name string) bool {
	switch name {
	case FeedbackToneBias:
		return f.ToneBias
	case FeedbackVagueClaims:
		return f.VagueClaims
	case FeedbackCounterpoints:
		return f.Counterpoints
	case FeedbackSentiment:
		return f.Sentiment
	case FeedbackIntent:
		return f.Intent
	case FeedbackFactContrast:
		return f.FactContrast
	}
	return false
}

// Set enables or disables the named toggle. It returns false for unknown names.
func (f *FeedbackOptions) Set(name string, enabled bool) bool {
	switch name {
	case FeedbackToneBias:
		f.ToneBias = enabled
	case FeedbackVagueClaims:
		f.VagueClaims = enabled
	case FeedbackCounterpoints:
		f.Counterpoints = enabled
	case FeedbackSentiment:
		f.Sentiment = enabled
	case FeedbackIntent:
		f.Intent = enabled
	case FeedbackFactContrast:
		f.FactContrast = enabled
	default:
		return false
	}
	return true
}

// Enabled returns the names of enabled toggles in declared order.
func (f FeedbackOptions) Enabled() []string {
	var names []string
	for _, name := range FeedbackNames {
		if f.Get(name) {
			names = append(names, name)
		}
	}
	return names
}

// Any reports whether at least one toggle is enabled.
func (f FeedbackOptions) Any() bool {
	return len(f.Enabled()) > 0
}

// SummaryOptions are the user choices that shape the system prompt.
type SummaryOptions struct {
	Format   Format          `json:"format" yaml:"format"`
	Length   Length          `json:"length" yaml:"length"`
	Feedback FeedbackOptions `json:"feedback" yaml:"feedback"`

	// Language is a human language name ("German"). Empty leaves the
	// response language to the model.
	Language string `json:"language,omitempty" yaml:"language,omitempty"`
}
