// Package prompt builds the system prompt sent with every summary request.
package prompt

import (
	"strings"

	"github.com/dtnitsch/smart-digest/models"
)

// Section headers the model must reproduce verbatim.
const (
	HeaderToneBias      = "### Tone and Bias Analysis"
	HeaderVagueClaims   = "### Unsubstantiated or Vague Claims"
	HeaderCounterpoints = "### Counterpoints"
	HeaderSentiment     = "### Sentiment Detection"
	HeaderIntent        = "### Intent Summary"
	HeaderFactContrast  = "### Fact Contrast"
)

// AnalysisHeading opens the optional analysis block.
const AnalysisHeading = "ADDITIONAL ANALYSIS"

// ClaimSeparator splits the fields of a claim line.
const ClaimSeparator = " | "

const baseClause = "You are an AI assistant specialized in summarizing web content. "

const objectivityClause = "Do not include any personal opinions or subjective statements. Focus solely on the content provided. "

var lengthClauses = map[models.Length]string{
	models.LengthBrief:    "Create a concise summary that captures the main points in about 3-5 short paragraphs. ",
	models.LengthDetailed: "Create a comprehensive summary that covers all significant points and details in about 5-7 paragraphs. ",
}

var formatClauses = map[models.Format]string{
	models.FormatBullets:      "Format your response as a bulleted list of key points with a very brief introduction. Use - as the bullet marker. Be direct and clear. ",
	models.FormatAcademic:     "Write in an academic style with formal language, clear structure and objective analysis. Include an introduction, body paragraphs and a conclusion. ",
	models.FormatProfessional: "Write a professional executive summary with clear sections, factual statements and actionable insights. Keep the tone neutral and the language precise. ",
	models.FormatSimplified:   "Use simple, easy-to-understand language. Avoid complex terminology, use shorter sentences and explain concepts as if to someone with limited background knowledge. ",
}

type analysisSection struct {
	name        string
	header      string
	instruction string
}

// sections is ordered; the prompt lists enabled sections in this order.
var sections = []analysisSection{
	{
		name:        models.FeedbackToneBias,
		header:      HeaderToneBias,
		instruction: "Write 1-2 paragraphs analyzing the tone (for example neutral or persuasive) and any evident bias.",
	},
	{
		name:   models.FeedbackVagueClaims,
		header: HeaderVagueClaims,
		instruction: "List up to 3 vague or unsubstantiated claims, one bullet per claim, each on a single line in exactly this shape:\n" +
			`- "<exact quote>" | <type of issue> | <confidence: low, medium or high> | <why it is a problem> | <suggested improvement>` + "\n" +
			"If there are no such claims, omit this section entirely.",
	},
	{
		name:        models.FeedbackCounterpoints,
		header:      HeaderCounterpoints,
		instruction: "List 2-3 alternative viewpoints not considered in the original content as - bullets. If none apply, omit this section entirely.",
	},
	{
		name:        models.FeedbackSentiment,
		header:      HeaderSentiment,
		instruction: "List the people or entities mentioned and the sentiment expressed toward each as - bullets. If no sentiment is expressed, omit this section entirely.",
	},
	{
		name:        models.FeedbackIntent,
		header:      HeaderIntent,
		instruction: "Summarize the likely intent of the page (for example to inform or to persuade) in 1-2 sentences. If unclear, omit this section entirely.",
	},
	{
		name:        models.FeedbackFactContrast,
		header:      HeaderFactContrast,
		instruction: "List claims that may contradict known facts or need additional verification as - bullets. If none are found, omit this section entirely.",
	},
}

const formattingPolicy = "Format the whole response as Markdown. Use - for every bullet and ### for section headers. " +
	"Do not use HTML. Do not output a header for a section that was not requested or has no content, " +
	"and never write placeholder text such as [none] or [content here]."

// BuildSystemPrompt maps summary options to the system prompt. It is pure:
// equal options always produce identical output.
func BuildSystemPrompt(opts models.SummaryOptions) string {
	var sb strings.Builder

	sb.WriteString(baseClause)
	sb.WriteString(lengthClauses[opts.Length])
	sb.WriteString(objectivityClause)
	sb.WriteString(formatClauses[opts.Format])

	if opts.Language != "" {
		sb.WriteString("Write the entire response in ")
		sb.WriteString(opts.Language)
		sb.WriteString(", but keep the section headers exactly as given. ")
	}

	if opts.Feedback.Any() {
		sb.WriteString("\n\nAfter the summary, add an \"")
		sb.WriteString(AnalysisHeading)
		sb.WriteString("\" part containing only the following sections, each starting with its header exactly as shown:\n\n")
		for _, s := range sections {
			if !opts.Feedback.Get(s.name) {
				continue
			}
			sb.WriteString(s.header)
			sb.WriteString("\n")
			sb.WriteString(s.instruction)
			sb.WriteString("\n\n")
		}
	} else {
		sb.WriteString("\n\n")
	}

	sb.WriteString(formattingPolicy)
	return sb.String()
}

// Header returns the section header for a feedback toggle name.
func Header(name string) (string, bool) {
	for _, s := range sections {
		if s.name == name {
			return s.header, true
		}
	}
	return "", false
}

// Headers returns every analysis header in declared order.
func Headers() []string {
	headers := make([]string, len(sections))
	for i, s := range sections {
		headers[i] = s.header
	}
	return headers
}
