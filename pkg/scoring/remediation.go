package scoring

import "fmt"

// Remediation describes how to fix a weak signal. Multiplier scales the
// expected impact by how much of the gap a typical fix closes; easier
// fixes carry higher multipliers.
type Remediation struct {
	Description string
	Hint        string
	Multiplier  float64
}

var remediations = map[string]Remediation{
	"step_indicators":       {"Break procedures into explicit numbered steps", `Prefix each action with "Step 1:", "Step 2:" and so on.`, 0.8},
	"numbered_lists":        {"Present enumerable details as list items", "Convert comma-separated runs of items into a numbered or bulleted list.", 0.85},
	"list_blocks":           {"Add list markup for key points", "Use <ol> for sequences and <ul> for unordered sets.", 0.85},
	"questions":             {"Answer the questions readers actually ask", "Add question-style subheadings and answer each directly below.", 0.8},
	"sequence_words":        {"Signal order with transition words", `Use "first", "next", "then" and "finally" to connect steps.`, 0.9},
	"headings":              {"Structure the page with descriptive headings", "Add an H2 for every major section and H3 for sub-topics.", 0.9},
	"conversational_tone":   {"Write in a direct, conversational register", `Address the reader ("you can", "here's how") and lead with the answer.`, 0.7},
	"definitions":           {"Define key terms explicitly", `Add one-sentence definitions ("X refers to ...") for core concepts.`, 0.75},
	"examples":              {"Illustrate claims with concrete examples", `Follow abstract statements with "for example" and a specific case.`, 0.75},
	"sequential_step_depth": {"Cover the full procedure with sequential steps", "Number steps from 1 without gaps and cover the task end to end.", 0.7},
	"list_structure":        {"Give each list enough items to be useful", "Aim for four to seven items per list and split overly long ones.", 0.75},
	"engagement":            {"Engage the reader with questions, examples and next steps", "Pose the reader's question, give an example and end with a clear next action.", 0.7},
	"citations":             {"Cite sources for factual claims", `Attribute claims inline ("according to ...") or with numbered references.`, 0.6},
	"reasoning":             {"Make the reasoning explicit", `Explain why, using "because" and "therefore" to connect claims to evidence.`, 0.65},
	"nuance":                {"Acknowledge limitations and counterpoints", "Add a section on trade-offs, exceptions or when the advice does not apply.", 0.65},
	"external_links":        {"Link to authoritative external sources", "Reference primary sources, standards bodies or peer-reviewed work.", 0.6},
	"expert_language":       {"Ground statements in evidence", "Reference research, data or first-hand testing behind each recommendation.", 0.6},
	"contextual_depth":      {"Expand coverage with supporting context", "Add background, prerequisites and related considerations.", 0.5},
	"citation_density":      {"Increase the density of references", "Aim for at least three references per 500 words.", 0.55},
	"balanced_reasoning":    {"Balance arguments with counterpoints", "Pair each recommendation with its rationale and its main caveat.", 0.6},
	"images":                {"Add relevant images", "Include original diagrams or photos with descriptive alt text.", 0.7},
	"tables":                {"Present comparisons in tables", "Move side-by-side figures into an HTML table with a header row.", 0.75},
	"schema_markup":         {"Add structured data markup", "Embed JSON-LD (Article, HowTo or FAQPage) describing the page.", 0.5},
	"statistics":            {"Support claims with specific figures", "Replace vague quantities with numbers, percentages and units.", 0.7},
	"dates":                 {"Date the content", "Show publication and last-updated dates near the title.", 0.9},
	"multimedia_references": {"Reference supporting media", "Point to charts, videos or figures that illustrate the text.", 0.7},
	"multimodal_richness":   {"Combine text with visual formats", "Pair key sections with an image, chart or table.", 0.6},
	"structured_data":       {"Make the content machine-readable", "Combine schema markup with tables and lists for key facts.", 0.5},
	"factual_density":       {"Raise the density of concrete facts", "Aim for two specific figures per 100 words in data-heavy sections.", 0.6},
	"faq":                   {"Add an FAQ section", `Add a "Frequently asked questions" block with Q: and A: pairs.`, 0.8},
	"search_intent":         {"Match common search intents", "Cover comparisons, prices, reviews or how-to phrasing where relevant.", 0.65},
	"source_authority":      {"Strengthen source authority", "Cite and link reputable sources for every key claim.", 0.6},
	"freshness":             {"Signal that the content is current", `Add an "Updated" date and reference recent years and events.`, 0.85},
	"faq_coverage":          {"Cover follow-up questions", "Answer the three to five most common follow-up questions explicitly.", 0.75},
	"long_paragraphs":       {"Shorten long paragraphs", "Split paragraphs to three or four sentences each.", 0.9},
	"complex_sentences":     {"Simplify complex sentences", "Split sentences over the word limit into two.", 0.85},
	"missing_structure":     {"Add headings and lists", "Introduce section headings and at least one list.", 0.9},
	"thin_content":          {"Expand thin content", "Add depth until the page covers the topic in at least 300 words.", 0.5},
	"missing_media":         {"Add visual media", "Include at least one relevant image or diagram.", 0.7},
	"missing_sources":       {"Add sources", "Link at least one authoritative external source.", 0.65},
}

// defaultMultiplier applies to signals without a catalog entry.
const defaultMultiplier = 0.6

// RemediationFor returns the catalog entry for a signal key, or a generic one.
func RemediationFor(key string) Remediation {
	if r, ok := remediations[key]; ok {
		return r
	}
	return Remediation{
		Description: fmt.Sprintf("Improve %s", key),
		Hint:        "Review the weakest examples of this signal and strengthen them.",
		Multiplier:  defaultMultiplier,
	}
}
