package content

import (
	"fmt"
	"strings"
)

// Brief is what the user told us about the business.
type Brief struct {
	Prompt   string
	Category string
	Vibe     string
}

// SystemPrompt asks for a single JSON content object in the shape Raw
// understands.
const SystemPrompt = `You write marketing copy for small-business websites.
Respond with ONE JSON object and nothing else, using exactly these keys:
{
  "businessName": string,
  "tagline": string,
  "hero": {"headline": string, "subtitle": string, "ctaLabel": string},
  "about": {"title": string, "body": string},
  "features": [{"title": string, "description": string, "iconHint": string}],
  "testimonials": [{"quote": string, "author": string, "role": string}],
  "contact": {"address": string, "phone": string, "email": string}
}
Write 3 to 6 features and 2 or 3 testimonials. Keep headlines under 60 characters
and descriptions under 200 characters. Plain text only, no HTML or markdown.`

// FreeformSystemPrompt asks for a complete standalone page.
const FreeformSystemPrompt = `You are a web designer. Produce ONE complete, self-contained HTML5 document
for the business described by the user: inline all CSS in a single <style> element in <head>,
use no external scripts or stylesheets, and include a <title>. Use semantic sections with ids
home, about, services and contact. Respond with the HTML only, starting with <!DOCTYPE html>.`

// UserPrompt renders the brief for the model.
func UserPrompt(b Brief) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Business description: %s\n", strings.TrimSpace(b.Prompt))
	if b.Category != "" {
		fmt.Fprintf(&sb, "Business category: %s\n", b.Category)
	}
	if b.Vibe != "" {
		fmt.Fprintf(&sb, "Desired tone: %s\n", b.Vibe)
	}
	return sb.String()
}
