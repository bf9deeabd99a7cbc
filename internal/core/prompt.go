package core

import (
	"fmt"
)

// NoArticlesMessage is the message the model is told to return when a page has no articles
const NoArticlesMessage = "The AI could not find any articles on the provided URL. It may not be a valid news or blog page."

const promptFormat = `You are an expert AI that converts a news or blog website's HTML into a valid RSS 2.0 feed.
Analyze the following HTML from the URL: %s
Your task is to generate a complete and valid RSS 2.0 XML feed.

**Instructions:**
1. The output MUST be only the raw XML content, starting with ` + "`" + `<?xml version="1.0" encoding="UTF-8" ?>` + "`" + `. Do not add any other text, markdown, code fences or explanations.
2. Create a ` + "`<channel>`" + ` with appropriate ` + "`<title>`, `<link>`, `<description>`, `<language>`" + ` and ` + "`<lastBuildDate>`" + `.
3. Create multiple ` + "`<item>`" + ` elements, one for each article (target 5-15 items). Each must have ` + "`<title>`, `<link>`" + ` (absolute URL), ` + "`<description>`" + ` and optionally ` + "`<pubDate>`" + `.
4. Resolve every relative article link against the site origin: %s

**Error Handling:**
- If you cannot process the HTML or find any articles, you MUST return a response containing ONLY the following XML structure:
  ` + "`" + `<error><message>%s</message></error>` + "`" + `

**HTML Content to Analyze:**
` + "```html" + `
%s
` + "```" + `
`

// BuildPrompt renders the instruction prompt for a page. The HTML is
// embedded as-is.
func BuildPrompt(targetURL, origin, html string) string {
	return fmt.Sprintf(promptFormat, targetURL, origin, NoArticlesMessage, html)
}
