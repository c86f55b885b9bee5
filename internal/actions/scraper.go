package actions

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/go-shiori/go-readability"
	"github.com/microcosm-cc/bluemonday"
)

const scraperUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const maxScrapedChars = 50000

// NewScraper returns the page fetch action. It extracts the readable
// article body and strips any remaining markup before handing the text
// back to the model.
func NewScraper() Action {
	return NewAction("fetch_page",
		"Fetch a webpage URL and extract the main content as clean, sanitized text.",
		Object(map[string]any{
			"url": map[string]any{
				"type":        "string",
				"description": "The full URL of the webpage to fetch (e.g., https://example.com/article)",
			},
		}, "url"),
		func(ctx context.Context, input string) Result {
			var args struct {
				URL string `json:"url"`
			}
			if err := json.Unmarshal([]byte(input), &args); err != nil {
				return Errorf("invalid input: %v", err)
			}

			client := &http.Client{Timeout: 30 * time.Second}
			req, err := http.NewRequestWithContext(ctx, "GET", args.URL, nil)
			if err != nil {
				return Errorf("failed to create request: %v", err)
			}
			req.Header.Set("User-Agent", scraperUserAgent)

			resp, err := client.Do(req)
			if err != nil {
				return Errorf("failed to fetch URL: %v", err)
			}
			defer resp.Body.Close()

			if resp.StatusCode != http.StatusOK {
				return Errorf("failed to fetch URL: status code %d", resp.StatusCode)
			}

			parsedURL, err := url.Parse(args.URL)
			if err != nil {
				return Errorf("failed to parse URL: %v", err)
			}

			article, err := readability.FromReader(resp.Body, parsedURL)
			if err != nil {
				return Errorf("failed to parse article: %v", err)
			}

			sanitized := bluemonday.StrictPolicy().Sanitize(article.TextContent)
			if len(sanitized) > maxScrapedChars {
				sanitized = sanitized[:maxScrapedChars] + "\n... (content truncated) ..."
			}

			out := fmt.Sprintf("TITLE: %s\n", article.Title)
			if article.Excerpt != "" {
				out += fmt.Sprintf("EXCERPT: %s\n", article.Excerpt)
			}
			out += "\n-- CONTENT --\n" + sanitized
			return OK("%s", out)
		})
}
