// Command diagnose_source resolves the latest newsletter once from the
// configured source and prints what each display state would look like.
//
//	MAILCHIMP_API_KEY=... go run ./scripts -render
//	NEWSLETTER_SOURCE=feed NEWSLETTER_RSS_URL=https://example.com/feed.xml go run ./scripts -json
package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"time"

	appconfig "newsletter-feed/internal/config"
	"newsletter-feed/internal/observability/logging"
	"newsletter-feed/internal/observability/metrics"
	"newsletter-feed/internal/render"
	"newsletter-feed/internal/usecase/newsletter"
)

// Diagnostic is the result of one resolution.
type Diagnostic struct {
	Source       string             `json:"source"`
	Outcome      string             `json:"outcome"`
	ErrorKind    string             `json:"error_kind,omitempty"`
	ErrorMessage string             `json:"error_message,omitempty"`
	Reason       string             `json:"reason,omitempty"`
	ResponseTime int64              `json:"response_time_ms"`
	Newsletter   *newsletterSummary `json:"newsletter,omitempty"`
	Fragment     string             `json:"fragment,omitempty"`
}

type newsletterSummary struct {
	Title       string `json:"title"`
	URL         string `json:"url"`
	PublishedAt string `json:"published_at"`
	Summary     string `json:"summary"`
	Thumbnail   string `json:"thumbnail"`
}

func main() {
	asJSON := flag.Bool("json", false, "print the report as JSON")
	withRender := flag.Bool("render", false, "include the rendered fragment")
	timeout := flag.Duration("timeout", 30*time.Second, "resolution timeout")
	flag.Parse()

	if err := run(*asJSON, *withRender, *timeout); err != nil {
		fmt.Fprintln(os.Stderr, "diagnose:", logging.SanitizeError(err))
		os.Exit(1)
	}
}

func run(asJSON, withRender bool, timeout time.Duration) error {
	cfg, err := appconfig.Load()
	if err != nil {
		return err
	}
	src, err := cfg.BuildSource()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	d, res := diagnose(ctx, src)
	if withRender {
		d.Fragment = string(render.NewRenderer(cfg.RenderOptions()).Render(displayState(res)))
	}

	if asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(d)
	}
	printReport(d)
	if d.Outcome == newsletter.OutcomeFailure.String() {
		return errors.New("source failed")
	}
	return nil
}

func diagnose(ctx context.Context, src newsletter.Source) (Diagnostic, newsletter.Result) {
	start := time.Now()
	res := newsletter.FetchLatest(ctx, src)
	d := Diagnostic{
		Source:       src.Name(),
		Outcome:      res.Outcome.String(),
		Reason:       res.Reason,
		ResponseTime: time.Since(start).Milliseconds(),
	}
	if res.Err != nil {
		d.ErrorKind = metrics.ErrorKind(res.Err)
		d.ErrorMessage = logging.SanitizeError(res.Err)
	}
	if n := res.Newsletter; n != nil {
		d.Newsletter = &newsletterSummary{
			Title:       n.Title,
			URL:         n.URL,
			PublishedAt: n.PublishedAt,
			Summary:     n.Summary,
			Thumbnail:   n.Thumbnail.Src,
		}
	}
	return d, res
}

// displayState mirrors newsletter.Resolve without a second upstream call.
func displayState(res newsletter.Result) newsletter.DisplayState {
	switch res.Outcome {
	case newsletter.OutcomeSuccess:
		return newsletter.Ready(res.Newsletter)
	case newsletter.OutcomeEmpty:
		return newsletter.Unavailable(newsletter.ReasonNoNewsletters)
	default:
		return newsletter.Unavailable(newsletter.ReasonUnavailable)
	}
}

func printReport(d Diagnostic) {
	fmt.Printf("source:   %s\n", d.Source)
	fmt.Printf("outcome:  %s (%d ms)\n", d.Outcome, d.ResponseTime)
	if d.Reason != "" {
		fmt.Printf("reason:   %s\n", d.Reason)
	}
	if d.ErrorMessage != "" {
		fmt.Printf("error:    [%s] %s\n", d.ErrorKind, d.ErrorMessage)
	}
	if n := d.Newsletter; n != nil {
		fmt.Printf("title:    %s\n", n.Title)
		fmt.Printf("url:      %s\n", n.URL)
		fmt.Printf("date:     %s\n", n.PublishedAt)
		fmt.Printf("summary:  %s\n", n.Summary)
		fmt.Printf("image:    %s\n", n.Thumbnail)
	}
	if d.Fragment != "" {
		fmt.Printf("\n%s\n", d.Fragment)
	}
}
