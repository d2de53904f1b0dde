// Copyright 2026 Teradata
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//	http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package web

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/sync/errgroup"
)

const (
	// DefaultTimeoutMS is the per-fetch timeout when none is given.
	DefaultTimeoutMS = 10000
	// MaxContentLength is the default truncation bound for fetched text.
	MaxContentLength = 50000
	// MaxURLs caps one multi-fetch batch.
	MaxURLs = 10
	// multiFetchMaxLength is the per-URL truncation bound in a batch.
	multiFetchMaxLength = 10000
	truncationMarker    = "\n\n[Content truncated...]"
)

// FetchOptions controls a single fetch.
type FetchOptions struct {
	TimeoutMS       int
	UserAgent       string
	FollowRedirects bool
	IncludeHeaders  bool
	TextOnly        bool
	MaxLength       int
}

// MultiFetchOptions controls a batched fetch.
type MultiFetchOptions struct {
	TimeoutMS       int
	TextOnly        bool
	MaxLength       int
	IncludeFailures bool
}

// LinkExtractionOptions controls extract_links.
type LinkExtractionOptions struct {
	Filter      string
	IncludeText bool
	Unique      bool
	MaxLinks    int
}

// PageAnalysisOptions selects analyze_webpage sections.
type PageAnalysisOptions struct {
	Metadata    bool
	Structure   bool
	Images      bool
	Performance bool
}

// Fetcher performs bounded HTTP GETs with content-type filtering, size
// truncation, and HTML processing.
type Fetcher struct {
	client         *http.Client
	noRedirect     *http.Client
	userAgent      string
	maxPageSize    int64
	defaultTimeout time.Duration
}

// NewFetcher builds a fetcher. userAgent and maxPageSize come from the
// runtime config; zero values fall back to defaults.
func NewFetcher(userAgent string, maxPageSize int64, defaultTimeout time.Duration) *Fetcher {
	if userAgent == "" {
		userAgent = defaultUserAgent
	}
	if maxPageSize <= 0 {
		maxPageSize = 10 * 1024 * 1024
	}
	if defaultTimeout <= 0 {
		defaultTimeout = DefaultTimeoutMS * time.Millisecond
	}
	return &Fetcher{
		client: &http.Client{},
		noRedirect: &http.Client{
			CheckRedirect: func(*http.Request, []*http.Request) error {
				return http.ErrUseLastResponse
			},
		},
		userAgent:      userAgent,
		maxPageSize:    maxPageSize,
		defaultTimeout: defaultTimeout,
	}
}

// DefaultFetchOptions returns the documented fetch defaults.
func (f *Fetcher) DefaultFetchOptions() FetchOptions {
	return FetchOptions{
		TimeoutMS:       int(f.defaultTimeout / time.Millisecond),
		UserAgent:       f.userAgent,
		FollowRedirects: true,
		IncludeHeaders:  false,
		TextOnly:        true,
		MaxLength:       MaxContentLength,
	}
}

// fetchedPage is the raw outcome of one GET.
type fetchedPage struct {
	finalURL    *url.URL
	status      int
	contentType string
	headers     http.Header
	body        string
}

// get issues one GET and reads at most maxPageSize bytes, enforcing the
// status and content-type contracts.
func (f *Fetcher) get(ctx context.Context, rawURL, userAgent string, timeout time.Duration, followRedirects bool) (*fetchedPage, error) {
	reqCtx, cancel := context.WithTimeout(ctx, timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(reqCtx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, fmt.Errorf("invalid URL: %w", err)
	}
	req.Header.Set("User-Agent", userAgent)

	client := f.client
	if !followRedirects {
		client = f.noRedirect
	}

	resp, err := client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("HTTP %d: %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	}

	contentType := resp.Header.Get("Content-Type")
	if !isSupportedContentType(contentType) {
		return nil, fmt.Errorf("Unsupported content type: %s", contentType)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, f.maxPageSize))
	if err != nil {
		return nil, fmt.Errorf("read response body: %w", err)
	}

	return &fetchedPage{
		finalURL:    resp.Request.URL,
		status:      resp.StatusCode,
		contentType: contentType,
		headers:     resp.Header,
		body:        string(body),
	}, nil
}

// FetchContent fetches one URL and renders the text report.
func (f *Fetcher) FetchContent(ctx context.Context, rawURL string, opts FetchOptions) (string, error) {
	timeout := time.Duration(opts.TimeoutMS) * time.Millisecond
	if timeout <= 0 {
		timeout = f.defaultTimeout
	}
	userAgent := opts.UserAgent
	if userAgent == "" {
		userAgent = f.userAgent
	}

	page, err := f.get(ctx, rawURL, userAgent, timeout, opts.FollowRedirects)
	if err != nil {
		return "", err
	}

	content := page.body
	if opts.TextOnly && strings.Contains(page.contentType, "text/html") {
		content = stripHTML(content)
	}

	truncated := false
	if runes := []rune(content); len(runes) > opts.MaxLength {
		content = string(runes[:opts.MaxLength])
		truncated = true
	}

	var b strings.Builder
	fmt.Fprintf(&b, "URL: %s\n", rawURL)
	fmt.Fprintf(&b, "Status: %d %s\n", page.status, http.StatusText(page.status))
	fmt.Fprintf(&b, "Content-Type: %s\n", page.contentType)
	fmt.Fprintf(&b, "Content Length: %d characters\n\n", len([]rune(content)))

	if opts.IncludeHeaders {
		b.WriteString("Response Headers:\n")
		names := make([]string, 0, len(page.headers))
		for name := range page.headers {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			for _, value := range page.headers[name] {
				fmt.Fprintf(&b, "%s: %s\n", name, value)
			}
		}
		b.WriteString("\n")
	}

	b.WriteString("Content:\n")
	b.WriteString(content)
	if truncated {
		b.WriteString(truncationMarker)
	}
	return b.String(), nil
}

// fetchResult is one entry of a multi-fetch batch.
type fetchResult struct {
	url     string
	success bool
	content string
	err     string
}

// FetchMultiple fetches up to MaxURLs URLs concurrently and renders the
// aggregated report in input order.
func (f *Fetcher) FetchMultiple(ctx context.Context, urls []string, opts MultiFetchOptions) (string, error) {
	if len(urls) > MaxURLs {
		return "", fmt.Errorf("Cannot fetch more than %d URLs at once", MaxURLs)
	}

	results := make([]fetchResult, len(urls))

	g, gctx := errgroup.WithContext(ctx)
	for i, u := range urls {
		g.Go(func() error {
			fetchOpts := FetchOptions{
				TimeoutMS:       opts.TimeoutMS,
				UserAgent:       f.userAgent,
				FollowRedirects: true,
				IncludeHeaders:  false,
				TextOnly:        opts.TextOnly,
				MaxLength:       opts.MaxLength,
			}
			content, err := f.FetchContent(gctx, u, fetchOpts)
			if err != nil {
				results[i] = fetchResult{url: u, success: false, err: err.Error()}
				return nil
			}
			results[i] = fetchResult{url: u, success: true, content: content}
			return nil
		})
	}
	_ = g.Wait()

	var b strings.Builder
	fmt.Fprintf(&b, "Fetched %d URLs:\n\n", len(results))

	successes := 0
	for i, r := range results {
		if r.success {
			successes++
			fmt.Fprintf(&b, "=== URL %d: %s ===\n%s\n\n", i+1, r.url, r.content)
		} else if opts.IncludeFailures {
			fmt.Fprintf(&b, "=== URL %d: %s (FAILED) ===\nError: %s\n\n", i+1, r.url, r.err)
		}
	}
	fmt.Fprintf(&b, "Summary: %d/%d URLs fetched successfully", successes, len(results))
	return b.String(), nil
}

// linkInfo is one extracted anchor.
type linkInfo struct {
	url  string
	text string
}

// ExtractLinks fetches a page, resolves every anchor href to an
// absolute URL, applies the host filter, and renders a numbered list.
func (f *Fetcher) ExtractLinks(ctx context.Context, rawURL string, opts LinkExtractionOptions) (string, error) {
	page, err := f.get(ctx, rawURL, f.userAgent, f.defaultTimeout, true)
	if err != nil {
		return "", err
	}

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	baseHost := page.finalURL.Hostname()
	links := make([]linkInfo, 0)

	doc.Find("a[href]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if len(links) >= opts.MaxLinks {
			return false
		}

		href, _ := sel.Attr("href")
		resolved := resolveURL(page.finalURL, href)
		if resolved == "" {
			return true
		}

		text := strings.TrimSpace(sel.Text())
		if text == "" {
			text = "[No text]"
		}

		if includeLink(resolved, opts.Filter, baseHost) {
			links = append(links, linkInfo{url: resolved, text: text})
		}
		return true
	})

	if opts.Unique {
		seen := make(map[string]bool, len(links))
		deduped := links[:0]
		for _, l := range links {
			if seen[l.url] {
				continue
			}
			seen[l.url] = true
			deduped = append(deduped, l)
		}
		links = deduped
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Links extracted from: %s\n", rawURL)
	fmt.Fprintf(&b, "Total links found: %d\n", len(links))
	fmt.Fprintf(&b, "Filter applied: %s\n\n", opts.Filter)

	for i, l := range links {
		fmt.Fprintf(&b, "%d. %s", i+1, l.url)
		if opts.IncludeText && l.text != "[No text]" {
			fmt.Fprintf(&b, " - %q", l.text)
		}
		b.WriteString("\n")
	}
	return b.String(), nil
}

// AnalyzePage fetches a page once and renders the selected analysis
// sections.
func (f *Fetcher) AnalyzePage(ctx context.Context, rawURL string, opts PageAnalysisOptions) (string, error) {
	start := time.Now()
	page, err := f.get(ctx, rawURL, f.userAgent, f.defaultTimeout, true)
	if err != nil {
		return "", err
	}
	loadTime := time.Since(start).Milliseconds()

	doc, err := goquery.NewDocumentFromReader(strings.NewReader(page.body))
	if err != nil {
		return "", fmt.Errorf("parse HTML: %w", err)
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Web Page Analysis: %s\n\n", rawURL)

	if opts.Metadata {
		writeMetadata(&b, doc)
	}
	if opts.Structure {
		writeStructure(&b, doc)
	}
	if opts.Images {
		writeImages(&b, doc, page.finalURL)
	}
	if opts.Performance {
		b.WriteString("Performance Metrics:\n")
		fmt.Fprintf(&b, "- Load time: %dms\n", loadTime)
		fmt.Fprintf(&b, "- Content size: %d characters\n\n", len(page.body))
	}
	return b.String(), nil
}

func writeMetadata(b *strings.Builder, doc *goquery.Document) {
	b.WriteString("Metadata:\n")

	if title := strings.TrimSpace(doc.Find("title").First().Text()); title != "" {
		fmt.Fprintf(b, "- Title: %s\n", title)
	}
	if desc, ok := doc.Find(`meta[name=description]`).First().Attr("content"); ok {
		fmt.Fprintf(b, "- Description: %s\n", desc)
	}
	if keywords, ok := doc.Find(`meta[name=keywords]`).First().Attr("content"); ok {
		fmt.Fprintf(b, "- Keywords: %s\n", keywords)
	}
	b.WriteString("\n")
}

func writeStructure(b *strings.Builder, doc *goquery.Document) {
	b.WriteString("Page Structure:\n")

	h1s := doc.Find("h1")
	h2s := doc.Find("h2")
	h3s := doc.Find("h3")
	paragraphs := doc.Find("p")
	links := doc.Find("a[href]")

	fmt.Fprintf(b, "- H1 headings: %d\n", h1s.Length())
	fmt.Fprintf(b, "- H2 headings: %d\n", h2s.Length())
	fmt.Fprintf(b, "- H3 headings: %d\n", h3s.Length())

	if h1s.Length() > 0 {
		fmt.Fprintf(b, "- Main heading text: %q\n", strings.TrimSpace(h1s.First().Text()))
	}
	if h2s.Length() > 0 {
		b.WriteString("- H2 headings text:\n")
		h2s.EachWithBreak(func(i int, sel *goquery.Selection) bool {
			if i >= 5 {
				return false
			}
			fmt.Fprintf(b, "  %d. %q\n", i+1, strings.TrimSpace(sel.Text()))
			return true
		})
	}

	fmt.Fprintf(b, "- Paragraphs: %d\n", paragraphs.Length())
	fmt.Fprintf(b, "- Links: %d\n\n", links.Length())
}

func writeImages(b *strings.Builder, doc *goquery.Document, base *url.URL) {
	b.WriteString("Images:\n")

	count := 0
	doc.Find("img[src]").EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		if count >= 20 {
			return false
		}
		src, _ := sel.Attr("src")
		resolved := resolveURL(base, src)
		if resolved == "" {
			return true
		}
		alt := sel.AttrOr("alt", "")
		if alt == "" {
			alt = "[No alt text]"
		}
		count++
		fmt.Fprintf(b, "%d. %s - %q\n", count, resolved, alt)
		return true
	})

	fmt.Fprintf(b, "\nTotal images found: %d\n\n", count)
}

// stripHTML removes script and style subtrees and returns the page's
// text content with collapsed whitespace.
func stripHTML(html string) string {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return html
	}
	doc.Find("script, style").Remove()
	return strings.Join(strings.Fields(doc.Text()), " ")
}

func isSupportedContentType(contentType string) bool {
	return strings.Contains(contentType, "text/html") ||
		strings.Contains(contentType, "text/plain") ||
		strings.Contains(contentType, "application/json")
}

// resolveURL resolves href against the page URL; empty on failure.
func resolveURL(base *url.URL, href string) string {
	href = strings.TrimSpace(href)
	if href == "" {
		return ""
	}
	ref, err := url.Parse(href)
	if err != nil {
		return ""
	}
	resolved := base.ResolveReference(ref)
	if resolved.Scheme != "http" && resolved.Scheme != "https" {
		return ""
	}
	return resolved.String()
}

func includeLink(link, filter, baseHost string) bool {
	if filter == "all" || filter == "" {
		return true
	}
	u, err := url.Parse(link)
	if err != nil {
		return false
	}
	isInternal := u.Hostname() == baseHost
	return (filter == "internal") == isInternal
}
