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

// Package web exposes the web fetch tool family: single and
// concurrent bounded HTTP fetches, link extraction with host
// filtering, and page analysis.
package web

import (
	"context"

	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/modules"
	"github.com/teradata-labs/anvil/pkg/tools"
)

const defaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"

const (
	moduleName        = "web-module"
	moduleVersion     = "1.0.0"
	moduleDescription = "Web scraping and URL content fetching tools"
)

// Module is the web tool module.
type Module struct {
	fetcher *Fetcher
	logger  *zap.Logger
}

// New creates the web module around a fetcher.
func New(fetcher *Fetcher, logger *zap.Logger) *Module {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{fetcher: fetcher, logger: logger}
}

// Config implements modules.Module.
func (m *Module) Config() modules.Config {
	return modules.Config{
		Name:        moduleName,
		Version:     moduleVersion,
		Description: moduleDescription,
	}
}

// Tools implements modules.Module.
func (m *Module) Tools() []tools.Tool {
	return []tools.Tool{
		{
			Name:        "fetch_url",
			Description: "Fetch and extract content from a single web URL with comprehensive options",
			InputSchema: fetchURLSchema(),
			Handler:     m.handleFetchURL,
		},
		{
			Name:        "fetch_multiple_urls",
			Description: "Fetch content from multiple URLs concurrently with aggregated results",
			InputSchema: fetchMultipleURLsSchema(),
			Handler:     m.handleFetchMultipleURLs,
		},
		{
			Name:        "extract_links",
			Description: "Extract and filter links from web pages with advanced filtering options",
			InputSchema: extractLinksSchema(),
			Handler:     m.handleExtractLinks,
		},
		{
			Name:        "analyze_webpage",
			Description: "Comprehensive web page analysis including metadata, structure, and performance",
			InputSchema: analyzeWebpageSchema(),
			Handler:     m.handleAnalyzeWebpage,
		},
	}
}

func (m *Module) handleFetchURL(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	rawURL, err := tools.StringArg(args, "url")
	if err != nil {
		return nil, err
	}

	opts := m.fetcher.DefaultFetchOptions()
	if options := tools.OptionalObject(args, "options"); options != nil {
		opts.TimeoutMS = tools.OptionalInt(options, "timeout", opts.TimeoutMS)
		opts.UserAgent = tools.OptionalString(options, "userAgent", opts.UserAgent)
		opts.FollowRedirects = tools.OptionalBool(options, "followRedirects", opts.FollowRedirects)
		opts.IncludeHeaders = tools.OptionalBool(options, "includeHeaders", opts.IncludeHeaders)
		opts.TextOnly = tools.OptionalBool(options, "textOnly", opts.TextOnly)
		opts.MaxLength = tools.OptionalInt(options, "maxLength", opts.MaxLength)
	}

	content, err := m.fetcher.FetchContent(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(content), nil
}

func (m *Module) handleFetchMultipleURLs(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	rawURLs, err := tools.ArrayArg(args, "urls")
	if err != nil {
		return nil, err
	}

	urls := make([]string, 0, len(rawURLs))
	for _, raw := range rawURLs {
		if s, ok := raw.(string); ok {
			urls = append(urls, s)
		}
	}

	opts := MultiFetchOptions{
		TimeoutMS:       DefaultTimeoutMS,
		TextOnly:        true,
		MaxLength:       multiFetchMaxLength,
		IncludeFailures: false,
	}
	if options := tools.OptionalObject(args, "options"); options != nil {
		opts.TimeoutMS = tools.OptionalInt(options, "timeout", opts.TimeoutMS)
		opts.TextOnly = tools.OptionalBool(options, "textOnly", opts.TextOnly)
		opts.MaxLength = tools.OptionalInt(options, "maxLength", opts.MaxLength)
		opts.IncludeFailures = tools.OptionalBool(options, "includeFailures", opts.IncludeFailures)
	}

	report, err := m.fetcher.FetchMultiple(ctx, urls, opts)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(report), nil
}

func (m *Module) handleExtractLinks(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	rawURL, err := tools.StringArg(args, "url")
	if err != nil {
		return nil, err
	}

	opts := LinkExtractionOptions{
		Filter:      "all",
		IncludeText: true,
		Unique:      true,
		MaxLinks:    100,
	}
	if options := tools.OptionalObject(args, "options"); options != nil {
		opts.Filter = tools.OptionalString(options, "filter", opts.Filter)
		opts.IncludeText = tools.OptionalBool(options, "includeText", opts.IncludeText)
		opts.Unique = tools.OptionalBool(options, "unique", opts.Unique)
		opts.MaxLinks = tools.OptionalInt(options, "maxLinks", opts.MaxLinks)
	}

	links, err := m.fetcher.ExtractLinks(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(links), nil
}

func (m *Module) handleAnalyzeWebpage(ctx context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	rawURL, err := tools.StringArg(args, "url")
	if err != nil {
		return nil, err
	}

	opts := PageAnalysisOptions{
		Metadata:  true,
		Structure: true,
	}
	if analysis := tools.OptionalObject(args, "analysis"); analysis != nil {
		opts.Metadata = tools.OptionalBool(analysis, "metadata", opts.Metadata)
		opts.Structure = tools.OptionalBool(analysis, "structure", opts.Structure)
		opts.Images = tools.OptionalBool(analysis, "images", opts.Images)
		opts.Performance = tools.OptionalBool(analysis, "performance", opts.Performance)
	}

	analysis, err := m.fetcher.AnalyzePage(ctx, rawURL, opts)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(analysis), nil
}
