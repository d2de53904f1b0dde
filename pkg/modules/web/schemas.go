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

// JSON Schema (Draft-07) documents for the web tools.

const schemaDraft = "http://json-schema.org/draft-07/schema#"

func urlProperty(description string) map[string]interface{} {
	return map[string]interface{}{
		"type":        "string",
		"description": description,
		"minLength":   1,
	}
}

func fetchURLSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"url": urlProperty("The URL to fetch"),
			"options": map[string]interface{}{
				"type":        "object",
				"description": "Fetch options",
				"properties": map[string]interface{}{
					"timeout": map[string]interface{}{
						"type":        "integer",
						"description": "Request timeout in milliseconds",
						"minimum":     1,
						"default":     DefaultTimeoutMS,
					},
					"userAgent": map[string]interface{}{
						"type":        "string",
						"description": "User-Agent header to send",
					},
					"followRedirects": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to follow HTTP redirects",
						"default":     true,
					},
					"includeHeaders": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to include response headers in the output",
						"default":     false,
					},
					"textOnly": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to strip HTML tags and return only text content",
						"default":     true,
					},
					"maxLength": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum length of the content to return",
						"minimum":     1,
						"default":     MaxContentLength,
					},
				},
			},
		},
		"required": []interface{}{"url"},
	}
}

func fetchMultipleURLsSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"urls": map[string]interface{}{
				"type":        "array",
				"description": "URLs to fetch concurrently",
				"minItems":    1,
				"items":       urlProperty("URL to fetch"),
			},
			"options": map[string]interface{}{
				"type":        "object",
				"description": "Batch fetch options",
				"properties": map[string]interface{}{
					"timeout": map[string]interface{}{
						"type":        "integer",
						"description": "Per-request timeout in milliseconds",
						"minimum":     1,
						"default":     DefaultTimeoutMS,
					},
					"textOnly": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to strip HTML tags and return only text content",
						"default":     true,
					},
					"maxLength": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum content length per URL",
						"minimum":     1,
						"default":     multiFetchMaxLength,
					},
					"includeFailures": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether failed fetches appear in the report",
						"default":     false,
					},
				},
			},
		},
		"required": []interface{}{"urls"},
	}
}

func extractLinksSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"url": urlProperty("The page to extract links from"),
			"options": map[string]interface{}{
				"type":        "object",
				"description": "Link extraction options",
				"properties": map[string]interface{}{
					"filter": map[string]interface{}{
						"type":        "string",
						"enum":        []interface{}{"all", "internal", "external"},
						"description": "Which links to keep relative to the page host",
						"default":     "all",
					},
					"includeText": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to include anchor text",
						"default":     true,
					},
					"unique": map[string]interface{}{
						"type":        "boolean",
						"description": "Whether to deduplicate by URL",
						"default":     true,
					},
					"maxLinks": map[string]interface{}{
						"type":        "integer",
						"description": "Maximum links to return",
						"minimum":     1,
						"maximum":     500,
						"default":     100,
					},
				},
			},
		},
		"required": []interface{}{"url"},
	}
}

func analyzeWebpageSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"url": urlProperty("The page to analyze"),
			"analysis": map[string]interface{}{
				"type":        "object",
				"description": "Analysis sections to include",
				"properties": map[string]interface{}{
					"metadata": map[string]interface{}{
						"type":        "boolean",
						"description": "Include title and meta description/keywords",
						"default":     true,
					},
					"structure": map[string]interface{}{
						"type":        "boolean",
						"description": "Include heading/paragraph/link counts",
						"default":     true,
					},
					"images": map[string]interface{}{
						"type":        "boolean",
						"description": "Include image URLs and alt text",
						"default":     false,
					},
					"performance": map[string]interface{}{
						"type":        "boolean",
						"description": "Include fetch duration and page size",
						"default":     false,
					},
				},
			},
		},
		"required": []interface{}{"url"},
	}
}
