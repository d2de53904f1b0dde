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

package filesystem

// JSON Schema (Draft-07) documents for the filesystem tools.

const schemaDraft = "http://json-schema.org/draft-07/schema#"

func pathOnlySchema(description string) map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": description,
				"minLength":   1,
			},
		},
		"required": []interface{}{"path"},
	}
}

func writeFileSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"path": map[string]interface{}{
				"type":        "string",
				"description": "File to write",
				"minLength":   1,
			},
			"content": map[string]interface{}{
				"type":        "string",
				"description": "Content to write",
			},
		},
		"required": []interface{}{"path", "content"},
	}
}

func sourceDestinationSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"sourcePath": map[string]interface{}{
				"type":        "string",
				"description": "Source path",
				"minLength":   1,
			},
			"destinationPath": map[string]interface{}{
				"type":        "string",
				"description": "Destination path",
				"minLength":   1,
			},
		},
		"required": []interface{}{"sourcePath", "destinationPath"},
	}
}

func searchFilesSchema() map[string]interface{} {
	return map[string]interface{}{
		"$schema": schemaDraft,
		"type":    "object",
		"properties": map[string]interface{}{
			"directory": map[string]interface{}{
				"type":        "string",
				"description": "Directory to search in",
				"minLength":   1,
			},
			"fileNamePattern": map[string]interface{}{
				"type":        "string",
				"description": "Regular expression matched against whole file names",
			},
			"contentPattern": map[string]interface{}{
				"type":        "string",
				"description": "Substring that matching files must contain",
			},
		},
		"required": []interface{}{"directory"},
	}
}
