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

// Package filesystem exposes file and directory tools over an abstract
// filesystem.
package filesystem

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"time"

	"github.com/spf13/afero"
	"go.uber.org/zap"

	"github.com/teradata-labs/anvil/pkg/mcp/protocol"
	"github.com/teradata-labs/anvil/pkg/modules"
	"github.com/teradata-labs/anvil/pkg/tools"
)

const (
	moduleName        = "filesystem-module"
	moduleVersion     = "1.0.0"
	moduleDescription = "A module for interacting with the file system."
)

// Module is the filesystem tool module.
type Module struct {
	fs     afero.Fs
	logger *zap.Logger
}

// New creates the filesystem module over fs; a nil fs means the OS
// filesystem.
func New(fs afero.Fs, logger *zap.Logger) *Module {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Module{fs: fs, logger: logger}
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
			Name:        "list_directory",
			Description: "Lists the contents of a directory.",
			InputSchema: pathOnlySchema("Directory to list"),
			Handler:     m.handleListDirectory,
		},
		{
			Name:        "read_file",
			Description: "Reads the content of a file.",
			InputSchema: pathOnlySchema("File to read"),
			Handler:     m.handleReadFile,
		},
		{
			Name:        "write_file",
			Description: "Writes content to a file.",
			InputSchema: writeFileSchema(),
			Handler:     m.handleWriteFile,
		},
		{
			Name:        "create_directory",
			Description: "Creates a new directory.",
			InputSchema: pathOnlySchema("Directory to create"),
			Handler:     m.handleCreateDirectory,
		},
		{
			Name:        "delete_path",
			Description: "Deletes a file or directory.",
			InputSchema: pathOnlySchema("Path to delete"),
			Handler:     m.handleDeletePath,
		},
		{
			Name:        "move_path",
			Description: "Moves or renames a file or directory.",
			InputSchema: sourceDestinationSchema(),
			Handler:     m.handleMovePath,
		},
		{
			Name:        "copy_path",
			Description: "Copies a file or directory.",
			InputSchema: sourceDestinationSchema(),
			Handler:     m.handleCopyPath,
		},
		{
			Name:        "get_file_metadata",
			Description: "Gets metadata for a file or directory.",
			InputSchema: pathOnlySchema("Path to inspect"),
			Handler:     m.handleGetFileMetadata,
		},
		{
			Name:        "search_files",
			Description: "Searches for files by name or content within a directory.",
			InputSchema: searchFilesSchema(),
			Handler:     m.handleSearchFiles,
		},
	}
}

func (m *Module) handleListDirectory(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}

	isDir, err := afero.IsDir(m.fs, path)
	if err != nil || !isDir {
		return nil, fmt.Errorf("Path is not a directory: %s", path)
	}

	entries, err := afero.ReadDir(m.fs, path)
	if err != nil {
		return nil, err
	}

	type entry struct {
		Name        string `json:"name"`
		IsDirectory bool   `json:"isDirectory"`
		IsFile      bool   `json:"isFile"`
	}
	contents := make([]entry, 0, len(entries))
	for _, info := range entries {
		contents = append(contents, entry{
			Name:        info.Name(),
			IsDirectory: info.IsDir(),
			IsFile:      info.Mode().IsRegular(),
		})
	}
	return jsonResult(contents)
}

func (m *Module) handleReadFile(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}

	info, err := m.fs.Stat(path)
	if err != nil || !info.Mode().IsRegular() {
		return nil, fmt.Errorf("Path is not a regular file: %s", path)
	}

	content, err := afero.ReadFile(m.fs, path)
	if err != nil {
		return nil, err
	}
	return protocol.NewTextResult(string(content)), nil
}

func (m *Module) handleWriteFile(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}
	content, err := tools.StringArg(args, "content")
	if err != nil {
		return nil, err
	}

	if err := afero.WriteFile(m.fs, path, []byte(content), 0o644); err != nil {
		return nil, err
	}
	return protocol.NewTextResult("File written successfully: " + path), nil
}

func (m *Module) handleCreateDirectory(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}

	if err := m.fs.MkdirAll(path, 0o755); err != nil {
		return nil, err
	}
	return protocol.NewTextResult("Directory created successfully: " + path), nil
}

func (m *Module) handleDeletePath(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}

	if exists, err := afero.Exists(m.fs, path); err != nil || !exists {
		return nil, fmt.Errorf("Path does not exist: %s", path)
	}

	if err := m.fs.RemoveAll(path); err != nil {
		return nil, err
	}
	return protocol.NewTextResult("Path deleted successfully: " + path), nil
}

func (m *Module) handleMovePath(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	source, err := tools.StringArg(args, "sourcePath")
	if err != nil {
		return nil, err
	}
	destination, err := tools.StringArg(args, "destinationPath")
	if err != nil {
		return nil, err
	}

	if err := m.fs.Rename(source, destination); err != nil {
		return nil, err
	}
	return protocol.NewTextResult(fmt.Sprintf("Path moved successfully from %s to %s", source, destination)), nil
}

func (m *Module) handleCopyPath(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	source, err := tools.StringArg(args, "sourcePath")
	if err != nil {
		return nil, err
	}
	destination, err := tools.StringArg(args, "destinationPath")
	if err != nil {
		return nil, err
	}

	if err := m.copyPath(source, destination); err != nil {
		return nil, err
	}
	return protocol.NewTextResult(fmt.Sprintf("Path copied successfully from %s to %s", source, destination)), nil
}

func (m *Module) copyPath(source, destination string) error {
	info, err := m.fs.Stat(source)
	if err != nil {
		return err
	}

	if !info.IsDir() {
		return m.copyFile(source, destination, info.Mode())
	}

	return afero.Walk(m.fs, source, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		rel, err := filepath.Rel(source, path)
		if err != nil {
			return err
		}
		target := filepath.Join(destination, rel)
		if info.IsDir() {
			return m.fs.MkdirAll(target, info.Mode().Perm())
		}
		return m.copyFile(path, target, info.Mode())
	})
}

func (m *Module) copyFile(source, destination string, mode os.FileMode) error {
	in, err := m.fs.Open(source)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := m.fs.OpenFile(destination, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, mode.Perm())
	if err != nil {
		return err
	}
	defer out.Close()

	_, err = io.Copy(out, in)
	return err
}

func (m *Module) handleGetFileMetadata(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	path, err := tools.StringArg(args, "path")
	if err != nil {
		return nil, err
	}

	info, err := m.fs.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("Path does not exist: %s", path)
	}

	metadata := struct {
		Size             int64  `json:"size"`
		LastModifiedTime string `json:"lastModifiedTime"`
		IsDirectory      bool   `json:"isDirectory"`
		IsRegularFile    bool   `json:"isRegularFile"`
		Mode             string `json:"mode"`
	}{
		Size:             info.Size(),
		LastModifiedTime: info.ModTime().UTC().Format(time.RFC3339),
		IsDirectory:      info.IsDir(),
		IsRegularFile:    info.Mode().IsRegular(),
		Mode:             info.Mode().String(),
	}
	return jsonResult(metadata)
}

func (m *Module) handleSearchFiles(_ context.Context, args map[string]interface{}) (*protocol.CallToolResult, error) {
	directory, err := tools.StringArg(args, "directory")
	if err != nil {
		return nil, err
	}
	namePattern := tools.OptionalString(args, "fileNamePattern", "")
	contentPattern := tools.OptionalString(args, "contentPattern", "")

	isDir, err := afero.IsDir(m.fs, directory)
	if err != nil || !isDir {
		return nil, fmt.Errorf("Path is not a directory: %s", directory)
	}

	var nameRe *regexp.Regexp
	if namePattern != "" {
		// Anchored, matching the whole file name.
		nameRe, err = regexp.Compile("^(?:" + namePattern + ")$")
		if err != nil {
			return nil, fmt.Errorf("Invalid file name pattern: %v", err)
		}
	}

	matches := make([]string, 0)
	walkErr := afero.Walk(m.fs, directory, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() || !info.Mode().IsRegular() {
			return nil
		}

		if nameRe != nil && !nameRe.MatchString(info.Name()) {
			return nil
		}

		if contentPattern != "" {
			content, err := afero.ReadFile(m.fs, path)
			if err != nil {
				m.logger.Warn("could not read file for content search",
					zap.String("path", path),
					zap.Error(err),
				)
				return nil
			}
			if !strings.Contains(string(content), contentPattern) {
				return nil
			}
		}

		matches = append(matches, path)
		return nil
	})
	if walkErr != nil {
		return nil, walkErr
	}
	return jsonResult(matches)
}

func jsonResult(v interface{}) (*protocol.CallToolResult, error) {
	raw, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("format response: %w", err)
	}
	return protocol.NewTextResult(string(raw)), nil
}
