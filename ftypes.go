package main

// Supported file types, their extensions and per-type settings such as
// indentation and the tree-sitter grammar used for highlighting.

import (
	"path/filepath"
	"strings"
)

// FileType describes how buffers of one kind of file are edited.
type FileType struct {
	Name       string   // Display name of the file type.
	Extensions []string // File extensions, including the dot.
	UseTabs    bool     // Whether to indent with tabs.
	Comment    string   // Comment opener, shown by :info.
	TabWidth   int      // Number of columns a tab spans.
	Grammar    string   // Tree-sitter grammar, empty for none.
	Template   bool     // Partial references are completed and checked.
}

var fileTypes = []*FileType{
	{
		Name:       "Handlebars",
		Extensions: []string{".hbs", ".handlebars"},
		Comment:    "{{!--",
		TabWidth:   Config.DefaultTabWidth,
		Grammar:    "html",
		Template:   true,
	},
	{
		Name:       "HTML",
		Extensions: []string{".html", ".htm"},
		Comment:    "<!--",
		TabWidth:   Config.DefaultTabWidth,
		Grammar:    "html",
	},
	{
		Name:       "CSS",
		Extensions: []string{".css"},
		Comment:    "/*",
		TabWidth:   Config.DefaultTabWidth,
		Grammar:    "css",
	},
	{
		Name:       "JavaScript",
		Extensions: []string{".js", ".mjs"},
		UseTabs:    true,
		Comment:    "//",
		TabWidth:   Config.DefaultTabWidth,
		Grammar:    "javascript",
	},
	{
		Name:       "Text",
		Extensions: []string{},
		TabWidth:   Config.DefaultTabWidth,
	},
}

// defaultFileType is used for unnamed buffers and unknown extensions.
func defaultFileType() *FileType {
	return fileTypes[len(fileTypes)-1]
}

// getFileType detects the file type from the extension of filename. A
// configured partial extension outside the list counts as Handlebars.
func getFileType(filename string) *FileType {
	ext := strings.ToLower(filepath.Ext(filename))
	for _, ft := range fileTypes {
		for _, e := range ft.Extensions {
			if e == ext {
				return ft
			}
		}
	}
	if ext != "" && ext == strings.ToLower(Config.PartialExt) {
		return fileTypes[0]
	}
	return defaultFileType()
}

// InitFileTypes applies the configured tab width to every file type.
func InitFileTypes() {
	for _, ft := range fileTypes {
		ft.TabWidth = Config.DefaultTabWidth
	}
}
