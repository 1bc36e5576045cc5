package main

// Summary of the known file types and the template settings in effect,
// printed by `hbsq info`.

import (
	"fmt"
	"io"
	"os"
	"strings"
)

// PrintInfo writes the file type table followed by the template roots.
func PrintInfo(w io.Writer) {
	fmt.Fprintf(w, "%-12s %-22s %-12s %-8s\n", "Name", "Extensions", "Grammar", "Partials")
	fmt.Fprintln(w, strings.Repeat("-", 60))
	for _, ft := range fileTypes {
		grammar := ft.Grammar
		if grammar == "" {
			grammar = "-"
		}
		partials := "no"
		if ft.Template {
			partials = "yes"
		}
		fmt.Fprintf(w, "%-12s %-22s %-12s %-8s\n", ft.Name, strings.Join(ft.Extensions, " "), grammar, partials)
	}

	fmt.Fprintln(w)
	fmt.Fprintf(w, "Partial extension: %s\n", Config.PartialExt)
	if len(Config.TemplateRoots) == 0 {
		fmt.Fprintln(w, "Template roots:    (none)")
		return
	}
	fmt.Fprintln(w, "Template roots:")
	for _, dir := range Config.TemplateRoots {
		state := "ok"
		if !dirExists(dir) {
			state = "missing"
		}
		fmt.Fprintf(w, "  %-40s %s\n", dir, state)
	}
}

func dirExists(path string) bool {
	info, err := os.Stat(path)
	return err == nil && info.IsDir()
}
