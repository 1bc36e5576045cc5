package main

import "embed"

// QueriesFS holds the tree-sitter highlight queries, one per grammar.
//
//go:embed queries/*.scm
var QueriesFS embed.FS

// ContentFS holds the help text opened by :help.
//
//go:embed content/*
var ContentFS embed.FS
