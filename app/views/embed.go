// Package views holds the HTML templates and static assets compiled into the
// binary.
package views

import "embed"

//go:embed layout.html auth/*.html errors/*.html posts/*.html static/*
var FS embed.FS
