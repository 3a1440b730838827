package portfolio

import "embed"

// EmbeddedAssets contains the static assets shipped with the site:
// app.js and site.css.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
