package pensieve

import "embed"

// EmbeddedAssets contains static assets shipped with the site: reveal.js,
// the bootstrap that hands reveal registrations to the scroll reveal library.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
