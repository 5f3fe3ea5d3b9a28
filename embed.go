package folio

import "embed"

// EmbeddedAssets contains static assets shipped with the server:
// folio.css and boot.js, which loads the wasm client when present.
//
//go:embed embedded/*
var EmbeddedAssets embed.FS
