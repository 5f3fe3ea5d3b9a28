//go:build js && wasm

// Command folio-wasm is the browser client. It binds the navigation,
// footnote, carousel, lightbox, ticker and rotator engines to the markup
// rendered by the server.
//
// Build it with
//
//	GOOS=js GOARCH=wasm go build -o public/folio.wasm ./cmd/folio-wasm
//	cp "$(go env GOROOT)/lib/wasm/wasm_exec.js" public/
//
// The server's boot script loads public/folio.wasm when present.
package main

import (
	"encoding/json"
	"syscall/js"

	"github.com/eringen/folio/portable"
	"github.com/eringen/folio/views"
)

func main() {
	bindNav()
	bindLightbox()
	bindPrivate()
	bindTickers()
	bindRotators()
	if doc, ok := manifest(); ok {
		bindFootnotes(doc)
		bindCarousels(doc)
	}
	select {}
}

// manifest reads the post handles written by the server next to the body.
func manifest() (*portable.Document, bool) {
	el := document.Call("getElementById", views.ManifestID)
	if el.IsNull() {
		return nil, false
	}
	var doc portable.Document
	if err := json.Unmarshal([]byte(el.Get("textContent").String()), &doc); err != nil {
		js.Global().Get("console").Call("warn", "folio: bad post manifest:", err.Error())
		return nil, false
	}
	return &doc, true
}
