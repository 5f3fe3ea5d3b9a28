//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"
	"time"
)

// unlockKey is the local flag mirroring the server's unlock expiry. It
// only drives the UI; the session cookie is what grants access.
const unlockKey = "private_ui_until"

func bindPrivate() {
	storage := window.Get("localStorage")
	el, ok := query(document, "[data-unlock-until]")
	if !ok {
		if _, form := query(document, "form.unlock"); form && !storage.IsUndefined() {
			storage.Call("removeItem", unlockKey)
		}
		return
	}
	ms, err := strconv.ParseInt(dataAttr(el, "unlock-until"), 10, 64)
	if err != nil {
		return
	}
	if !storage.IsUndefined() {
		storage.Call("setItem", unlockKey, strconv.FormatInt(ms, 10))
	}

	// relock the view once the unlock lapses
	left := time.Until(time.UnixMilli(ms))
	if left <= 0 {
		relock(storage)
		return
	}
	setTimeout(float64(left.Milliseconds()), func() { relock(storage) })

	if _, ok := query(document, "[data-no-context-menu]"); ok {
		listen(document, "contextmenu", func(ev js.Value) {
			if _, inside := closest(ev.Get("target"), "[data-no-context-menu]"); inside {
				ev.Call("preventDefault")
			}
		})
	}
}

func relock(storage js.Value) {
	if !storage.IsUndefined() {
		storage.Call("removeItem", unlockKey)
	}
	window.Get("location").Call("reload")
}
