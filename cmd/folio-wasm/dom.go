//go:build js && wasm

package main

import (
	"strconv"
	"syscall/js"
)

var (
	window   = js.Global()
	document = js.Global().Get("document")
)

func query(root js.Value, sel string) (js.Value, bool) {
	v := root.Call("querySelector", sel)
	return v, !v.IsNull()
}

func queryAll(root js.Value, sel string) []js.Value {
	list := root.Call("querySelectorAll", sel)
	n := list.Get("length").Int()
	out := make([]js.Value, n)
	for i := range out {
		out[i] = list.Index(i)
	}
	return out
}

// closest returns the nearest ancestor of an event target matching sel.
func closest(target js.Value, sel string) (js.Value, bool) {
	if target.IsUndefined() || target.IsNull() || target.Get("closest").IsUndefined() {
		return js.Null(), false
	}
	v := target.Call("closest", sel)
	return v, !v.IsNull()
}

// listen attaches fn for the lifetime of the page.
func listen(target js.Value, event string, fn func(ev js.Value)) {
	f := js.FuncOf(func(_ js.Value, args []js.Value) any {
		ev := js.Undefined()
		if len(args) > 0 {
			ev = args[0]
		}
		fn(ev)
		return nil
	})
	target.Call("addEventListener", event, f)
}

// afterLayout runs fn two animation frames from now, once styles and
// layout of the current changes have been applied.
func afterLayout(fn func()) {
	var first, second js.Func
	second = js.FuncOf(func(js.Value, []js.Value) any {
		second.Release()
		fn()
		return nil
	})
	first = js.FuncOf(func(js.Value, []js.Value) any {
		first.Release()
		window.Call("requestAnimationFrame", second)
		return nil
	})
	window.Call("requestAnimationFrame", first)
}

func setTimeout(ms float64, fn func()) {
	var f js.Func
	f = js.FuncOf(func(js.Value, []js.Value) any {
		f.Release()
		fn()
		return nil
	})
	window.Call("setTimeout", f, ms)
}

func viewportWidth() float64 { return window.Get("innerWidth").Float() }

func scrollY() float64 { return window.Get("scrollY").Float() }

// isMobile reports a device without hover.
func isMobile() bool {
	return window.Call("matchMedia", "(hover: none)").Get("matches").Bool()
}

func toggleClass(el js.Value, class string, on bool) {
	el.Get("classList").Call("toggle", class, on)
}

func px(v float64) string {
	return strconv.FormatFloat(v, 'f', 2, 64) + "px"
}

func dataAttr(el js.Value, name string) string {
	v := el.Call("getAttribute", "data-"+name)
	if v.IsNull() {
		return ""
	}
	return v.String()
}
