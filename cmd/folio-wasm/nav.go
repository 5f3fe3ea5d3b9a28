//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/eringen/folio/nav"
)

type navLayout struct{ items []js.Value }

func (l navLayout) Item(i int) (float64, float64, bool) {
	if i < 0 || i >= len(l.items) {
		return 0, 0, false
	}
	el := l.items[i]
	w := el.Get("offsetWidth").Float()
	if w == 0 {
		return 0, 0, false
	}
	return el.Get("offsetLeft").Float(), w, true
}

type navSink struct {
	highlight js.Value
	items     []js.Value
}

func (s navSink) Move(h nav.Highlight) {
	style := s.highlight.Get("style")
	if h.Instant {
		style.Set("transition", "none")
	} else {
		style.Set("transition", "")
	}
	if h.Width == 0 {
		style.Set("opacity", "0")
		return
	}
	style.Set("opacity", "1")
	style.Set("transform", "translateX("+px(h.Left)+")")
	style.Set("width", px(h.Width))
	if h.Instant {
		// commit the jump before transitions come back
		s.highlight.Get("offsetWidth")
		afterLayout(func() { style.Set("transition", "") })
	}
}

func (s navSink) SetActive(i int) {
	for j, el := range s.items {
		toggleClass(el, "is-active", j == i)
		if a, ok := query(el, "a"); ok {
			if j == i {
				a.Call("setAttribute", "aria-current", "page")
			} else {
				a.Call("removeAttribute", "aria-current")
			}
		}
	}
}

func bindNav() {
	root, ok := query(document, "[data-nav]")
	if !ok {
		return
	}
	items := queryAll(root, "[data-nav-item]")
	highlight, ok := query(root, "[data-nav-highlight]")
	if !ok || len(items) == 0 {
		return
	}
	routes := make([]string, len(items))
	for i, el := range items {
		routes[i] = dataAttr(el, "href")
	}
	n := nav.New(routes, navLayout{items: items}, navSink{highlight: highlight, items: items})
	path := func() string { return window.Get("location").Get("pathname").String() }

	// fonts can shift item widths after the first layout
	afterLayout(func() { n.Place(path()) })
	for i, el := range items {
		i := i
		listen(el, "mouseenter", func(js.Value) { n.Hover(i) })
	}
	listen(root, "mouseleave", func(js.Value) { n.Leave() })
	listen(window, "resize", func(js.Value) { n.Resize() })
	listen(window, "popstate", func(js.Value) { n.Navigate(path()) })
	listen(window, "pageshow", func(js.Value) { n.Place(path()) })

	hider := nav.NewScrollHider(scrollY())
	listen(window, "scroll", func(js.Value) {
		toggleClass(root, "is-hidden", hider.Scroll(scrollY()))
	})
}
