//go:build js && wasm

package main

import (
	"syscall/js"

	"github.com/eringen/folio/lightbox"
)

type modal struct {
	root js.Value
	img  js.Value
}

func (m *modal) SetImage(src, alt string) {
	m.img.Set("alt", alt)
	m.img.Set("src", src)
}

func (m *modal) SetFit(f lightbox.Fit) {
	toggleClass(m.root, "lightbox--landscape", f == lightbox.Landscape)
	toggleClass(m.root, "lightbox--portrait", f == lightbox.Portrait)
}

func (m *modal) Show() {
	m.root.Call("removeAttribute", "hidden")
	toggleClass(m.root, "is-open", true)
}

func (m *modal) Hide() {
	toggleClass(m.root, "is-open", false)
	m.root.Call("setAttribute", "hidden", "")
	m.img.Call("removeAttribute", "src")
}

type pageViewport struct{}

func (pageViewport) ScrollY() float64 { return scrollY() }

func (pageViewport) Freeze(y float64) {
	style := document.Get("body").Get("style")
	style.Set("position", "fixed")
	style.Set("top", px(-y))
	style.Set("width", "100%")
}

func (pageViewport) Restore(y float64) {
	style := document.Get("body").Get("style")
	style.Set("position", "")
	style.Set("top", "")
	style.Set("width", "")
	window.Call("scrollTo", 0, y)
}

func bindLightbox() {
	var lb *lightbox.Lightbox
	factory := func() lightbox.Modal {
		root := document.Call("createElement", "div")
		root.Set("className", "lightbox")
		root.Call("setAttribute", "role", "dialog")
		root.Call("setAttribute", "aria-modal", "true")
		root.Call("setAttribute", "hidden", "")
		img := document.Call("createElement", "img")
		img.Set("className", "lightbox__image")
		root.Call("appendChild", img)
		document.Get("body").Call("appendChild", root)

		listen(img, "load", func(js.Value) {
			lb.SetNaturalSize(img.Get("src").String(), img.Get("naturalWidth").Int(), img.Get("naturalHeight").Int())
		})
		listen(root, "click", func(ev js.Value) {
			if ev.Get("target").Equal(img) {
				lb.Close(lightbox.ImageClick)
				return
			}
			lb.Close(lightbox.Backdrop)
		})
		return &modal{root: root, img: img}
	}
	lb = lightbox.New(factory, pageViewport{})

	listen(document, "click", func(ev js.Value) {
		el, ok := closest(ev.Get("target"), "img[data-lightbox]")
		if !ok {
			return
		}
		ev.Call("preventDefault")
		src := el.Get("currentSrc").String()
		if src == "" {
			src = el.Get("src").String()
		}
		lb.Open(src, el.Get("alt").String())
	})
	listen(document, "keydown", func(ev js.Value) {
		lb.Key(ev.Get("key").String())
	})
	listen(window, "popstate", func(js.Value) { lb.Close(lightbox.Navigation) })
	listen(window, "pagehide", func(js.Value) { lb.Close(lightbox.Navigation) })
}
