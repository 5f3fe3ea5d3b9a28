//go:build js && wasm

package main

import (
	"context"
	"errors"
	"strconv"
	"syscall/js"
	"time"

	"github.com/eringen/folio/carousel"
	"github.com/eringen/folio/portable"
)

// imageLoader fetches and decodes an image off-screen.
type imageLoader struct{}

func (imageLoader) Load(ctx context.Context, src string) (carousel.Size, error) {
	type result struct {
		size carousel.Size
		err  error
	}
	ch := make(chan result, 1)
	img := window.Get("Image").New()
	send := func(r result) {
		select {
		case ch <- r:
		default:
		}
	}
	onload := js.FuncOf(func(js.Value, []js.Value) any {
		send(result{size: carousel.Size{
			Width:  img.Get("naturalWidth").Int(),
			Height: img.Get("naturalHeight").Int(),
		}})
		return nil
	})
	onerror := js.FuncOf(func(js.Value, []js.Value) any {
		send(result{err: errors.New("load " + src)})
		return nil
	})
	defer func() {
		img.Set("onload", js.Null())
		img.Set("onerror", js.Null())
		onload.Release()
		onerror.Release()
	}()
	img.Set("onload", onload)
	img.Set("onerror", onerror)
	img.Set("decoding", "async")
	img.Set("src", src)

	select {
	case r := <-ch:
		return r.size, r.err
	case <-ctx.Done():
		return carousel.Size{}, ctx.Err()
	}
}

type carouselView struct {
	slots   [2]js.Value
	caption js.Value
	counter js.Value
}

func (v *carouselView) Prepare(slot carousel.Slot, item carousel.Item, fit carousel.Fit) {
	el := v.slots[slot]
	el.Set("src", item.Src)
	el.Set("alt", item.Caption)
	toggleClass(el, "is-contain", fit == carousel.Contain)
}

func (v *carouselView) Crossfade(from, to carousel.Slot, d time.Duration) {
	ms := strconv.FormatInt(d.Milliseconds(), 10) + "ms"
	for _, el := range v.slots {
		el.Get("style").Set("transitionDuration", ms)
	}
	toggleClass(v.slots[to], "is-front", true)
	toggleClass(v.slots[from], "is-front", false)
	v.slots[to].Call("removeAttribute", "aria-hidden")
	v.slots[from].Call("setAttribute", "aria-hidden", "true")
}

func (v *carouselView) Show(index, total int, caption string) {
	v.caption.Set("textContent", caption)
	v.counter.Set("textContent", strconv.Itoa(index+1)+" / "+strconv.Itoa(total))
}

func bindCarousels(doc *portable.Document) {
	var engines []*carousel.Engine
	for _, h := range doc.Carousels {
		root := document.Call("getElementById", h.ID)
		if root.IsNull() || len(h.Slides) == 0 {
			continue
		}
		a, okA := query(root, `[data-slot="a"]`)
		b, okB := query(root, `[data-slot="b"]`)
		caption, okC := query(root, ".pt-carousel__caption")
		counter, okN := query(root, ".pt-carousel__counter")
		if !okA || !okB || !okC || !okN {
			continue
		}
		items := make([]carousel.Item, len(h.Slides))
		for i, s := range h.Slides {
			items[i] = carousel.Item{Src: s.Src, Caption: s.Caption}
		}
		e := carousel.New(items, h.Crossfade(), imageLoader{}, &carouselView{
			slots:   [2]js.Value{a, b},
			caption: caption,
			counter: counter,
		})
		e.Mount()
		if len(items) > 1 {
			root.Call("setAttribute", "role", "button")
			root.Call("setAttribute", "tabindex", "0")
			listen(root, "click", func(js.Value) { e.Advance() })
			listen(root, "keydown", func(ev js.Value) {
				if k := ev.Get("key").String(); k == "Enter" || k == " " {
					ev.Call("preventDefault")
					e.Advance()
				}
			})
		}
		engines = append(engines, e)
	}
	listen(window, "pagehide", func(js.Value) {
		// Unmount waits for in-flight loads, which need the event loop.
		go func() {
			for _, e := range engines {
				e.Unmount()
			}
		}()
	})
}
