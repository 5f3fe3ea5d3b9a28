//go:build js && wasm

package main

import (
	"encoding/json"
	"strconv"
	"syscall/js"

	"github.com/eringen/folio/rotator"
	"github.com/eringen/folio/ticker"
)

// tickerElement is a [data-ticker] title with its scrolling track.
type tickerElement struct {
	root  js.Value
	track js.Value
	slack float64
}

func (t tickerElement) RemoveClones() {
	for _, c := range queryAll(t.root, ".ticker-clone") {
		c.Call("remove")
	}
}

func (t tickerElement) Measure() (ticker.Measure, bool) {
	container := t.root.Get("clientWidth").Float()
	text := t.track.Get("scrollWidth").Float()
	if container == 0 {
		return ticker.Measure{}, false
	}
	return ticker.Measure{TextWidth: text, ContainerWidth: container, Slack: t.slack}, true
}

func (t tickerElement) AddClones(n int) {
	for i := 0; i < n; i++ {
		c := t.track.Call("cloneNode", true)
		toggleClass(c, "ticker-clone", true)
		c.Call("setAttribute", "aria-hidden", "true")
		t.root.Call("appendChild", c)
	}
}

func (t tickerElement) Apply(p ticker.Plan) {
	style := t.root.Get("style")
	if !p.Scroll {
		toggleClass(t.root, "is-scrolling", false)
		style.Call("removeProperty", "--ticker-distance")
		style.Call("removeProperty", "--ticker-duration")
		return
	}
	style.Call("setProperty", "--ticker-distance", px(p.Distance))
	style.Call("setProperty", "--ticker-duration", fmtSeconds(p.Duration.Seconds()))
	toggleClass(t.root, "is-scrolling", true)
}

func fmtSeconds(s float64) string {
	return strconv.FormatFloat(s, 'f', 3, 64) + "s"
}

func bindTickers() {
	mobile := isMobile()
	var tickers []*ticker.Ticker
	for _, el := range queryAll(document, "[data-ticker]") {
		track, ok := query(el, ".ticker-track")
		if !ok {
			continue
		}
		speed, slack := ticker.SpeedDefault, 0.0
		if dataAttr(el, "ticker") == "preview" {
			speed, slack = ticker.SpeedFor(mobile), ticker.PreviewSlack
		}
		t := ticker.New(tickerElement{root: el, track: track, slack: slack}, speed, afterLayout)
		t.Refresh()
		tickers = append(tickers, t)
	}
	if len(tickers) == 0 {
		return
	}
	refresh := func(js.Value) {
		for _, t := range tickers {
			t.Refresh()
		}
	}
	listen(window, "resize", refresh)
	// web fonts change text widths
	if fonts := document.Get("fonts"); !fonts.IsUndefined() {
		fonts.Get("ready").Call("then", js.FuncOf(func(js.Value, []js.Value) any {
			refresh(js.Undefined())
			return nil
		}))
	}
}

func bindRotators() {
	mobile := isMobile()
	for _, card := range queryAll(document, "[data-card][data-thumbs]") {
		var urls []string
		if err := json.Unmarshal([]byte(dataAttr(card, "thumbs")), &urls); err != nil {
			continue
		}
		slots := queryAll(card, "[data-rotator-slot]")
		if len(slots) == 0 {
			continue
		}
		r := rotator.New(urls, len(slots), rotator.IntervalFor(mobile), func(srcs []string) {
			for i, src := range srcs {
				slots[i].Set("src", src)
			}
		})
		if !r.Rotates() {
			continue
		}
		r.Init()
		if mobile {
			r.Start()
			continue
		}
		listen(card, "mouseenter", func(js.Value) { r.Start() })
		// Stop waits for the loop, which needs the event loop to exit.
		listen(card, "mouseleave", func(js.Value) { go r.Stop() })
	}
}
