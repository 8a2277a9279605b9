package popup

import (
	"encoding/json"
	"fmt"
	"html/template"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/sinbibook/yeoyoochae/internal/i18n"
	"github.com/sinbibook/yeoyoochae/internal/textutil"
)

// ContainerID is the element popups render into.
const ContainerID = "popup-container"

// Message keys for popup controls.
const (
	keyHideToday = "popup.hide_today"
	keyClose     = "popup.close"
	keyCloseAria = "popup.close_aria"
	keyPrev      = "popup.prev"
	keyNext      = "popup.next"
	keySlideN    = "popup.slide_n"
)

var overlay = template.Must(template.New("popup").Parse(`
{{define "text"}}{{if or .Title .Description}}<div class="popup-text-content">{{if .Title}}<h3{{if .TitleID}} id="{{.TitleID}}"{{end}} class="popup-title">{{.Title}}</h3>{{end}}{{if .Description}}<p class="popup-description">{{.Description}}</p>{{end}}</div>{{end}}{{end}}

{{define "media"}}{{if .Slider}}<div class="popup-slider" data-popup-slider="{{.SliderConfig}}"><div class="popup-slides">{{range .Slides}}<div class="popup-slide{{if .Active}} active{{end}}" data-slide-index="{{.Index}}"><div class="popup-image" style="background-image: url('{{.URL}}')">{{template "text" .}}</div></div>{{end}}</div><button class="popup-arrow popup-arrow--prev" type="button" data-action="prev" aria-label="{{.Labels.Prev}}">&#10094;</button><button class="popup-arrow popup-arrow--next" type="button" data-action="next" aria-label="{{.Labels.Next}}">&#10095;</button><div class="popup-dots">{{range .Slides}}<button class="popup-dot{{if .Active}} active{{end}}" type="button" data-slide-index="{{.Index}}" aria-label="{{.DotLabel}}"></button>{{end}}</div></div>{{else}}{{with index .Slides 0}}<div class="popup-image" style="background-image: url('{{.URL}}')">{{template "text" .}}</div>{{end}}{{end}}{{end}}

{{define "overlay"}}<div class="popup-overlay active" role="dialog" aria-modal="true"{{if .TitleID}} aria-labelledby="{{.TitleID}}"{{end}} data-popup-id="{{.ID}}" data-popup-index="{{.Index}}" data-popup-total="{{.Total}}"><div class="popup-content{{if .Slider}} popup-content--slider{{end}}"><button class="popup-close" type="button" data-action="close" aria-label="{{.Labels.CloseAria}}" hx-get="{{.NextURL}}" hx-target="#{{.Container}}" hx-swap="innerHTML">&times;</button>{{if .Link}}<a href="{{.Link}}" target="_blank" rel="noopener noreferrer" class="popup-image-link">{{template "media" .}}</a>{{else}}{{template "media" .}}{{end}}<div class="popup-footer"><button class="popup-today-hide" type="button" data-action="hide-today" hx-post="{{.HideURL}}" hx-target="#{{.Container}}" hx-swap="innerHTML">{{.Labels.HideToday}}</button><button class="popup-close-text" type="button" data-action="close" hx-get="{{.NextURL}}" hx-target="#{{.Container}}" hx-swap="innerHTML">{{.Labels.Close}}</button></div></div></div>{{end}}
`))

// Labels are the localized control texts.
type Labels struct {
	HideToday string
	Close     string
	CloseAria string
	Prev      string
	Next      string
	slideN    func(n int) string
}

// LabelsFor reads the control texts from a locale.
func LabelsFor(msg i18n.Localizer) Labels {
	return Labels{
		HideToday: msg.T(keyHideToday),
		Close:     msg.T(keyClose),
		CloseAria: msg.T(keyCloseAria),
		Prev:      msg.T(keyPrev),
		Next:      msg.T(keyNext),
		slideN:    func(n int) string { return msg.Tf(keySlideN, n) },
	}
}

type slide struct {
	Index       int
	Active      bool
	URL         string
	Title       string
	TitleID     string
	Description template.HTML
	DotLabel    string
}

type view struct {
	ID           string
	Index        int
	Total        int
	TitleID      string
	Link         string
	Slider       bool
	SliderConfig string
	Slides       []slide
	Labels       Labels
	Container    string
	NextURL      string
	HideURL      string
}

type sliderConfig struct {
	Count          int   `json:"count"`
	IntervalMS     int64 `json:"intervalMs"`
	SwipeThreshold int   `json:"swipeThreshold"`
}

// NextURL is the fragment endpoint of the popup queued after p.
func NextURL(p Popup) string { return "/popups/" + Token(p.ID) + "/next" }

// HideURL is the "don't show today" endpoint for p.
func HideURL(p Popup) string { return "/popups/" + Token(p.ID) + "/hide-today" }

// Markup renders the overlay for the popup at position index of total.
func Markup(p Popup, index, total int, labels Labels) (string, error) {
	if len(p.Images) == 0 {
		return "", nil
	}
	v := view{
		ID:        p.ID,
		Index:     index,
		Total:     total,
		Link:      p.Link,
		Slider:    p.IsSlider(),
		Labels:    labels,
		Container: ContainerID,
		NextURL:   NextURL(p),
		HideURL:   HideURL(p),
	}
	title := strings.TrimSpace(p.Title)
	if title != "" {
		v.TitleID = "popup-title-" + Token(p.ID)
	}
	desc := template.HTML(textutil.WithLineBreaks(strings.TrimSpace(p.Description)))

	imgs := p.Images
	if !v.Slider {
		imgs = imgs[:1]
	}
	for i, img := range imgs {
		s := slide{
			Index:       i,
			Active:      i == 0,
			URL:         img.URL,
			Title:       title,
			Description: desc,
		}
		if i == 0 {
			s.TitleID = v.TitleID
		}
		if labels.slideN != nil {
			s.DotLabel = labels.slideN(i + 1)
		}
		v.Slides = append(v.Slides, s)
	}
	if v.Slider {
		raw, err := json.Marshal(sliderConfig{
			Count:          len(imgs),
			IntervalMS:     AutoplayInterval.Milliseconds(),
			SwipeThreshold: SwipeThreshold,
		})
		if err != nil {
			return "", fmt.Errorf("popup: slider config: %w", err)
		}
		v.SliderConfig = string(raw)
	}

	var b strings.Builder
	if err := overlay.ExecuteTemplate(&b, "overlay", v); err != nil {
		return "", fmt.Errorf("popup: render %s: %w", p.ID, err)
	}
	return b.String(), nil
}

// Render replaces the contents of sel with the popup overlay.
func Render(sel *goquery.Selection, p Popup, index, total int, labels Labels) error {
	markup, err := Markup(p, index, total, labels)
	if err != nil {
		return err
	}
	sel.SetHtml(markup)
	return nil
}

// Container returns the popup container of doc, creating it at the end of
// <body> when missing.
func Container(doc *goquery.Document) *goquery.Selection {
	c := doc.Find("#" + ContainerID).First()
	if c.Length() > 0 {
		return c
	}
	body := doc.Find("body").First()
	if body.Length() == 0 {
		return c
	}
	body.AppendHtml(`<div id="` + ContainerID + `"></div>`)
	return doc.Find("#" + ContainerID).First()
}
