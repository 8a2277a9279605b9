package pages

import (
	"html/template"
	"strings"

	"go.uber.org/zap"

	"github.com/sinbibook/yeoyoochae/internal/images"
	"github.com/sinbibook/yeoyoochae/internal/mapper"
)

// Markup for nodes the mappers create. Values are escaped by html/template;
// template.HTML fields carry text already escaped by textutil.
var fragments = template.Must(template.New("fragments").Parse(`
{{define "hero-slide"}}<div class="swiper-slide"><img src="{{.URL}}" alt="{{.Alt}}" class="w-full h-full object-cover" style="width: 100%; height: 100%; object-fit: cover;"></div>{{end}}

{{define "hero-placeholder"}}<div class="swiper-slide"><img src="{{.Src}}" alt="{{.Alt}}" class="absolute inset-0 w-full h-full object-cover empty-image-placeholder" style="width: 100%; height: 100vh; min-height: 100vh; object-fit: cover; display: block; position: absolute; inset: 0px; z-index: 1;"></div>{{end}}

{{define "signature-item"}}<div class="about-content pb-12 md:py-12"><div class="about-image fade-in-scale">{{template "image" .Image}}</div><div class="about-text px-16 fade-in-up"><p class="about-description ko-body">{{.Description}}</p></div></div>{{end}}

{{define "image"}}{{if .Placeholder}}<img src="{{.Src}}" alt="{{.Alt}}" class="{{.Class}} empty-image-placeholder">{{else}}<img src="{{.URL}}" alt="{{.Alt}}"{{if .Class}} class="{{.Class}}"{{end}}>{{end}}{{end}}

{{define "about-block"}}<section class="{{if .First}}about-section relative w-full pt-32 px-6 md:px-0{{else}}about-section relative w-full pb-8 px-6 md:px-0 about2-section{{end}}"><div class="flex items-center justify-center mb-8"><div class="main-image-container relative"><div class="main-image-wrapper fade-in-scale">{{template "image" .Image}}</div></div></div><div class="{{if .First}}flex items-center justify-center py-24{{else}}flex items-center justify-center pt-24 pb-16{{end}}"><div class="max-w-4xl mx-auto text-center px-0"><div class="text-md md:text-lg text-gray-700 mb-6 ko-body fade-in-up" style="line-height: 2;">{{.Description}}</div></div></div></section>{{end}}

{{define "gallery-image"}}<div class="w-full md:w-3/5 p-4 md:p-6{{if .ImageLeft}} gallery-item-text-container{{end}}"><div class="aspect-[16/9] overflow-hidden rounded-lg"><img src="{{.URL}}" alt="{{.Alt}}" class="w-full h-full object-cover transition-transform duration-300 hover:scale-105"></div></div>{{end}}

{{define "gallery-text"}}<div class="hidden md:flex w-2/5 items-center justify-center p-6{{if not .ImageLeft}} gallery-item-text-container{{end}}"><h4 class="text-2xl font-semibold" style="color: var(--color-secondary);">{{.Description}}</h4></div>{{end}}

{{define "gallery-item"}}<div class="flex fade-in-up gallery-item{{if .First}} gallery-item-first{{end}}" style="animation-delay: {{.Delay}};">{{if .ImageLeft}}{{template "gallery-image" .}}{{template "gallery-text" .}}{{else}}{{template "gallery-text" .}}{{template "gallery-image" .}}{{end}}</div>{{end}}

{{define "gallery-placeholders"}}<div class="flex fade-in-up gallery-item gallery-item-first" style="animation-delay: 0s;"><div class="hidden md:flex w-2/5 items-center justify-center p-6 gallery-item-text-container"><h4 class="text-2xl font-semibold ko-title" style="color: var(--color-secondary);" data-room-exterior-description-0>{{.TextKo}}</h4></div><div class="w-full md:w-3/5 p-4 md:p-6"><div class="aspect-[16/9] overflow-hidden rounded-lg relative empty-image-placeholder" style="background: #d1d5db;"><img src="" alt="{{.Alt1}}" class="w-full h-full object-cover" style="opacity: 0;" data-room-exterior-image-0></div></div></div><div class="flex fade-in-up gallery-item" style="animation-delay: 0.1s;"><div class="w-full md:w-3/5 p-4 md:p-6 gallery-item-text-container"><div class="aspect-[16/9] overflow-hidden rounded-lg relative empty-image-placeholder" style="background: #d1d5db;"><img src="" alt="{{.Alt2}}" class="w-full h-full object-cover" style="opacity: 0;" data-room-exterior-image-1></div></div><div class="hidden md:flex w-2/5 items-center justify-center p-6"><h4 class="text-2xl font-semibold ko-title" style="color: var(--color-secondary);" data-room-exterior-description-1>{{.TextEn}}</h4></div></div>{{end}}

{{define "amenities"}}<div class="max-h-80 overflow-y-auto space-y-0">{{range .}}<div class="flex justify-between items-center py-3{{if not .Last}} border-b border-gray-100{{end}}">{{range .Names}}<div class="flex items-center space-x-1 flex-1"><span class="text-sm font-medium flex-shrink-0" style="color: var(--color-secondary);">✓</span><span class="text-sm text-gray-600 ko-body truncate">{{.}}</span></div>{{end}}</div>{{end}}</div>{{end}}

{{define "experience-items"}}{{range $i, $it := .}}<div class="mb-3 last:mb-0 {{if eq $i 0}}pt-3 border-t border-gray-200{{else}}mt-4 pt-3 border-t border-gray-200{{end}}"><div class="font-semibold text-[#5D4037] mb-1 ko-title">{{$it.Title}}</div><div class="text-gray-600 text-sm leading-relaxed ko-body">{{$it.Description}}</div></div>{{end}}{{end}}

{{define "facility-gallery"}}{{range $i, $img := .}}<figure class="facility-gallery-item" data-gallery-index="{{$i}}"><img src="{{$img.URL}}" alt="{{$img.Title}}" class="w-full h-full object-cover" loading="lazy">{{if $img.Description}}<figcaption class="ko-body">{{$img.Description}}</figcaption>{{end}}</figure>{{end}}{{end}}

{{define "gallery-fallback"}}<div class="empty-image-placeholder w-full h-64 bg-gray-200 rounded-lg flex items-center justify-center"><p class="text-gray-500">{{.}}</p></div>{{end}}

{{define "refund-table"}}<div class="grid grid-cols-2 gap-4 pb-3 mb-3 border-b border-gray-300"><div class="ko-title font-semibold text-center" style="color: var(--color-secondary);">{{.CutoffLabel}}</div><div class="ko-title font-semibold text-center" style="color: var(--color-secondary);">{{.RateLabel}}</div></div>{{range .Rows}}<div class="grid grid-cols-2 gap-4 py-2{{if .Border}} border-b border-gray-200{{end}}"><div class="ko-body text-center">{{.Cutoff}}</div><div class="ko-body text-center font-medium">{{.Rate}}</div></div>{{end}}{{end}}

{{define "menu-links"}}{{range .}}<li><a href="{{.Href}}"{{if .Active}} class="active" aria-current="page"{{end}}>{{.Label}}</a></li>{{end}}{{end}}

{{define "menu-buttons"}}{{range .}}<button class="mobile-sub-item{{if .Active}} active{{end}}" type="button" data-href="{{.Href}}">{{.Label}}</button>{{end}}{{end}}

{{define "copyright"}}<a href="https://www.sinbibook.com/" target="_blank" rel="noopener">{{.}}</a>{{end}}
`))

// imageView feeds the "image" fragment.
type imageView struct {
	URL         string
	Src         template.URL
	Alt         string
	Class       string
	Placeholder bool
}

func placeholderImage(alt, class string) imageView {
	return imageView{Src: template.URL(images.EmptyImageWithIcon), Alt: alt, Class: class, Placeholder: true}
}

// render executes a fragment. Failures are logged and yield no markup.
func render(p *mapper.Page, name string, v any) string {
	var b strings.Builder
	if err := fragments.ExecuteTemplate(&b, name, v); err != nil {
		if p != nil && p.Logger != nil {
			p.Logger.Warn("render fragment", zap.String("fragment", name), zap.Error(err))
		}
		return ""
	}
	return b.String()
}
