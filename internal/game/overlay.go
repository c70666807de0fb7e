package game

import (
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/hajimehoshi/ebiten/v2"
	"github.com/hajimehoshi/ebiten/v2/ebitenutil"
	"github.com/hajimehoshi/ebiten/v2/vector"

	"github.com/iburimskiy/particle-portfolio/internal/i18n"
	"github.com/iburimskiy/particle-portfolio/internal/profile"
)

// Sections are the pages of the overlay, in navigation order.
var Sections = []string{"about", "skills", "experience", "education", "languages", "projects", "contact"}

var skillGroups = []string{"languages", "frontend", "data", "devops", "security", "misc"}

const (
	marginX    = 24
	marginY    = 24
	lineHeight = 16
	wrapWidth  = 96
)

// Overlay renders the portfolio text over the particle field.
type Overlay struct {
	table    *i18n.Table
	profiles *profile.Store
	locale   string
	section  int
	started  time.Time
	now      func() time.Time
}

func NewOverlay(table *i18n.Table, profiles *profile.Store, locale string) *Overlay {
	return &Overlay{
		table:    table,
		profiles: profiles,
		locale:   table.Resolve(locale),
		started:  time.Now(),
		now:      time.Now,
	}
}

func (o *Overlay) Locale() string { return o.locale }

func (o *Overlay) Section() string { return Sections[o.section] }

func (o *Overlay) NextSection() { o.section = (o.section + 1) % len(Sections) }

func (o *Overlay) PrevSection() { o.section = (o.section + len(Sections) - 1) % len(Sections) }

// NextLocale cycles through the table's locales.
func (o *Overlay) NextLocale() {
	locs := o.table.Locales()
	if len(locs) == 0 {
		return
	}
	i := slices.IndexFunc(locs, func(l i18n.Locale) bool { return l.Code == o.locale })
	o.locale = locs[(i+1)%len(locs)].Code
}

func (o *Overlay) t(key string) string { return o.table.Lookup(o.locale, key) }

// Hero is the always-visible header: name, title, location and quote.
func (o *Overlay) Hero() []string {
	p := o.profiles.Get().Localized(o.locale)
	return []string{p.Name, p.Title, p.Location, "", o.t("hero.quote")}
}

// Nav renders the section tabs with the current one bracketed.
func (o *Overlay) Nav() string {
	parts := make([]string, len(Sections))
	for i, s := range Sections {
		label := o.t("nav." + s)
		if i == o.section {
			label = "[" + label + "]"
		}
		parts[i] = label
	}
	return strings.Join(parts, "  ")
}

// Body renders the current section.
func (o *Overlay) Body() []string {
	p := o.profiles.Get().Localized(o.locale)
	sec := o.Section()
	lines := []string{strings.ToUpper(o.t(sec+".eyebrow")) + "  " + o.t(sec+".title"), ""}

	switch sec {
	case "about":
		lines = append(lines, wrap(o.t("about.body"), wrapWidth)...)
		lines = append(lines, "", o.t("about.chatCTA"))

	case "skills":
		for _, g := range skillGroups {
			if items := p.Skills[g]; len(items) > 0 {
				lines = append(lines, fmt.Sprintf("%s: %s", o.t("skills."+g), strings.Join(items, ", ")))
			}
		}

	case "experience":
		for _, e := range p.Experience {
			lines = append(lines, fmt.Sprintf("%s · %s (%s)", e.Role, e.Company, e.Location), "  "+e.Period)
			for _, b := range e.Bullets {
				lines = append(lines, "  - "+b)
			}
			lines = append(lines, "")
		}

	case "education":
		for _, e := range p.Education {
			lines = append(lines, e.Degree, "  "+e.School+" · "+e.Period, "")
		}

	case "languages":
		lines = append(lines, strings.Join(p.SpokenLanguages, " · "), "", o.t("languages.note"))

	case "projects":
		for _, pr := range p.Projects {
			status := pr.Status
			if status == "" {
				status = o.t("projects.comingSoon")
			}
			lines = append(lines, fmt.Sprintf("%s [%s]", pr.Name, status))
			for _, l := range wrap(pr.Description, wrapWidth-2) {
				lines = append(lines, "  "+l)
			}
			lines = append(lines, "  "+strings.Join(pr.Tech, ", "), "")
		}

	case "contact":
		lines = append(lines, o.t("contact.emailMe")+": "+p.Email, p.Website)
		for _, k := range slices.Sorted(maps.Keys(p.Links)) {
			if k == "email" || k == "website" {
				continue
			}
			lines = append(lines, k+": "+p.Links[k])
		}
		lines = append(lines, "", o.t("contact.note"))
	}
	return lines
}

// Status is the footer: key hints, active locale and uptime.
func (o *Overlay) Status() string {
	return fmt.Sprintf("%s  |  %s  |  %s",
		o.t("hero.hint"), o.table.Locale(o.locale).Label, formatDuration(o.now().Sub(o.started)))
}

func (o *Overlay) Draw(screen *ebiten.Image) {
	y := marginY
	hero := o.Hero()
	for i, l := range hero {
		ebitenutil.DebugPrintAt(screen, l, marginX, y)
		y += lineHeight
		if i == 0 {
			w := float32(max(len([]rune(l)), 12) * 6)
			vector.DrawFilledRect(screen, marginX, float32(y), w, 2, accent(o.now().Sub(o.started)), false)
			y += 6
		}
	}

	y += lineHeight
	ebitenutil.DebugPrintAt(screen, o.Nav(), marginX, y)
	y += 2 * lineHeight

	for _, l := range o.Body() {
		ebitenutil.DebugPrintAt(screen, l, marginX, y)
		y += lineHeight
	}

	h := screen.Bounds().Dy()
	ebitenutil.DebugPrintAt(screen, o.Status(), marginX, h-marginY-lineHeight)
}
