package web

import (
	"html/template"

	domain "github.com/oshokin/thermo-slots/internal/domain/thermostat"
)

// pageTemplateName is the name gin renders the panel under.
const pageTemplateName = "panel"

// pageView is the data behind the panel template.
type pageView struct {
	Current    int
	SavingMode bool
	Slots      []slotView
	Notices    []flashNotice
}

// slotView describes one slot button.
type slotView struct {
	ID     domain.SlotID
	Label  string
	Filled bool
}

// newPageView builds the panel data for s. The slot buttons always post
// press_slot, so the save/recall decision is taken at press time.
func newPageView(s domain.State, notices []flashNotice) pageView {
	view := pageView{
		Current:    s.Current,
		SavingMode: s.SavingMode,
		Notices:    notices,
	}

	for _, id := range domain.Slots() {
		_, filled := s.Slot(id)
		view.Slots = append(view.Slots, slotView{
			ID:     id,
			Label:  domain.Label(s, id),
			Filled: filled,
		})
	}

	return view
}

//nolint:gochecknoglobals // Parsed once, the template is immutable.
var pageTemplate = template.Must(template.New(pageTemplateName).Parse(`<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="utf-8">
<title>Temperature control</title>
<style>
body { font-family: sans-serif; max-width: 36rem; margin: 2rem auto; }
form { display: inline; }
button { font-size: 1rem; padding: .5rem 1rem; margin: .25rem; }
.notice { padding: .5rem 1rem; margin: .5rem 0; border-radius: .25rem; }
.info { background: #e7f1ff; }
.success { background: #e6f6e6; }
.warning { background: #fff4d6; }
.saving { outline: 2px solid #e0a800; }
</style>
</head>
<body>
<h1>Temperature control</h1>
{{range .Notices}}<div class="notice {{.Kind}}">{{.Message}}</div>
{{end}}
<h2 id="current">Current temperature: <strong>{{.Current}}°C</strong></h2>
<section>
<form method="post" action="/actions/increment"><button type="submit">+1°C</button></form>
<form method="post" action="/actions/decrement"><button type="submit">-1°C</button></form>
</section>
<hr>
<section>
<form method="post" action="/actions/activate_save"><button type="submit">Save</button></form>
</section>
<section{{if .SavingMode}} class="saving"{{end}}>
{{range .Slots}}<form method="post" action="/actions/press_slot"><input type="hidden" name="slot" value="{{.ID}}"><button type="submit" id="slot-{{.ID}}">{{.Label}}</button></form>
{{end}}</section>
</body>
</html>
`))
