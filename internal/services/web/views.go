package web

import (
	"context"
	"io"
	"strconv"
	"strings"

	"github.com/a-h/templ"
	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
	"github.com/stagedoor/proposals/internal/proposal"
)

const (
	htmxScript = "https://unpkg.com/htmx.org@2.0.4/dist/htmx.min.js"
	// Error responses still swap so slot and helper messages reach the page.
	htmxConfig = `{"responseHandling":[{"code":"204","swap":false},{"code":"[2345]..","swap":true}]}`
)

// pageMeta is the chrome shared by every full page.
type pageMeta struct {
	Title      string
	Heading    string
	Subheading string
	Small      string
}

// builder writes markup and keeps the first write error.
type builder struct {
	w   io.Writer
	err error
}

func (b *builder) raw(parts ...string) {
	for _, s := range parts {
		if b.err != nil {
			return
		}
		_, b.err = io.WriteString(b.w, s)
	}
}

func (b *builder) text(s string) {
	b.raw(templ.EscapeString(s))
}

func (b *builder) render(ctx context.Context, c templ.Component) {
	if b.err != nil || c == nil {
		return
	}
	b.err = c.Render(ctx, b.w)
}

func esc(s string) string {
	return templ.EscapeString(s)
}

// Layout wraps body in the site chrome.
func Layout(loc catalog.Localizer, meta pageMeta, body templ.Component) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<!DOCTYPE html><html lang="`, esc(loc.Locale()), `"><head><meta charset="utf-8">`)
		b.raw(`<meta name="viewport" content="width=device-width, initial-scale=1">`)
		b.raw(`<meta name="htmx-config" content='`, htmxConfig, `'>`)
		b.raw(`<title>`, esc(meta.Title), `</title>`)
		b.raw(`<link rel="stylesheet" href="/static/site.css"><script src="`, htmxScript, `" defer></script></head>`)
		b.raw(`<body><header class="site-header"><div class="container"><a class="brand" href="/">`, esc(loc.T("core.brand")), `</a>`)
		b.raw(`<span class="division">`, esc(loc.T("core.division")), `</span></div></header>`)
		b.raw(`<section class="hero"><div class="container">`)
		if meta.Small != "" {
			b.raw(`<p class="small-label">`, esc(meta.Small), `</p>`)
		}
		b.raw(`<h1>`, esc(meta.Heading), `</h1>`)
		if meta.Subheading != "" {
			b.raw(`<p class="subheading">`, esc(meta.Subheading), `</p>`)
		}
		b.raw(`</div></section><main class="container">`)
		b.render(ctx, body)
		b.raw(`</main><footer class="site-footer"><div class="container">`, esc(loc.T("core.footer")), `</div></footer></body></html>`)
		return b.err
	})
}

// LandingPage is the portal entry page.
func LandingPage(loc catalog.Localizer) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<div class="card"><p>`, esc(loc.T("core.landing.body")), `</p>`)
		b.raw(`<div class="actions"><a class="accent-button" href="`, formPath, `">`, esc(loc.T("core.landing.start")), `</a></div></div>`)
		return b.err
	})
	return Layout(loc, pageMeta{
		Title:      loc.T("core.landing.title"),
		Heading:    loc.T("core.landing.heading"),
		Subheading: loc.T("core.landing.subheading"),
		Small:      loc.T("core.landing.small"),
	}, body)
}

// SuccessPage confirms an accepted submission.
func SuccessPage(loc catalog.Localizer) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<div class="card"><p>`, esc(loc.T("core.success.body")), `</p>`)
		b.raw(`<div class="actions"><a class="accent-button" href="`, formPath, `">`, esc(loc.T("core.success.again")), `</a></div></div>`)
		return b.err
	})
	return Layout(loc, pageMeta{
		Title:      loc.T("core.success.title"),
		Heading:    loc.T("core.success.heading"),
		Subheading: loc.T("core.success.subheading"),
		Small:      loc.T("core.success.small"),
	}, body)
}

// NotFoundPage is served for unknown paths.
func NotFoundPage(loc catalog.Localizer) templ.Component {
	body := templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<div class="card"><p>`, esc(loc.T("core.notfound.body")), `</p><div class="actions">`)
		b.raw(`<a class="accent-button" href="/">`, esc(loc.T("core.notfound.home")), `</a>`)
		b.raw(`<a class="link" href="`, formPath, `">`, esc(loc.T("core.notfound.form")), `</a></div></div>`)
		return b.err
	})
	return Layout(loc, pageMeta{
		Title:      loc.T("core.notfound.title"),
		Heading:    loc.T("core.notfound.heading"),
		Subheading: loc.T("core.notfound.subheading"),
	}, body)
}

// slotView is the rendered state of one upload slot.
type slotView struct {
	Slot    proposal.Slot
	State   proposal.SlotState
	Enabled bool
	// Required marks the document input required for native validation.
	Required bool
	Message  string
	Failed   bool
}

// formView is everything the proposal page shows.
type formView struct {
	Fields     proposal.Fields
	Budget     proposal.Budget
	FeeHelper  string
	Errors     proposal.ValidationErrors
	Notice     string
	Summary    *proposal.Summary
	Phase      proposal.Phase
	Document   slotView
	Supporting slotView
}

// ProposalPage renders the form page, with the confirmation dialog when a
// review is pending.
func ProposalPage(loc catalog.Localizer, view formView) templ.Component {
	body := templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.render(ctx, ProposalForm(loc, view))
		if view.Phase == proposal.PhaseFailed {
			b.raw(`<form class="retry" method="post" action="`, formPath, `/submit">`)
			b.raw(`<button type="submit" class="accent-button">`, esc(loc.T("proposal.retry")), `</button></form>`)
		}
		if view.Summary != nil {
			b.render(ctx, ConfirmDialog(loc, *view.Summary))
		}
		return b.err
	})
	return Layout(loc, pageMeta{
		Title:      loc.T("proposal.title"),
		Heading:    loc.T("proposal.heading"),
		Subheading: loc.T("proposal.subheading"),
		Small:      loc.T("proposal.small"),
	}, body)
}

// ProposalForm renders the multi-section form.
func ProposalForm(loc catalog.Localizer, view formView) templ.Component {
	return templ.ComponentFunc(func(ctx context.Context, w io.Writer) error {
		b := &builder{w: w}
		f := formWriter{b: b, loc: loc, view: view}

		b.raw(`<form id="proposal-form" name="`, proposal.FormName, `" method="post" action="`, formPath, `/review" enctype="multipart/form-data" class="stack">`)
		b.raw(`<input type="hidden" name="`, string(proposal.FieldFormName), `" value="`, proposal.FormName, `">`)
		b.raw(`<p class="hidden"><label>`, esc(loc.T("proposal.honeypot")), ` <input name="`, string(proposal.FieldHoneypot), `"></label></p>`)

		f.section("proposal.section.organizer", func() {
			f.input(proposal.FieldOrganizerFullName, "text", "", false)
			f.input(proposal.FieldOrganizationName, "text", "", false)
			f.input(proposal.FieldOfficialEmail, "email", "", false)
			f.input(proposal.FieldContactNumber, "text", "", false)
			f.input(proposal.FieldDesignation, "text", "", true)
		})
		f.section("proposal.section.event", func() {
			f.input(proposal.FieldEventName, "text", "", false)
			f.selectField(proposal.FieldEventType, proposal.EventTypes)
			f.input(proposal.FieldProposedDates, "text", "proposal.placeholder.proposed_dates", false)
			f.input(proposal.FieldVenueLocation, "text", "proposal.placeholder.venue_location", false)
			f.input(proposal.FieldAudienceSize, "number", "", true)
		})
		f.section("proposal.section.financial", func() {
			f.budget(ctx)
			f.feeRange(ctx)
			f.selectField(proposal.FieldResponsibility, proposal.Responsibilities)
			f.textarea(proposal.FieldSponsorship, 3, "proposal.placeholder.sponsorship")
		})
		f.section("proposal.section.summary", func() {
			f.textarea(proposal.FieldEventDescription, 4, "")
			f.textarea(proposal.FieldGoals, 3, "")
			f.input(proposal.FieldOtherArtistsBrands, "text", "", true)
		})
		f.section("proposal.section.attachments", func() {
			b.raw(`<p class="helper-text wide">`, esc(loc.T("proposal.attachments.help")), `</p>`)
			b.render(ctx, SlotStatus(loc, view.Document))
			b.render(ctx, SlotStatus(loc, view.Supporting))
		})
		f.section("proposal.section.legal", func() {
			b.raw(`<fieldset class="wide agreements">`)
			for _, name := range []proposal.FieldName{
				proposal.FieldAuthAgreement,
				proposal.FieldConfidentialityAck,
				proposal.FieldPaymentTerms,
				proposal.FieldConsentToContact,
			} {
				f.checkbox(name)
			}
			b.raw(`</fieldset>`)
			f.input(proposal.FieldDigitalSignature, "text", "proposal.placeholder.digital_signature", true)
			b.raw(`<p class="helper-text wide">`, esc(loc.T("proposal.antispam")), `</p>`)
		})

		b.raw(`<div class="submit-row"><div><p class="helper-text">`, esc(loc.T("proposal.policy")), `</p>`)
		if view.Notice != "" {
			b.raw(`<p class="error" role="alert">`, esc(view.Notice), `</p>`)
		}
		b.raw(`</div>`)
		if view.Phase == proposal.PhaseSubmitting {
			b.raw(`<button type="submit" class="accent-button" disabled>`, esc(loc.T("proposal.submitting")), `</button>`)
		} else {
			b.raw(`<button type="submit" class="accent-button">`, esc(loc.T("proposal.review")), `</button>`)
		}
		b.raw(`</div></form>`)
		return b.err
	})
}

type formWriter struct {
	b    *builder
	loc  catalog.Localizer
	view formView
}

func (f formWriter) section(titleKey string, fields func()) {
	f.b.raw(`<section class="card"><h2 class="section-title">`, esc(f.loc.T(titleKey)), `</h2><div class="grid">`)
	fields()
	f.b.raw(`</div></section>`)
}

func (f formWriter) label(name proposal.FieldName, required bool) {
	f.b.raw(`<label for="f-`, string(name), `">`, esc(f.loc.T("proposal.field."+string(name))))
	if required {
		f.b.raw(`<span class="req"> *</span>`)
	}
	f.b.raw(`</label>`)
}

func (f formWriter) fieldError(name proposal.FieldName) {
	if reason := f.view.Errors.Reason(name); reason != "" {
		f.b.raw(`<p class="error" id="err-`, string(name), `">`, esc(f.loc.T("proposal.validation."+reason)), `</p>`)
	}
}

func (f formWriter) open(name proposal.FieldName, wide bool) bool {
	rule, _ := proposal.RuleFor(name)
	class := "field"
	if wide {
		class += " wide"
	}
	if f.view.Errors.Has(name) {
		class += " invalid"
	}
	f.b.raw(`<div class="`, class, `">`)
	f.label(name, rule.Required)
	return rule.Required
}

func requiredAttr(required bool) string {
	if required {
		return ` required`
	}
	return ""
}

func (f formWriter) input(name proposal.FieldName, kind, placeholderKey string, wide bool) {
	required := f.open(name, wide)
	f.b.raw(`<input class="input-field" id="f-`, string(name), `" name="`, string(name), `" type="`, kind, `" value="`, esc(f.view.Fields[name]), `"`)
	if placeholderKey != "" {
		f.b.raw(` placeholder="`, esc(f.loc.T(placeholderKey)), `"`)
	}
	if rule, _ := proposal.RuleFor(name); rule.Min != nil {
		f.b.raw(` min="1"`)
	}
	f.b.raw(requiredAttr(required), `>`)
	f.fieldError(name)
	f.b.raw(`</div>`)
}

func (f formWriter) textarea(name proposal.FieldName, rows int, placeholderKey string) {
	required := f.open(name, true)
	f.b.raw(`<textarea class="textarea-field" id="f-`, string(name), `" name="`, string(name), `" rows="`, strconv.Itoa(rows), `"`)
	if placeholderKey != "" {
		f.b.raw(` placeholder="`, esc(f.loc.T(placeholderKey)), `"`)
	}
	f.b.raw(requiredAttr(required), `>`, esc(f.view.Fields[name]), `</textarea>`)
	f.fieldError(name)
	f.b.raw(`</div>`)
}

func (f formWriter) selectField(name proposal.FieldName, options []string) {
	f.open(name, false)
	f.b.raw(`<select class="select-field" id="f-`, string(name), `" name="`, string(name), `">`)
	current := f.view.Fields[name]
	for _, option := range options {
		f.b.raw(`<option`, selectedAttr(option == current), `>`, esc(option), `</option>`)
	}
	f.b.raw(`</select>`)
	f.fieldError(name)
	f.b.raw(`</div>`)
}

func selectedAttr(selected bool) string {
	if selected {
		return ` selected`
	}
	return ""
}

func (f formWriter) checkbox(name proposal.FieldName) {
	rule, _ := proposal.RuleFor(name)
	checked := ""
	if strings.TrimSpace(f.view.Fields[name]) != "" {
		checked = ` checked`
	}
	f.b.raw(`<label class="agreement">`)
	f.b.raw(`<input type="checkbox" name="`, string(name), `" value="on"`, checked, requiredAttr(rule.Required), `>`)
	f.b.raw(`<span>`, esc(f.loc.T("proposal.agreement."+string(name))), `</span></label>`)
	f.fieldError(name)
}

func (f formWriter) budget(ctx context.Context) {
	name := proposal.FieldEstimatedBudgetKRW
	f.open(name, true)
	f.b.raw(`<input class="input-field" id="f-`, string(name), `" name="`, string(name), `" inputmode="numeric" value="`, esc(f.view.Fields[name]), `"`)
	f.b.raw(` placeholder="`, esc(f.loc.T("proposal.placeholder.estimated_budget_krw")), `"`)
	f.b.raw(` hx-post="`, formPath, `/budget" hx-trigger="input changed delay:300ms" hx-target="#budget-helper" hx-swap="outerHTML">`)
	f.b.render(ctx, BudgetHelper(f.view.Budget))
	f.fieldError(name)
	f.b.raw(`</div>`)
}

func (f formWriter) feeRange(ctx context.Context) {
	name := proposal.FieldTalentFeeRange
	f.open(name, false)
	f.b.raw(`<select class="select-field" id="f-`, string(name), `" name="`, string(name), `"`)
	f.b.raw(` hx-post="`, formPath, `/fee-range" hx-trigger="change" hx-target="#fee-range-helper" hx-swap="outerHTML">`)
	current := proposal.FeeRange(f.view.Fields[name])
	f.b.raw(`<option value=""`, selectedAttr(current == proposal.FeeRangeUnset), `>`, esc(f.loc.T("proposal.fee.select")), `</option>`)
	for _, r := range proposal.FeeRanges() {
		f.b.raw(`<option value="`, string(r), `"`, selectedAttr(current == r), `>`, esc(proposal.FeeRangeOptionLabel(r)), `</option>`)
	}
	f.b.raw(`</select>`)
	f.b.render(ctx, FeeRangeHelper(f.view.FeeHelper))
	f.fieldError(name)
	f.b.raw(`</div>`)
}

// BudgetHelper is the KRW and USD line under the budget input.
func BudgetHelper(budget proposal.Budget) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<p id="budget-helper" class="helper-text" data-usd="`, budget.USDValue(), `">`, esc(budget.Display()), `</p>`)
		return b.err
	})
}

// FeeRangeHelper is the selected fee range note. The element is always
// present so it can be swapped.
func FeeRangeHelper(text string) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<p id="fee-range-helper" class="helper-text">`, esc(text), `</p>`)
		return b.err
	})
}

func slotField(slot proposal.Slot) proposal.FieldName {
	if slot == proposal.SlotDocument {
		return proposal.FieldOfficialProposalFile
	}
	return proposal.FieldSupportingMaterials
}

// SlotStatus renders one upload slot: the file input, the upload control and
// what has been uploaded or attached so far.
func SlotStatus(loc catalog.Localizer, view slotView) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		name := string(slotField(view.Slot))
		uploadURL := formPath + "/uploads/" + string(view.Slot)

		b.raw(`<div class="field wide slot" id="slot-`, string(view.Slot), `">`)
		b.raw(`<label for="f-`, name, `">`, esc(loc.T("proposal.field."+name)))
		if view.Slot == proposal.SlotDocument {
			b.raw(`<span class="req"> *</span>`)
		}
		b.raw(`</label><input class="input-field" id="f-`, name, `" name="`, name, `" type="file"`)
		if view.Slot == proposal.SlotDocument {
			b.raw(` accept=".pdf,.doc,.docx,application/pdf,application/msword,application/vnd.openxmlformats-officedocument.wordprocessingml.document"`)
		} else {
			b.raw(` multiple accept="image/*,application/pdf"`)
		}
		b.raw(requiredAttr(view.Required))
		if view.Enabled {
			b.raw(` hx-post="`, uploadURL, `" hx-encoding="multipart/form-data" hx-trigger="change"`)
			b.raw(` hx-target="#slot-`, string(view.Slot), `" hx-swap="outerHTML" hx-indicator="#uploading-`, string(view.Slot), `"`)
		}
		b.raw(`>`)
		if view.Enabled {
			b.raw(`<button type="submit" class="btn-secondary" formaction="`, uploadURL, `" formnovalidate>`, esc(loc.T("proposal.upload.button")), `</button>`)
			b.raw(`<p class="helper-text htmx-indicator" id="uploading-`, string(view.Slot), `">`, esc(loc.T("proposal.upload.uploading")), `</p>`)
		}
		if view.State.Uploading {
			b.raw(`<p class="helper-text">`, esc(loc.T("proposal.upload.uploading")), `</p>`)
		}
		for _, url := range view.State.URLs {
			b.raw(`<p class="helper-text uploaded">`, esc(loc.T("proposal.upload.uploaded", url)), `</p>`)
		}
		if len(view.State.URLs) == 0 {
			for _, file := range view.State.Files {
				b.raw(`<p class="helper-text attached">`, esc(loc.T("proposal.upload.attached", file)), `</p>`)
			}
		}
		if view.Message != "" {
			class := "helper-text"
			if view.Failed {
				class = "error"
			}
			b.raw(`<p class="`, class, `" role="status">`, esc(view.Message), `</p>`)
		}
		b.raw(`</div>`)
		return b.err
	})
}

// ConfirmDialog lists the review snapshot with edit and confirm actions.
func ConfirmDialog(loc catalog.Localizer, summary proposal.Summary) templ.Component {
	return templ.ComponentFunc(func(_ context.Context, w io.Writer) error {
		b := &builder{w: w}
		b.raw(`<div id="confirm-dialog" class="dialog" role="dialog" aria-modal="true" aria-labelledby="confirm-title">`)
		b.raw(`<div class="dialog-backdrop"></div><div class="dialog-panel">`)
		b.raw(`<h3 id="confirm-title">`, esc(loc.T("proposal.confirm.title")), `</h3><dl class="summary">`)
		for _, entry := range summary.Entries {
			b.raw(`<div class="summary-row"><dt>`, esc(entry.Label), `</dt><dd>`, esc(entry.Value), `</dd></div>`)
		}
		b.raw(`</dl><div class="dialog-actions">`)
		b.raw(`<form method="post" action="`, formPath, `/cancel"><button type="submit" class="btn-secondary">`, esc(loc.T("proposal.confirm.edit")), `</button></form>`)
		b.raw(`<form method="post" action="`, formPath, `/confirm"><button type="submit" class="accent-button">`, esc(loc.T("proposal.confirm.submit")), `</button></form>`)
		b.raw(`</div></div></div>`)
		return b.err
	})
}
