package web

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"mime/multipart"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/stagedoor/proposals/internal/platform/i18n/catalog"
	"github.com/stagedoor/proposals/internal/platform/metrics"
	"github.com/stagedoor/proposals/internal/proposal"
	"github.com/stagedoor/proposals/internal/services/shared/htmx"
	"github.com/stagedoor/proposals/internal/services/shared/i18nhttp"
)

const (
	formPath    = "/artist-booking/proposal-form"
	successPath = "/success"

	defaultMaxUploadBytes = 32 << 20
	multipartMemory       = 8 << 20
)

var errNoFiles = errors.New("no files posted")

type handlers struct {
	sessions       *SessionStore
	submitter      proposal.Submitter
	uploader       proposal.Uploader
	rates          proposal.RateSource
	catalog        *catalog.Bundle
	metrics        *metrics.Metrics
	maxUploadBytes int64
}

func (h *handlers) localizer(w http.ResponseWriter, r *http.Request) catalog.Localizer {
	return i18nhttp.Localizer(w, r, h.catalog)
}

// session resolves the cookie session and starts the rate lookup for new
// sessions.
func (h *handlers) session(w http.ResponseWriter, r *http.Request) (string, *proposal.Session) {
	id, sess, created := h.sessions.Resolve(w, r)
	if created && h.rates != nil {
		sess.RefreshRate(context.WithoutCancel(r.Context()), h.rates)
	}
	return id, sess
}

func (h *handlers) landing(w http.ResponseWriter, r *http.Request) {
	htmx.Render(w, r, http.StatusOK, nil, LandingPage(h.localizer(w, r)))
}

func (h *handlers) success(w http.ResponseWriter, r *http.Request) {
	htmx.Render(w, r, http.StatusOK, nil, SuccessPage(h.localizer(w, r)))
}

func (h *handlers) notFound(w http.ResponseWriter, r *http.Request) {
	htmx.Render(w, r, http.StatusNotFound, nil, NotFoundPage(h.localizer(w, r)))
}

func (h *handlers) healthz(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	_, _ = io.WriteString(w, "ok")
}

func (h *handlers) showForm(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	_, sess := h.session(w, r)
	h.renderForm(w, r, http.StatusOK, loc, h.buildView(loc, sess, nil))
}

func (h *handlers) budget(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	_, sess := h.session(w, r)
	if !h.parseForm(w, r) {
		return
	}
	status := http.StatusOK
	if err := sess.UpdateField(proposal.FieldEstimatedBudgetKRW, r.PostForm.Get(string(proposal.FieldEstimatedBudgetKRW))); err != nil {
		status = http.StatusConflict
	}
	htmx.Render(w, r, status, BudgetHelper(sess.Budget()), ProposalPage(loc, h.buildView(loc, sess, nil)))
}

func (h *handlers) feeRange(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	_, sess := h.session(w, r)
	if !h.parseForm(w, r) {
		return
	}
	status := http.StatusOK
	if err := sess.UpdateField(proposal.FieldTalentFeeRange, r.PostForm.Get(string(proposal.FieldTalentFeeRange))); err != nil {
		status = http.StatusConflict
	}
	htmx.Render(w, r, status, FeeRangeHelper(sess.FeeRangeHelper()), ProposalPage(loc, h.buildView(loc, sess, nil)))
}

func (h *handlers) upload(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	slot, err := proposal.ParseSlot(chi.URLParam(r, "slot"))
	if err != nil {
		h.notFound(w, r)
		return
	}
	_, sess := h.session(w, r)
	if !h.parseForm(w, r) {
		return
	}
	if err := h.applyFields(sess, r); err != nil && !errors.Is(err, proposal.ErrSessionClosed) && !errors.Is(err, proposal.ErrSubmissionInFlight) {
		log.Printf("apply proposal fields: %v", err)
	}

	files, err := readFiles(r, slotField(slot), h.maxUploadBytes)
	status := http.StatusOK
	var slotMsg string
	switch {
	case errors.Is(err, errNoFiles):
		status = http.StatusBadRequest
	case err != nil:
		log.Printf("read %s upload: %v", slot, err)
		status = http.StatusBadRequest
		slotMsg = loc.T(uploadFailedKey(slot))
	default:
		status, slotMsg = h.uploadSlot(r.Context(), loc, sess, slot, files)
	}

	view := h.buildView(loc, sess, nil)
	target := &view.Supporting
	if slot == proposal.SlotDocument {
		target = &view.Document
	}
	if slotMsg != "" {
		target.Message = slotMsg
		target.Failed = status != http.StatusOK
	}
	htmx.Render(w, r, status, SlotStatus(loc, *target), ProposalPage(loc, view))
}

// uploadSlot stores files in slot and maps the outcome to a status and an
// optional slot message.
func (h *handlers) uploadSlot(ctx context.Context, loc catalog.Localizer, sess *proposal.Session, slot proposal.Slot, files []proposal.File) (int, string) {
	report, err := sess.UploadToSlot(ctx, slot, files, h.uploader)
	switch {
	case report.Skipped:
		h.metrics.Upload(string(slot), metrics.OutcomeSkipped, len(files))
	default:
		h.metrics.Upload(string(slot), metrics.OutcomeSuccess, len(report.URLs))
		h.metrics.Upload(string(slot), metrics.OutcomeFailure, len(report.Failures))
	}

	switch {
	case err == nil:
		return http.StatusOK, ""
	case errors.Is(err, proposal.ErrSlotBusy):
		return http.StatusConflict, loc.T("proposal.upload.busy")
	case errors.Is(err, proposal.ErrSessionClosed):
		return http.StatusConflict, loc.T("proposal.error.closed")
	case errors.Is(err, proposal.ErrSubmissionInFlight):
		return http.StatusConflict, loc.T("proposal.error.in_flight")
	case errors.Is(err, proposal.ErrPrimaryFileCount):
		return http.StatusBadRequest, loc.T(uploadFailedKey(slot))
	case len(report.Failures) > 0:
		return http.StatusBadGateway, loc.T(uploadFailedKey(slot))
	default:
		log.Printf("upload to %s slot: %v", slot, err)
		return http.StatusInternalServerError, loc.T(uploadFailedKey(slot))
	}
}

func uploadFailedKey(slot proposal.Slot) string {
	if slot == proposal.SlotDocument {
		return "proposal.upload.document_failed"
	}
	return "proposal.upload.supporting_failed"
}

func (h *handlers) review(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	_, sess := h.session(w, r)
	if !h.parseForm(w, r) {
		return
	}
	if err := h.applyFields(sess, r); errors.Is(err, proposal.ErrSessionClosed) {
		htmx.Redirect(w, r, successPath)
		return
	}

	slotMessages := map[proposal.Slot]string{}
	for _, slot := range []proposal.Slot{proposal.SlotDocument, proposal.SlotSupporting} {
		files, err := readFiles(r, slotField(slot), h.maxUploadBytes)
		if errors.Is(err, errNoFiles) {
			continue
		}
		if err == nil {
			if slot == proposal.SlotDocument && len(files) > 1 {
				files = files[:1]
			}
			_, msg := h.uploadSlot(r.Context(), loc, sess, slot, files)
			if msg != "" {
				slotMessages[slot] = msg
			}
			continue
		}
		slotMessages[slot] = loc.T(uploadFailedKey(slot))
	}

	_, err := sess.RequestReview()
	h.metrics.Review(err)

	var verrs proposal.ValidationErrors
	view := h.buildView(loc, sess, nil)
	status := http.StatusOK
	switch {
	case err == nil:
	case errors.As(err, &verrs):
		view = h.buildView(loc, sess, verrs)
		view.Notice = loc.T("proposal.error.invalid")
		status = http.StatusUnprocessableEntity
	case errors.Is(err, proposal.ErrSubmissionInFlight):
		view.Notice = loc.T("proposal.error.in_flight")
		status = http.StatusConflict
	case errors.Is(err, proposal.ErrSessionClosed):
		htmx.Redirect(w, r, successPath)
		return
	default:
		log.Printf("request review: %v", err)
		status = http.StatusInternalServerError
	}
	applySlotMessages(&view, slotMessages)
	h.renderForm(w, r, status, loc, view)
}

func applySlotMessages(view *formView, messages map[proposal.Slot]string) {
	if msg, ok := messages[proposal.SlotDocument]; ok {
		view.Document.Message, view.Document.Failed = msg, true
	}
	if msg, ok := messages[proposal.SlotSupporting]; ok {
		view.Supporting.Message, view.Supporting.Failed = msg, true
	}
}

func (h *handlers) cancel(w http.ResponseWriter, r *http.Request) {
	loc := h.localizer(w, r)
	_, sess := h.session(w, r)
	status := http.StatusOK
	switch err := sess.Cancel(); {
	case err == nil:
	case errors.Is(err, proposal.ErrSessionClosed):
		htmx.Redirect(w, r, successPath)
		return
	default:
		status = http.StatusConflict
	}
	h.renderForm(w, r, status, loc, h.buildView(loc, sess, nil))
}

func (h *handlers) confirm(w http.ResponseWriter, r *http.Request) {
	id, sess := h.session(w, r)
	h.finishSubmission(w, r, id, sess, sess.Confirm(r.Context(), h.submitter))
}

func (h *handlers) submit(w http.ResponseWriter, r *http.Request) {
	id, sess := h.session(w, r)
	h.finishSubmission(w, r, id, sess, sess.Submit(r.Context(), h.submitter))
}

func (h *handlers) finishSubmission(w http.ResponseWriter, r *http.Request, id string, sess *proposal.Session, err error) {
	if err == nil {
		h.sessions.Discard(w, r, id)
		htmx.Redirect(w, r, successPath)
		return
	}
	loc := h.localizer(w, r)
	view := h.buildView(loc, sess, nil)
	status := http.StatusConflict
	switch {
	case errors.Is(err, proposal.ErrSubmissionFailed):
		view.Notice = loc.T("proposal.error.submit")
		status = http.StatusBadGateway
	case errors.Is(err, proposal.ErrSubmissionInFlight):
		view.Notice = loc.T("proposal.error.in_flight")
	case errors.Is(err, proposal.ErrSessionClosed):
		htmx.Redirect(w, r, successPath)
		return
	case errors.Is(err, proposal.ErrInvalidTransition):
	default:
		log.Printf("submit proposal: %v", err)
		view.Notice = loc.T("proposal.error.submit")
		status = http.StatusInternalServerError
	}
	h.renderForm(w, r, status, loc, view)
}

func (h *handlers) renderForm(w http.ResponseWriter, r *http.Request, status int, loc catalog.Localizer, view formView) {
	htmx.Render(w, r, status, nil, ProposalPage(loc, view))
}

// buildView snapshots the session for rendering.
func (h *handlers) buildView(loc catalog.Localizer, sess *proposal.Session, verrs proposal.ValidationErrors) formView {
	enabled := sess.UploadsEnabled()
	document := sess.Slot(proposal.SlotDocument)
	view := formView{
		Fields:    sess.Fields(),
		Budget:    sess.Budget(),
		FeeHelper: sess.FeeRangeHelper(),
		Errors:    verrs,
		Phase:     sess.Phase(),
		Document: slotView{
			Slot:     proposal.SlotDocument,
			State:    document,
			Enabled:  enabled,
			Required: !enabled && len(document.Files) == 0 && len(document.URLs) == 0,
		},
		Supporting: slotView{
			Slot:    proposal.SlotSupporting,
			State:   sess.Slot(proposal.SlotSupporting),
			Enabled: enabled,
		},
	}
	if reason := verrs.Reason(proposal.FieldOfficialProposalFile); reason != "" {
		view.Document.Message = loc.T("proposal.validation." + reason)
		view.Document.Failed = true
	}
	if summary, ok := sess.Summary(); ok {
		view.Summary = &summary
	}
	if view.Phase == proposal.PhaseFailed && sess.LastError() != nil {
		view.Notice = loc.T("proposal.error.submit")
	}
	return view
}

// parseForm reads a urlencoded or multipart body capped at the upload limit.
func (h *handlers) parseForm(w http.ResponseWriter, r *http.Request) bool {
	limit := h.maxUploadBytes
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	if r.ContentLength > limit {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return false
	}
	r.Body = http.MaxBytesReader(w, r.Body, limit)

	var err error
	if strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/") {
		err = r.ParseMultipartForm(multipartMemory)
	} else {
		err = r.ParseForm()
	}
	if err == nil {
		return true
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		http.Error(w, http.StatusText(http.StatusRequestEntityTooLarge), http.StatusRequestEntityTooLarge)
		return false
	}
	http.Error(w, http.StatusText(http.StatusBadRequest), http.StatusBadRequest)
	return false
}

// applyFields copies the posted form into the session. Only full form posts,
// recognised by the form-name marker, are applied: an absent checkbox then
// means unchecked.
func (h *handlers) applyFields(sess *proposal.Session, r *http.Request) error {
	if r.PostForm.Get(string(proposal.FieldFormName)) == "" {
		return nil
	}
	values := make(map[proposal.FieldName]string, len(proposal.DeclaredFields()))
	for _, name := range proposal.DeclaredFields() {
		values[name] = r.PostForm.Get(string(name))
	}
	sess.SetHoneypot(r.PostForm.Get(string(proposal.FieldHoneypot)))
	return sess.UpdateFields(values)
}

// readFiles loads the posted files for field.
func readFiles(r *http.Request, field proposal.FieldName, limit int64) ([]proposal.File, error) {
	if r.MultipartForm == nil {
		return nil, errNoFiles
	}
	headers := r.MultipartForm.File[string(field)]
	if len(headers) == 0 {
		return nil, errNoFiles
	}
	files := make([]proposal.File, 0, len(headers))
	for _, header := range headers {
		file, err := readFile(header, limit)
		if err != nil {
			return nil, err
		}
		files = append(files, file)
	}
	return files, nil
}

func readFile(header *multipart.FileHeader, limit int64) (proposal.File, error) {
	src, err := header.Open()
	if err != nil {
		return proposal.File{}, fmt.Errorf("open %s: %w", header.Filename, err)
	}
	defer src.Close()
	if limit <= 0 {
		limit = defaultMaxUploadBytes
	}
	data, err := io.ReadAll(io.LimitReader(src, limit))
	if err != nil {
		return proposal.File{}, fmt.Errorf("read %s: %w", header.Filename, err)
	}
	contentType := header.Header.Get("Content-Type")
	if contentType == "" {
		contentType = http.DetectContentType(data)
	}
	return proposal.File{Name: header.Filename, ContentType: contentType, Data: data}, nil
}
