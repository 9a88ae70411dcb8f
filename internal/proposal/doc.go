// Package proposal models one visitor's proposal form session.
//
// A Session owns the raw field values, derives the display values that depend
// on them (budget conversion, fee range helper), tracks the two upload slots
// and enforces the review-then-confirm gate before anything is sent to the
// form backend. It has no HTTP or HTML knowledge; collaborators are reached
// through the Submitter, Uploader and RateSource ports.
package proposal
