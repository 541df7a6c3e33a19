// Package web is the browser renderer of thermo-slots.
//
// It binds each browser to a session through a signed cookie, renders the
// panel as an HTML page with plain form posts (no JavaScript), and offers the
// same operations as a small JSON API. Notices are stored as cookie flashes,
// so they are shown on exactly one render.
package web
