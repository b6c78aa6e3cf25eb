// Package answer resolves values for every field an interpreted task
// requires. The answer field is computed by strategy: aggregate a linked
// data file when the page asks for it, otherwise take the concrete value
// the page states. Identity fields pass caller parameters through.
package answer
