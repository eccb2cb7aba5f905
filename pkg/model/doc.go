// Package model defines the typed step model shared by validators, navigators
// and renderers. A Step pairs the questions shown to the user with the rule
// table that guards advancement; an AnswerSet carries the values collected for
// that step keyed by field name. Values are either strings (free text, single
// choice) or ordered string sequences (multi-select checkboxes). Rule kinds
// are declared as constants so tables stay statically typed and can be
// checked before use.
package model
