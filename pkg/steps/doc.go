// Package steps holds wizard step definitions. The Medical History step is
// declared as a Go table so its rules are statically typed; hosts can add
// further steps from JSON or YAML files through LoadFS, which rejects
// malformed rule tables before they reach a validator.
package steps
