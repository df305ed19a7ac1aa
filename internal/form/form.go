// Package form binds validation rules to editable field state and gates
// submission on every rule passing.
package form

import (
	"unicode/utf8"

	"github.com/naveenspark/storefront/internal/validate"
)

// maxInputLen is the maximum number of runes a field accepts.
const maxInputLen = 256

// Values maps field names to their submitted text.
type Values map[string]string

// Field is the live state of one registered input.
type Field struct {
	Rule    validate.Rule
	Value   string
	Err     validate.Kind
	Touched bool
}

// Name returns the field name from its rule.
func (f *Field) Name() string { return f.Rule.Field }

// Valid reports whether the last evaluation passed.
func (f *Field) Valid() bool { return f.Err == validate.Absent }

// Message returns the error text to render under the field, if any.
func (f *Field) Message() string { return f.Rule.Message(f.Err) }

// SubmitResult reports the outcome of ValidateAndSubmit.
type SubmitResult struct {
	Submitted bool
	Errors    map[string]validate.Kind
}

// Form is an ordered set of fields with a focus cursor.
type Form struct {
	fields []*Field
	index  map[string]int
	focus  int
}

// New returns a form with one field registered per rule, in order.
func New(rules ...validate.Rule) *Form {
	f := &Form{index: make(map[string]int, len(rules))}
	for _, r := range rules {
		f.Register(r)
	}
	return f
}

// Register adds a field governed by rule. Registering a name twice replaces
// the earlier rule but keeps the field's position.
func (f *Form) Register(rule validate.Rule) *Field {
	if i, ok := f.index[rule.Field]; ok {
		f.fields[i] = &Field{Rule: rule}
		return f.fields[i]
	}
	fld := &Field{Rule: rule}
	f.index[rule.Field] = len(f.fields)
	f.fields = append(f.fields, fld)
	return fld
}

// Field returns the named field or nil.
func (f *Form) Field(name string) *Field {
	if i, ok := f.index[name]; ok {
		return f.fields[i]
	}
	return nil
}

// Fields returns the fields in registration order.
func (f *Form) Fields() []*Field { return f.fields }

// Set replaces a field's value without marking it touched.
func (f *Form) Set(name, value string) {
	if fld := f.Field(name); fld != nil {
		fld.Value = value
	}
}

// Values snapshots every field value.
func (f *Form) Values() Values {
	v := make(Values, len(f.fields))
	for _, fld := range f.fields {
		v[fld.Name()] = fld.Value
	}
	return v
}

// Reset clears values, errors and focus.
func (f *Form) Reset() {
	for _, fld := range f.fields {
		fld.Value = ""
		fld.Err = validate.Absent
		fld.Touched = false
	}
	f.focus = 0
}

// Focused returns the field under the cursor, or nil for an empty form.
func (f *Form) Focused() *Field {
	if len(f.fields) == 0 {
		return nil
	}
	return f.fields[f.focus]
}

// FocusIndex returns the cursor position.
func (f *Form) FocusIndex() int { return f.focus }

// Next moves focus forward, wrapping.
func (f *Form) Next() {
	if n := len(f.fields); n > 0 {
		f.focus = (f.focus + 1) % n
	}
}

// Prev moves focus back, wrapping.
func (f *Form) Prev() {
	if n := len(f.fields); n > 0 {
		f.focus = (f.focus - 1 + n) % n
	}
}

// Edit applies a keystroke to the focused field. Fields that have already
// been through a submit attempt are re-evaluated so their message tracks
// the input.
func (f *Form) Edit(key string) {
	fld := f.Focused()
	if fld == nil {
		return
	}
	fld.Value = EditRune(fld.Value, key)
	if fld.Touched {
		fld.Err = fld.Rule.Check(fld.Value, f.Values())
	}
}

// Validate evaluates every field, marking each as touched.
func (f *Form) Validate() map[string]validate.Kind {
	values := f.Values()
	errs := make(map[string]validate.Kind)
	for _, fld := range f.fields {
		fld.Touched = true
		fld.Err = fld.Rule.Check(fld.Value, values)
		if fld.Err != validate.Absent {
			errs[fld.Name()] = fld.Err
		}
	}
	return errs
}

// ValidateAndSubmit runs every rule and calls submit with the values only
// when all of them pass.
func (f *Form) ValidateAndSubmit(submit func(Values)) SubmitResult {
	errs := f.Validate()
	if len(errs) > 0 {
		return SubmitResult{Errors: errs}
	}
	if submit != nil {
		submit(f.Values())
	}
	return SubmitResult{Submitted: true}
}

// EditRune processes a keystroke for inline text editing.
// Handles backspace (rune-aware) and single printable characters.
// Returns the text unchanged for non-printable keys (enter, esc, etc.).
// Input is clamped to maxInputLen runes.
func EditRune(text string, key string) string {
	switch key {
	case "backspace":
		if len(text) > 0 {
			runes := []rune(text)
			return string(runes[:len(runes)-1])
		}
		return text
	case "space":
		key = " "
	}
	if utf8.RuneCountInString(key) == 1 {
		if utf8.RuneCountInString(text) >= maxInputLen {
			return text
		}
		return text + key
	}
	return text
}
