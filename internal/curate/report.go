package curate

import (
	"fmt"
	"strings"
)

// Kind classifies a validation finding per the failure taxonomy: schema
// conformance, id/reference integrity, referential warnings, and
// informational notes.
type Kind string

const (
	KindSchema    Kind = "schema"
	KindIntegrity Kind = "integrity"
	KindReference Kind = "reference"
	KindNote      Kind = "note"
)

// Severity decides what a finding blocks. Errors block apply; warnings and
// info never do.
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
	SeverityInfo    Severity = "info"
)

// Finding is one validation result tied to a record (or to the change-set /
// catalog as a whole when Record is empty).
type Finding struct {
	Kind     Kind     `json:"kind"`
	Severity Severity `json:"severity"`
	Record   string   `json:"record,omitempty"`
	Field    string   `json:"field,omitempty"`
	Message  string   `json:"message"`
}

func (f Finding) String() string {
	var b strings.Builder
	if f.Record != "" {
		b.WriteString(f.Record)
		if f.Field != "" {
			b.WriteString("." + f.Field)
		}
		b.WriteString(": ")
	}
	b.WriteString(f.Message)
	return b.String()
}

// Report is the structured result of a validation pass. Operations return it
// instead of failing opaquely; only unparsable input short-circuits earlier.
type Report struct {
	Findings []Finding `json:"findings"`
}

func (r *Report) add(kind Kind, sev Severity, record, field, format string, args ...any) {
	r.Findings = append(r.Findings, Finding{
		Kind:     kind,
		Severity: sev,
		Record:   record,
		Field:    field,
		Message:  fmt.Sprintf(format, args...),
	})
}

func (r *Report) errorf(kind Kind, record, field, format string, args ...any) {
	r.add(kind, SeverityError, record, field, format, args...)
}

func (r *Report) warnf(kind Kind, record, field, format string, args ...any) {
	r.add(kind, SeverityWarning, record, field, format, args...)
}

func (r *Report) notef(record, format string, args ...any) {
	r.add(KindNote, SeverityInfo, record, "", format, args...)
}

// Errors returns the findings that block an apply.
func (r *Report) Errors() []Finding { return r.bySeverity(SeverityError) }

// Warnings returns the non-blocking findings.
func (r *Report) Warnings() []Finding { return r.bySeverity(SeverityWarning) }

// Notes returns the informational findings.
func (r *Report) Notes() []Finding { return r.bySeverity(SeverityInfo) }

func (r *Report) bySeverity(sev Severity) []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if f.Severity == sev {
			out = append(out, f)
		}
	}
	return out
}

// HasErrors reports whether the apply must be rejected.
func (r *Report) HasErrors() bool {
	for _, f := range r.Findings {
		if f.Severity == SeverityError {
			return true
		}
	}
	return false
}

// Render formats the report as the human-readable listing printed by the
// CLI: errors, then warnings, then notes.
func (r *Report) Render() string {
	var b strings.Builder
	if errs := r.Errors(); len(errs) > 0 {
		fmt.Fprintf(&b, "Errors (%d):\n", len(errs))
		for _, f := range errs {
			fmt.Fprintf(&b, "  x %s\n", f)
		}
	}
	if warns := r.Warnings(); len(warns) > 0 {
		fmt.Fprintf(&b, "Warnings (%d):\n", len(warns))
		for _, f := range warns {
			fmt.Fprintf(&b, "  ! %s\n", f)
		}
	}
	if notes := r.Notes(); len(notes) > 0 {
		fmt.Fprintf(&b, "Notes (%d):\n", len(notes))
		for _, f := range notes {
			fmt.Fprintf(&b, "  ~ %s\n", f)
		}
	}
	if b.Len() == 0 {
		return "No findings.\n"
	}
	return b.String()
}
