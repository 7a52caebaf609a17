package core

import "fmt"

// NoticeKind separates recoverable input problems from configuration errors.
type NoticeKind string

const (
	// NoticeInput is a malformed user value replaced by a fallback.
	NoticeInput NoticeKind = "input"
	// NoticeConfig is a selection naming an absent or wrong-class column,
	// reset to the mode default.
	NoticeConfig NoticeKind = "config"
)

// Notice is a non-fatal problem surfaced to the user alongside the results.
type Notice struct {
	Kind       NoticeKind `json:"kind"`
	Field      string     `json:"field"`
	Message    string     `json:"message"`
	Code       string     `json:"code"`
	Substitute string     `json:"substitute,omitempty"`
	Err        error      `json:"-"`
}

func (n Notice) String() string {
	if n.Substitute == "" {
		return fmt.Sprintf("%s: %s (Code: %s)", n.Field, n.Message, n.Code)
	}
	return fmt.Sprintf("%s: %s (Code: %s); using %s", n.Field, n.Message, n.Code, n.Substitute)
}

func newNotice(kind NoticeKind, field string, err error, substitute string) Notice {
	msg := MapError(err)
	return Notice{
		Kind:       kind,
		Field:      field,
		Message:    fmt.Sprintf("%s: %v", msg.Message, err),
		Code:       msg.Code,
		Substitute: substitute,
		Err:        err,
	}
}

func inputNotice(field string, err error, substitute string) Notice {
	return newNotice(NoticeInput, field, err, substitute)
}

func configNotice(field string, err error, substitute string) Notice {
	return newNotice(NoticeConfig, field, err, substitute)
}

// CountNotices returns the number of notices of each kind.
func CountNotices(notices []Notice) (input, config int) {
	for _, n := range notices {
		switch n.Kind {
		case NoticeInput:
			input++
		case NoticeConfig:
			config++
		}
	}
	return input, config
}

// ModeNotice reports a mode name that could not be parsed. The pass runs in
// the default mode.
func ModeNotice(err error) Notice {
	return configNotice(FieldMode, err, ModeTableScatter.Label())
}
