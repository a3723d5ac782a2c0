package core

// FailureKind classifies why an operation did not succeed
type FailureKind int

const (
	// KindNone marks a successful result
	KindNone FailureKind = iota
	KindMissingInput
	KindMalformedInput
	KindCommandFailed
	KindUnexpected
)

func (k FailureKind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindMissingInput:
		return "missing_input"
	case KindMalformedInput:
		return "malformed_input"
	case KindCommandFailed:
		return "command_failed"
	case KindUnexpected:
		return "unexpected"
	}
	return "unknown"
}

// Result is the outcome of an operation callers branch on by Kind rather
// than by parsing Detail.
type Result struct {
	Kind   FailureKind
	Detail string
}

// Ok returns a successful result
func Ok(detail string) Result {
	return Result{Kind: KindNone, Detail: detail}
}

// Fail returns a failed result of the given kind
func Fail(kind FailureKind, detail string) Result {
	if kind == KindNone {
		kind = KindUnexpected
	}
	return Result{Kind: kind, Detail: detail}
}

// OK reports whether the operation succeeded
func (r Result) OK() bool {
	return r.Kind == KindNone
}
