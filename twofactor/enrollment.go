package twofactor

import "errors"

var (
	// ErrCodeFormat is an exported constant or variable used by the session client.
	ErrCodeFormat = errors.New("two-factor code must be exactly six digits")
	// ErrInvalidTransition is an exported constant or variable used by the session client.
	ErrInvalidTransition = errors.New("invalid enrollment step transition")
)

const codeLength = 6

// Step identifies the current position in the enrollment workflow.
type Step uint8

const (
	// StepSetup is an exported constant or variable used by the session client.
	StepSetup Step = iota
	// StepVerify is an exported constant or variable used by the session client.
	StepVerify
	// StepComplete is an exported constant or variable used by the session client.
	StepComplete
)

// String describes the string operation and its observable behavior.
func (s Step) String() string {
	switch s {
	case StepSetup:
		return "setup"
	case StepVerify:
		return "verify"
	case StepComplete:
		return "complete"
	default:
		return "unknown"
	}
}

// ValidateCode is the cheap client-side precondition: exactly six ASCII
// digits. Anything else is rejected before any network round-trip.
func ValidateCode(code string) error {
	if len(code) != codeLength {
		return ErrCodeFormat
	}
	for i := 0; i < len(code); i++ {
		if code[i] < '0' || code[i] > '9' {
			return ErrCodeFormat
		}
	}
	return nil
}

// Enrollment is the transient record for one enrollment attempt. The backup
// codes it carries are shown to the user exactly once during this flow and
// are never re-fetchable.
type Enrollment struct {
	step        Step
	secret      string
	qrPayload   string
	backupCodes []string
}

// NewEnrollment describes the newenrollment operation and its observable behavior.
//
// NewEnrollment does not mutate shared global state and can be used concurrently when the receiver and dependencies are concurrently safe.
func NewEnrollment() *Enrollment {
	return &Enrollment{step: StepSetup}
}

// Step describes the step operation and its observable behavior.
func (e *Enrollment) Step() Step {
	return e.step
}

// Secret describes the secret operation and its observable behavior.
func (e *Enrollment) Secret() string {
	return e.secret
}

// QRPayload describes the qrpayload operation and its observable behavior.
func (e *Enrollment) QRPayload() string {
	return e.qrPayload
}

// BackupCodes describes the backupcodes operation and its observable behavior.
func (e *Enrollment) BackupCodes() []string {
	out := make([]string, len(e.backupCodes))
	copy(out, e.backupCodes)
	return out
}

// Provision stores the server-issued setup material and advances
// setup → verify.
func (e *Enrollment) Provision(secret, qrPayload string, backupCodes []string) error {
	if e.step != StepSetup {
		return ErrInvalidTransition
	}
	if secret == "" || qrPayload == "" || len(backupCodes) == 0 {
		return errors.New("incomplete setup material")
	}

	e.secret = secret
	e.qrPayload = qrPayload
	e.backupCodes = make([]string, len(backupCodes))
	copy(e.backupCodes, backupCodes)
	e.step = StepVerify
	return nil
}

// Back steps verify → setup, discarding the provisioned material so a fresh
// setup call issues a new secret.
func (e *Enrollment) Back() error {
	if e.step != StepVerify {
		return ErrInvalidTransition
	}
	e.secret = ""
	e.qrPayload = ""
	e.backupCodes = nil
	e.step = StepSetup
	return nil
}

// MarkVerified advances verify → complete after the server confirmed the
// code. A failed verification stays in verify.
func (e *Enrollment) MarkVerified() error {
	if e.step != StepVerify {
		return ErrInvalidTransition
	}
	e.step = StepComplete
	return nil
}

// Discard zeroes the record. Callers drop the Enrollment afterwards; the
// secret and backup codes do not outlive the attempt.
func (e *Enrollment) Discard() {
	e.secret = ""
	e.qrPayload = ""
	e.backupCodes = nil
	e.step = StepSetup
}
