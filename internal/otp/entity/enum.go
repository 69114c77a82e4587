package entity

type Method int16

const (
	MethodUnknown Method = 0

	// MethodSMS delivers the passcode to the user's phone number.
	MethodSMS Method = 1

	// MethodEmail delivers the passcode to the user's email address.
	MethodEmail Method = 2

	// MethodAuthenticator validates time-based codes from an authenticator
	// app. Nothing is delivered for this method.
	MethodAuthenticator Method = 3
)

func MethodFromString(str string) Method {
	switch str {
	case "SMS":
		return MethodSMS
	case "Email":
		return MethodEmail
	case "Authenticator":
		return MethodAuthenticator
	default:
		return MethodUnknown
	}
}

func (m Method) String() string {
	switch m {
	case MethodSMS:
		return "SMS"
	case MethodEmail:
		return "Email"
	case MethodAuthenticator:
		return "Authenticator"
	default:
		return "Unknown"
	}
}

func (m Method) IsUnknown() bool {
	switch m {
	case MethodSMS, MethodEmail, MethodAuthenticator:
		return false
	default:
		return true
	}
}

type Purpose int16

const (
	PurposeUnknown Purpose = 0

	// PurposeConfirmEmail verifies ownership of a newly registered email.
	PurposeConfirmEmail Purpose = 1

	// PurposeSetPassword authorizes setting a password for the first time.
	PurposeSetPassword Purpose = 2

	// PurposeForgetPassword authorizes a password reset flow.
	PurposeForgetPassword Purpose = 3

	// PurposeChangeEmail verifies ownership of a replacement email.
	PurposeChangeEmail Purpose = 4
)

func PurposeFromString(str string) Purpose {
	switch str {
	case "ConfirmEmail":
		return PurposeConfirmEmail
	case "SetPassword":
		return PurposeSetPassword
	case "ForgetPassword":
		return PurposeForgetPassword
	case "ChangeEmail":
		return PurposeChangeEmail
	default:
		return PurposeUnknown
	}
}

func (p Purpose) String() string {
	switch p {
	case PurposeConfirmEmail:
		return "ConfirmEmail"
	case PurposeSetPassword:
		return "SetPassword"
	case PurposeForgetPassword:
		return "ForgetPassword"
	case PurposeChangeEmail:
		return "ChangeEmail"
	default:
		return "Unknown"
	}
}

func (p Purpose) IsUnknown() bool {
	switch p {
	case PurposeConfirmEmail, PurposeSetPassword, PurposeForgetPassword, PurposeChangeEmail:
		return false
	default:
		return true
	}
}

type Status int16

const (
	StatusUnknown Status = 0

	// StatusActive mean the passcode is current and may still be verified.
	StatusActive Status = 1

	// StatusUsed mean the passcode was verified and consumed.
	StatusUsed Status = 2

	// StatusSkipped mean the passcode was superseded by a newer one before
	// being used.
	StatusSkipped Status = 3
)

func (s Status) String() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusUsed:
		return "Used"
	case StatusSkipped:
		return "Skipped"
	default:
		return "Unknown"
	}
}

func (s Status) IsUnknown() bool {
	switch s {
	case StatusActive, StatusUsed, StatusSkipped:
		return false
	default:
		return true
	}
}
