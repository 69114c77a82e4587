package delivery

import (
	"fmt"

	"github.com/arvandi/otpgate/internal/otp/entity"
)

type emailTemplate struct {
	subject string
	html    string
}

const emailLayout = `<html>
<body style="font-family: Arial, sans-serif; color: #1f2933;">
  <p>Hi {{.full_name}},</p>
  %s
  <p style="font-size: 28px; letter-spacing: 6px; font-weight: bold;">{{.code}}</p>
  <p>This code expires at {{.expires_at}}. If you did not request it, you can ignore this email.</p>
</body>
</html>`

var emailTemplates = map[entity.Purpose]emailTemplate{
	entity.PurposeConfirmEmail: {
		subject: "Confirm your email address",
		html:    fmt.Sprintf(emailLayout, "<p>Use this code to confirm your email address:</p>"),
	},
	entity.PurposeSetPassword: {
		subject: "Set your password",
		html:    fmt.Sprintf(emailLayout, "<p>Use this code to set your password:</p>"),
	},
	entity.PurposeForgetPassword: {
		subject: "Reset your password",
		html:    fmt.Sprintf(emailLayout, "<p>Use this code to reset your password:</p>"),
	},
	entity.PurposeChangeEmail: {
		subject: "Confirm your new email address",
		html:    fmt.Sprintf(emailLayout, "<p>Use this code to confirm your new email address:</p>"),
	},
}
