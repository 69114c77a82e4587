// Package passcode generates and verifies one-time passcodes.
//
// Two codecs are provided: HOTP for counter-based codes delivered over
// email or SMS, where the server stores the counter a code was generated
// from, and TOTP for authenticator apps, where both sides derive the
// counter from the current time. Secrets are base32-encoded per RFC 4226.
package passcode
