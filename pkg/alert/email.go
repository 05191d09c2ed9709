package alert

// EmailChannel is the contract a caller must supply to deliver alerts by
// email. Email delivery (SMTP transport, templating, address validation)
// is explicitly out of scope (spec §1 Non-goals, "credential management
// beyond reading from process-wide configuration" and the general
// exclusion of a concrete mail-sending stack); this interface exists so a
// monitor's alert_channels.email config can be wired to a caller-supplied
// implementation without the engine depending on one.
type EmailChannel interface {
	Channel
	Recipients() []string
}
