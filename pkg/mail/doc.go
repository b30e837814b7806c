// Package mail owns the outbound SMTP transport lifecycle and the send
// gateway that relays transactional email through it. The Manager verifies
// and retries the relay connection; the Gateway validates requests and
// performs a single send attempt per request.
package mail
