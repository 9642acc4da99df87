package main

import (
	"flag"
	"log"

	"naarad-gateway/internal/config"
	"naarad-gateway/internal/mailer"
)

// Manual SMTP smoke test against the configured transport.
func main() {
	to := flag.String("to", "", "recipient address")
	subject := flag.String("subject", "Test Email from NAARAD", "message subject")
	body := flag.String("body", "This is a test email sent via SMTP", "message body")
	flag.Parse()

	if *to == "" {
		log.Fatal("usage: sendmail -to recipient@example.com")
	}

	cfg := config.LoadConfig()
	m := mailer.NewMailer(cfg)
	if err := m.Send(*to, *subject, *body); err != nil {
		log.Fatalf("Send failed: %v", err)
	}
	log.Printf("Sent to %s via %s:%d", *to, m.Server, m.Port)
}
