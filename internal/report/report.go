// Package report mails a summary of an orchestrator run's CP/CSE
// rewrites, grounded on pkg/eval/eval.go's mail.send builtin (same
// gopkg.in/gomail.v2 NewMessage/NewDialer shape, generalized from a
// script-level builtin to a fixed optimization-summary email).
package report

import (
	"fmt"
	"strings"

	"gopkg.in/gomail.v2"
)

// Summary is the set of counts C8's orchestrator gathers after running
// the CP and CSE passes.
type Summary struct {
	SourceFile        string
	CopyPropagations  int
	CommonSubexprs    int
	OutputFile        string
}

// SMTPConfig names the environment-sourced dialer settings (spec SPEC_FULL
// §1/§2); left unexported fields are intentionally absent — callers build
// this directly from os.Getenv the way pkg/eval/eval.go's mail.send does.
type SMTPConfig struct {
	Host string
	Port int
	User string
	Pass string
	From string
}

// Send mails sum to "to" using cfg. From defaults to cfg.User, then to a
// placeholder address, matching mail.send's same fallback chain.
func Send(cfg SMTPConfig, to string, sum Summary) error {
	from := cfg.From
	if from == "" {
		from = cfg.User
	}
	if from == "" {
		from = "noreply@example.com"
	}

	m := gomail.NewMessage()
	m.SetHeader("From", from)
	m.SetHeader("To", to)
	m.SetHeader("Subject", fmt.Sprintf("cstep optimization report: %s", sum.SourceFile))
	m.SetBody("text/plain", body(sum))

	d := gomail.NewDialer(cfg.Host, cfg.Port, cfg.User, cfg.Pass)
	if err := d.DialAndSend(m); err != nil {
		return fmt.Errorf("failed to send report: %w", err)
	}
	return nil
}

func body(sum Summary) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Optimization summary for %s\n\n", sum.SourceFile)
	fmt.Fprintf(&b, "Copy propagations applied: %d\n", sum.CopyPropagations)
	fmt.Fprintf(&b, "Common subexpressions hoisted: %d\n", sum.CommonSubexprs)
	fmt.Fprintf(&b, "Written to: %s\n", sum.OutputFile)
	return b.String()
}
