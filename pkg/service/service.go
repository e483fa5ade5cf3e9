// Package service implements the CLI commands on top of the API client,
// the cart queue, the feed and chat packages.
package service

import (
	"fmt"

	"github.com/zfogg/socialcommerce/cli/pkg/output"
	"github.com/zfogg/socialcommerce/cli/pkg/session"
)

func pluralize(count int) string {
	if count == 1 {
		return ""
	}
	return "s"
}

// requireSession fails fast when there is no usable session
func requireSession(sess *session.Session) error {
	if sess == nil {
		return session.ErrNotLoggedIn
	}
	return sess.Err()
}

func printf(format string, args ...interface{}) {
	fmt.Fprintf(output.Writer(), format, args...)
}
