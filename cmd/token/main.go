// Command token prints a signed bearer token for local testing.
package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/BruksfildServices01/slot-scheduler/internal/identity"
)

func main() {
	var (
		subject = flag.String("sub", "", "requester id placed in the sub claim")
		role    = flag.String("role", identity.RoleRequester, "requester or admin")
		secret  = flag.String("secret", getenv("JWT_SECRET", "changeme"), "HS256 signing secret")
		ttl     = flag.Duration("ttl", 24*time.Hour, "token lifetime")
	)
	flag.Parse()

	if strings.TrimSpace(*subject) == "" {
		fatal("-sub is required")
	}

	tok, err := identity.NewTokens(*secret, *ttl).Issue(*subject, *role)
	if err != nil {
		fatal(err.Error())
	}
	fmt.Println(tok)
}

func getenv(k, def string) string {
	if v := os.Getenv(k); v != "" {
		return v
	}
	return def
}

func fatal(msg string) {
	fmt.Fprintln(os.Stderr, msg)
	os.Exit(1)
}
