package fdisms

import (
	"fmt"
	"strings"
)

const (
	sandboxBaseURL    = "https://messaging-sandbox.fdibiz.com"
	productionBaseURL = "https://messaging.fdibiz.com"
)

// Environment selects which hosted deployment the client talks to.
type Environment string

const (
	// Sandbox is the test deployment. Sandbox credentials do not work
	// against production and vice versa.
	Sandbox Environment = "sandbox"
	// Production is the live deployment.
	Production Environment = "production"
)

// BaseURL returns the root URL for the environment. Anything other than
// Production maps to the sandbox.
func (e Environment) BaseURL() string {
	if e == Production {
		return productionBaseURL
	}
	return sandboxBaseURL
}

// ParseEnvironment maps a configuration string to an Environment. The empty
// string selects the sandbox.
func ParseEnvironment(s string) (Environment, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "sandbox", "test":
		return Sandbox, nil
	case "production", "prod", "live":
		return Production, nil
	default:
		return "", fmt.Errorf("fdisms: unknown environment %q", s)
	}
}
