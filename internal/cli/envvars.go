package cli

import (
	"os"
	"strings"

	envparse "github.com/caarlos0/env/v11"
)

// baseEnv defines root CLI defaults sourced from GANTRY_* env vars.
type baseEnv struct {
	// Engine is the container engine invocation from GANTRY_ENGINE.
	Engine string `env:"GANTRY_ENGINE"`
}

// pushEnv captures registry credentials for push commands.
type pushEnv struct {
	// Username is the registry username from GANTRY_REGISTRY_USERNAME.
	Username string `env:"GANTRY_REGISTRY_USERNAME"`
	// Password is the registry password from GANTRY_REGISTRY_PASSWORD.
	Password string `env:"GANTRY_REGISTRY_PASSWORD"`
}

// deployEnv captures deploy inputs sourced from GANTRY_* env vars.
type deployEnv struct {
	// Kubeconfig is a kubeconfig path or URI from GANTRY_KUBECONFIG.
	Kubeconfig string `env:"GANTRY_KUBECONFIG"`
}

// parseEnv fills target from GANTRY_* env vars via caarlos0/env.
func parseEnv(target interface{}) error {
	return envparse.Parse(target)
}

// envPresent reports whether a non-empty env var exists.
func envPresent(key string) bool {
	val, ok := os.LookupEnv(key)
	if !ok {
		return false
	}
	return strings.TrimSpace(val) != ""
}
