package config

import (
	"strings"

	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix prefixes every environment variable read by parseEnv,
// e.g. PRESSROOM_DATABASE_DSN or PRESSROOM_CACHE_TTL=30m.
const EnvPrefix = "PRESSROOM_"

// parseEnv overlays PRESSROOM_* variables onto config using the koanf tags
// of Config. Variables that are not set leave the field untouched.
func parseEnv(config *Config) {
	k := koanf.New(".")

	transform := func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}

	if err := k.Load(env.Provider(EnvPrefix, ".", transform), nil); err != nil {
		panic(err)
	}

	if err := k.Unmarshal("", config); err != nil {
		panic(err)
	}
}
