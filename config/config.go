package config

type Config struct {
	EnvConfig *EnvConfig
	Security  *SecurityConfig
}

func NewConfig() *Config {
	env := LoadEnvConfig()
	return &Config{
		EnvConfig: env,
		Security:  NewSecurityConfig(env),
	}
}
