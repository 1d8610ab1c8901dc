package config

type Config interface {
	EnvConfig
	CredentialsConfig
}

type EnvConfig interface {
	GetAppName() string
	GetEnv() string
	GetLogLevel() string
}

// CredentialsConfig supplies defaults for the command line flags. A flag given
// on the command line always wins.
type CredentialsConfig interface {
	GetClientID() string
	GetClientSecret() string
	GetAuthURL() string
}

type mainConfig struct {
	EnvVars
	Credentials
}

func New() Config {
	return mainConfig{}
}
