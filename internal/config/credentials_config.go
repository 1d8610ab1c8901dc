package config

const (
	clientIDVar     = "BEARER_CLIENT_ID"
	clientSecretVar = "BEARER_CLIENT_SECRET"
	authURLVar      = "BEARER_AUTH_URL"
)

type Credentials struct{}

var _ CredentialsConfig = Credentials{}

func (Credentials) GetClientID() string {
	return GetEnv(clientIDVar, "")
}

func (Credentials) GetClientSecret() string {
	return GetEnv(clientSecretVar, "")
}

func (Credentials) GetAuthURL() string {
	return GetEnv(authURLVar, "")
}
