package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jrsteele09/bearer-token-cli/internal/config"
	"github.com/jrsteele09/bearer-token-cli/internal/logger"
	"github.com/jrsteele09/bearer-token-cli/oauthmodel"
	"github.com/jrsteele09/bearer-token-cli/token"
	"github.com/jrsteele09/bearer-token-cli/token/jwt"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"golang.org/x/oauth2"
)

// Exit codes. ExitSoftware is EX_SOFTWARE from sysexits.h.
const (
	ExitOK       = 0
	ExitUsage    = 2
	ExitSoftware = 70
)

// Streams are the process's standard streams. Only the export line goes to Out.
type Streams struct {
	In  io.Reader
	Out io.Writer
	Err io.Writer
}

type options struct {
	clientID     string
	clientSecret string
	authURL      string
	post         bool
	debug        bool
}

type usageError struct {
	err error
}

func (e *usageError) Error() string { return e.err.Error() }
func (e *usageError) Unwrap() error { return e.err }

func usageErrorf(format string, args ...interface{}) error {
	return &usageError{err: fmt.Errorf(format, args...)}
}

// Execute runs the command with args and returns the process exit code.
func Execute(ctx context.Context, args []string, streams Streams, c config.Config) int {
	if args == nil {
		// cobra falls back to os.Args for a nil slice
		args = []string{}
	}
	cmd := NewRootCmd(c, streams)
	cmd.SetArgs(args)

	err := cmd.ExecuteContext(ctx)
	if err == nil {
		return ExitOK
	}

	var ue *usageError
	if errors.As(err, &ue) {
		fmt.Fprintf(streams.Err, "Error: %s\n\n%s", ue, cmd.UsageString())
		return ExitUsage
	}

	// Already logged where it happened.
	return ExitSoftware
}

// NewRootCmd builds the bearer token command.
func NewRootCmd(c config.Config, streams Streams) *cobra.Command {
	opts := &options{}

	cmd := &cobra.Command{
		Use:           "bearer-token --id <client id> --auth <url> [--secret <client secret>]",
		Short:         "Retrieve a Bearer Token for authentication to an API",
		Long:          "Retrieve an OAuth2 access token with the client credentials grant and print\nan export statement for use with curl or wget:\n\n  eval \"$(bearer-token -i my-client -a https://auth.example.com/oauth/token)\"",
		Version:       versionText(c.GetAppName()),
		SilenceErrors: true,
		SilenceUsage:  true,
		Args: func(_ *cobra.Command, args []string) error {
			if len(args) > 0 {
				return usageErrorf("unexpected arguments %q", args)
			}
			return nil
		},
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.complete(cmd.Flags(), c, streams)
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			return opts.run(cmd.Context(), c, streams)
		},
	}
	cmd.SetIn(streams.In)
	cmd.SetOut(streams.Out)
	cmd.SetErr(streams.Err)
	cmd.SetVersionTemplate("{{.Version}}\n")
	cmd.SetFlagErrorFunc(func(_ *cobra.Command, err error) error {
		return &usageError{err: err}
	})

	flags := cmd.Flags()
	flags.StringVarP(&opts.clientID, "id", "i", "", "Client Id")
	flags.StringVarP(&opts.clientSecret, "secret", "s", "", "Client Secret (prompted interactively)")
	flags.StringVarP(&opts.authURL, "auth", "a", "", "Authorization Server URL (without arguments)")
	flags.BoolVar(&opts.post, "post", false, "Send the credentials in a form encoded POST body instead of the query string")
	flags.BoolVarP(&opts.debug, "debug", "d", false, "Turn on debug logging")
	flags.BoolP("version", "V", false, "Print version information and quit")

	return cmd
}

// complete fills unset flags from the environment and prompts for a missing
// secret.
func (o *options) complete(flags *pflag.FlagSet, c config.CredentialsConfig, streams Streams) error {
	if !flags.Changed("id") {
		o.clientID = c.GetClientID()
	}
	if !flags.Changed("auth") {
		o.authURL = c.GetAuthURL()
	}
	if !flags.Changed("secret") {
		o.clientSecret = c.GetClientSecret()
	}

	var missing []string
	if o.clientID == "" {
		missing = append(missing, `"id"`)
	}
	if o.authURL == "" {
		missing = append(missing, `"auth"`)
	}
	if len(missing) > 0 {
		return usageErrorf("required flag(s) %s not set", strings.Join(missing, ", "))
	}

	if o.clientSecret == "" {
		secret, err := promptSecret(streams.In, streams.Err)
		if err != nil {
			return &usageError{err: err}
		}
		if secret == "" {
			return usageErrorf("a client secret is required")
		}
		o.clientSecret = secret
	}
	return nil
}

func (o *options) run(ctx context.Context, c config.EnvConfig, streams Streams) error {
	level := c.GetLogLevel()
	if o.debug {
		level = "debug"
	}
	runID := uuid.New().String()
	log.Logger = logger.Setup(c.GetEnv(), level, streams.Err).With().Str("run_id", runID).Logger()

	fetcher := token.NewFetcher(token.WithRequestID(runID))

	var tok *oauth2.Token
	if o.post {
		req, err := oauthmodel.NewClientCredentialsRequest(o.authURL, o.clientID, o.clientSecret)
		if err != nil {
			return err
		}
		if tok, err = fetcher.PostToken(ctx, req.AuthURL, req.Form()); err != nil {
			return err
		}
	} else {
		authURL, err := oauthmodel.BuildAuthURL(o.authURL, o.clientID, o.clientSecret)
		if err != nil {
			return err
		}
		if tok, err = fetcher.FetchToken(ctx, authURL); err != nil {
			return err
		}
	}

	describe(tok)

	if err := WriteExport(streams.Out, tok.AccessToken); err != nil {
		log.Error().Err(err).Msg("Unable to write the export statement")
		return err
	}
	return nil
}

// describe logs what can be read from the token. It never fails the run.
func describe(tok *oauth2.Token) {
	summary, err := jwt.Inspect(tok.AccessToken)
	if err != nil {
		log.Debug().Msg("Access token is opaque")
		return
	}

	ev := log.Debug().
		Str("sub", summary.Subject).
		Str("iss", summary.Issuer).
		Strs("aud", summary.Audience).
		Str("client_id", summary.ClientID).
		Str("scope", summary.Scope)
	if summary.ExpiresAt != nil {
		ev = ev.Time("exp", *summary.ExpiresAt)
	}
	ev.Msg("Access token claims")

	if summary.Expired(time.Now()) {
		log.Warn().Time("exp", *summary.ExpiresAt).Msg("Access token has already expired")
	}
}
