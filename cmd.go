package main

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

// Exit codes
const (
	exitCancelled    = 1
	exitInvalidInput = 2
	exitFailed       = 3
)

// Output formats
const (
	formatText = "text"
	formatJSON = "json"
)

var errTerminalOutput = errors.New("refusing to write a credential to a terminal; redirect or pipe standard output")

// ExitError signals a non-zero exit code without calling os.Exit in RunE handlers.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	if e.Err != nil {
		return e.Err.Error()
	}
	return fmt.Sprintf("exit status %d", e.Code)
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

type promptOptions struct {
	caption     string
	message     string
	username    string
	target      string
	format      string
	configPath  string
	modern      bool
	verify      bool
	passthrough bool
	debug       bool

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer

	newDialog func(caption, message string, variant UIVariant) (*Dialog, error)
	verifyFn  func(*Credential) error
	lock      func() (release func(), err error)
}

func defaultPromptOptions() *promptOptions {
	return &promptOptions{
		format:    formatText,
		stdin:     os.Stdin,
		stdout:    os.Stdout,
		stderr:    os.Stderr,
		newDialog: NewDialog,
		verifyFn:  verifyCredential,
		lock: func() (func(), error) {
			if err := EnsureSingleInstance(); err != nil {
				return nil, err
			}
			return ReleaseSingleInstance, nil
		},
	}
}

func newRootCmd() *cobra.Command {
	return newRootCommand(defaultPromptOptions())
}

func newRootCommand(opts *promptOptions) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wincred",
		Short: "Ask for a username and password with the native Windows credential dialog",
		Long: `wincred shows the Windows credential dialog and writes the captured
username and password to standard output for a calling script.

The credential is only written to a pipe or a file, never to a terminal.
Exit status is 1 when the user cancels, 2 for invalid input and 3 when the
dialog or the verification fails.`,
		Example: `  # Legacy dialog, text output
  wincred --caption "Sign in" --message "Enter domain creds" --username alice | my-script

  # Vista+ dialog, JSON output, verified with SSPI
  wincred --modern --verify --format json > cred.json

  # Return an existing credential unchanged
  printf 'username=alice\npassword=secret\n' | wincred --passthrough`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cmd.SilenceErrors = true
			cmd.SilenceUsage = true

			configPath := resolveConfigPath(opts.configPath)
			cfg, cfgErr := loadConfigOrDefault(configPath)
			if cfgErr != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: ignoring config file: %v\n", cfgErr)
			}
			if err := InitLoggerWithConfig(cfg.GetLogConfigWithDefaults()); err != nil {
				_, _ = fmt.Fprintf(cmd.ErrOrStderr(), "Warning: Failed to initialize logger: %v\n", err)
			}
			SetLogLevel(opts.debug)
			LogStartup()
			if cfgErr != nil {
				LogWarn("Ignoring config file %s: %v", configPath, cfgErr)
			} else {
				LogConfigLoaded(configPath, cfg.ModernDialog, cfg.Verify)
			}

			opts.applyConfig(cfg, cmd.Flags().Changed)
			opts.stdin = cmd.InOrStdin()
			opts.stdout = cmd.OutOrStdout()
			opts.stderr = cmd.ErrOrStderr()
			return runPrompt(opts)
		},
	}

	f := cmd.Flags()
	f.StringVar(&opts.caption, "caption", "", "dialog caption (default \""+DefaultCaption+"\")")
	f.StringVar(&opts.message, "message", "", "dialog message (default \""+DefaultMessage+"\")")
	f.StringVarP(&opts.username, "username", "u", "", "username to pre-fill")
	f.StringVar(&opts.target, "target", "", "target name for the legacy dialog (default \""+DefaultTarget+"\")")
	f.BoolVar(&opts.modern, "modern", false, "use the Vista+ credential dialog")
	f.BoolVar(&opts.verify, "verify", false, "verify the credential with an SSPI handshake before returning it")
	f.BoolVar(&opts.passthrough, "passthrough", false, "read username= and password= lines from stdin and return them without prompting")
	f.StringVarP(&opts.format, "format", "o", formatText, "output format: text or json")
	f.BoolVar(&opts.debug, "debug", false, "enable debug logging")
	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "config file (default is $HOME/.config/wincred/wincred.json)")

	cmd.AddCommand(newConfigCmd(&opts.configPath))
	cmd.AddCommand(newVersionCmd())
	return cmd
}

func newConfigCmd(configPath *string) *cobra.Command {
	configCmd := &cobra.Command{
		Use:   "config",
		Short: "Manage the wincred configuration file",
	}
	configCmd.AddCommand(&cobra.Command{
		Use:   "init",
		Short: "Write a default configuration file if none exists",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			path := resolveConfigPath(*configPath)
			created, err := CreateDefaultConfig(path)
			if err != nil {
				return fmt.Errorf("failed to write config: %w", err)
			}
			if created {
				fmt.Fprintf(cmd.OutOrStdout(), "Created %s\n", path)
			} else {
				fmt.Fprintf(cmd.OutOrStdout(), "%s already exists\n", path)
			}
			return nil
		},
	})
	configCmd.AddCommand(&cobra.Command{
		Use:   "path",
		Short: "Print the configuration and log file locations",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			path := resolveConfigPath(*configPath)
			fmt.Fprintf(cmd.OutOrStdout(), "config: %s\nlog:    %s\n", path, GetLogPath())
		},
	})
	return configCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "wincred %s\n", getVersionString())
		},
	}
}

func resolveConfigPath(path string) string {
	if path == "" {
		return DefaultConfigPath()
	}
	return path
}

// loadConfigOrDefault returns an empty config when the file is missing or
// unreadable. A missing file is not an error.
func loadConfigOrDefault(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return &Config{}, nil
		}
		return &Config{}, err
	}
	return cfg, nil
}

// applyConfig fills every option the user did not set on the command line
func (o *promptOptions) applyConfig(cfg *Config, changed func(name string) bool) {
	if cfg == nil {
		return
	}
	if !changed("caption") && cfg.Caption != "" {
		o.caption = cfg.Caption
	}
	if !changed("message") && cfg.Message != "" {
		o.message = cfg.Message
	}
	if !changed("target") && cfg.Target != "" {
		o.target = cfg.Target
	}
	if !changed("modern") {
		o.modern = cfg.ModernDialog
	}
	if !changed("verify") {
		o.verify = cfg.Verify
	}
}

func (o *promptOptions) fail(code int, err error) error {
	_, _ = fmt.Fprintf(o.stderr, "wincred: %v\n", err)
	return &ExitError{Code: code, Err: err}
}

func runPrompt(o *promptOptions) error {
	if o.format != formatText && o.format != formatJSON {
		return o.fail(exitInvalidInput, fmt.Errorf("unknown output format %q", o.format))
	}
	if isTerminalWriter(o.stdout) {
		return o.fail(exitInvalidInput, errTerminalOutput)
	}

	if o.passthrough {
		supplied, err := readCredentialInput(o.stdin)
		if err != nil {
			return o.fail(exitInvalidInput, err)
		}
		if supplied.UserName != "" && supplied.Password != nil {
			LogAction("passthrough", "Returning supplied credential without prompting")
			return o.emit(supplied)
		}
		supplied.Password.Wipe()
		if o.username == "" {
			o.username = supplied.UserName
		}
	}

	release, err := o.lock()
	if err != nil {
		return o.fail(exitFailed, err)
	}
	defer release()

	variant := LegacyDialog
	if o.modern {
		variant = ModernDialog
	}
	dialog, err := o.newDialog(o.caption, o.message, variant)
	if err != nil {
		return o.fail(exitCodeFor(err), err)
	}
	if err := dialog.SetTarget(o.target); err != nil {
		return o.fail(exitCodeFor(err), err)
	}

	out := dialog.Prompt(o.username)
	switch out.Kind {
	case Cancelled:
		return &ExitError{Code: exitCancelled}
	case Failed:
		return o.fail(exitCodeFor(out.Err), out.Err)
	}

	cred := out.Credential
	if o.verify {
		err := o.verifyFn(cred)
		LogVerification(err)
		if err != nil {
			cred.Password.Wipe()
			return o.fail(exitFailed, err)
		}
	}
	return o.emit(cred)
}

// emit writes cred to stdout and wipes its password
func (o *promptOptions) emit(cred *Credential) error {
	defer cred.Password.Wipe()
	if err := writeCredential(o.stdout, cred, o.format); err != nil {
		return o.fail(exitFailed, err)
	}
	LogInfo("Credential written as %s", o.format)
	return nil
}

func exitCodeFor(err error) int {
	if errors.Is(err, ErrInvalidField) {
		return exitInvalidInput
	}
	return exitFailed
}

func isTerminalWriter(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// readCredentialInput parses git-credential style key=value lines up to a
// blank line or EOF. Keys other than username, domain and password are ignored.
func readCredentialInput(r io.Reader) (*Credential, error) {
	cred := &Credential{}
	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimRight(scanner.Text(), "\r")
		if line == "" {
			break
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			cred.Password.Wipe()
			return nil, fmt.Errorf("invalid credential input line: missing '='")
		}
		switch key {
		case "username":
			name, err := validateField(FieldUserName, value, MaxUserNameLength)
			if err != nil {
				cred.Password.Wipe()
				return nil, err
			}
			cred.UserName = name
		case "domain":
			domain, err := validateField(FieldDomain, value, MaxDomainLength)
			if err != nil {
				cred.Password.Wipe()
				return nil, err
			}
			cred.Domain = domain
		case "password":
			secret, err := NewSecret(value)
			if err != nil {
				cred.Password.Wipe()
				return nil, err
			}
			cred.Password.Wipe()
			cred.Password = secret
		}
	}
	if err := scanner.Err(); err != nil {
		cred.Password.Wipe()
		return nil, fmt.Errorf("failed to read credential input: %w", err)
	}
	return cred, nil
}

type credentialJSON struct {
	UserName string `json:"username"`
	Domain   string `json:"domain,omitempty"`
	Password string `json:"password"`
}

// writeCredential reveals the password and writes the credential in format
func writeCredential(w io.Writer, cred *Credential, format string) error {
	password, err := cred.Password.Reveal()
	if err != nil {
		return err
	}

	switch format {
	case formatJSON:
		return json.NewEncoder(w).Encode(credentialJSON{
			UserName: cred.UserName,
			Domain:   cred.Domain,
			Password: password,
		})
	default:
		for _, v := range []string{cred.UserName, cred.Domain, password} {
			if strings.ContainsAny(v, "\n\x00") {
				return errors.New("credential contains a newline or NUL and cannot be written as text")
			}
		}
		var b strings.Builder
		fmt.Fprintf(&b, "username=%s\n", cred.UserName)
		if cred.Domain != "" {
			fmt.Fprintf(&b, "domain=%s\n", cred.Domain)
		}
		fmt.Fprintf(&b, "password=%s\n", password)
		_, err := io.WriteString(w, b.String())
		return err
	}
}
