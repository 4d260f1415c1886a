package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/Sajjon/svar/internal/logging"
	"github.com/Sajjon/svar/internal/prompt"
	"github.com/Sajjon/svar/internal/store"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// app carries what the commands share, so tests can swap the file system
// and the terminal.
type app struct {
	fs     afero.Fs
	store  *store.FileStore
	prompt *prompt.Prompter
	stdout io.Writer
	stderr io.Writer
	v      *viper.Viper
	log    *logging.Logger
}

func newApp() *app {
	fs := afero.NewOsFs()
	return &app{
		fs:     fs,
		store:  store.NewFileStore(fs),
		prompt: prompt.New(),
		stdout: os.Stdout,
		stderr: os.Stderr,
		v:      viper.New(),
	}
}

func newRootCmd(a *app) *cobra.Command {
	var configFile string

	root := &cobra.Command{
		Use:   "svar",
		Short: "Protect a secret with answers to security questions",
		Long: `svar seals a secret under answers to security questions so that any
threshold correct answers recover it, tolerating forgotten or misremembered
answers to the remaining questions.`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			return a.configure(cmd, configFile)
		},
	}

	root.PersistentFlags().StringVar(&configFile, "config", "", "config file (YAML)")
	root.PersistentFlags().BoolP("verbose", "v", false, "verbose output")

	root.AddCommand(newSealCmd(a))
	root.AddCommand(newOpenCmd(a))
	root.AddCommand(newInspectCmd(a))
	root.AddCommand(newVersionCmd(a))

	return root
}

// configure merges flags, SVAR_* environment variables and the config file
// into a.v and sets up logging.
func (a *app) configure(cmd *cobra.Command, configFile string) error {
	a.v.SetEnvPrefix("svar")
	a.v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	a.v.AutomaticEnv()

	if configFile != "" {
		a.v.SetFs(a.fs)
		a.v.SetConfigFile(configFile)
		a.v.SetConfigType("yaml")
		if err := a.v.ReadInConfig(); err != nil {
			return fmt.Errorf("failed to read config %s: %w", configFile, err)
		}
	}

	var bindErr error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == "config" || bindErr != nil {
			return
		}
		bindErr = a.v.BindPFlag(f.Name, f)
	})
	if bindErr != nil {
		return bindErr
	}

	a.log = logging.NewLogger(a.stderr, a.v.GetBool("verbose"))
	return nil
}
