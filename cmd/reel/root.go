package main

import (
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"golang.org/x/term"
)

type rootOptions struct {
	listen    string
	noIPC     bool
	noBrowser bool
}

var options rootOptions

func init() {
	rootCmd.PersistentFlags().StringVarP(&options.listen, "listen", "l", "", "Address the host page is served on, overriding the config")
	rootCmd.PersistentFlags().BoolVar(&options.noIPC, "no-ipc", false, "Do not serve the IPC control socket")
	rootCmd.Flags().BoolVar(&options.noBrowser, "no-browser", false, "Do not open the host page in a browser")
}

var rootCmd = &cobra.Command{
	Use:   "reel",
	Short: "Drive YouTube, Dailymotion, Vimeo and SoundCloud embeds from the terminal",
	Long: "reel serves a host page that embeds the web players of YouTube, Dailymotion, Vimeo and SoundCloud, " +
		"and controls them from a terminal console, an HTTP API or an mpv style IPC socket.",
	SilenceUsage: true,
	Args:         cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		// Without a terminal there is nothing to draw the console on, so behave like serve
		console := interactive()
		var logWriter io.Writer
		if !console {
			logWriter = cmd.ErrOrStderr()
		}

		a, err := newApp(&options, logWriter)
		if err != nil {
			return err
		}
		return a.run(ctx, console)
	},
}

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run without the console, logging to stderr",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
		defer stop()

		a, err := newApp(&options, cmd.ErrOrStderr())
		if err != nil {
			return err
		}
		return a.run(ctx, false)
	},
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func interactive() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
