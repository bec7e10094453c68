package main

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/PizzaHomicide/reel/internal/config"
	"github.com/PizzaHomicide/reel/internal/player/builtin"
	"github.com/PizzaHomicide/reel/internal/version"
	"github.com/charmbracelet/lipgloss"
	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var (
	nameStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4"))
	setStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#43BF6D"))
	unsetStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF5F87"))
	descStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#777777"))
)

func init() {
	classifyCmd.Flags().Bool("json", false, "Print the result as JSON")
	envCmd.Flags().BoolP("set-only", "s", false, "Only show variables that are set")
	envCmd.Flags().BoolP("unset-only", "u", false, "Only show variables that are not set")
	envCmd.MarkFlagsMutuallyExclusive("set-only", "unset-only")

	rootCmd.AddCommand(classifyCmd, envCmd, whereCmd, versionCmd)
}

type classification struct {
	Platform     string   `json:"platform"`
	ID           string   `json:"id"`
	Capabilities []string `json:"capabilities"`
}

var classifyCmd = &cobra.Command{
	Use:   "classify <url>",
	Short: "Show which platform and content id a url resolves to",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(&options)
		if err != nil {
			return err
		}
		registry, err := builtin.New(cfg.Player.Platforms)
		if err != nil {
			return err
		}

		req, err := registry.Classifier().Classify(args[0])
		if err != nil {
			return err
		}
		caps, err := registry.Capabilities(req.Platform)
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		result := classification{Platform: string(req.Platform), ID: req.ID, Capabilities: caps.Names()}
		if lo.Must(cmd.Flags().GetBool("json")) {
			enc := json.NewEncoder(out)
			return enc.Encode(result)
		}
		fmt.Fprintln(out, nameStyle.Render("platform")+"      "+result.Platform)
		fmt.Fprintln(out, nameStyle.Render("id")+"            "+result.ID)
		fmt.Fprintln(out, nameStyle.Render("capabilities")+"  "+strings.Join(result.Capabilities, ", "))
		return nil
	},
}

var envCmd = &cobra.Command{
	Use:   "env",
	Short: "List the supported environment variables and their current values",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		setOnly := lo.Must(cmd.Flags().GetBool("set-only"))
		unsetOnly := lo.Must(cmd.Flags().GetBool("unset-only"))
		out := cmd.OutOrStdout()

		for _, env := range config.EnvVars() {
			value, present := os.LookupEnv(env.Name)
			present = present && value != ""
			if (setOnly && !present) || (unsetOnly && present) {
				continue
			}

			fmt.Fprint(out, nameStyle.Render(env.Name))
			fmt.Fprint(out, "=")
			if present {
				fmt.Fprintln(out, setStyle.Render(value))
			} else {
				fmt.Fprintln(out, unsetStyle.Render("unset"))
			}
			fmt.Fprintln(out, "    "+descStyle.Render(env.Description))
		}
	},
}

var whereCmd = &cobra.Command{
	Use:   "where",
	Short: "Show where reel keeps its files",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		configPath, err := config.Path()
		if err != nil {
			return err
		}
		cfg, err := loadConfig(&options)
		if err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, nameStyle.Render("config")+"  "+configPath)
		fmt.Fprintln(out, nameStyle.Render("log")+"     "+cfg.Logging.FilePath)
		socket := cfg.IPC.SocketPath
		if !cfg.IPCEnabled() {
			socket += descStyle.Render(" (disabled)")
		}
		fmt.Fprintln(out, nameStyle.Render("socket")+"  "+socket)
		fmt.Fprintln(out, nameStyle.Render("page")+"    "+pageURL(cfg.Server.Listen))
		return nil
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print the version",
	Args:  cobra.NoArgs,
	Run: func(cmd *cobra.Command, args []string) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), version.GetVersionInfo())
	},
}
