package cli

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/webapi/webapi"
)

var version = "0.1.0"

// RootCmd represents the base command when called without any subcommands
var RootCmd = &cobra.Command{
	Use:     "webapi",
	Short:   "Typed JSON calls, optionally through the fastest listed proxy",
	Version: version,
	Long: `webapi sends JSON calls to HTTP APIs and prints the decoded result.

Calls can be routed through an explicit proxy or through the fastest proxy
listed by a public proxy directory, which is looked up once per invocation.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		cmd.Help()
	},
}

// Execute runs the root command until it completes or the process is
// interrupted. This is called by main.main().
func Execute() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return RootCmd.ExecuteContext(ctx)
}

func init() {
	pf := RootCmd.PersistentFlags()
	pf.String("config", "", "Configuration file (YAML or JSON)")
	pf.Bool("debug", false, "Log executor activity to stderr")
	pf.Bool("no-color", false, "Disable colored output")
	pf.StringP("output", "o", "text", "Output format: text, json or yaml")
	pf.DurationP("timeout", "t", webapi.DefaultTimeout, "Request timeout")
	pf.Int64("max-buffer", 0, "Maximum response size in bytes (0 means unlimited)")
	pf.Bool("proxy", false, "Route calls through --proxy-url, or the fastest directory proxy")
	pf.String("proxy-url", "", "Explicit proxy address (scheme://host:port)")
	pf.String("proxy-user", "", "Proxy username")
	pf.String("proxy-pass", "", "Proxy password")
	pf.String("directory", "", "Proxy directory URL (default "+webapi.DefaultDirectoryURL+")")

	RootCmd.AddCommand(getCmd)
	RootCmd.AddCommand(postCmd)
	RootCmd.AddCommand(putCmd)
	RootCmd.AddCommand(deleteCmd)
	RootCmd.AddCommand(proxyCmd)
}
