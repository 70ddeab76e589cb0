package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/wesleyorama2/webapi/internal/output"
	"github.com/wesleyorama2/webapi/webapi"
)

var proxyCmd = &cobra.Command{
	Use:   "proxy",
	Short: "Show the fastest proxy listed by the proxy directory",
	Long: `Query the proxy directory once and print the record a proxied call
would use. The directory defaults to ` + webapi.DefaultDirectoryURL + `.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := loadSettings(cmd)
		if err != nil {
			return err
		}

		logger, err := newLogger(s.debug)
		if err != nil {
			return err
		}
		defer logger.Sync()

		record, err := webapi.FetchFastestProxy(cmd.Context(), s.exec.DirectoryURL, webapi.WithLogger(logger))
		if err != nil {
			return fmt.Errorf("proxy directory lookup failed: %w", err)
		}

		formatter := output.GetFormatter(s.format, false, s.noColor)
		fmt.Fprint(cmd.OutOrStdout(), formatter.FormatProxy(record))
		if record == nil {
			return webapi.ErrNoProxy
		}
		return nil
	},
}
