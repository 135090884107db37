package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"coerce/internal/version"
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show coerce build metadata",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		format, _ := cmd.Flags().GetString("format")
		if _, err := resolveColor(cmd, "auto"); err != nil {
			return err
		}
		return renderVersion(cmd.OutOrStdout(), version.Current(), format)
	},
}

func init() {
	versionCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func renderVersion(out io.Writer, info version.Info, format string) error {
	switch strings.ToLower(format) {
	case "pretty":
		_, err := io.WriteString(out, info.Pretty())
		return err
	case "json":
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(info)
	default:
		return fmt.Errorf("unsupported format %q (must be pretty or json)", format)
	}
}
