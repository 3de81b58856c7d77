package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"novel-assistant/internal/domain/service"
	"novel-assistant/internal/infrastructure/llm"
)

// providersCmd 查看供应商配置
var providersCmd = &cobra.Command{
	Use:   "providers",
	Short: "列出 AI 供应商及隐藏密钥后的配置",
	RunE: func(cmd *cobra.Command, args []string) error {
		settings := llm.SettingsFromConfig(&cfg.LLM)

		w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(w, "PROVIDER\tDEFAULT\tMODEL\tBASE URL\tAPI KEY")
		for _, id := range service.KnownProviders() {
			s := settings[id].Masked()
			isDefault := ""
			if string(id) == cfg.LLM.DefaultProvider {
				isDefault = "*"
			}
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", id, isDefault, s.Model, s.BaseURL, s.APIKey)
		}
		return w.Flush()
	},
}

func init() {
	rootCmd.AddCommand(providersCmd)
}
