package cli

import (
	"errors"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/ppiankov/jimaku/internal/history"
	"github.com/ppiankov/jimaku/internal/pipeline"
)

var (
	historyJSON  bool
	historyLimit int
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List, show and delete past analyses",
	Long: `Every analysis is saved under ~/.jimaku/history (history.dir) unless
--no-history is given or history.enabled is false.

Analyses can be referred to by full id or by a unique prefix of at least
four characters.`,
}

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored analyses, newest first",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		entries, err := store.List()
		if err != nil {
			return err
		}
		if historyLimit > 0 && len(entries) > historyLimit {
			entries = entries[:historyLimit]
		}
		if historyJSON {
			return writeJSON(cmd.OutOrStdout(), entries)
		}
		if len(entries) == 0 {
			fmt.Fprintln(cmd.OutOrStdout(), "No analyses stored yet.")
			return nil
		}

		tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
		fmt.Fprintln(tw, "ID\tCREATED\tDIFFICULTY\tLEVEL\tFILES\tTITLE")
		for _, e := range entries {
			fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%d\t%s\n",
				shortID(e.ID), e.CreatedAt.Local().Format("2006-01-02 15:04"), e.Difficulty, e.Level, e.Files, e.Title)
		}
		return tw.Flush()
	},
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show a stored analysis",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		report, err := store.Get(args[0])
		if err != nil {
			return historyError(args[0], err)
		}

		cfg, err := loadConfig(viper.GetViper())
		if err != nil {
			return err
		}
		renderer := pipeline.NewRenderer(cfg.Output.IncludeFooter, true)
		if historyJSON {
			data, err := renderer.JSON(report)
			if err != nil {
				return err
			}
			_, err = cmd.OutOrStdout().Write(data)
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderer.Markdown(report))
		return nil
	},
}

var historyDeleteCmd = &cobra.Command{
	Use:   "delete <id>...",
	Short: "Delete stored analyses",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := openHistory()
		if err != nil {
			return err
		}
		for _, arg := range args {
			id, err := store.Delete(arg)
			if err != nil {
				return historyError(arg, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "✓ Deleted %s\n", id)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(historyCmd)
	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDeleteCmd)

	historyCmd.PersistentFlags().BoolVar(&historyJSON, "json", false, "print JSON")
	historyListCmd.Flags().IntVarP(&historyLimit, "limit", "n", 0, "show at most n analyses")
}

func openHistory() (*history.Store, error) {
	cfg, err := loadConfig(viper.GetViper())
	if err != nil {
		return nil, err
	}
	return history.NewStore(cfg.History.Dir)
}

func historyError(id string, err error) error {
	switch {
	case errors.Is(err, history.ErrNotFound):
		return fmt.Errorf("no analysis with id %q", id)
	case errors.Is(err, history.ErrAmbiguous):
		return fmt.Errorf("id prefix %q matches more than one analysis; give more characters", id)
	default:
		return err
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
