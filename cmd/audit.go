package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/audit"
	"github.com/ziadkadry99/pagecraft/internal/db"
)

var (
	auditProject   string
	auditUser      string
	auditLimit     int
	auditOlderThan time.Duration
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Inspect and prune the project audit trail",
}

var auditListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent audit entries",
	RunE: func(cmd *cobra.Command, args []string) error {
		store, closeFn, err := openAuditStore()
		if err != nil {
			return err
		}
		defer closeFn()

		entries, err := store.Query(cmd.Context(), audit.QueryFilter{
			ActorID:   auditUser,
			ProjectID: auditProject,
			Limit:     auditLimit,
		})
		if err != nil {
			return err
		}
		if len(entries) == 0 {
			fmt.Println("No audit entries.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "TIME\tACTOR\tACTION\tPROJECT\tSUMMARY")
		for _, e := range entries {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n",
				e.Timestamp.Format(time.DateTime), e.ActorID, e.Action, e.ProjectID, e.Summary)
		}
		return w.Flush()
	},
}

var auditPruneCmd = &cobra.Command{
	Use:   "prune",
	Short: "Delete audit entries older than a given age",
	RunE: func(cmd *cobra.Command, args []string) error {
		if auditOlderThan <= 0 {
			return fmt.Errorf("--older-than must be positive")
		}
		store, closeFn, err := openAuditStore()
		if err != nil {
			return err
		}
		defer closeFn()

		n, err := store.DeleteBefore(cmd.Context(), time.Now().Add(-auditOlderThan))
		if err != nil {
			return err
		}
		fmt.Printf("Deleted %d audit entries.\n", n)
		return nil
	},
}

func openAuditStore() (*audit.Store, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return audit.NewStore(database), func() { database.Close() }, nil
}

func init() {
	auditListCmd.Flags().StringVar(&auditProject, "project", "", "only entries for this project id")
	auditListCmd.Flags().StringVar(&auditUser, "user", "", "only entries by this user id")
	auditListCmd.Flags().IntVar(&auditLimit, "limit", 50, "maximum number of entries")

	auditPruneCmd.Flags().DurationVar(&auditOlderThan, "older-than", 90*24*time.Hour, "delete entries older than this age")

	auditCmd.AddCommand(auditListCmd, auditPruneCmd)
	rootCmd.AddCommand(auditCmd)
}
