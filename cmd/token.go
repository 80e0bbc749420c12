package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"
	"time"

	"github.com/spf13/cobra"

	"github.com/ziadkadry99/pagecraft/internal/auth"
	"github.com/ziadkadry99/pagecraft/internal/db"
)

var (
	tokenUser string
	tokenName string
	tokenTTL  time.Duration
)

var tokenCmd = &cobra.Command{
	Use:   "token",
	Short: "Manage API tokens for the editing server",
}

var tokenCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create an API token for a user",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, closeFn, err := openTokenStore()
		if err != nil {
			return err
		}
		defer closeFn()

		secret, tok, err := tokens.Create(cmd.Context(), tokenUser, tokenName, tokenTTL)
		if err != nil {
			return err
		}
		fmt.Printf("Token %s created for %s.\n", tok.ID, tok.UserID)
		if tok.ExpiresAt != nil {
			fmt.Printf("Expires: %s\n", tok.ExpiresAt.Format(time.RFC3339))
		}
		fmt.Println("Store this secret now, it will not be shown again:")
		fmt.Println(secret)
		return nil
	},
}

var tokenListCmd = &cobra.Command{
	Use:   "list",
	Short: "List a user's API tokens",
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, closeFn, err := openTokenStore()
		if err != nil {
			return err
		}
		defer closeFn()

		list, err := tokens.List(cmd.Context(), tokenUser)
		if err != nil {
			return err
		}
		if len(list) == 0 {
			fmt.Println("No tokens.")
			return nil
		}

		w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
		fmt.Fprintln(w, "ID\tNAME\tCREATED\tEXPIRES\tLAST USED")
		for _, t := range list {
			fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", t.ID, t.Name,
				t.CreatedAt.Format(time.RFC3339), formatOptional(t.ExpiresAt), formatOptional(t.LastUsed))
		}
		return w.Flush()
	},
}

var tokenRevokeCmd = &cobra.Command{
	Use:   "revoke <id>",
	Short: "Revoke an API token",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		tokens, closeFn, err := openTokenStore()
		if err != nil {
			return err
		}
		defer closeFn()

		ok, err := tokens.Revoke(cmd.Context(), args[0])
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("token %s not found", args[0])
		}
		fmt.Printf("Token %s revoked.\n", args[0])
		return nil
	},
}

func openTokenStore() (*auth.TokenStore, func(), error) {
	cfg, err := loadConfig()
	if err != nil {
		return nil, nil, err
	}
	database, err := db.Open(cfg.Storage.SQLitePath)
	if err != nil {
		return nil, nil, fmt.Errorf("opening database: %w", err)
	}
	return auth.NewTokenStore(database), func() { database.Close() }, nil
}

func formatOptional(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.Format(time.RFC3339)
}

func init() {
	tokenCreateCmd.Flags().StringVar(&tokenUser, "user", "", "user id the token authenticates as")
	tokenCreateCmd.Flags().StringVar(&tokenName, "name", "", "label for the token")
	tokenCreateCmd.Flags().DurationVar(&tokenTTL, "ttl", 0, "token lifetime, 0 for no expiry")
	_ = tokenCreateCmd.MarkFlagRequired("user")

	tokenListCmd.Flags().StringVar(&tokenUser, "user", "", "user id")
	_ = tokenListCmd.MarkFlagRequired("user")

	tokenCmd.AddCommand(tokenCreateCmd, tokenListCmd, tokenRevokeCmd)
	rootCmd.AddCommand(tokenCmd)
}
