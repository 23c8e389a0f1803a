package cmd

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/streamfusion/keyservice/app/entity"
	"github.com/streamfusion/keyservice/app/repository"
	"github.com/streamfusion/keyservice/app/service"
	"github.com/streamfusion/keyservice/config"
)

var apiKeyCmd = &cobra.Command{
	Use:   "apikey",
	Short: "Manage API keys directly against the store",
}

var apiKeyGenerateCmd = &cobra.Command{
	Use:   "generate <name>",
	Short: "Generate a new API key for a name",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		keyService, db, err := newKeyServiceForCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		key, err := keyService.Generate(context.Background(), args[0], true)
		if err != nil {
			return err
		}

		fmt.Printf("name: %s\n", key.Name)
		fmt.Printf("api_key: %s\n", key.Key)
		fmt.Printf("queries: unlimited\n")
		fmt.Printf("expires: never\n")
		fmt.Printf("created_at: %s\n", key.CreatedAt.Format(time.RFC3339))
		return nil
	},
}

var apiKeyListCmd = &cobra.Command{
	Use:   "list [name]",
	Short: "List API keys, optionally filtered by name",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		keyService, db, err := newKeyServiceForCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		var keys []*keyRow
		if len(args) == 1 {
			found, err := keyService.ListFor(context.Background(), args[0])
			if err != nil {
				return err
			}
			keys = toKeyRows(found)
		} else {
			found, err := keyService.ListAll(context.Background())
			if err != nil {
				return err
			}
			keys = toKeyRows(found)
		}

		if len(keys) == 0 {
			fmt.Println("no api keys found")
			return nil
		}

		for _, row := range keys {
			fmt.Printf("%s  %s  active=%t  created_at=%s\n", row.key, row.name, row.active, row.created)
		}
		return nil
	},
}

var apiKeyRevokeCmd = &cobra.Command{
	Use:   "revoke <api_key>",
	Short: "Revoke an API key",
	Args:  cobra.ExactArgs(1),
	RunE: func(_ *cobra.Command, args []string) error {
		keyService, db, err := newKeyServiceForCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		key, err := keyService.Revoke(context.Background(), args[0])
		if err != nil {
			if errors.Is(err, service.ErrKeyNotFound) {
				return fmt.Errorf("api key %q not found", args[0])
			}
			return err
		}

		fmt.Printf("revoked api key for %s\n", key.Name)
		return nil
	},
}

var apiKeyValidateCmd = &cobra.Command{
	Use:   "validate <api_key>",
	Short: "Check whether an API key is valid",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		keyService, db, err := newKeyServiceForCommands()
		if err != nil {
			return err
		}
		defer db.Close()

		return runValidate(cmd.OutOrStdout(), keyService, args[0])
	},
}

func runValidate(out io.Writer, keyService service.KeyService, token string) error {
	res, err := keyService.Validate(context.Background(), token)
	if err != nil {
		return err
	}

	if !res.Valid {
		fmt.Fprintf(out, "invalid: %s\n", res.Reason)
		return nil
	}

	fmt.Fprintf(out, "valid: api key belongs to %s\n", res.Key.Name)
	return nil
}

func init() {
	apiKeyCmd.AddCommand(apiKeyGenerateCmd)
	apiKeyCmd.AddCommand(apiKeyListCmd)
	apiKeyCmd.AddCommand(apiKeyRevokeCmd)
	apiKeyCmd.AddCommand(apiKeyValidateCmd)
	rootCmd.AddCommand(apiKeyCmd)
}

func newKeyServiceForCommands() (service.KeyService, *sql.DB, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, nil, err
	}

	db, err := repository.Connect(cfg)
	if err != nil {
		return nil, nil, err
	}

	keyRepo := repository.NewAPIKeyRepository(db)
	return service.NewKeyService(keyRepo), db, nil
}

type keyRow struct {
	key     string
	name    string
	active  bool
	created string
}

func toKeyRows(keys []*entity.APIKey) []*keyRow {
	rows := make([]*keyRow, 0, len(keys))
	for _, key := range keys {
		rows = append(rows, &keyRow{
			key:     key.Key,
			name:    key.Name,
			active:  key.IsActive,
			created: key.CreatedAt.Format(time.RFC3339),
		})
	}
	return rows
}
