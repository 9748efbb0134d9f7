package cmd

import (
	"context"
	"fmt"
	"sort"

	"feed-sync/core/storage"
	"feed-sync/feature/feed"
	"feed-sync/feature/feed/knownset"

	"github.com/spf13/cobra"
)

var listDiscontinued bool

// knownsetCmd inspects the persisted SKU state.
var knownsetCmd = &cobra.Command{
	Use:   "knownset",
	Short: "Inspect the persisted SKU state",
	Long: `Shows how many SKUs the service is tracking and when the state was
last written. With --discontinued, lists the SKUs currently archived.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, logg := bootstrap()
		defer logg.Sync()

		var client storage.Client
		if cfg.KnownSet.Backend == knownset.BackendObject || cfg.Feed.Source == feed.SourceObject {
			var err error
			client, err = storage.NewClient(cfg.Storage)
			if err != nil {
				return fmt.Errorf("creating storage client: %w", err)
			}
		}

		store, err := buildStore(cfg, client)
		if err != nil {
			return err
		}

		set, err := store.Load(context.Background())
		if err != nil {
			return err
		}

		fmt.Printf("backend:      %s\n", cfg.KnownSet.Backend)
		fmt.Printf("tracked:      %d\n", set.Len())
		fmt.Printf("active:       %d\n", set.ActiveCount())
		fmt.Printf("discontinued: %d\n", set.Len()-set.ActiveCount())
		if !set.Updated.IsZero() {
			fmt.Printf("updated:      %s\n", set.Updated.Format("2006-01-02 15:04:05 MST"))
		}

		if listDiscontinued {
			var skus []string
			for sku, entry := range set.Entries {
				if entry.Discontinued {
					skus = append(skus, sku)
				}
			}
			sort.Strings(skus)
			for _, sku := range skus {
				fmt.Println(sku)
			}
		}
		return nil
	},
}

func init() {
	knownsetCmd.Flags().BoolVar(&listDiscontinued, "discontinued", false, "list archived SKUs")
	RootCmd.AddCommand(knownsetCmd)
}
