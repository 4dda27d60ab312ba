package main

import (
	"fmt"
	"io"

	"github.com/dustin/go-humanize"
	"github.com/holdtalk/holdtalk/internal/models/whisper"
	"github.com/spf13/cobra"
)

func modelCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "model",
		Short: "Manage whisper.cpp models for the server",
	}

	cmd.AddCommand(modelListCmd())
	cmd.AddCommand(modelDownloadCmd())
	cmd.AddCommand(modelRemoveCmd())

	return cmd
}

func modelListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List whisper.cpp models",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := whisper.DefaultStore()
			if err != nil {
				return err
			}
			printModels(cmd.OutOrStdout(), store)
			return nil
		},
	}
}

func printModels(w io.Writer, store *whisper.Store) {
	for _, m := range whisper.List() {
		prefix := "  [ ]"
		if store.Installed(m.ID) {
			prefix = "  [x]"
		}
		line := fmt.Sprintf("%s %s - %s [%s", prefix, m.ID, m.Name, whisper.SizeLabel(m))
		if !m.Multilingual {
			line += ", english only"
		}
		fmt.Fprintln(w, line+"]")
	}
}

func modelDownloadCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "download <model-name>",
		Short: "Download a whisper.cpp model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id := args[0]
			m, ok := whisper.Lookup(id)
			if !ok {
				return fmt.Errorf("unknown model: %s", id)
			}
			store, err := whisper.DefaultStore()
			if err != nil {
				return err
			}
			path, _ := store.Path(id)
			if store.Installed(id) {
				fmt.Printf("model '%s' is already installed at %s\n", id, path)
				return nil
			}

			fmt.Printf("downloading %s (%s)...\n", id, whisper.SizeLabel(m))
			var lastPercent uint64
			err = store.Download(cmd.Context(), id, func(downloaded, total uint64) {
				if total == 0 {
					return
				}
				if percent := downloaded * 100 / total; percent >= lastPercent+10 {
					fmt.Printf("%d%% (%s) ", percent, humanize.Bytes(downloaded))
					lastPercent = percent
				}
			})
			if err != nil {
				return fmt.Errorf("download failed: %w", err)
			}

			fmt.Printf("\ndownload complete: %s\n", path)
			fmt.Printf("set [server] backend = \"whisper-cpp\" and model = \"%s\" to use it\n", id)
			return nil
		},
	}
}

func modelRemoveCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "remove <model-name>",
		Short: "Remove a downloaded whisper.cpp model",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := whisper.DefaultStore()
			if err != nil {
				return err
			}
			if err := store.Remove(args[0]); err != nil {
				return err
			}
			fmt.Printf("model '%s' removed successfully\n", args[0])
			return nil
		},
	}
}
