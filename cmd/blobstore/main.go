// blobstore is the storage engine CLI. The TCP server invokes it once per
// command with the shape `blobstore <verb> <root> [<key>] [<path>]`.
// Exit status: 0 success, 1 error, 2 key not found.
package main

import (
	"errors"
	"fmt"
	"os"

	_ "github.com/mattn/go-sqlite3"

	"github.com/spf13/cobra"

	"github.com/blobserve/blobserve/storage"
)

const notFoundExit = 2

func fail(err error) {
	fmt.Fprintf(os.Stderr, "Error: %s\n", err)
	os.Exit(1)
}

func openStore(root string) *storage.Store {
	store, err := storage.Open(root)
	if err != nil {
		fail(err)
	}
	return store
}

func main() {
	root := &cobra.Command{
		Use:           "blobstore",
		Short:         "key-addressed blob storage engine",
		SilenceUsage:  false,
		SilenceErrors: true,
	}

	root.AddCommand(&cobra.Command{
		Use:   "init <root>",
		Short: "create the storage layout",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			fmt.Printf("Initialized at %s\n", store.Root())
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "put <root> <key> <file>",
		Short: "store the contents of a file under a key",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			data, err := os.ReadFile(args[2])
			if err != nil {
				fail(err)
			}
			if err := store.Put(args[1], data); err != nil {
				fail(err)
			}
			fmt.Printf("Stored key '%s' size=%d\n", args[1], len(data))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "get <root> <key> <out_file>",
		Short: "write the blob stored under a key to a file",
		Args:  cobra.ExactArgs(3),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			data, err := store.Get(args[1])
			if err != nil {
				fail(err)
			}
			if err := os.WriteFile(args[2], data, 0644); err != nil {
				fail(err)
			}
			fmt.Printf("Wrote to %s size=%d\n", args[2], len(data))
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "exists <root> <key>",
		Short: "check whether a key is present",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			present, err := store.Exists(args[1])
			if err != nil {
				fail(err)
			}
			if !present {
				fmt.Println("0")
				os.Exit(notFoundExit)
			}
			fmt.Println("1")
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "stat <root> <key>",
		Short: "report the size of a stored blob",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			info, err := store.Stat(args[1])
			if errors.Is(err, storage.ErrKeyNotFound) {
				fmt.Fprintln(os.Stderr, "Not found")
				os.Exit(notFoundExit)
			}
			if err != nil {
				fail(err)
			}
			fmt.Printf("size=%d\n", info.Size)
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "rm <root> <key>",
		Short: "remove a stored blob",
		Args:  cobra.ExactArgs(2),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			removed, err := store.Remove(args[1])
			if err != nil {
				fail(err)
			}
			if !removed {
				fmt.Fprintf(os.Stderr, "Not found: %s\n", args[1])
				os.Exit(notFoundExit)
			}
			fmt.Printf("Removed '%s'\n", args[1])
		},
	})

	root.AddCommand(&cobra.Command{
		Use:   "list <root>",
		Short: "list all stored keys",
		Args:  cobra.ExactArgs(1),
		Run: func(cmd *cobra.Command, args []string) {
			store := openStore(args[0])
			defer store.Close()
			keys, err := store.List()
			if err != nil {
				fail(err)
			}
			for _, k := range keys {
				fmt.Println(k)
			}
		},
	})

	if err := root.Execute(); err != nil {
		fail(err)
	}
}
