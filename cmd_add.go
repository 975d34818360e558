package main

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/cockroachdb/errors"
	"github.com/spf13/cobra"

	"github.com/llehouerou/wavedeck/internal/library"
	"github.com/llehouerou/wavedeck/internal/state"
)

var (
	addTitle    string
	addArtist   string
	addAlbum    string
	addDuration time.Duration
)

var addCmd = &cobra.Command{
	Use:   "add <path>",
	Short: "Register a track in the library",
	Long: `add records a track in the library so restored sessions keep it and its
plays are counted in the listening history.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addTitle, "title", "", "track title")
	addCmd.Flags().StringVar(&addArtist, "artist", "", "track artist")
	addCmd.Flags().StringVar(&addAlbum, "album", "", "album name")
	addCmd.Flags().DurationVar(&addDuration, "duration", 0, "track length, e.g. 3m42s")
}

func runAdd(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	path, err := filepath.Abs(args[0])
	if err != nil {
		return errors.Wrapf(err, "resolve %s", args[0])
	}
	if addDuration < 0 {
		return errors.Newf("negative duration %s", addDuration)
	}

	store, err := state.Open(cfg.State.DBFile)
	if err != nil {
		return errors.Wrap(err, "open state")
	}
	defer store.Close()

	id, err := library.New(store.DB()).Upsert(cmd.Context(), library.Item{
		Path:     path,
		Title:    addTitle,
		Artist:   addArtist,
		Album:    addAlbum,
		Duration: addDuration,
	})
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "added %s (id %d)\n", path, id)
	return nil
}
