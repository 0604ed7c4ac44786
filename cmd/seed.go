package cmd

import (
	"context"
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/Kiko915/techterview-mainapp-sub001/internal/domain"
)

var seedCmd = &cobra.Command{
	Use:   "seed <catalog.json>",
	Short: "Load or update the track catalog from a JSON file",
	Long:  "Upserts tracks, modules, and lessons from a catalog file. Track content only changes through this command; the API serves it read-only.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		raw, err := os.ReadFile(args[0])
		if err != nil {
			return fmt.Errorf("read catalog: %w", err)
		}

		var catalog struct {
			Tracks []*domain.Track `json:"tracks"`
		}
		if err := json.Unmarshal(raw, &catalog); err != nil {
			return fmt.Errorf("parse catalog: %w", err)
		}
		if len(catalog.Tracks) == 0 {
			return fmt.Errorf("catalog contains no tracks")
		}

		_, log, st, err := bootstrap()
		if err != nil {
			return err
		}
		defer st.Close()

		ctx := context.Background()
		for _, track := range catalog.Tracks {
			if track.ID == "" || track.Title == "" {
				return fmt.Errorf("every track needs an id and title")
			}
			for i := range track.Modules {
				m := &track.Modules[i]
				m.TrackID = track.ID
				for j := range m.Lessons {
					m.Lessons[j].ModuleID = m.ID
				}
			}
			if err := st.Tracks().Upsert(ctx, track); err != nil {
				return fmt.Errorf("seed track %s: %w", track.ID, err)
			}
			log.Info("track seeded", "trackId", track.ID, "modules", len(track.Modules))
		}

		fmt.Printf("Seeded %d track(s).\n", len(catalog.Tracks))
		return nil
	},
}
