package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/database"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/dto"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/insights"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/services"
	"github.com/ahmetcoskunkizilkaya/moody-backend/internal/store"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// insightsReport is what the insights command prints.
type insightsReport struct {
	UserID       uuid.UUID                 `json:"user_id"`
	Days         int                       `json:"days"`
	Insights     insights.Insights         `json:"insights"`
	Distribution *dto.DistributionResponse `json:"distribution"`
	Comparison   insights.PeriodComparison `json:"comparison"`
}

var insightsCmd = &cobra.Command{
	Use:   "insights",
	Short: "Print mood statistics for one user",
	Example: `  server insights --user 3f1c... --days 30
  server insights --user 3f1c... --period month`,
	RunE: func(cmd *cobra.Command, args []string) error {
		rawUser, _ := cmd.Flags().GetString("user")
		days, _ := cmd.Flags().GetInt("days")
		rawPeriod, _ := cmd.Flags().GetString("period")

		userID, err := uuid.Parse(rawUser)
		if err != nil {
			return fmt.Errorf("invalid --user: %w", err)
		}
		period, err := insights.ParseGranularity(rawPeriod)
		if err != nil {
			return err
		}

		if err := database.Connect(appConfig); err != nil {
			return err
		}
		defer database.Close()

		svc := services.NewMoodService(store.NewGormMoodStore(database.DB), appConfig.Location(), appConfig.HistoryLimit)
		return writeInsights(cmd.Context(), os.Stdout, svc, userID, days, period)
	},
}

func init() {
	insightsCmd.Flags().String("user", "", "user ID (required)")
	insightsCmd.Flags().Int("days", 30, "window in days (1-365)")
	insightsCmd.Flags().String("period", "week", "comparison period (day|week|month|year)")
	_ = insightsCmd.MarkFlagRequired("user")
}

func writeInsights(ctx context.Context, w io.Writer, svc *services.MoodService, userID uuid.UUID, days int, period insights.Granularity) error {
	if ctx == nil {
		ctx = context.Background()
	}

	summary, err := svc.Insights(ctx, userID, days)
	if err != nil {
		return err
	}
	distribution, err := svc.Distribution(ctx, userID, days)
	if err != nil {
		return err
	}
	comparison, err := svc.Comparison(ctx, userID, period)
	if err != nil {
		return err
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(insightsReport{
		UserID:       userID,
		Days:         days,
		Insights:     summary,
		Distribution: distribution,
		Comparison:   comparison,
	})
}
