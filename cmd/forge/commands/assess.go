package commands

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"github.com/google/uuid"
	"github.com/olekukonko/tablewriter"
	"github.com/urfave/cli/v3"

	scoringapp "github.com/maturion/genesis-forge/internal/module/scoring/application"
)

// AssessAnswerAction は基準スコアを提出するコマンドのアクション
func AssessAnswerAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	assessmentID, err := uuid.Parse(cmd.String("assessment"))
	if err != nil {
		return fmt.Errorf("--assessment はUUIDで指定してください: %w", err)
	}
	orgID, err := uuid.Parse(cmd.String("org"))
	if err != nil {
		return fmt.Errorf("--org はUUIDで指定してください: %w", err)
	}
	domainID, err := uuid.Parse(cmd.String("domain"))
	if err != nil {
		return fmt.Errorf("--domain はUUIDで指定してください: %w", err)
	}
	criterionID, err := uuid.Parse(cmd.String("criterion"))
	if err != nil {
		return fmt.Errorf("--criterion はUUIDで指定してください: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	score, err := appCtx.Container.ScoringService.SubmitAnswer(ctx, scoringapp.SubmitAnswerParams{
		AssessmentID:  assessmentID,
		OrgID:         orgID,
		DomainID:      domainID,
		CriterionID:   criterionID,
		CurrentLevel:  cmd.String("current-level"),
		TargetLevel:   cmd.String("target-level"),
		EvidenceScore: cmd.Float("evidence-score"),
	})
	if err != nil {
		slog.Error("回答の記録に失敗しました", "error", err)
		return err
	}

	fmt.Printf("\n回答を記録しました\n")
	fmt.Printf("ID:            %s\n", score.ID)
	fmt.Printf("Current Level: %s\n", score.CurrentLevel)
	fmt.Printf("Target Level:  %s\n", score.TargetLevel)

	return nil
}

// AssessScoreAction はアセスメントのスコアを算出するコマンドのアクション
func AssessScoreAction(ctx context.Context, cmd *cli.Command) error {
	envFile := cmd.String("env")

	assessmentID, err := uuid.Parse(cmd.String("assessment"))
	if err != nil {
		return fmt.Errorf("--assessment はUUIDで指定してください: %w", err)
	}

	appCtx, err := NewAppContext(ctx, envFile)
	if err != nil {
		return err
	}
	defer appCtx.Close()

	result, err := appCtx.Container.ScoringService.CalculateAssessmentScore(ctx, assessmentID)
	if err != nil {
		slog.Error("スコア算出に失敗しました", "error", err)
		return err
	}

	table := tablewriter.NewWriter(os.Stdout)
	table.Header("Domain", "Level", "Target", "At Target %", "Threshold", "Penalty")

	for _, ds := range result.DomainScores {
		level := string(ds.CalculatedLevel)
		if len(ds.CriteriaScores) == 0 {
			level = "(unanswered)"
		}
		table.Append(
			ds.DomainName,
			level,
			string(ds.TargetLevel),
			fmt.Sprintf("%.1f", ds.PercentageAtTarget),
			fmt.Sprintf("%t", ds.MeetsThreshold),
			fmt.Sprintf("%t", ds.PenaltyApplied),
		)
	}

	table.Render()

	fmt.Printf("\n回答済みドメイン: %.1f%%\n", result.Progress.CompletionPercentage)
	fmt.Printf("総合成熟度レベル: %s\n", result.Progress.OverallMaturityLevel)

	return nil
}
