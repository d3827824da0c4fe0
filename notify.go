package main

import (
	"fmt"
	"log"

	"github.com/slack-go/slack"
)

// NotifyRunComplete posts the run summary to the configured Slack channel.
// Notification failures are logged, never fatal: the filled workbook and the
// report file are already on disk by the time this runs.
func NotifyRunComplete(cfg Config, result FillResult) {
	if cfg.SlackBotToken == "" || cfg.ReportChannelID == "" {
		return
	}

	api := slack.New(cfg.SlackBotToken)
	text := fmt.Sprintf("%s template fill complete: %d placeholders, %d filled, %d suspicious (accuracy %.2f%%, correctness %.2f%%)\nOutput: %s",
		cfg.FacilityName,
		result.Metrics.Total, result.Metrics.Success, result.Metrics.Suspicious,
		result.Metrics.Accuracy(), result.Metrics.DataCorrectness(),
		cfg.OutputPath,
	)

	_, _, err := api.PostMessage(cfg.ReportChannelID, slack.MsgOptionText(text, false))
	if err != nil {
		log.Printf("notify slack post error: %v", err)
	}
}
