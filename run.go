package main

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/robfig/cron/v3"
)

// RunFill executes one complete fill: aggregate the sources, resolve every
// placeholder, save the output workbook, then report and persist the
// outcome. A partially filled workbook is still saved; only aggregation
// failures abort before any write.
func RunFill(cfg Config, db *sql.DB, proposer Proposer) error {
	log.Printf("aggregate start sources=%d", len(cfg.SourcePaths))
	lookup, err := BuildLookup(cfg.SourcePaths)
	if err != nil {
		return fmt.Errorf("aggregating sources: %w", err)
	}
	log.Printf("aggregate done keys=%d", len(lookup))

	wb, err := OpenWorkbook(cfg.TemplatePath)
	if err != nil {
		return err
	}
	defer wb.Close()

	result, err := FillDocument(wb, proposer, lookup)
	if err != nil {
		return err
	}

	if err := wb.SaveAs(cfg.OutputPath); err != nil {
		return fmt.Errorf("saving output workbook: %w", err)
	}
	log.Printf("fill saved output=%s total=%d success=%d suspicious=%d",
		cfg.OutputPath, result.Metrics.Total, result.Metrics.Success, result.Metrics.Suspicious)

	report := FormatRunReport(result)
	fmt.Println(report)

	if path, err := WriteReportFile(report, cfg.ReportOutputDir, time.Now(), cfg.FacilityName); err != nil {
		log.Printf("report write error: %v", err)
	} else {
		log.Printf("report written path=%s", path)
	}

	if _, err := SaveRun(db, cfg, result); err != nil {
		log.Printf("run history save error: %v", err)
	}

	NotifyRunComplete(cfg, result)
	return nil
}

// RunFillScheduler runs RunFill on a 5-field cron expression (minute hour
// day-of-month month day-of-week), e.g. "0 6 * * 1" for Mondays at 6am.
// Blocks forever.
func RunFillScheduler(cfg Config, db *sql.DB, proposer Proposer) {
	schedule := strings.TrimSpace(cfg.FillSchedule)

	parser := cron.NewParser(cron.Minute | cron.Hour | cron.Dom | cron.Month | cron.Dow)
	sched, err := parser.Parse(schedule)
	if err != nil {
		log.Fatalf("Invalid fill_schedule '%s': %v", schedule, err)
	}

	log.Printf("Fill scheduled (cron: %s)", schedule)
	for {
		now := time.Now()
		next := sched.Next(now)
		wait := next.Sub(now)
		log.Printf("Next fill at %s (in %s)", next.Format("Mon Jan 2 15:04"), wait.Round(time.Minute))

		time.Sleep(wait)

		if err := RunFill(cfg, db, proposer); err != nil {
			log.Printf("Scheduled fill error: %v", err)
		}
	}
}
