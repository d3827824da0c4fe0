package main

import (
	"log"
	"os"
)

func main() {
	cfg := LoadConfig()

	if cfg.GateTermsPath != "" {
		terms, err := LoadGateTerms(cfg.GateTermsPath)
		if err != nil {
			log.Fatalf("Failed to load gate terms: %v", err)
		}
		ApplyGateTerms(terms)
	}

	db, err := InitDB(cfg.DBPath)
	if err != nil {
		log.Fatalf("Failed to init database: %v", err)
	}
	defer db.Close()

	os.MkdirAll(cfg.ReportOutputDir, 0755)

	if last, err := LastRun(db); err != nil {
		log.Printf("run history read error: %v", err)
	} else if last != nil {
		log.Printf("previous run id=%d accuracy=%.2f%% correctness=%.2f%%", last.ID, last.Accuracy, last.DataCorrectness)
	}

	proposer, err := NewProposer(cfg)
	if err != nil {
		log.Fatalf("Failed to build LLM client: %v", err)
	}

	if cfg.FillSchedule != "" {
		RunFillScheduler(cfg, db, proposer)
		return
	}

	if err := RunFill(cfg, db, proposer); err != nil {
		log.Fatalf("Fill failed: %v", err)
	}
}
