package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log"
	"os"
	"os/signal"
	"strings"

	"symptomdx/internal/config"
	"symptomdx/internal/dialogue"
	"symptomdx/internal/engine"
	"symptomdx/internal/knowledge"
	"symptomdx/internal/logging"
	"symptomdx/internal/models"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	cfg := config.Load()
	logging.Init(false, logging.ParseLevel(getLogLevel(cfg)))

	yamlCfg, err := config.LoadYAMLConfig()
	if err != nil {
		log.Fatalf("Failed to load config file: %v", err)
	}

	eng, err := engine.Load(ctx, engine.Options{
		TrainingCSV: cfg.TrainingCSV,
		LabelColumn: cfg.LabelColumn,
		MaxDepth:    cfg.MaxDepth,
		Knowledge: knowledge.CSVSource{
			DescriptionPath: cfg.DescriptionCSV,
			SeverityPath:    cfg.SeverityCSV,
			PrecautionPath:  cfg.PrecautionCSV,
			Header:          cfg.KnowledgeCSVHeader,
		},
		Dialogue: yamlCfg.DialogueOptions(),
		Texts:    yamlCfg.ReportTexts(),
	})
	if err != nil {
		log.Fatalf("Failed to build diagnosis engine: %v", err)
	}

	if err := run(ctx, eng, os.Stdin, os.Stdout); err != nil {
		log.Fatalf("Consultation failed: %v", err)
	}
}

// getLogLevel keeps the console quiet unless LOG_LEVEL asks otherwise.
func getLogLevel(cfg *config.Config) string {
	if os.Getenv("LOG_LEVEL") == "" {
		return "warn"
	}
	return cfg.LogLevel
}

// run greets the user, runs one dialogue over in/out and prints the report.
func run(ctx context.Context, eng *engine.Engine, in io.Reader, out io.Writer) error {
	port := dialogue.NewLinePort(in, out)

	fmt.Fprintln(out, "What is your name?")
	name, err := port.ReadLine()
	if err != nil && !errors.Is(err, io.EOF) {
		return err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		name = "there"
	}
	fmt.Fprintf(out, "Hello, %s.\n", name)

	s := eng.NewSession()
	if _, err := dialogue.Run(ctx, port, s); err != nil {
		return err
	}

	d, err := eng.Finish(s)
	if err != nil {
		return err
	}
	printDiagnosis(out, name, d)
	return nil
}

func printDiagnosis(w io.Writer, name string, d models.Diagnosis) {
	if d.IsInsufficient() {
		fmt.Fprintf(w, "\n%s, no symptoms were provided, so no prediction can be made.\n", name)
		return
	}

	fmt.Fprintf(w, "\n%s, you may have %s.\n", name, d.Disease)
	fmt.Fprintf(w, "Reported symptoms: %s\n", strings.Join(d.Symptoms, ", "))
	fmt.Fprintln(w, d.Description)
	fmt.Fprintf(w, "Severity: %s. %s\n", d.Severity, d.SeverityText)
	fmt.Fprintln(w, "Take the following measures:")
	for i, p := range d.Precautions {
		fmt.Fprintf(w, "%d) %s\n", i+1, p)
	}
}
