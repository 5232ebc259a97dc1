// cmd/tools/sheet-check/main.go
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"data-workers/internal/corrections"
	"data-workers/internal/dataset"
	"data-workers/internal/export"
	"data-workers/internal/models"
	"data-workers/internal/validator"
)

func main() {
	inspectCmd := flag.NewFlagSet("inspect", flag.ExitOnError)
	validateCmd := flag.NewFlagSet("validate", flag.ExitOnError)
	suggestCmd := flag.NewFlagSet("suggest", flag.ExitOnError)

	// Inspect command flags
	inspectFile := inspectCmd.String("file", "", "Path to a .csv or .xlsx sheet")
	inspectKind := inspectCmd.String("kind", "", "Entity kind (client, worker, task); detected when empty")

	// Validate command flags
	validateFile := validateCmd.String("file", "", "Path to the sheet to validate")
	validateKind := validateCmd.String("kind", "", "Entity kind; detected when empty")
	clientsFile := validateCmd.String("clients", "", "Companion clients sheet")
	workersFile := validateCmd.String("workers", "", "Companion workers sheet")
	tasksFile := validateCmd.String("tasks", "", "Companion tasks sheet")

	// Suggest command flags
	suggestFile := suggestCmd.String("file", "", "Path to the sheet to clean")
	suggestKind := suggestCmd.String("kind", "", "Entity kind; detected when empty")
	threshold := suggestCmd.Float64("threshold", corrections.DefaultThreshold, "Minimum confidence for -out")
	out := suggestCmd.String("out", "", "Write the corrected sheet here (csv, json or xlsx by extension)")

	if len(os.Args) < 2 {
		help()
		os.Exit(1)
	}

	var err error
	switch os.Args[1] {
	case "inspect":
		inspectCmd.Parse(os.Args[2:])
		requireFile(inspectCmd, *inspectFile)
		err = inspect(*inspectFile, *inspectKind)

	case "validate":
		validateCmd.Parse(os.Args[2:])
		requireFile(validateCmd, *validateFile)
		err = validate(*validateFile, *validateKind, *clientsFile, *workersFile, *tasksFile)

	case "suggest":
		suggestCmd.Parse(os.Args[2:])
		requireFile(suggestCmd, *suggestFile)
		if *threshold < 0 || *threshold > 1 {
			fmt.Println("Error: threshold must be between 0 and 1.")
			os.Exit(1)
		}
		err = suggest(*suggestFile, *suggestKind, *threshold, *out)

	case "help":
		fallthrough
	default:
		help()
		return
	}

	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
}

func requireFile(cmd *flag.FlagSet, path string) {
	if path == "" {
		fmt.Println("Error: -file is required.")
		cmd.Usage()
		os.Exit(1)
	}
}

func inspect(path, kind string) error {
	sheet, err := dataset.LoadFile(path)
	if err != nil {
		return err
	}
	k, err := resolveKind(kind, sheet.Headers)
	if err != nil {
		return err
	}
	return printJSON(map[string]interface{}{
		"kind":            k,
		"rows":            len(sheet.Rows),
		"headers":         sheet.Headers,
		"headerMapping":   dataset.MapHeaders(sheet.Headers, k),
		"detectionScores": dataset.DetectionScores(sheet.Headers),
	})
}

func validate(path, kind, clients, workers, tasks string) error {
	ds, err := load(path, kind)
	if err != nil {
		return err
	}

	var companions validator.Companions
	for _, c := range []struct {
		path string
		kind models.EntityKind
		dst  **models.Dataset
	}{
		{clients, models.KindClient, &companions.Clients},
		{workers, models.KindWorker, &companions.Workers},
		{tasks, models.KindTask, &companions.Tasks},
	} {
		if c.path == "" {
			continue
		}
		companion, err := load(c.path, string(c.kind))
		if err != nil {
			return fmt.Errorf("%s: %w", c.path, err)
		}
		*c.dst = companion
	}
	// a sheet is always its own companion
	switch ds.Kind {
	case models.KindClient:
		companions.Clients = ds
	case models.KindWorker:
		companions.Workers = ds
	case models.KindTask:
		companions.Tasks = ds
	}

	result := validator.Validate(ds.Kind, ds, companions)
	if err := printJSON(result); err != nil {
		return err
	}
	if !result.Valid() {
		return fmt.Errorf("%d errors, %d warnings", result.Summary.ErrorCount, result.Summary.WarningCount)
	}
	return nil
}

func suggest(path, kind string, threshold float64, out string) error {
	ds, err := load(path, kind)
	if err != nil {
		return err
	}
	suggestions := corrections.SuggestDataset(ds)
	if out == "" {
		return printJSON(suggestions)
	}

	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(out), "."))
	if err != nil {
		return err
	}
	cleaned, applied := corrections.ApplyDataset(ds, suggestions, threshold)

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	if err := export.Write(f, format, cleaned.Headers, cleaned.Rows); err != nil {
		f.Close()
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}
	fmt.Printf("Applied %d of %d suggestions, wrote %s\n", len(applied), len(suggestions), out)
	return nil
}

func load(path, kind string) (*models.Dataset, error) {
	sheet, err := dataset.LoadFile(path)
	if err != nil {
		return nil, err
	}
	k, err := resolveKind(kind, sheet.Headers)
	if err != nil {
		return nil, err
	}
	headers, rows := dataset.Canonicalize(sheet.Headers, sheet.Rows, k)
	return &models.Dataset{
		ID:      sheet.Name,
		Kind:    k,
		Name:    sheet.Name,
		Version: 1,
		Headers: headers,
		Rows:    rows,
	}, nil
}

func resolveKind(kind string, headers []string) (models.EntityKind, error) {
	if kind != "" {
		return models.ParseEntityKind(kind)
	}
	k, ok := dataset.DetectKind(headers)
	if !ok {
		return "", fmt.Errorf("could not detect entity kind from headers %v, pass -kind", headers)
	}
	return k, nil
}

func printJSON(v interface{}) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func help() {
	fmt.Println("Usage: sheet-check <command> [arguments]")
	fmt.Println("Commands:")
	fmt.Println("  inspect   Detect the entity kind and show the header mapping")
	fmt.Println("  validate  Run field and cross-entity checks (-clients/-workers/-tasks add companions)")
	fmt.Println("  suggest   List correction suggestions, or apply them with -out")
	fmt.Println("  help      Show this help message")
}
