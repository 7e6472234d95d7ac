package main

import (
	"encoding/csv"
	"fmt"
	"log/slog"
	"os"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/transitmodel/core/internal/entity"
	"github.com/transitmodel/core/internal/pipelineconfig"
	"github.com/transitmodel/core/internal/transform"
)

var (
	codeRuleFiles       []string
	propertyRuleFiles   []string
	consolidationFiles  []string
	rulesWatch          bool
)

var rulesCmd = &cobra.Command{
	Use:   "apply-rules <input-dir> <output-dir>",
	Short: "Apply complementary-code, property, and network-consolidation rules",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		if err := runApplyRules(args[0], args[1]); err != nil {
			return err
		}
		if !rulesWatch {
			return nil
		}
		return watchRuleFiles(args[0], args[1], newCLILogger())
	},
}

func init() {
	rulesCmd.Flags().StringSliceVar(&codeRuleFiles, "codes", nil, "CSV file(s) of complementary-code rules")
	rulesCmd.Flags().StringSliceVar(&propertyRuleFiles, "properties", nil, "CSV file(s) of property rules")
	rulesCmd.Flags().StringSliceVar(&consolidationFiles, "networks", nil, "YAML file(s) of network-consolidation rules")
	rulesCmd.Flags().BoolVar(&rulesWatch, "watch", false, "re-run apply-rules whenever a rule file changes")
}

func runApplyRules(inputDir, outputDir string) error {
	cfg, err := pipelineconfig.Load(configPath)
	if err != nil {
		return err
	}

	codes, err := loadCodeRules(codeRuleFiles)
	if err != nil {
		return err
	}
	props, err := loadPropertyRules(propertyRuleFiles)
	if err != nil {
		return err
	}
	consolidations, err := loadConsolidationRules(consolidationFiles)
	if err != nil {
		return err
	}

	m, err := loadModel(inputDir, cfg.Reader)
	if err != nil {
		return err
	}
	out, rep, err := transform.ApplyRules(m, consolidations, codes, props)
	if err != nil {
		return err
	}
	emitReport(rep)
	return writeModel(outputDir, out, "", cfg.Netex)
}

// watchRuleFiles re-runs apply-rules every time one of the rule files
// changes, for a tight author/validate loop during rule-file development
// (SPEC_FULL.md's fsnotify wiring).
func watchRuleFiles(inputDir, outputDir string, log *slog.Logger) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("ntfsconv: starting rule-file watcher: %w", err)
	}
	defer watcher.Close()

	for _, f := range append(append(append([]string{}, codeRuleFiles...), propertyRuleFiles...), consolidationFiles...) {
		if err := watcher.Add(f); err != nil {
			return fmt.Errorf("ntfsconv: watching %s: %w", f, err)
		}
	}

	log.Info("watching rule files for changes", "files", len(codeRuleFiles)+len(propertyRuleFiles)+len(consolidationFiles))
	for {
		select {
		case ev, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			log.Info("rule file changed, re-running apply-rules", "file", ev.Name)
			if err := runApplyRules(inputDir, outputDir); err != nil {
				log.Error("apply-rules failed", "error", err)
			}
		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			log.Error("watch error", "error", err)
		}
	}
}

func parseObjectKind(s string) (entity.Kind, error) {
	for _, k := range entity.AllKinds() {
		if k.String() == s {
			return k, nil
		}
	}
	return 0, fmt.Errorf("ntfsconv: unknown object_type %q", s)
}

func loadCodeRules(paths []string) ([]transform.ComplementaryCodeRule, error) {
	var out []transform.ComplementaryCodeRule
	for _, path := range paths {
		rows, err := readRuleCSV(path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if len(row) < 4 {
				continue
			}
			kind, err := parseObjectKind(row[0])
			if err != nil {
				continue
			}
			out = append(out, transform.ComplementaryCodeRule{
				ObjectKind: kind,
				ObjectID:   row[1],
				CodeSystem: row[2],
				CodeValue:  row[3],
			})
		}
	}
	return out, nil
}

func loadPropertyRules(paths []string) ([]transform.PropertyRule, error) {
	var out []transform.PropertyRule
	for _, path := range paths {
		rows, err := readRuleCSV(path)
		if err != nil {
			return nil, err
		}
		for _, row := range rows {
			if len(row) < 5 {
				continue
			}
			kind, err := parseObjectKind(row[0])
			if err != nil {
				continue
			}
			out = append(out, transform.PropertyRule{
				ObjectKind:   kind,
				ObjectID:     row[1],
				PropertyName: row[2],
				OldValue:     row[3],
				NewValue:     row[4],
			})
		}
	}
	return out, nil
}

type consolidationFile struct {
	Networks []struct {
		NetworkID   string   `yaml:"network_id"`
		NetworkName string   `yaml:"network_name"`
		GroupedFrom []string `yaml:"grouped_from"`
	} `yaml:"networks"`
}

func loadConsolidationRules(paths []string) ([]transform.NetworkConsolidationRule, error) {
	var out []transform.NetworkConsolidationRule
	for _, path := range paths {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("ntfsconv: opening %s: %w", path, err)
		}
		var cf consolidationFile
		if err := yaml.Unmarshal(data, &cf); err != nil {
			return nil, fmt.Errorf("ntfsconv: parsing %s: %w", path, err)
		}
		for _, n := range cf.Networks {
			out = append(out, transform.NetworkConsolidationRule{
				NewNetwork:  entity.Network{ID: n.NetworkID, Name: n.NetworkName},
				GroupedFrom: n.GroupedFrom,
			})
		}
	}
	return out, nil
}

func readRuleCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("ntfsconv: opening %s: %w", path, err)
	}
	defer f.Close()
	cr := csv.NewReader(f)
	cr.FieldsPerRecord = -1
	rows, err := cr.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("ntfsconv: parsing %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return rows[1:], nil
}
