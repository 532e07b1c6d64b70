package config

import (
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"symptomdx/internal/dialogue"
	"symptomdx/internal/models"
	"symptomdx/internal/reporter"
)

// YAMLConfig represents the structure of the config.yaml file.
// Wording and word lists that are awkward to keep in env vars.
type YAMLConfig struct {
	Dialogue DialogueConfig `yaml:"dialogue"`
	Report   ReportConfig   `yaml:"report"`
}

// DialogueConfig customizes the elicitation dialogue.
type DialogueConfig struct {
	Sentinel      string   `yaml:"sentinel"`       // word that ends symptom entry
	Affirmatives  []string `yaml:"affirmatives"`   // answers accepted as "yes"
	SymptomPrompt string   `yaml:"symptom_prompt"` // fmt format, receives the sentinel
	ConfirmPrompt string   `yaml:"confirm_prompt"` // fmt format, receives the candidate
}

// ReportConfig customizes the diagnosis texts.
type ReportConfig struct {
	DefaultDescription string            `yaml:"default_description"`
	DefaultAdvice      string            `yaml:"default_advice"`
	SeverityAdvice     map[string]string `yaml:"severity_advice"` // tier name -> advice
}

// LoadYAMLConfig loads the YAML configuration file.
// Path is determined by CONFIG_FILE env var, defaulting to "config.yaml".
// Returns nil without error if the config file doesn't exist.
func LoadYAMLConfig() (*YAMLConfig, error) {
	return LoadYAMLFile(getEnv("CONFIG_FILE", "config.yaml"))
}

// LoadYAMLFile parses the YAML config at path. A missing file is not an error.
func LoadYAMLFile(path string) (*YAMLConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			// Config file is optional
			return nil, nil
		}
		return nil, err
	}

	var cfg YAMLConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	cfg.Dialogue.SymptomPrompt = checkPrompt(path, "symptom_prompt", cfg.Dialogue.SymptomPrompt)
	cfg.Dialogue.ConfirmPrompt = checkPrompt(path, "confirm_prompt", cfg.Dialogue.ConfirmPrompt)
	return &cfg, nil
}

// checkPrompt drops a prompt that does not take exactly one argument so the
// dialogue falls back to its default wording.
func checkPrompt(path, key, format string) string {
	if format == "" || dialogue.ValidPrompt(format) {
		return format
	}
	slog.Warn("ignoring prompt without exactly one format verb", "file", path, "key", key, "prompt", format)
	return ""
}

// DialogueOptions converts the dialogue section. Empty fields keep the
// dialogue defaults.
func (c *YAMLConfig) DialogueOptions() dialogue.Options {
	if c == nil {
		return dialogue.DefaultOptions()
	}
	return dialogue.Options{
		Sentinel:      c.Dialogue.Sentinel,
		Affirmatives:  c.Dialogue.Affirmatives,
		SymptomPrompt: c.Dialogue.SymptomPrompt,
		ConfirmPrompt: c.Dialogue.ConfirmPrompt,
	}
}

// ReportTexts converts the report section. Unknown severity names are
// ignored.
func (c *YAMLConfig) ReportTexts() reporter.Texts {
	if c == nil {
		return reporter.Texts{}
	}
	texts := reporter.Texts{
		DefaultDescription: c.Report.DefaultDescription,
		DefaultAdvice:      c.Report.DefaultAdvice,
	}
	for name, advice := range c.Report.SeverityAdvice {
		sev := models.ParseSeverity(name)
		if !sev.IsKnown() {
			continue
		}
		if texts.SeverityAdvice == nil {
			texts.SeverityAdvice = make(map[models.Severity]string)
		}
		texts.SeverityAdvice[sev] = advice
	}
	return texts
}
