package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Config represents the top-level bankwizard.yaml configuration.
type Config struct {
	Company      CompanyConfig  `yaml:"company"`
	BankAccounts []BankAccount  `yaml:"bank_accounts,omitempty"`
	Defaults     DefaultsConfig `yaml:"defaults"`
	Import       ImportConfig   `yaml:"import"`
}

// CompanyConfig identifies the accounting entity.
type CompanyConfig struct {
	Name     string `yaml:"name"`
	Currency string `yaml:"currency"`
}

// BankAccount maps a statement feed (by IBAN) to a ledger account.
type BankAccount struct {
	Name    string `yaml:"name"`
	IBAN    string `yaml:"iban"`
	Account string `yaml:"account"`
}

// DefaultsConfig holds the wizard fallback parties and the intermediate
// account used for internal transfers.
type DefaultsConfig struct {
	Customer            string `yaml:"default_customer"`
	Supplier            string `yaml:"default_supplier"`
	IntermediateAccount string `yaml:"intermediate_account"`
}

// ImportConfig controls statement import behavior.
type ImportConfig struct {
	LedgerDir  string `yaml:"ledger_dir"`
	LogDir     string `yaml:"log_dir"`
	AutoSubmit bool   `yaml:"auto_submit"`
}

// Load reads a bankwizard.yaml file from disk.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	return &cfg, nil
}

// Save writes a Config to a YAML file.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("marshaling config: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing config: %w", err)
	}
	return nil
}

// Default returns a Config with sensible defaults for a new project.
func Default(companyName string) *Config {
	return &Config{
		Company: CompanyConfig{
			Name:     companyName,
			Currency: "CHF",
		},
		Import: ImportConfig{
			LedgerDir: "ledger",
			LogDir:    "logs",
		},
	}
}
