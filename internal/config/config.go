// Package config defines the data structures related to configuration and
// includes functions for loading and parsing the scenario file.
package config

import (
	"fmt"
	"io"
	"strings"

	"github.com/iwvelando/loan-affordability/pkg/constants"
	"github.com/iwvelando/loan-affordability/pkg/validation"
	"github.com/spf13/viper"
)

// Configuration holds all configuration for loan-affordability.
type Configuration struct {
	Common    Common        `yaml:"common" mapstructure:"common"`
	Scenarios []Scenario    `yaml:"scenarios" mapstructure:"scenarios" validate:"dive"`
	Policy    PolicyConfig  `yaml:"policy,omitempty" mapstructure:"policy"`
	Logging   LoggingConfig `yaml:"logging,omitempty" mapstructure:"logging"`
	Output    OutputConfig  `yaml:"output,omitempty" mapstructure:"output"`
}

// LoggingConfig holds logging configuration options
type LoggingConfig struct {
	Level      string `yaml:"level,omitempty" mapstructure:"level" validate:"omitempty,oneof=debug info warn error"`
	Format     string `yaml:"format,omitempty" mapstructure:"format" validate:"omitempty,oneof=json console"`
	OutputFile string `yaml:"outputFile,omitempty" mapstructure:"outputFile"`
}

// OutputConfig holds output format configuration options
type OutputConfig struct {
	Format string `yaml:"format,omitempty" mapstructure:"format" validate:"outputformat"`
}

// Common holds the income and existing loans shared by all scenarios.
type Common struct {
	MonthlyIncome float64 `yaml:"monthlyIncome" mapstructure:"monthlyIncome" validate:"gte=0"`
	Loans         []Loan  `yaml:"loans,omitempty" mapstructure:"loans" validate:"dive"`
}

// Scenario is one purchase to evaluate. Loans are existing loans that apply to
// this scenario only, on top of the common ones. A zero MonthlyIncome falls
// back to the common income.
type Scenario struct {
	Name          string  `yaml:"name" mapstructure:"name" validate:"required"`
	Active        bool    `yaml:"active" mapstructure:"active"`
	Price         float64 `yaml:"price" mapstructure:"price" validate:"gte=0"`
	DownPayment   float64 `yaml:"downPayment" mapstructure:"downPayment" validate:"gte=0"`
	InterestRate  float64 `yaml:"interestRate" mapstructure:"interestRate" validate:"gte=0"`
	TermYears     int     `yaml:"termYears" mapstructure:"termYears" validate:"gt=0"`
	MonthlyIncome float64 `yaml:"monthlyIncome,omitempty" mapstructure:"monthlyIncome" validate:"gte=0"`
	Loans         []Loan  `yaml:"loans,omitempty" mapstructure:"loans" validate:"dive"`
}

// LoadConfiguration takes a file path as input and loads the YAML-formatted
// configuration there. Keys can be overridden by LOAN_AFFORDABILITY_* variables
// (e.g. LOAN_AFFORDABILITY_COMMON_MONTHLYINCOME).
func LoadConfiguration(configPath string) (*Configuration, error) {
	v := newViper()
	v.SetConfigFile(configPath)

	if err := v.ReadInConfig(); err != nil {
		return nil, fmt.Errorf("error reading config file, %s", err)
	}

	return decode(v)
}

// LoadConfigurationFromReader parses a YAML scenario file from r. It does not
// consult the environment, so uploaded files are evaluated as written.
func LoadConfigurationFromReader(r io.Reader) (*Configuration, error) {
	v := viper.New()
	v.SetConfigType("yaml")

	if err := v.ReadConfig(r); err != nil {
		return nil, fmt.Errorf("error reading config, %s", err)
	}

	return decode(v)
}

func newViper() *viper.Viper {
	v := viper.New()
	v.SetConfigType("yml")
	v.SetEnvPrefix(constants.EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()
	return v
}

func decode(v *viper.Viper) (*Configuration, error) {
	var configuration Configuration
	if err := v.Unmarshal(&configuration); err != nil {
		return nil, fmt.Errorf("unable to decode into struct, %s", err)
	}

	if err := configuration.Validate(); err != nil {
		return nil, err
	}

	return &configuration, nil
}

// Validate rejects values no computation can use.
func (c *Configuration) Validate() error {
	if err := validation.Default().Struct(c); err != nil {
		return fmt.Errorf("invalid configuration: %s", validation.Summary(validation.FormatValidationError(err)))
	}
	if err := c.Policy.validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ActiveScenarios returns the scenarios marked active, in file order.
func (c *Configuration) ActiveScenarios() []Scenario {
	var active []Scenario
	for _, scenario := range c.Scenarios {
		if scenario.Active {
			active = append(active, scenario)
		}
	}
	return active
}

// ValidateConfiguration performs general validation of the configuration and returns warnings
func (c *Configuration) ValidateConfiguration() []string {
	cv := validation.ConfigValidator{
		Common: validation.CommonConfig{
			MonthlyIncome: c.Common.MonthlyIncome,
			Loans:         toValidationLoans(c.Common.Loans),
		},
	}

	for _, scenario := range c.Scenarios {
		cv.Scenarios = append(cv.Scenarios, validation.ScenarioConfig{
			Name:          scenario.Name,
			Active:        scenario.Active,
			Price:         scenario.Price,
			DownPayment:   scenario.DownPayment,
			InterestRate:  scenario.InterestRate,
			TermYears:     scenario.TermYears,
			MonthlyIncome: scenario.MonthlyIncome,
			Loans:         toValidationLoans(scenario.Loans),
		})
	}

	return cv.ValidateAll()
}

func toValidationLoans(loans []Loan) []validation.LoanConfig {
	var out []validation.LoanConfig
	for _, loan := range loans {
		out = append(out, validation.LoanConfig{
			Name:         loan.Name,
			Principal:    loan.Principal,
			InterestRate: loan.InterestRate,
			TermYears:    loan.TermYears,
		})
	}
	return out
}
