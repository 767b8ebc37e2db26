package config

import (
	"errors"
	"log"
	"strings"
	"sync/atomic"

	"github.com/fsnotify/fsnotify"
	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
)

// InvoicingSettings are the tunable billing parameters. They live in
// invoicing.yml and can change without a restart.
type InvoicingSettings struct {
	InvoicePrefix   string `mapstructure:"invoicePrefix"`
	ExpensePrefix   string `mapstructure:"expensePrefix"`
	OperationPrefix string `mapstructure:"operationPrefix"`
	CategoryPrefix  string `mapstructure:"categoryPrefix"`
	PaymentPrefix   string `mapstructure:"paymentPrefix"`

	// VATRatePercent applies to invoice subtotals, e.g. "18".
	VATRatePercent string `mapstructure:"vatRatePercent"`
	// EURExchangeRate is XOF per EUR, used for informational EUR totals.
	EURExchangeRate string `mapstructure:"eurExchangeRate"`
	// DueDelayDays is the default issue-to-due delay.
	DueDelayDays int `mapstructure:"dueDelayDays"`
}

func DefaultInvoicingSettings() InvoicingSettings {
	return InvoicingSettings{
		InvoicePrefix:   "FAC",
		ExpensePrefix:   "DEP",
		OperationPrefix: "OPE",
		CategoryPrefix:  "CAT",
		PaymentPrefix:   "PAY",
		VATRatePercent:  "18",
		EURExchangeRate: "655.957",
		DueDelayDays:    30,
	}
}

func (s InvoicingSettings) VATRate() decimal.Decimal {
	rate, err := decimal.NewFromString(s.VATRatePercent)
	if err != nil {
		return decimal.Zero
	}
	return rate.Div(decimal.NewFromInt(100))
}

func (s InvoicingSettings) EURRate() decimal.Decimal {
	rate, err := decimal.NewFromString(s.EURExchangeRate)
	if err != nil || rate.IsZero() {
		return decimal.Zero
	}
	return rate
}

type SettingsHolder struct {
	current atomic.Value // holds InvoicingSettings
}

// NewSettingsHolderFrom builds a holder around fixed settings, for tests.
func NewSettingsHolderFrom(settings InvoicingSettings) *SettingsHolder {
	holder := &SettingsHolder{}
	holder.current.Store(settings)
	return holder
}

func NewSettingsHolder() (*SettingsHolder, error) {
	v := viper.New()

	v.SetConfigName("invoicing")
	v.SetConfigType("yml")
	v.AddConfigPath("/etc/svs")
	v.AddConfigPath(".")

	v.SetEnvPrefix("SVS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	defaults := DefaultInvoicingSettings()
	v.SetDefault("invoicing.invoicePrefix", defaults.InvoicePrefix)
	v.SetDefault("invoicing.expensePrefix", defaults.ExpensePrefix)
	v.SetDefault("invoicing.operationPrefix", defaults.OperationPrefix)
	v.SetDefault("invoicing.categoryPrefix", defaults.CategoryPrefix)
	v.SetDefault("invoicing.paymentPrefix", defaults.PaymentPrefix)
	v.SetDefault("invoicing.vatRatePercent", defaults.VATRatePercent)
	v.SetDefault("invoicing.eurExchangeRate", defaults.EURExchangeRate)
	v.SetDefault("invoicing.dueDelayDays", defaults.DueDelayDays)

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, err
		}
	}

	var settings InvoicingSettings
	if err := v.UnmarshalKey("invoicing", &settings); err != nil {
		return nil, err
	}
	if err := validateSettings(settings); err != nil {
		return nil, err
	}

	holder := &SettingsHolder{}
	holder.current.Store(settings)

	v.WatchConfig()
	v.OnConfigChange(func(e fsnotify.Event) {
		var updated InvoicingSettings
		if err := v.UnmarshalKey("invoicing", &updated); err != nil {
			log.Printf("[invoicing-config] reload failed: %v", err)
			return
		}
		if err := validateSettings(updated); err != nil {
			log.Printf("[invoicing-config] invalid config ignored: %v", err)
			return
		}
		holder.current.Store(updated)
		log.Printf("[invoicing-config] reloaded from %s", e.Name)
	})

	return holder, nil
}

func (h *SettingsHolder) Get() InvoicingSettings {
	return h.current.Load().(InvoicingSettings)
}

func validateSettings(s InvoicingSettings) error {
	if strings.TrimSpace(s.InvoicePrefix) == "" || strings.TrimSpace(s.ExpensePrefix) == "" {
		return errors.New("invoicing: document prefixes cannot be empty")
	}
	if _, err := decimal.NewFromString(s.VATRatePercent); err != nil {
		return errors.New("invoicing.vatRatePercent must be a decimal number")
	}
	if s.DueDelayDays < 0 {
		return errors.New("invoicing.dueDelayDays cannot be negative")
	}
	return nil
}
