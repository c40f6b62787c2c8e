package config

import (
	"fmt"
	"os"
	"path/filepath"
)

const configTemplate = `# options-lab configuration

# Parameter set loaded when no preset or flags are given.
[defaults]
strike_price = 100.0
current_price = 100.0
premium = 5.0
days_to_expiry = 30.0
implied_volatility = 25.0
interest_rate = 5.0
dividend_yield = 2.0

[logging]
# debug, info, warn, error
level = "info"
console = true
# Rotating log file
file = false
max_size = 20
max_backups = 3
max_age = 14

[server]
# Listen address for 'options-lab serve'
addr = "127.0.0.1:8080"
read_timeout_sec = 10
write_timeout_sec = 10
# Expose Prometheus metrics on /metrics
metrics_enabled = true

[ui]
color_enabled = true
currency = "$"
chart_width = 61
chart_height = 15

# Additional strategies. The payoff expression sees s (price at expiry),
# strike, current, premium, days, iv, rate, yield and may call max, min, abs.
#
# [[strategies]]
# id = "long-straddle"
# title = "Long Straddle"
# description = "Buy a call and a put at the same strike to profit from a large move either way."
# category = "Volatility"
# complexity = "Intermediate"
# risk_level = "Medium"
# expression = "max(s - strike, 0) + max(strike - s, 0) - 2 * premium"
# when_to_use = ["You expect a large move but not its direction"]
# legs = [
#   { action = "Buy", instrument = "Call" },
#   { action = "Buy", instrument = "Put" },
# ]
`

func createTemplateConfig(configDir string) error {
	if err := os.MkdirAll(configDir, 0755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	path := filepath.Join(configDir, "config.toml")
	if err := os.WriteFile(path, []byte(configTemplate), 0644); err != nil {
		return fmt.Errorf("writing config template: %w", err)
	}

	return nil
}
